package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "noshow"
)

// ValidStatuses lists every storable appointment status.
var ValidStatuses = []string{StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow}

// allowedTransitions maps a status to the statuses it may move to.
// Completed, cancelled and noshow are terminal.
var allowedTransitions = map[string][]string{
	StatusScheduled: {StatusCompleted, StatusCancelled, StatusNoShow},
	StatusCompleted: {},
	StatusCancelled: {},
	StatusNoShow:    {},
}

// CanTransition reports whether an appointment may move from one status
// to another.
func CanTransition(from, to string) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// DefaultDurationMin is used when a booking request omits the duration.
const DefaultDurationMin = 30

// Appointment is a booking between a patient and a doctor. Both parties
// are referenced by their user id.
type Appointment struct {
	ID              uuid.UUID `db:"id" json:"id"`
	PatientID       uuid.UUID `db:"patient_id" json:"patient_id"`
	DoctorID        uuid.UUID `db:"doctor_id" json:"doctor_id"`
	ScheduledTime   time.Time `db:"scheduled_time" json:"scheduled_time"`
	DurationMin     int       `db:"duration_min" json:"duration_min"`
	Reason          string    `db:"reason" json:"reason"`
	Status          string    `db:"status" json:"status"`
	CancelledReason *string   `db:"cancelled_reason" json:"cancelled_reason,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// EndTime is the scheduled end of the appointment.
func (a *Appointment) EndTime() time.Time {
	return a.ScheduledTime.Add(time.Duration(a.DurationMin) * time.Minute)
}

// IsParty reports whether the given user is the patient or the doctor
// of this appointment.
func (a *Appointment) IsParty(userID uuid.UUID) bool {
	return a.PatientID == userID || a.DoctorID == userID
}

// SessionRecord is the clinical write-up the doctor files after a
// consultation. At most one record exists per appointment and it is
// never updated after creation.
type SessionRecord struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	AppointmentID uuid.UUID  `db:"appointment_id" json:"appointment_id"`
	Diagnosis     *string    `db:"diagnosis" json:"diagnosis,omitempty"`
	Treatment     *string    `db:"treatment" json:"treatment,omitempty"`
	Notes         *string    `db:"notes" json:"notes,omitempty"`
	Prescription  *string    `db:"prescription" json:"prescription,omitempty"`
	StartTime     time.Time  `db:"start_time" json:"start_time"`
	EndTime       *time.Time `db:"end_time" json:"end_time,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}
