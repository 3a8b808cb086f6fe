package profile

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Doctor verification states. A doctor is invisible to patients until an
// admin approves them.
const (
	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationRejected = "rejected"
)

var ValidVerificationStatuses = map[string]bool{
	VerificationPending:  true,
	VerificationApproved: true,
	VerificationRejected: true,
}

var validBloodTypes = map[string]bool{
	"A+": true, "A-": true,
	"B+": true, "B-": true,
	"AB+": true, "AB-": true,
	"O+": true, "O-": true,
}

// PatientProfile holds the medical intake data for a patient account.
type PatientProfile struct {
	UserID            uuid.UUID `db:"user_id" json:"user_id"`
	BloodType         *string   `db:"blood_type" json:"blood_type,omitempty"`
	Allergies         *string   `db:"allergies" json:"allergies,omitempty"`
	HeightCM          *float64  `db:"height_cm" json:"height_cm,omitempty"`
	WeightKG          *float64  `db:"weight_kg" json:"weight_kg,omitempty"`
	MedicalHistory    *string   `db:"medical_history" json:"medical_history,omitempty"`
	ChronicConditions *string   `db:"chronic_conditions" json:"chronic_conditions,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// DoctorProfile holds a doctor's practice data. FirstName and LastName are
// joined in from the account for directory listings.
type DoctorProfile struct {
	UserID             uuid.UUID    `db:"user_id" json:"user_id"`
	LicenseNumber      string       `db:"license_number" json:"license_number"`
	Specialization     string       `db:"specialization" json:"specialization"`
	Description        *string      `db:"description" json:"description,omitempty"`
	ConsultationFee    float64      `db:"consultation_fee" json:"consultation_fee"`
	Availability       Availability `db:"availability" json:"availability,omitempty"`
	VerificationStatus string       `db:"verification_status" json:"verification_status"`
	FirstName          string       `db:"-" json:"first_name,omitempty"`
	LastName           string       `db:"-" json:"last_name,omitempty"`
	CreatedAt          time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time    `db:"updated_at" json:"updated_at"`
}

// TimeRange is a half-open [Start, End) window within a day, "HH:MM" 24h.
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Availability maps lowercase weekday names to ordered, non-overlapping
// consultation windows.
type Availability map[string][]TimeRange

var weekdays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

// Validate checks weekday keys, time formats, and that each day's windows
// are ordered and non-overlapping.
func (a Availability) Validate() error {
	for day, ranges := range a {
		if !weekdays[day] {
			return fmt.Errorf("unknown weekday %q", day)
		}
		var prevEnd time.Time
		for i, r := range ranges {
			start, err := time.Parse("15:04", r.Start)
			if err != nil {
				return fmt.Errorf("%s: invalid start time %q", day, r.Start)
			}
			end, err := time.Parse("15:04", r.End)
			if err != nil {
				return fmt.Errorf("%s: invalid end time %q", day, r.End)
			}
			if !start.Before(end) {
				return fmt.Errorf("%s: range %s-%s must start before it ends", day, r.Start, r.End)
			}
			if i > 0 && start.Before(prevEnd) {
				return fmt.Errorf("%s: ranges must be ordered and non-overlapping", day)
			}
			prevEnd = end
		}
	}
	return nil
}
