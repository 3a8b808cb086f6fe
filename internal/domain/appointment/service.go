package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medbook/medbook/internal/platform/apperr"
	"github.com/medbook/medbook/internal/platform/auth"
)

// DoctorDirectory answers whether a doctor may take bookings. It
// returns apperr.NotFound for unknown doctors and apperr.Authorization
// for doctors that are not verified.
type DoctorDirectory interface {
	ApprovedDoctor(ctx context.Context, userID uuid.UUID) error
}

type Service struct {
	repo    Repository
	doctors DoctorDirectory
	now     func() time.Time
}

func NewService(repo Repository, doctors DoctorDirectory) *Service {
	return &Service{repo: repo, doctors: doctors, now: time.Now}
}

// CreateInput is a patient's booking request.
type CreateInput struct {
	DoctorID      uuid.UUID `json:"doctor_id"`
	ScheduledTime time.Time `json:"scheduled_time"`
	DurationMin   int       `json:"duration_min"`
	Reason        string    `json:"reason"`
}

func (in *CreateInput) validate(now time.Time) error {
	if in.DoctorID == uuid.Nil {
		return apperr.Validation("doctor_id is required")
	}
	if in.ScheduledTime.IsZero() {
		return apperr.Validation("scheduled_time is required")
	}
	if !in.ScheduledTime.After(now) {
		return apperr.Validation("scheduled_time must be in the future")
	}
	if in.DurationMin < 0 {
		return apperr.Validation("duration_min must be positive")
	}
	if in.DurationMin == 0 {
		in.DurationMin = DefaultDurationMin
	}
	in.Reason = strings.TrimSpace(in.Reason)
	if in.Reason == "" {
		return apperr.Validation("reason is required")
	}
	return nil
}

// Create books an appointment for the calling patient with an approved
// doctor.
func (s *Service) Create(ctx context.Context, ident auth.Identity, in CreateInput) (*Appointment, error) {
	if ident.Role != auth.RolePatient {
		return nil, apperr.Authorization("only patients can book appointments")
	}
	if err := in.validate(s.now()); err != nil {
		return nil, err
	}
	if err := s.doctors.ApprovedDoctor(ctx, in.DoctorID); err != nil {
		return nil, err
	}
	a := &Appointment{
		PatientID:     ident.UserID,
		DoctorID:      in.DoctorID,
		ScheduledTime: in.ScheduledTime,
		DurationMin:   in.DurationMin,
		Reason:        in.Reason,
		Status:        StatusScheduled,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ListUpcoming returns the caller's scheduled appointments from now on,
// soonest first. Admins see everyone's.
func (s *Service) ListUpcoming(ctx context.Context, ident auth.Identity, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.List(ctx, ListQuery{
		UserID:       ident.UserID,
		Role:         ident.Role,
		UpcomingOnly: true,
		Now:          s.now(),
		Limit:        limit,
		Offset:       offset,
	})
}

// List returns the caller's appointments in every status, most recent
// first, optionally filtered by status.
func (s *Service) List(ctx context.Context, ident auth.Identity, status string, limit, offset int) ([]*Appointment, int, error) {
	if status != "" && !validStatus(status) {
		return nil, 0, apperr.Validation("unknown status filter")
	}
	return s.repo.List(ctx, ListQuery{
		UserID: ident.UserID,
		Role:   ident.Role,
		Status: status,
		Limit:  limit,
		Offset: offset,
	})
}

func validStatus(s string) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// canView reports whether the caller may read the appointment.
func canView(ident auth.Identity, a *Appointment) bool {
	return ident.IsAdmin() || a.IsParty(ident.UserID)
}

// canCancel reports whether the caller may cancel the appointment.
// Either party or an admin may cancel.
func canCancel(ident auth.Identity, a *Appointment) bool {
	return ident.IsAdmin() || a.IsParty(ident.UserID)
}

// canFileSession reports whether the caller may file the session
// record. Only the assigned doctor can.
func canFileSession(ident auth.Identity, a *Appointment) bool {
	return ident.Role == auth.RoleDoctor && a.DoctorID == ident.UserID
}

func (s *Service) Get(ctx context.Context, ident auth.Identity, id uuid.UUID) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(ident, a) {
		return nil, apperr.Authorization("you are not a party to this appointment")
	}
	return a, nil
}

// Cancel moves a scheduled appointment to cancelled. Cancelling an
// appointment that is already settled is a conflict, not a no-op.
func (s *Service) Cancel(ctx context.Context, ident auth.Identity, id uuid.UUID, reason string) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canCancel(ident, a) {
		return nil, apperr.Authorization("you are not a party to this appointment")
	}
	var r *string
	if reason = strings.TrimSpace(reason); reason != "" {
		r = &reason
	}
	if err := s.repo.Cancel(ctx, id, r); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// SessionInput is the doctor's write-up for a completed consultation.
type SessionInput struct {
	Diagnosis    *string    `json:"diagnosis"`
	Treatment    *string    `json:"treatment"`
	Notes        *string    `json:"notes"`
	Prescription *string    `json:"prescription"`
	EndTime      *time.Time `json:"end_time"`
}

// CreateSession files the session record for an appointment and marks
// it completed. The record is write-once.
func (s *Service) CreateSession(ctx context.Context, ident auth.Identity, appointmentID uuid.UUID, in SessionInput) (*SessionRecord, error) {
	a, err := s.repo.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !canFileSession(ident, a) {
		return nil, apperr.Authorization("only the assigned doctor can file a session record")
	}
	if in.EndTime != nil && in.EndTime.Before(a.ScheduledTime) {
		return nil, apperr.Validation("end_time cannot precede the scheduled time")
	}
	rec := &SessionRecord{
		AppointmentID: appointmentID,
		Diagnosis:     in.Diagnosis,
		Treatment:     in.Treatment,
		Notes:         in.Notes,
		Prescription:  in.Prescription,
		StartTime:     s.now(),
		EndTime:       in.EndTime,
	}
	if err := s.repo.CreateSession(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) GetSession(ctx context.Context, ident auth.Identity, appointmentID uuid.UUID) (*SessionRecord, error) {
	a, err := s.repo.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !canView(ident, a) {
		return nil, apperr.Authorization("you are not a party to this appointment")
	}
	return s.repo.GetSessionByAppointment(ctx, appointmentID)
}
