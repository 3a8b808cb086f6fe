package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ListQuery filters and pages an appointment listing. When UpcomingOnly
// is set only scheduled appointments starting at or after Now are
// returned, ordered soonest first; otherwise every status is returned,
// most recent first.
type ListQuery struct {
	UserID       uuid.UUID
	Role         string
	Status       string
	UpcomingOnly bool
	Now          time.Time
	Limit        int
	Offset       int
}

// Repository is the persistence boundary for appointments and their
// session records.
type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	List(ctx context.Context, q ListQuery) ([]*Appointment, int, error)

	// Cancel moves a scheduled appointment to cancelled. It returns
	// apperr.Conflict when the appointment is no longer scheduled and
	// apperr.NotFound when it does not exist.
	Cancel(ctx context.Context, id uuid.UUID, reason *string) error

	// CreateSession files the session record and completes the
	// appointment in one transaction. It returns apperr.Conflict when
	// the appointment is not scheduled or a record already exists.
	CreateSession(ctx context.Context, rec *SessionRecord) error
	GetSessionByAppointment(ctx context.Context, appointmentID uuid.UUID) (*SessionRecord, error)
}
