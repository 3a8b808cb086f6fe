package telehealth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medbook/medbook/internal/domain/appointment"
	"github.com/medbook/medbook/internal/platform/apperr"
	"github.com/medbook/medbook/internal/platform/auth"
)

// RoomTTL is how long past the scheduled start a room stays joinable.
const RoomTTL = time.Hour

// AppointmentSource looks up the appointment a room belongs to.
type AppointmentSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error)
}

type Service struct {
	repo         Repository
	appointments AppointmentSource
	provider     RoomProvider
	now          func() time.Time
}

func NewService(repo Repository, appointments AppointmentSource, provider RoomProvider) *Service {
	return &Service{repo: repo, appointments: appointments, provider: provider, now: time.Now}
}

func canJoin(ident auth.Identity, a *appointment.Appointment) bool {
	return ident.IsAdmin() || a.IsParty(ident.UserID)
}

// CreateRoom provisions the video room for an appointment. Repeated
// calls return the existing room; created reports whether this call
// made it.
func (s *Service) CreateRoom(ctx context.Context, ident auth.Identity, appointmentID uuid.UUID) (*VideoRoom, bool, error) {
	a, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, false, err
	}
	if !canJoin(ident, a) {
		return nil, false, apperr.Authorization("you are not a party to this appointment")
	}
	if a.Status != appointment.StatusScheduled {
		return nil, false, apperr.Conflict("appointment is not scheduled")
	}

	if room, err := s.repo.GetByAppointment(ctx, appointmentID); err == nil {
		return room, false, nil
	} else if !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, false, err
	}

	name, err := newRoomName(appointmentID)
	if err != nil {
		return nil, false, err
	}
	expiresAt := a.ScheduledTime.Add(RoomTTL)
	url, err := s.provider.CreateRoom(ctx, name, expiresAt)
	if err != nil {
		return nil, false, apperr.Wrap(err, apperr.KindInternal, "could not provision video room")
	}

	room := &VideoRoom{
		AppointmentID: appointmentID,
		RoomName:      name,
		RoomURL:       url,
		IsActive:      true,
		ExpiresAt:     expiresAt,
		CreatedBy:     ident.UserID,
	}
	if err := s.repo.Create(ctx, room); err != nil {
		// Lost a create race; hand back the winner's room.
		if apperr.IsKind(err, apperr.KindConflict) {
			existing, getErr := s.repo.GetByAppointment(ctx, appointmentID)
			if getErr == nil {
				return existing, false, nil
			}
		}
		return nil, false, err
	}
	return room, true, nil
}

// GetRoom returns an active, unexpired room by name. Inactive and
// expired rooms look missing.
func (s *Service) GetRoom(ctx context.Context, ident auth.Identity, roomName string) (*VideoRoom, error) {
	room, err := s.repo.GetByName(ctx, roomName)
	if err != nil {
		return nil, err
	}
	a, err := s.appointments.GetByID(ctx, room.AppointmentID)
	if err != nil {
		return nil, err
	}
	if !canJoin(ident, a) {
		return nil, apperr.Authorization("you are not a party to this appointment")
	}
	if !room.IsActive || room.Expired(s.now()) {
		return nil, apperr.NotFound("room not found")
	}
	return room, nil
}
