package telehealth

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence boundary for video rooms.
type Repository interface {
	// Create inserts the room. It returns apperr.Conflict when a room
	// already exists for the appointment.
	Create(ctx context.Context, room *VideoRoom) error
	GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*VideoRoom, error)
	GetByName(ctx context.Context, roomName string) (*VideoRoom, error)
}
