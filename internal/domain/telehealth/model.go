package telehealth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// VideoRoom is the virtual consultation room attached to an
// appointment. At most one room exists per appointment.
type VideoRoom struct {
	ID            uuid.UUID `db:"id" json:"id"`
	AppointmentID uuid.UUID `db:"appointment_id" json:"appointment_id"`
	RoomName      string    `db:"room_name" json:"room_name"`
	RoomURL       string    `db:"room_url" json:"room_url"`
	IsActive      bool      `db:"is_active" json:"is_active"`
	ExpiresAt     time.Time `db:"expires_at" json:"expires_at"`
	CreatedBy     uuid.UUID `db:"created_by" json:"created_by"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Expired reports whether the room is past its expiry at the given
// instant.
func (r *VideoRoom) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// newRoomName builds a unique, hard-to-guess room name for an
// appointment.
func newRoomName(appointmentID uuid.UUID) (string, error) {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("telemed-%s-%s", appointmentID, hex.EncodeToString(b)), nil
}
