package identity

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/medbook/medbook/internal/platform/auth"
)

// User is an account holder: a patient, a doctor, or an admin. Demographic
// fields live on the account; medical detail lives on the role's profile.
type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         string     `db:"role" json:"role"`
	FirstName    string     `db:"first_name" json:"first_name"`
	LastName     string     `db:"last_name" json:"last_name"`
	Phone        *string    `db:"phone" json:"phone,omitempty"`
	DateOfBirth  *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender       *string    `db:"gender" json:"gender,omitempty"`
	Address      *string    `db:"address" json:"address,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Date binds a bare "YYYY-MM-DD" JSON string.
type Date struct {
	t time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}
	d.t = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.t.Format("2006-01-02"))
}

func (d Date) Time() time.Time {
	return d.t
}

var validRoles = map[string]bool{
	auth.RolePatient: true,
	auth.RoleDoctor:  true,
	auth.RoleAdmin:   true,
}

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)
)

// ValidEmail reports whether the address has a plausible mailbox@domain shape.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidPhone reports whether the number is 9-15 digits with an optional
// leading + and country code.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}
