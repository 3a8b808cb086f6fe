package profile

import (
	"context"

	"github.com/google/uuid"
)

// DoctorQuery carries the directory search parameters.
type DoctorQuery struct {
	Search         string
	Specialization string
	Ordering       string
	Limit          int
	Offset         int
}

// PatientRepository is the persistence interface for patient profiles.
type PatientRepository interface {
	Create(ctx context.Context, p *PatientProfile) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*PatientProfile, error)
	Update(ctx context.Context, p *PatientProfile) error
}

// DoctorRepository is the persistence interface for doctor profiles.
type DoctorRepository interface {
	Create(ctx context.Context, d *DoctorProfile) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*DoctorProfile, error)
	Update(ctx context.Context, d *DoctorProfile) error
	SetVerificationStatus(ctx context.Context, userID uuid.UUID, status string) error
	ListApproved(ctx context.Context, q DoctorQuery) ([]*DoctorProfile, int, error)
}
