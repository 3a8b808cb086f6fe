package profile

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/medbook/medbook/internal/platform/apperr"
)

type Service struct {
	patients PatientRepository
	doctors  DoctorRepository
}

func NewService(patients PatientRepository, doctors DoctorRepository) *Service {
	return &Service{patients: patients, doctors: doctors}
}

// SeedPatientProfile creates the empty profile row for a new patient account.
func (s *Service) SeedPatientProfile(ctx context.Context, userID uuid.UUID) error {
	return s.patients.Create(ctx, &PatientProfile{UserID: userID})
}

// SeedDoctorProfile creates the pending profile row for a new doctor account.
func (s *Service) SeedDoctorProfile(ctx context.Context, userID uuid.UUID, licenseNumber, specialization string) error {
	return s.doctors.Create(ctx, &DoctorProfile{
		UserID:             userID,
		LicenseNumber:      licenseNumber,
		Specialization:     specialization,
		VerificationStatus: VerificationPending,
	})
}

func (s *Service) GetPatientProfile(ctx context.Context, userID uuid.UUID) (*PatientProfile, error) {
	return s.patients.GetByUserID(ctx, userID)
}

// UpdatePatientInput carries a partial patient profile update. Nil fields
// are left untouched.
type UpdatePatientInput struct {
	BloodType         *string  `json:"blood_type"`
	Allergies         *string  `json:"allergies"`
	HeightCM          *float64 `json:"height_cm"`
	WeightKG          *float64 `json:"weight_kg"`
	MedicalHistory    *string  `json:"medical_history"`
	ChronicConditions *string  `json:"chronic_conditions"`
}

func (s *Service) UpdatePatientProfile(ctx context.Context, userID uuid.UUID, in UpdatePatientInput) (*PatientProfile, error) {
	p, err := s.patients.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.BloodType != nil {
		bt := strings.ToUpper(strings.TrimSpace(*in.BloodType))
		if !validBloodTypes[bt] {
			return nil, apperr.Validation("blood_type must be one of A+, A-, B+, B-, AB+, AB-, O+, O-")
		}
		p.BloodType = &bt
	}
	if in.HeightCM != nil {
		if *in.HeightCM <= 0 {
			return nil, apperr.Validation("height_cm must be positive")
		}
		p.HeightCM = in.HeightCM
	}
	if in.WeightKG != nil {
		if *in.WeightKG <= 0 {
			return nil, apperr.Validation("weight_kg must be positive")
		}
		p.WeightKG = in.WeightKG
	}
	if in.Allergies != nil {
		p.Allergies = in.Allergies
	}
	if in.MedicalHistory != nil {
		p.MedicalHistory = in.MedicalHistory
	}
	if in.ChronicConditions != nil {
		p.ChronicConditions = in.ChronicConditions
	}

	if err := s.patients.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetOwnDoctorProfile returns a doctor's profile regardless of verification
// state. Doctors can always see their own profile.
func (s *Service) GetOwnDoctorProfile(ctx context.Context, userID uuid.UUID) (*DoctorProfile, error) {
	return s.doctors.GetByUserID(ctx, userID)
}

// UpdateDoctorInput carries a partial doctor profile update. Nil fields are
// left untouched. License number and verification status are immutable here.
type UpdateDoctorInput struct {
	Specialization  *string      `json:"specialization"`
	Description     *string      `json:"description"`
	ConsultationFee *float64     `json:"consultation_fee"`
	Availability    Availability `json:"availability"`
}

func (s *Service) UpdateDoctorProfile(ctx context.Context, userID uuid.UUID, in UpdateDoctorInput) (*DoctorProfile, error) {
	d, err := s.doctors.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Specialization != nil {
		spec := strings.TrimSpace(*in.Specialization)
		if spec == "" {
			return nil, apperr.Validation("specialization cannot be empty")
		}
		d.Specialization = spec
	}
	if in.ConsultationFee != nil {
		if *in.ConsultationFee < 0 {
			return nil, apperr.Validation("consultation_fee cannot be negative")
		}
		d.ConsultationFee = *in.ConsultationFee
	}
	if in.Availability != nil {
		if err := in.Availability.Validate(); err != nil {
			return nil, apperr.Validation("invalid availability: %v", err)
		}
		d.Availability = in.Availability
	}
	if in.Description != nil {
		d.Description = in.Description
	}

	if err := s.doctors.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// ListDoctors returns the public directory: approved doctors only.
func (s *Service) ListDoctors(ctx context.Context, q DoctorQuery) ([]*DoctorProfile, int, error) {
	return s.doctors.ListApproved(ctx, q)
}

// GetDoctor returns an approved doctor's public profile. Unverified doctors
// are indistinguishable from missing ones.
func (s *Service) GetDoctor(ctx context.Context, userID uuid.UUID) (*DoctorProfile, error) {
	d, err := s.doctors.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if d.VerificationStatus != VerificationApproved {
		return nil, apperr.NotFound("doctor profile not found")
	}
	return d, nil
}

// SetVerification transitions a doctor's verification status. Any state can
// move to any other, so an approval is revocable.
func (s *Service) SetVerification(ctx context.Context, doctorUserID uuid.UUID, status string) error {
	if !ValidVerificationStatuses[status] {
		return apperr.Validation("verification_status must be pending, approved, or rejected")
	}
	return s.doctors.SetVerificationStatus(ctx, doctorUserID, status)
}

// ApprovedDoctor reports whether userID is a bookable doctor. A missing
// profile is a not_found error; an unapproved one an authorization error.
func (s *Service) ApprovedDoctor(ctx context.Context, userID uuid.UUID) error {
	d, err := s.doctors.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if d.VerificationStatus != VerificationApproved {
		return apperr.Authorization("doctor is not accepting appointments")
	}
	return nil
}
