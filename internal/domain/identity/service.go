package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/medbook/medbook/internal/platform/apperr"
	"github.com/medbook/medbook/internal/platform/auth"
)

// ProfileSeeder creates the role-specific profile row during registration.
// Implemented by the profile service; an interface here keeps registration
// atomic without a package cycle.
type ProfileSeeder interface {
	SeedPatientProfile(ctx context.Context, userID uuid.UUID) error
	SeedDoctorProfile(ctx context.Context, userID uuid.UUID, licenseNumber, specialization string) error
}

// TxRunner executes fn inside a database transaction.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	repo        Repository
	profiles    ProfileSeeder
	issuer      *auth.TokenIssuer
	revocations *auth.TokenRevocationStore
	inTx        TxRunner
	bcryptCost  int
}

func NewService(repo Repository, profiles ProfileSeeder, issuer *auth.TokenIssuer,
	revocations *auth.TokenRevocationStore, inTx TxRunner, bcryptCost int) *Service {
	return &Service{
		repo:        repo,
		profiles:    profiles,
		issuer:      issuer,
		revocations: revocations,
		inTx:        inTx,
		bcryptCost:  bcryptCost,
	}
}

// RegisterInput carries the account fields shared by both registration flows.
type RegisterInput struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Phone       *string `json:"phone,omitempty"`
	Gender      *string `json:"gender,omitempty"`
	Address     *string `json:"address,omitempty"`
	DateOfBirth *Date   `json:"date_of_birth,omitempty"`
}

// RegisterDoctorInput adds the fields needed to open a doctor profile.
type RegisterDoctorInput struct {
	RegisterInput
	LicenseNumber  string `json:"license_number"`
	Specialization string `json:"specialization"`
}

func (in *RegisterInput) validate() error {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if !ValidEmail(in.Email) {
		return apperr.Validation("a valid email is required")
	}
	if len(in.Password) < auth.MinPasswordLength {
		return apperr.Validation("password must be at least %d characters", auth.MinPasswordLength)
	}
	if strings.TrimSpace(in.FirstName) == "" {
		return apperr.Validation("first_name is required")
	}
	if strings.TrimSpace(in.LastName) == "" {
		return apperr.Validation("last_name is required")
	}
	if in.Phone != nil && *in.Phone != "" && !ValidPhone(*in.Phone) {
		return apperr.Validation("phone must be 9 to 15 digits, optionally prefixed with +")
	}
	return nil
}

func (s *Service) newUser(in RegisterInput, role string) (*User, error) {
	if !validRoles[role] {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	u := &User{
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Phone:        in.Phone,
		Gender:       in.Gender,
		Address:      in.Address,
	}
	if in.DateOfBirth != nil {
		t := in.DateOfBirth.Time()
		u.DateOfBirth = &t
	}
	return u, nil
}

// RegisterPatient creates a patient account with an empty patient profile.
// The account and profile are created in one transaction.
func (s *Service) RegisterPatient(ctx context.Context, in RegisterInput) (*User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	u, err := s.newUser(in, auth.RolePatient)
	if err != nil {
		return nil, err
	}
	err = s.inTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, u); err != nil {
			return err
		}
		return s.profiles.SeedPatientProfile(ctx, u.ID)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// RegisterDoctor creates a doctor account with a pending doctor profile.
// The doctor stays out of the directory until an admin approves them.
func (s *Service) RegisterDoctor(ctx context.Context, in RegisterDoctorInput) (*User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	in.LicenseNumber = strings.TrimSpace(in.LicenseNumber)
	if in.LicenseNumber == "" {
		return nil, apperr.Validation("license_number is required")
	}
	in.Specialization = strings.TrimSpace(in.Specialization)
	if in.Specialization == "" {
		return nil, apperr.Validation("specialization is required")
	}

	u, err := s.newUser(in.RegisterInput, auth.RoleDoctor)
	if err != nil {
		return nil, err
	}
	err = s.inTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, u); err != nil {
			return err
		}
		return s.profiles.SeedDoctorProfile(ctx, u.ID, in.LicenseNumber, in.Specialization)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// CreateAdmin creates an admin account. Used by the CLI bootstrap command;
// there is no HTTP route for it.
func (s *Service) CreateAdmin(ctx context.Context, email, password, firstName, lastName string) (*User, error) {
	in := RegisterInput{Email: email, Password: password, FirstName: firstName, LastName: lastName}
	if err := in.validate(); err != nil {
		return nil, err
	}
	u, err := s.newUser(in, auth.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies credentials and issues a token pair. The same error comes
// back for an unknown email and a wrong password.
func (s *Service) Login(ctx context.Context, email, password string) (*auth.TokenPair, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.Authentication("invalid email or password")
		}
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, apperr.Authentication("invalid email or password")
	}
	return s.issuer.IssuePair(u.ID, u.Role)
}

// Refresh validates a refresh token and mints a new access token. A
// blacklisted or malformed token is rejected.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.issuer.Parse(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return "", apperr.Authentication("invalid refresh token")
	}
	if s.revocations.IsRevoked(claims.ID) {
		return "", apperr.Authentication("refresh token has been revoked")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return "", apperr.Authentication("invalid refresh token")
	}
	// Re-read the user so a role change takes effect on refresh.
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", apperr.Authentication("invalid refresh token")
	}
	return s.issuer.IssueAccess(u.ID, u.Role)
}

// Blacklist revokes a refresh token so it can never mint access tokens again.
func (s *Service) Blacklist(ctx context.Context, refreshToken string) error {
	claims, err := s.issuer.Parse(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return apperr.Authentication("invalid refresh token")
	}
	s.revocations.RevokeForUser(claims.ID, claims.Subject, claims.ExpiresAt.Time)
	return nil
}

// Me returns the account of the authenticated caller.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}
