package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medbook/medbook/internal/platform/apperr"
	"github.com/medbook/medbook/internal/platform/db"
)

// =========== Patient Profile Repository ===========

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository { return &patientRepoPG{pool: pool} }

func (r *patientRepoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

const patientCols = `user_id, blood_type, allergies, height_cm, weight_kg,
	medical_history, chronic_conditions, created_at, updated_at`

func scanPatient(row pgx.Row) (*PatientProfile, error) {
	var p PatientProfile
	err := row.Scan(&p.UserID, &p.BloodType, &p.Allergies, &p.HeightCM, &p.WeightKG,
		&p.MedicalHistory, &p.ChronicConditions, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *patientRepoPG) Create(ctx context.Context, p *PatientProfile) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient_profiles (user_id, blood_type, allergies, height_cm, weight_kg,
			medical_history, chronic_conditions)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		p.UserID, p.BloodType, p.Allergies, p.HeightCM, p.WeightKG,
		p.MedicalHistory, p.ChronicConditions)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apperr.Conflict("patient profile already exists")
	}
	return err
}

func (r *patientRepoPG) GetByUserID(ctx context.Context, userID uuid.UUID) (*PatientProfile, error) {
	p, err := scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patient_profiles WHERE user_id = $1`, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("patient profile not found")
	}
	return p, err
}

func (r *patientRepoPG) Update(ctx context.Context, p *PatientProfile) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE patient_profiles SET blood_type=$2, allergies=$3, height_cm=$4, weight_kg=$5,
			medical_history=$6, chronic_conditions=$7, updated_at=NOW()
		WHERE user_id = $1`,
		p.UserID, p.BloodType, p.Allergies, p.HeightCM, p.WeightKG,
		p.MedicalHistory, p.ChronicConditions)
	return err
}

// =========== Doctor Profile Repository ===========

type doctorRepoPG struct{ pool *pgxpool.Pool }

func NewDoctorRepoPG(pool *pgxpool.Pool) DoctorRepository { return &doctorRepoPG{pool: pool} }

func (r *doctorRepoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

const doctorCols = `d.user_id, d.license_number, d.specialization, d.description,
	d.consultation_fee, d.availability, d.verification_status,
	u.first_name, u.last_name, d.created_at, d.updated_at`

func scanDoctor(row pgx.Row) (*DoctorProfile, error) {
	var d DoctorProfile
	err := row.Scan(&d.UserID, &d.LicenseNumber, &d.Specialization, &d.Description,
		&d.ConsultationFee, &d.Availability, &d.VerificationStatus,
		&d.FirstName, &d.LastName, &d.CreatedAt, &d.UpdatedAt)
	return &d, err
}

func (r *doctorRepoPG) Create(ctx context.Context, d *DoctorProfile) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO doctor_profiles (user_id, license_number, specialization, description,
			consultation_fee, availability, verification_status)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		d.UserID, d.LicenseNumber, d.Specialization, d.Description,
		d.ConsultationFee, d.Availability, d.VerificationStatus)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if pgErr.ConstraintName == "doctor_profiles_license_number_key" {
			return apperr.Validation("license_number is already registered")
		}
		return apperr.Conflict("doctor profile already exists")
	}
	return err
}

func (r *doctorRepoPG) GetByUserID(ctx context.Context, userID uuid.UUID) (*DoctorProfile, error) {
	d, err := scanDoctor(r.conn(ctx).QueryRow(ctx, `
		SELECT `+doctorCols+` FROM doctor_profiles d
		JOIN users u ON u.id = d.user_id
		WHERE d.user_id = $1`, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("doctor profile not found")
	}
	return d, err
}

func (r *doctorRepoPG) Update(ctx context.Context, d *DoctorProfile) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE doctor_profiles SET specialization=$2, description=$3, consultation_fee=$4,
			availability=$5, updated_at=NOW()
		WHERE user_id = $1`,
		d.UserID, d.Specialization, d.Description, d.ConsultationFee, d.Availability)
	return err
}

func (r *doctorRepoPG) SetVerificationStatus(ctx context.Context, userID uuid.UUID, status string) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE doctor_profiles SET verification_status=$2, updated_at=NOW()
		WHERE user_id = $1`, userID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("doctor profile not found")
	}
	return nil
}

// orderings whitelists the directory sort keys.
var orderings = map[string]string{
	"consultation_fee":  "d.consultation_fee ASC",
	"-consultation_fee": "d.consultation_fee DESC",
	"created_at":        "d.created_at ASC",
	"-created_at":       "d.created_at DESC",
}

func (r *doctorRepoPG) ListApproved(ctx context.Context, q DoctorQuery) ([]*DoctorProfile, int, error) {
	where := ` FROM doctor_profiles d
		JOIN users u ON u.id = d.user_id
		WHERE d.verification_status = 'approved'`
	var args []interface{}
	idx := 1

	if q.Search != "" {
		where += fmt.Sprintf(` AND (u.first_name ILIKE $%d OR u.last_name ILIKE $%d OR d.specialization ILIKE $%d)`, idx, idx, idx)
		args = append(args, "%"+q.Search+"%")
		idx++
	}
	if q.Specialization != "" {
		where += fmt.Sprintf(` AND d.specialization = $%d`, idx)
		args = append(args, q.Specialization)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy, ok := orderings[q.Ordering]
	if !ok {
		orderBy = "u.last_name ASC, u.first_name ASC"
	}

	query := `SELECT ` + doctorCols + where +
		fmt.Sprintf(` ORDER BY %s, d.user_id LIMIT $%d OFFSET $%d`, orderBy, idx, idx+1)
	args = append(args, q.Limit, q.Offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*DoctorProfile
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, rows.Err()
}
