package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medbook/medbook/internal/platform/apperr"
	"github.com/medbook/medbook/internal/platform/auth"
	"github.com/medbook/medbook/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

const appointmentCols = `id, patient_id, doctor_id, scheduled_time, duration_min,
	reason, status, cancelled_reason, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.ScheduledTime, &a.DurationMin,
		&a.Reason, &a.Status, &a.CancelledReason, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, scheduled_time, duration_min, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.PatientID, a.DoctorID, a.ScheduledTime, a.DurationMin, a.Reason, a.Status)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := scanAppointment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+appointmentCols+` FROM appointments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("appointment not found")
	}
	return a, err
}

func (r *repoPG) List(ctx context.Context, q ListQuery) ([]*Appointment, int, error) {
	where := []string{"1=1"}
	args := []any{}
	n := 0
	arg := func(v any) string {
		n++
		args = append(args, v)
		return fmt.Sprintf("$%d", n)
	}

	switch q.Role {
	case auth.RolePatient:
		where = append(where, "patient_id = "+arg(q.UserID))
	case auth.RoleDoctor:
		where = append(where, "doctor_id = "+arg(q.UserID))
	}
	if q.UpcomingOnly {
		where = append(where, "status = "+arg(StatusScheduled))
		where = append(where, "scheduled_time >= "+arg(q.Now))
	} else if q.Status != "" {
		where = append(where, "status = "+arg(q.Status))
	}
	cond := strings.Join(where, " AND ")

	order := "scheduled_time DESC"
	if q.UpcomingOnly {
		order = "scheduled_time ASC"
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + appointmentCols + ` FROM appointments WHERE ` + cond +
		` ORDER BY ` + order + ` LIMIT ` + arg(q.Limit) + ` OFFSET ` + arg(q.Offset)
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

func (r *repoPG) Cancel(ctx context.Context, id uuid.UUID, reason *string) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments
		SET status = $2, cancelled_reason = $3, updated_at = NOW()
		WHERE id = $1 AND status = $4`,
		id, StatusCancelled, reason, StatusScheduled)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing appointment from one already settled.
		var status string
		err := r.conn(ctx).QueryRow(ctx,
			`SELECT status FROM appointments WHERE id = $1`, id).Scan(&status)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("appointment not found")
		}
		if err != nil {
			return err
		}
		return apperr.Conflict(fmt.Sprintf("appointment is already %s", status))
	}
	return nil
}

func (r *repoPG) CreateSession(ctx context.Context, rec *SessionRecord) error {
	rec.ID = uuid.New()
	return db.InTx(ctx, r.pool, func(ctx context.Context) error {
		tag, err := r.conn(ctx).Exec(ctx, `
			UPDATE appointments SET status = $2, updated_at = NOW()
			WHERE id = $1 AND status = $3`,
			rec.AppointmentID, StatusCompleted, StatusScheduled)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperr.Conflict("appointment is not scheduled")
		}
		_, err = r.conn(ctx).Exec(ctx, `
			INSERT INTO session_records (id, appointment_id, diagnosis, treatment, notes, prescription, start_time, end_time)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			rec.ID, rec.AppointmentID, rec.Diagnosis, rec.Treatment, rec.Notes,
			rec.Prescription, rec.StartTime, rec.EndTime)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperr.Conflict("a session record already exists for this appointment")
		}
		return err
	})
}

const sessionCols = `id, appointment_id, diagnosis, treatment, notes, prescription,
	start_time, end_time, created_at`

func (r *repoPG) GetSessionByAppointment(ctx context.Context, appointmentID uuid.UUID) (*SessionRecord, error) {
	var rec SessionRecord
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+sessionCols+` FROM session_records WHERE appointment_id = $1`, appointmentID).
		Scan(&rec.ID, &rec.AppointmentID, &rec.Diagnosis, &rec.Treatment, &rec.Notes,
			&rec.Prescription, &rec.StartTime, &rec.EndTime, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("no session record for this appointment")
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
