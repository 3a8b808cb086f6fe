package telehealth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medbook/medbook/internal/platform/apperr"
	"github.com/medbook/medbook/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

const roomCols = `id, appointment_id, room_name, room_url, is_active, expires_at,
	created_by, created_at, updated_at`

func scanRoom(row pgx.Row) (*VideoRoom, error) {
	var v VideoRoom
	err := row.Scan(&v.ID, &v.AppointmentID, &v.RoomName, &v.RoomURL, &v.IsActive,
		&v.ExpiresAt, &v.CreatedBy, &v.CreatedAt, &v.UpdatedAt)
	return &v, err
}

func (r *repoPG) Create(ctx context.Context, room *VideoRoom) error {
	room.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO video_rooms (id, appointment_id, room_name, room_url, is_active, expires_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		room.ID, room.AppointmentID, room.RoomName, room.RoomURL, room.IsActive,
		room.ExpiresAt, room.CreatedBy)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apperr.Conflict("a room already exists for this appointment")
	}
	return err
}

func (r *repoPG) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*VideoRoom, error) {
	v, err := scanRoom(r.conn(ctx).QueryRow(ctx,
		`SELECT `+roomCols+` FROM video_rooms WHERE appointment_id = $1`, appointmentID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("room not found")
	}
	return v, err
}

func (r *repoPG) GetByName(ctx context.Context, roomName string) (*VideoRoom, error) {
	v, err := scanRoom(r.conn(ctx).QueryRow(ctx,
		`SELECT `+roomCols+` FROM video_rooms WHERE room_name = $1`, roomName))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("room not found")
	}
	return v, err
}
