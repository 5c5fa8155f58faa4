package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const appointmentColumns = `
	id, clinic_id, vet_id, client_name, client_phone, pet_name,
	start_time, end_time, status, origin, external_event_id,
	created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment

	err := row.Scan(
		&a.ID,
		&a.ClinicID,
		&a.VetID,
		&a.ClientName,
		&a.ClientPhone,
		&a.PetName,
		&a.StartTime,
		&a.EndTime,
		&a.Status,
		&a.Origin,
		&a.ExternalEventID,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	return &a, nil
}

func collectAppointments(rows pgx.Rows) ([]Appointment, error) {
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) Insert(ctx context.Context, a *Appointment) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments (
			id, clinic_id, vet_id, client_name, client_phone, pet_name,
			start_time, end_time, status, origin, external_event_id,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
		RETURNING`+appointmentColumns,
		a.ID, a.ClinicID, a.VetID, a.ClientName, a.ClientPhone, a.PetName,
		a.StartTime, a.EndTime, a.Status, a.Origin, a.ExternalEventID)

	return scanAppointment(row)
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT`+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) List(ctx context.Context, f ListFilters) ([]Appointment, int, error) {
	where := " WHERE true"
	args := []any{}

	addFilter := func(clause string, value any) {
		args = append(args, value)
		where += fmt.Sprintf(clause, len(args))
	}

	if f.ClinicID != nil {
		addFilter(" AND clinic_id = $%d", *f.ClinicID)
	}
	if f.VetID != nil {
		addFilter(" AND vet_id = $%d", *f.VetID)
	}
	if f.From != nil {
		addFilter(" AND start_time >= $%d", *f.From)
	}
	if f.To != nil {
		addFilter(" AND end_time <= $%d", *f.To)
	}
	if f.Status != nil {
		addFilter(" AND status = $%d", *f.Status)
	}
	if f.Origin != nil {
		addFilter(" AND origin = $%d", *f.Origin)
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT count(*) FROM appointments"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count appointments: %w", err)
	}

	query := "SELECT" + appointmentColumns + " FROM appointments" + where +
		fmt.Sprintf(" ORDER BY start_time DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}

	result, err := collectAppointments(rows)
	if err != nil {
		return nil, 0, err
	}

	return result, total, nil
}

func (r *PgRepository) Update(ctx context.Context, a *Appointment) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET vet_id = $2,
		    client_name = $3,
		    client_phone = $4,
		    pet_name = $5,
		    start_time = $6,
		    end_time = $7,
		    status = $8,
		    origin = $9,
		    external_event_id = $10,
		    updated_at = now()
		WHERE id = $1
		RETURNING`+appointmentColumns,
		a.ID, a.VetID, a.ClientName, a.ClientPhone, a.PetName,
		a.StartTime, a.EndTime, a.Status, a.Origin, a.ExternalEventID)

	return scanAppointment(row)
}

func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM appointments
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

func (r *PgRepository) FindOverlapping(ctx context.Context, vetID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]Appointment, error) {
	query := `
		SELECT` + appointmentColumns + `
		FROM appointments
		WHERE vet_id = $1
		  AND status != 'cancelled'
		  AND start_time < $3
		  AND end_time > $2
	`
	args := []any{vetID, start, end}

	if excludeID != nil {
		query += ` AND id != $4`
		args = append(args, *excludeID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return collectAppointments(rows)
}

func (r *PgRepository) ListForVetDay(ctx context.Context, vetID uuid.UUID, dayStart, dayEnd time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+appointmentColumns+`
		FROM appointments
		WHERE vet_id = $1
		  AND status != 'cancelled'
		  AND start_time >= $2
		  AND start_time < $3
		ORDER BY start_time
	`, vetID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	return collectAppointments(rows)
}
