package clinic

import (
	"context"
	"errors"
	"fmt"

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

// Helpers

func scanClinic(row pgx.Row) (*Clinic, error) {
	var c Clinic

	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Address,
		&c.Settings,
		&c.Active,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClinicNotFound
		}
		return nil, err
	}

	return &c, nil
}

func scanVet(row pgx.Row) (*Vet, error) {
	var v Vet

	err := row.Scan(
		&v.ID,
		&v.ClinicID,
		&v.Name,
		&v.Email,
		&v.Specialty,
		&v.Active,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVetNotFound
		}
		return nil, err
	}

	return &v, nil
}

func scanHours(row pgx.Row) (*OperatingHours, error) {
	var h OperatingHours

	err := row.Scan(
		&h.ID,
		&h.ClinicID,
		&h.Weekday,
		&h.OpensAt,
		&h.ClosesAt,
		&h.CreatedAt,
		&h.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrHoursNotFound
		}
		return nil, err
	}

	return &h, nil
}

// Clinics

func (r *PgRepository) InsertClinic(ctx context.Context, c *Clinic) (*Clinic, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO clinics (id, name, address, settings, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING id, name, address, settings, active, created_at, updated_at
	`, c.ID, c.Name, c.Address, c.Settings, c.Active)
	return scanClinic(row)
}

func (r *PgRepository) GetClinicByID(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, address, settings, active, created_at, updated_at
		FROM clinics
		WHERE id = $1
	`, id)
	return scanClinic(row)
}

func (r *PgRepository) GetClinicByName(ctx context.Context, name string) (*Clinic, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, address, settings, active, created_at, updated_at
		FROM clinics
		WHERE name = $1
	`, name)
	return scanClinic(row)
}

func (r *PgRepository) ListActiveClinics(ctx context.Context) ([]Clinic, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, address, settings, active, created_at, updated_at
		FROM clinics
		WHERE active
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Clinic
	for rows.Next() {
		c, err := scanClinic(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) UpdateClinic(ctx context.Context, c *Clinic) (*Clinic, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE clinics
		SET name = $2,
		    address = $3,
		    settings = $4,
		    active = $5,
		    updated_at = now()
		WHERE id = $1
		RETURNING id, name, address, settings, active, created_at, updated_at
	`, c.ID, c.Name, c.Address, c.Settings, c.Active)
	return scanClinic(row)
}

// Vets

func (r *PgRepository) InsertVet(ctx context.Context, v *Vet) (*Vet, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO vets (id, clinic_id, name, email, specialty, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING id, clinic_id, name, email, specialty, active, created_at, updated_at
	`, v.ID, v.ClinicID, v.Name, v.Email, v.Specialty, v.Active)
	return scanVet(row)
}

func (r *PgRepository) GetVetByID(ctx context.Context, id uuid.UUID) (*Vet, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, clinic_id, name, email, specialty, active, created_at, updated_at
		FROM vets
		WHERE id = $1
	`, id)
	return scanVet(row)
}

func (r *PgRepository) GetVetByEmail(ctx context.Context, email string, excludeID *uuid.UUID) (*Vet, error) {
	query := `
		SELECT id, clinic_id, name, email, specialty, active, created_at, updated_at
		FROM vets
		WHERE email = $1
	`
	args := []any{email}

	if excludeID != nil {
		query += ` AND id != $2`
		args = append(args, *excludeID)
	}

	row := r.pool.QueryRow(ctx, query, args...)
	return scanVet(row)
}

func (r *PgRepository) ListVetsByClinic(ctx context.Context, clinicID uuid.UUID) ([]Vet, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, clinic_id, name, email, specialty, active, created_at, updated_at
		FROM vets
		WHERE clinic_id = $1
		ORDER BY name
	`, clinicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Vet
	for rows.Next() {
		v, err := scanVet(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *v)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) UpdateVet(ctx context.Context, v *Vet) (*Vet, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE vets
		SET name = $2,
		    email = $3,
		    specialty = $4,
		    active = $5,
		    updated_at = now()
		WHERE id = $1
		RETURNING id, clinic_id, name, email, specialty, active, created_at, updated_at
	`, v.ID, v.Name, v.Email, v.Specialty, v.Active)
	return scanVet(row)
}

// Operating hours

func (r *PgRepository) InsertHours(ctx context.Context, h *OperatingHours) (*OperatingHours, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO clinic_hours (id, clinic_id, weekday, opens_at, closes_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING id, clinic_id, weekday, opens_at, closes_at, created_at, updated_at
	`, h.ID, h.ClinicID, h.Weekday, h.OpensAt, h.ClosesAt)
	return scanHours(row)
}

func (r *PgRepository) GetHoursByID(ctx context.Context, id uuid.UUID) (*OperatingHours, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, clinic_id, weekday, opens_at, closes_at, created_at, updated_at
		FROM clinic_hours
		WHERE id = $1
	`, id)
	return scanHours(row)
}

func (r *PgRepository) GetHoursByDay(ctx context.Context, clinicID uuid.UUID, weekday int, excludeID *uuid.UUID) (*OperatingHours, error) {
	query := `
		SELECT id, clinic_id, weekday, opens_at, closes_at, created_at, updated_at
		FROM clinic_hours
		WHERE clinic_id = $1 AND weekday = $2
	`
	args := []any{clinicID, weekday}

	if excludeID != nil {
		query += ` AND id != $3`
		args = append(args, *excludeID)
	}

	row := r.pool.QueryRow(ctx, query, args...)
	return scanHours(row)
}

func (r *PgRepository) ListHoursByClinic(ctx context.Context, clinicID uuid.UUID) ([]OperatingHours, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, clinic_id, weekday, opens_at, closes_at, created_at, updated_at
		FROM clinic_hours
		WHERE clinic_id = $1
		ORDER BY weekday
	`, clinicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []OperatingHours
	for rows.Next() {
		h, err := scanHours(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *h)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) UpdateHours(ctx context.Context, h *OperatingHours) (*OperatingHours, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE clinic_hours
		SET weekday = $2,
		    opens_at = $3,
		    closes_at = $4,
		    updated_at = now()
		WHERE id = $1
		RETURNING id, clinic_id, weekday, opens_at, closes_at, created_at, updated_at
	`, h.ID, h.Weekday, h.OpensAt, h.ClosesAt)
	return scanHours(row)
}

func (r *PgRepository) DeleteHours(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM clinic_hours
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("delete operating hours: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrHoursNotFound
	}

	return nil
}
