package integration

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

const integrationColumns = `
	id, clinic_id, service_type, credentials, active, created_at, updated_at`

func scanIntegration(row pgx.Row) (*Integration, error) {
	var i Integration

	err := row.Scan(
		&i.ID,
		&i.ClinicID,
		&i.ServiceType,
		&i.Credentials,
		&i.Active,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrIntegrationNotFound
		}
		return nil, err
	}

	return &i, nil
}

func (r *PgRepository) Insert(ctx context.Context, i *Integration) (*Integration, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO integrations (id, clinic_id, service_type, credentials, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING`+integrationColumns,
		i.ID, i.ClinicID, i.ServiceType, i.Credentials, i.Active)
	return scanIntegration(row)
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Integration, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT`+integrationColumns+`
		FROM integrations
		WHERE id = $1
	`, id)
	return scanIntegration(row)
}

func (r *PgRepository) GetByClinicAndType(ctx context.Context, clinicID uuid.UUID, serviceType ServiceType, excludeID *uuid.UUID) (*Integration, error) {
	query := `
		SELECT` + integrationColumns + `
		FROM integrations
		WHERE clinic_id = $1 AND service_type = $2
	`
	args := []any{clinicID, serviceType}

	if excludeID != nil {
		query += ` AND id != $3`
		args = append(args, *excludeID)
	}

	row := r.pool.QueryRow(ctx, query, args...)
	return scanIntegration(row)
}

func (r *PgRepository) List(ctx context.Context, f ListFilters) ([]Integration, int, error) {
	where := " WHERE true"
	args := []any{}

	addFilter := func(clause string, value any) {
		args = append(args, value)
		where += fmt.Sprintf(clause, len(args))
	}

	if f.ClinicID != nil {
		addFilter(" AND clinic_id = $%d", *f.ClinicID)
	}
	if f.ServiceType != nil {
		addFilter(" AND service_type = $%d", *f.ServiceType)
	}
	if f.Active != nil {
		addFilter(" AND active = $%d", *f.Active)
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT count(*) FROM integrations"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count integrations: %w", err)
	}

	query := "SELECT" + integrationColumns + " FROM integrations" + where +
		fmt.Sprintf(" ORDER BY created_at LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Integration
	for rows.Next() {
		i, err := scanIntegration(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *i)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return result, total, nil
}

func (r *PgRepository) Update(ctx context.Context, i *Integration) (*Integration, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE integrations
		SET service_type = $2,
		    credentials = $3,
		    active = $4,
		    updated_at = now()
		WHERE id = $1
		RETURNING`+integrationColumns,
		i.ID, i.ServiceType, i.Credentials, i.Active)
	return scanIntegration(row)
}

func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM integrations
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("delete integration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrIntegrationNotFound
	}

	return nil
}
