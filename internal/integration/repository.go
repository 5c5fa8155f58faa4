package integration

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrIntegrationNotFound = errors.New("integration not found")

// ListFilters narrows a listing. Nil fields are not applied.
type ListFilters struct {
	ClinicID    *uuid.UUID
	ServiceType *ServiceType
	Active      *bool
	Limit       int
	Offset      int
}

// Repository contains all DB interactions needed by the service.
type Repository interface {
	Insert(ctx context.Context, i *Integration) (*Integration, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Integration, error)
	// GetByClinicAndType scans for a clinic's integration of one service
	// type, optionally skipping one row (uniqueness checks during updates).
	GetByClinicAndType(ctx context.Context, clinicID uuid.UUID, serviceType ServiceType, excludeID *uuid.UUID) (*Integration, error)
	// List returns a page ordered by creation time plus the total match
	// count independent of the page bounds.
	List(ctx context.Context, f ListFilters) ([]Integration, int, error)
	Update(ctx context.Context, i *Integration) (*Integration, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
