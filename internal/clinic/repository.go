package clinic

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrClinicNotFound = errors.New("clinic not found")
	ErrVetNotFound    = errors.New("veterinarian not found")
	ErrHoursNotFound  = errors.New("operating hours not found")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	InsertClinic(ctx context.Context, c *Clinic) (*Clinic, error)
	GetClinicByID(ctx context.Context, id uuid.UUID) (*Clinic, error)
	GetClinicByName(ctx context.Context, name string) (*Clinic, error)
	ListActiveClinics(ctx context.Context) ([]Clinic, error)
	UpdateClinic(ctx context.Context, c *Clinic) (*Clinic, error)

	InsertVet(ctx context.Context, v *Vet) (*Vet, error)
	GetVetByID(ctx context.Context, id uuid.UUID) (*Vet, error)
	// GetVetByEmail scans for an email holder, optionally skipping one vet
	// (uniqueness checks during updates).
	GetVetByEmail(ctx context.Context, email string, excludeID *uuid.UUID) (*Vet, error)
	ListVetsByClinic(ctx context.Context, clinicID uuid.UUID) ([]Vet, error)
	UpdateVet(ctx context.Context, v *Vet) (*Vet, error)

	InsertHours(ctx context.Context, h *OperatingHours) (*OperatingHours, error)
	GetHoursByID(ctx context.Context, id uuid.UUID) (*OperatingHours, error)
	GetHoursByDay(ctx context.Context, clinicID uuid.UUID, weekday int, excludeID *uuid.UUID) (*OperatingHours, error)
	ListHoursByClinic(ctx context.Context, clinicID uuid.UUID) ([]OperatingHours, error)
	UpdateHours(ctx context.Context, h *OperatingHours) (*OperatingHours, error)
	DeleteHours(ctx context.Context, id uuid.UUID) error
}
