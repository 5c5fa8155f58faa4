package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrAppointmentNotFound = errors.New("appointment not found")

// ListFilters narrows a listing. Nil fields are not applied.
type ListFilters struct {
	ClinicID *uuid.UUID
	VetID    *uuid.UUID
	From     *time.Time
	To       *time.Time
	Status   *Status
	Origin   *string
	Limit    int
	Offset   int
}

// Repository contains all DB interactions needed by the service.
type Repository interface {
	Insert(ctx context.Context, a *Appointment) (*Appointment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	// List returns a page ordered by start time descending plus the total
	// match count independent of the page bounds.
	List(ctx context.Context, f ListFilters) ([]Appointment, int, error)
	Update(ctx context.Context, a *Appointment) (*Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// FindOverlapping returns the practitioner's non-cancelled appointments
	// overlapping the half-open window [start, end), optionally skipping one
	// appointment id.
	FindOverlapping(ctx context.Context, vetID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]Appointment, error)

	// ListForVetDay returns the practitioner's non-cancelled appointments
	// starting within [dayStart, dayEnd), ordered by start time ascending.
	ListForVetDay(ctx context.Context, vetID uuid.UUID, dayStart, dayEnd time.Time) ([]Appointment, error)
}
