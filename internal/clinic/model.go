package clinic

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Clinic struct {
	ID        uuid.UUID
	Name      string
	Address   *string
	Settings  json.RawMessage
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Vet struct {
	ID        uuid.UUID
	ClinicID  uuid.UUID
	Name      string
	Email     string
	Specialty *string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OperatingHours is the open/close window of a clinic for one weekday.
// Weekday is Sunday-based (0=Sunday ... 6=Saturday); at most one row
// exists per (clinic, weekday). OpensAt/ClosesAt are zero-padded
// 24-hour "HH:MM" strings.
type OperatingHours struct {
	ID        uuid.UUID
	ClinicID  uuid.UUID
	Weekday   int
	OpensAt   string
	ClosesAt  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
