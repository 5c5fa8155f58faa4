package appointment

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

type Appointment struct {
	ID              uuid.UUID
	ClinicID        uuid.UUID
	VetID           uuid.UUID
	ClientName      string
	ClientPhone     *string
	PetName         string
	StartTime       time.Time
	EndTime         time.Time
	Status          Status
	Origin          string
	ExternalEventID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Detail is an appointment enriched with display names resolved at read
// time. The names are never stored on the appointment row.
type Detail struct {
	Appointment
	ClinicName string
	VetName    string
}

// BookedWindow is one occupied slot in a day availability projection.
type BookedWindow struct {
	StartTime time.Time
	EndTime   time.Time
	Status    Status
}

// DayAvailability lists the non-cancelled appointments of a practitioner
// on one calendar day.
type DayAvailability struct {
	VetID  uuid.UUID
	Date   string
	Total  int
	Booked []BookedWindow
}
