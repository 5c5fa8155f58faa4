package integration

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ServiceType names an external channel a clinic can connect. The
// credentials payload it carries is stored opaque; no calls are made to
// the service itself.
type ServiceType string

const (
	ServiceGoogleCalendar ServiceType = "google_calendar"
	ServiceWhatsApp       ServiceType = "whatsapp"
	ServiceTelegram       ServiceType = "telegram"
	ServiceOutlook        ServiceType = "outlook"
)

func (s ServiceType) Valid() bool {
	switch s {
	case ServiceGoogleCalendar, ServiceWhatsApp, ServiceTelegram, ServiceOutlook:
		return true
	}
	return false
}

// Integration is one clinic's connection to one external service. A
// clinic holds at most one integration per service type.
type Integration struct {
	ID          uuid.UUID
	ClinicID    uuid.UUID
	ServiceType ServiceType
	Credentials json.RawMessage
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
