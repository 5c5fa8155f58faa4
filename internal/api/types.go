package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/vetdesk/clinic-scheduling/internal/appointment"
	"github.com/vetdesk/clinic-scheduling/internal/clinic"
	"github.com/vetdesk/clinic-scheduling/internal/integration"
)

// Appointments

type CreateAppointmentRequest struct {
	ClinicID        string    `json:"clinic_id" validate:"required,uuid"`
	VetID           string    `json:"vet_id" validate:"required,uuid"`
	ClientName      string    `json:"client_name" validate:"required,min=3,max=255"`
	ClientPhone     *string   `json:"client_phone,omitempty" validate:"omitempty,max=20"`
	PetName         string    `json:"pet_name" validate:"required,min=1,max=255"`
	StartTime       time.Time `json:"start_time" validate:"required"`
	EndTime         time.Time `json:"end_time" validate:"required"`
	Status          string    `json:"status,omitempty" validate:"omitempty,max=50"`
	Origin          string    `json:"origin" validate:"required,max=50"`
	ExternalEventID *string   `json:"external_event_id,omitempty" validate:"omitempty,max=255"`
}

type UpdateAppointmentRequest struct {
	VetID           *string    `json:"vet_id,omitempty" validate:"omitempty,uuid"`
	ClientName      *string    `json:"client_name,omitempty" validate:"omitempty,min=3,max=255"`
	ClientPhone     *string    `json:"client_phone,omitempty" validate:"omitempty,max=20"`
	PetName         *string    `json:"pet_name,omitempty" validate:"omitempty,min=1,max=255"`
	StartTime       *time.Time `json:"start_time,omitempty"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	Status          *string    `json:"status,omitempty" validate:"omitempty,max=50"`
	Origin          *string    `json:"origin,omitempty" validate:"omitempty,max=50"`
	ExternalEventID *string    `json:"external_event_id,omitempty" validate:"omitempty,max=255"`
}

type AppointmentResponse struct {
	ID              uuid.UUID `json:"id"`
	ClinicID        uuid.UUID `json:"clinic_id"`
	VetID           uuid.UUID `json:"vet_id"`
	ClientName      string    `json:"client_name"`
	ClientPhone     *string   `json:"client_phone,omitempty"`
	PetName         string    `json:"pet_name"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	Status          string    `json:"status"`
	Origin          string    `json:"origin"`
	ExternalEventID *string   `json:"external_event_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	ClinicName      string    `json:"clinic_name,omitempty"`
	VetName         string    `json:"vet_name,omitempty"`
}

func toAppointmentResponse(a appointment.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:              a.ID,
		ClinicID:        a.ClinicID,
		VetID:           a.VetID,
		ClientName:      a.ClientName,
		ClientPhone:     a.ClientPhone,
		PetName:         a.PetName,
		StartTime:       a.StartTime,
		EndTime:         a.EndTime,
		Status:          string(a.Status),
		Origin:          a.Origin,
		ExternalEventID: a.ExternalEventID,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func toDetailResponse(d *appointment.Detail) AppointmentResponse {
	resp := toAppointmentResponse(d.Appointment)
	resp.ClinicName = d.ClinicName
	resp.VetName = d.VetName
	return resp
}

type AppointmentListResponse struct {
	Total        int                   `json:"total"`
	Appointments []AppointmentResponse `json:"appointments"`
}

type BookedWindowResponse struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`
}

type AvailabilityResponse struct {
	VetID  uuid.UUID              `json:"vet_id"`
	Date   string                 `json:"date"`
	Total  int                    `json:"total"`
	Booked []BookedWindowResponse `json:"booked"`
}

// Clinics

type CreateClinicRequest struct {
	Name     string          `json:"name" validate:"required,min=1,max=255"`
	Address  *string         `json:"address,omitempty" validate:"omitempty,max=500"`
	Settings json.RawMessage `json:"settings,omitempty"`
}

type UpdateClinicRequest struct {
	Name     *string         `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Address  *string         `json:"address,omitempty" validate:"omitempty,max=500"`
	Settings json.RawMessage `json:"settings,omitempty"`
	Active   *bool           `json:"active,omitempty"`
}

type ClinicResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Address   *string         `json:"address,omitempty"`
	Settings  json.RawMessage `json:"settings,omitempty"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func toClinicResponse(c clinic.Clinic) ClinicResponse {
	return ClinicResponse{
		ID:        c.ID,
		Name:      c.Name,
		Address:   c.Address,
		Settings:  c.Settings,
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// Vets

type CreateVetRequest struct {
	ClinicID  string  `json:"clinic_id" validate:"required,uuid"`
	Name      string  `json:"name" validate:"required,min=1,max=255"`
	Email     string  `json:"email" validate:"required,email,max=255"`
	Specialty *string `json:"specialty,omitempty" validate:"omitempty,max=255"`
}

type UpdateVetRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Specialty *string `json:"specialty,omitempty" validate:"omitempty,max=255"`
	Active    *bool   `json:"active,omitempty"`
}

type VetResponse struct {
	ID        uuid.UUID `json:"id"`
	ClinicID  uuid.UUID `json:"clinic_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Specialty *string   `json:"specialty,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toVetResponse(v clinic.Vet) VetResponse {
	return VetResponse{
		ID:        v.ID,
		ClinicID:  v.ClinicID,
		Name:      v.Name,
		Email:     v.Email,
		Specialty: v.Specialty,
		Active:    v.Active,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

// Integrations

type CreateIntegrationRequest struct {
	ClinicID    string          `json:"clinic_id" validate:"required,uuid"`
	ServiceType string          `json:"service_type" validate:"required,max=50"`
	Credentials json.RawMessage `json:"credentials" validate:"required"`
	Active      *bool           `json:"active,omitempty"`
}

type UpdateIntegrationRequest struct {
	ServiceType *string         `json:"service_type,omitempty" validate:"omitempty,max=50"`
	Credentials json.RawMessage `json:"credentials,omitempty"`
	Active      *bool           `json:"active,omitempty"`
}

type ActivateIntegrationRequest struct {
	Active *bool `json:"active" validate:"required"`
}

type IntegrationResponse struct {
	ID          uuid.UUID       `json:"id"`
	ClinicID    uuid.UUID       `json:"clinic_id"`
	ServiceType string          `json:"service_type"`
	Credentials json.RawMessage `json:"credentials,omitempty"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func toIntegrationResponse(i integration.Integration) IntegrationResponse {
	return IntegrationResponse{
		ID:          i.ID,
		ClinicID:    i.ClinicID,
		ServiceType: string(i.ServiceType),
		Credentials: i.Credentials,
		Active:      i.Active,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

type IntegrationListResponse struct {
	Total        int                   `json:"total"`
	Integrations []IntegrationResponse `json:"integrations"`
}

// Operating hours

type HoursRequest struct {
	Weekday  int    `json:"weekday" validate:"min=0,max=6"`
	OpensAt  string `json:"opens_at" validate:"required,len=5"`
	ClosesAt string `json:"closes_at" validate:"required,len=5"`
}

type UpdateHoursRequest struct {
	Weekday  *int    `json:"weekday,omitempty" validate:"omitempty,min=0,max=6"`
	OpensAt  *string `json:"opens_at,omitempty" validate:"omitempty,len=5"`
	ClosesAt *string `json:"closes_at,omitempty" validate:"omitempty,len=5"`
}

type HoursResponse struct {
	ID        uuid.UUID `json:"id"`
	ClinicID  uuid.UUID `json:"clinic_id"`
	Weekday   int       `json:"weekday"`
	OpensAt   string    `json:"opens_at"`
	ClosesAt  string    `json:"closes_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toHoursResponse(h clinic.OperatingHours) HoursResponse {
	return HoursResponse{
		ID:        h.ID,
		ClinicID:  h.ClinicID,
		Weekday:   h.Weekday,
		OpensAt:   h.OpensAt,
		ClosesAt:  h.ClosesAt,
		CreatedAt: h.CreatedAt,
		UpdatedAt: h.UpdatedAt,
	}
}
