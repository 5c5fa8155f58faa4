package clinic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vetdesk/clinic-scheduling/internal/schedule"
)

var (
	ErrDuplicateClinicName = errors.New("a clinic with this name already exists")
	ErrDuplicateVetEmail   = errors.New("a veterinarian with this email already exists")
	ErrDuplicateWeekday    = errors.New("operating hours already configured for this weekday")
	ErrInvalidWeekday      = errors.New("weekday must be between 0 (Sunday) and 6 (Saturday)")
	ErrInvalidHoursWindow  = errors.New("closing time must be after opening time")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Clinics

type CreateClinicInput struct {
	Name     string
	Address  *string
	Settings json.RawMessage
}

type UpdateClinicInput struct {
	Name     *string
	Address  *string
	Settings json.RawMessage
	Active   *bool
}

func (s *Service) CreateClinic(ctx context.Context, in CreateClinicInput) (*Clinic, error) {
	log.Debug().Str("name", in.Name).Msg("creating clinic")

	existing, err := s.repo.GetClinicByName(ctx, in.Name)
	if err != nil && !errors.Is(err, ErrClinicNotFound) {
		return nil, fmt.Errorf("check clinic name: %w", err)
	}
	if existing != nil {
		log.Warn().Str("name", in.Name).Stringer("existing_id", existing.ID).Msg("duplicate clinic name")
		return nil, ErrDuplicateClinicName
	}

	settings := in.Settings
	if settings == nil {
		settings = json.RawMessage(`{}`)
	}

	created, err := s.repo.InsertClinic(ctx, &Clinic{
		ID:       uuid.New(),
		Name:     in.Name,
		Address:  in.Address,
		Settings: settings,
		Active:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("create clinic: %w", err)
	}

	log.Info().Stringer("clinic_id", created.ID).Str("name", created.Name).Msg("clinic created")
	return created, nil
}

func (s *Service) ListClinics(ctx context.Context) ([]Clinic, error) {
	return s.repo.ListActiveClinics(ctx)
}

func (s *Service) GetClinic(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	return s.repo.GetClinicByID(ctx, id)
}

// GetActiveClinic resolves a clinic that can still take bookings.
// Deactivated clinics are reported as not found.
func (s *Service) GetActiveClinic(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	c, err := s.repo.GetClinicByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.Active {
		return nil, ErrClinicNotFound
	}
	return c, nil
}

func (s *Service) UpdateClinic(ctx context.Context, id uuid.UUID, in UpdateClinicInput) (*Clinic, error) {
	c, err := s.repo.GetClinicByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil && *in.Name != c.Name {
		existing, err := s.repo.GetClinicByName(ctx, *in.Name)
		if err != nil && !errors.Is(err, ErrClinicNotFound) {
			return nil, fmt.Errorf("check clinic name: %w", err)
		}
		if existing != nil {
			return nil, ErrDuplicateClinicName
		}
		c.Name = *in.Name
	}
	if in.Address != nil {
		c.Address = in.Address
	}
	if in.Settings != nil {
		c.Settings = in.Settings
	}
	if in.Active != nil {
		c.Active = *in.Active
	}

	updated, err := s.repo.UpdateClinic(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("update clinic: %w", err)
	}

	log.Info().Stringer("clinic_id", id).Msg("clinic updated")
	return updated, nil
}

// DeactivateClinic soft-deletes a clinic by flipping its active flag.
func (s *Service) DeactivateClinic(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	c, err := s.repo.GetClinicByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.Active = false

	updated, err := s.repo.UpdateClinic(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("deactivate clinic: %w", err)
	}

	log.Info().Stringer("clinic_id", id).Msg("clinic deactivated")
	return updated, nil
}

// Vets

type CreateVetInput struct {
	ClinicID  uuid.UUID
	Name      string
	Email     string
	Specialty *string
}

type UpdateVetInput struct {
	Name      *string
	Email     *string
	Specialty *string
	Active    *bool
}

func (s *Service) CreateVet(ctx context.Context, in CreateVetInput) (*Vet, error) {
	log.Debug().Str("email", in.Email).Msg("creating veterinarian")

	if _, err := s.repo.GetClinicByID(ctx, in.ClinicID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetVetByEmail(ctx, in.Email, nil)
	if err != nil && !errors.Is(err, ErrVetNotFound) {
		return nil, fmt.Errorf("check vet email: %w", err)
	}
	if existing != nil {
		log.Warn().Str("email", in.Email).Stringer("existing_id", existing.ID).Msg("duplicate vet email")
		return nil, ErrDuplicateVetEmail
	}

	created, err := s.repo.InsertVet(ctx, &Vet{
		ID:        uuid.New(),
		ClinicID:  in.ClinicID,
		Name:      in.Name,
		Email:     in.Email,
		Specialty: in.Specialty,
		Active:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("create vet: %w", err)
	}

	log.Info().Stringer("vet_id", created.ID).Str("email", created.Email).Msg("veterinarian created")
	return created, nil
}

func (s *Service) GetVet(ctx context.Context, id uuid.UUID) (*Vet, error) {
	return s.repo.GetVetByID(ctx, id)
}

// GetActiveVet resolves a practitioner that can still be booked.
func (s *Service) GetActiveVet(ctx context.Context, id uuid.UUID) (*Vet, error) {
	v, err := s.repo.GetVetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !v.Active {
		return nil, ErrVetNotFound
	}
	return v, nil
}

func (s *Service) ListVetsByClinic(ctx context.Context, clinicID uuid.UUID) ([]Vet, error) {
	if _, err := s.repo.GetClinicByID(ctx, clinicID); err != nil {
		return nil, err
	}
	return s.repo.ListVetsByClinic(ctx, clinicID)
}

func (s *Service) UpdateVet(ctx context.Context, id uuid.UUID, in UpdateVetInput) (*Vet, error) {
	v, err := s.repo.GetVetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil && *in.Email != v.Email {
		existing, err := s.repo.GetVetByEmail(ctx, *in.Email, &id)
		if err != nil && !errors.Is(err, ErrVetNotFound) {
			return nil, fmt.Errorf("check vet email: %w", err)
		}
		if existing != nil {
			return nil, ErrDuplicateVetEmail
		}
		v.Email = *in.Email
	}
	if in.Name != nil {
		v.Name = *in.Name
	}
	if in.Specialty != nil {
		v.Specialty = in.Specialty
	}
	if in.Active != nil {
		v.Active = *in.Active
	}

	updated, err := s.repo.UpdateVet(ctx, v)
	if err != nil {
		return nil, fmt.Errorf("update vet: %w", err)
	}

	log.Info().Stringer("vet_id", id).Msg("veterinarian updated")
	return updated, nil
}

func (s *Service) DeactivateVet(ctx context.Context, id uuid.UUID) (*Vet, error) {
	v, err := s.repo.GetVetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	v.Active = false

	updated, err := s.repo.UpdateVet(ctx, v)
	if err != nil {
		return nil, fmt.Errorf("deactivate vet: %w", err)
	}

	log.Info().Stringer("vet_id", id).Msg("veterinarian deactivated")
	return updated, nil
}

// Operating hours

type HoursInput struct {
	Weekday  int
	OpensAt  string
	ClosesAt string
}

type UpdateHoursInput struct {
	Weekday  *int
	OpensAt  *string
	ClosesAt *string
}

func validateHoursWindow(opensAt, closesAt string) error {
	opens, err := schedule.ParseTimeOfDay(opensAt)
	if err != nil {
		return err
	}
	closes, err := schedule.ParseTimeOfDay(closesAt)
	if err != nil {
		return err
	}
	if closes <= opens {
		return ErrInvalidHoursWindow
	}
	return nil
}

func (s *Service) CreateHours(ctx context.Context, clinicID uuid.UUID, in HoursInput) (*OperatingHours, error) {
	log.Debug().Stringer("clinic_id", clinicID).Int("weekday", in.Weekday).Msg("creating operating hours")

	if _, err := s.repo.GetClinicByID(ctx, clinicID); err != nil {
		return nil, err
	}

	if in.Weekday < 0 || in.Weekday > 6 {
		return nil, ErrInvalidWeekday
	}
	if err := validateHoursWindow(in.OpensAt, in.ClosesAt); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetHoursByDay(ctx, clinicID, in.Weekday, nil)
	if err != nil && !errors.Is(err, ErrHoursNotFound) {
		return nil, fmt.Errorf("check weekday hours: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateWeekday
	}

	created, err := s.repo.InsertHours(ctx, &OperatingHours{
		ID:       uuid.New(),
		ClinicID: clinicID,
		Weekday:  in.Weekday,
		OpensAt:  in.OpensAt,
		ClosesAt: in.ClosesAt,
	})
	if err != nil {
		return nil, fmt.Errorf("create operating hours: %w", err)
	}

	log.Info().Stringer("hours_id", created.ID).Int("weekday", created.Weekday).Msg("operating hours created")
	return created, nil
}

func (s *Service) ListHours(ctx context.Context, clinicID uuid.UUID) ([]OperatingHours, error) {
	if _, err := s.repo.GetClinicByID(ctx, clinicID); err != nil {
		return nil, err
	}
	return s.repo.ListHoursByClinic(ctx, clinicID)
}

func (s *Service) GetHours(ctx context.Context, id uuid.UUID) (*OperatingHours, error) {
	return s.repo.GetHoursByID(ctx, id)
}

// HoursForDay returns the open/close window of a clinic for a clinic
// weekday (0=Sunday). ErrHoursNotFound means the clinic is closed that day.
func (s *Service) HoursForDay(ctx context.Context, clinicID uuid.UUID, weekday int) (*OperatingHours, error) {
	return s.repo.GetHoursByDay(ctx, clinicID, weekday, nil)
}

func (s *Service) UpdateHours(ctx context.Context, id uuid.UUID, in UpdateHoursInput) (*OperatingHours, error) {
	h, err := s.repo.GetHoursByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Weekday != nil && *in.Weekday != h.Weekday {
		if *in.Weekday < 0 || *in.Weekday > 6 {
			return nil, ErrInvalidWeekday
		}
		existing, err := s.repo.GetHoursByDay(ctx, h.ClinicID, *in.Weekday, &id)
		if err != nil && !errors.Is(err, ErrHoursNotFound) {
			return nil, fmt.Errorf("check weekday hours: %w", err)
		}
		if existing != nil {
			return nil, ErrDuplicateWeekday
		}
		h.Weekday = *in.Weekday
	}
	if in.OpensAt != nil {
		h.OpensAt = *in.OpensAt
	}
	if in.ClosesAt != nil {
		h.ClosesAt = *in.ClosesAt
	}
	if err := validateHoursWindow(h.OpensAt, h.ClosesAt); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateHours(ctx, h)
	if err != nil {
		return nil, fmt.Errorf("update operating hours: %w", err)
	}

	log.Info().Stringer("hours_id", id).Msg("operating hours updated")
	return updated, nil
}

func (s *Service) DeleteHours(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetHoursByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.DeleteHours(ctx, id); err != nil {
		return err
	}

	log.Info().Stringer("hours_id", id).Msg("operating hours deleted")
	return nil
}
