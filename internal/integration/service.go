package integration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vetdesk/clinic-scheduling/internal/clinic"
)

var ErrDuplicateServiceType = errors.New("clinic already has an integration of this service type")

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// ClinicSource resolves the clinic an integration belongs to.
// clinic.Service satisfies it.
type ClinicSource interface {
	GetClinic(ctx context.Context, id uuid.UUID) (*clinic.Clinic, error)
}

type Service struct {
	repo    Repository
	clinics ClinicSource
}

func NewService(repo Repository, clinics ClinicSource) *Service {
	return &Service{repo: repo, clinics: clinics}
}

type CreateInput struct {
	ClinicID    uuid.UUID
	ServiceType ServiceType
	Credentials json.RawMessage
	Active      bool
}

// Create registers a new external-channel connection for a clinic. One
// integration per (clinic, service type); the credential payload must
// carry the fields that type needs. Nothing is called on the external
// service itself.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Integration, error) {
	log.Debug().Stringer("clinic_id", in.ClinicID).Str("service_type", string(in.ServiceType)).Msg("creating integration")

	if _, err := s.clinics.GetClinic(ctx, in.ClinicID); err != nil {
		return nil, err
	}

	if !in.ServiceType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedServiceType, in.ServiceType)
	}

	existing, err := s.repo.GetByClinicAndType(ctx, in.ClinicID, in.ServiceType, nil)
	if err != nil && !errors.Is(err, ErrIntegrationNotFound) {
		return nil, fmt.Errorf("check integration uniqueness: %w", err)
	}
	if existing != nil {
		log.Warn().Stringer("clinic_id", in.ClinicID).Str("service_type", string(in.ServiceType)).
			Stringer("existing_id", existing.ID).Msg("duplicate integration")
		return nil, ErrDuplicateServiceType
	}

	if err := validateCredentials(in.ServiceType, in.Credentials); err != nil {
		return nil, err
	}

	created, err := s.repo.Insert(ctx, &Integration{
		ID:          uuid.New(),
		ClinicID:    in.ClinicID,
		ServiceType: in.ServiceType,
		Credentials: in.Credentials,
		Active:      in.Active,
	})
	if err != nil {
		return nil, fmt.Errorf("create integration: %w", err)
	}

	log.Info().Stringer("integration_id", created.ID).Str("service_type", string(created.ServiceType)).Msg("integration created")
	return created, nil
}

func (s *Service) List(ctx context.Context, f ListFilters) ([]Integration, int, error) {
	if f.Limit <= 0 {
		f.Limit = defaultListLimit
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	if f.ServiceType != nil && !f.ServiceType.Valid() {
		return nil, 0, fmt.Errorf("%w: %q", ErrUnsupportedServiceType, *f.ServiceType)
	}

	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("list integrations: %w", err)
	}

	log.Debug().Int("total", total).Msg("integrations listed")
	return items, total, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Integration, error) {
	return s.repo.GetByID(ctx, id)
}

// GetActiveByType resolves the clinic's active integration of one service
// type, for callers about to hand off to that channel. Inactive rows are
// reported as not found.
func (s *Service) GetActiveByType(ctx context.Context, clinicID uuid.UUID, serviceType ServiceType) (*Integration, error) {
	i, err := s.repo.GetByClinicAndType(ctx, clinicID, serviceType, nil)
	if err != nil {
		return nil, err
	}
	if !i.Active {
		return nil, ErrIntegrationNotFound
	}
	return i, nil
}

type UpdateInput struct {
	ServiceType *ServiceType
	Credentials json.RawMessage
	Active      *bool
}

// Update applies a partial update. A service-type change re-checks the
// per-clinic uniqueness; new credentials are validated against the type
// effective after the update.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Integration, error) {
	i, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.ServiceType != nil && *in.ServiceType != i.ServiceType {
		if !in.ServiceType.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedServiceType, *in.ServiceType)
		}
		existing, err := s.repo.GetByClinicAndType(ctx, i.ClinicID, *in.ServiceType, &id)
		if err != nil && !errors.Is(err, ErrIntegrationNotFound) {
			return nil, fmt.Errorf("check integration uniqueness: %w", err)
		}
		if existing != nil {
			return nil, ErrDuplicateServiceType
		}
		i.ServiceType = *in.ServiceType
	}

	if in.Credentials != nil {
		if err := validateCredentials(i.ServiceType, in.Credentials); err != nil {
			return nil, err
		}
		i.Credentials = in.Credentials
	}
	if in.Active != nil {
		i.Active = *in.Active
	}

	updated, err := s.repo.Update(ctx, i)
	if err != nil {
		return nil, fmt.Errorf("update integration: %w", err)
	}

	log.Info().Stringer("integration_id", id).Msg("integration updated")
	return updated, nil
}

// SetActive toggles the integration on or off without touching its
// credentials.
func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) (*Integration, error) {
	i, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	i.Active = active

	updated, err := s.repo.Update(ctx, i)
	if err != nil {
		return nil, fmt.Errorf("toggle integration: %w", err)
	}

	log.Info().Stringer("integration_id", id).Bool("active", active).Msg("integration toggled")
	return updated, nil
}

// Delete removes the integration row for good.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().Stringer("integration_id", id).Msg("integration deleted")
	return nil
}
