package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vetdesk/clinic-scheduling/internal/clinic"
	redisclient "github.com/vetdesk/clinic-scheduling/internal/redis"
	"github.com/vetdesk/clinic-scheduling/internal/schedule"
)

var (
	ErrInvalidStatus    = errors.New("unknown appointment status")
	ErrPractitionerBusy = errors.New("practitioner is currently being booked, please retry")
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// Directory resolves the external collaborators of the scheduling core:
// clinic and practitioner existence plus weekday operating hours.
type Directory interface {
	GetActiveClinic(ctx context.Context, id uuid.UUID) (*clinic.Clinic, error)
	GetActiveVet(ctx context.Context, id uuid.UUID) (*clinic.Vet, error)
	HoursForDay(ctx context.Context, clinicID uuid.UUID, weekday int) (*clinic.OperatingHours, error)
}

// directoryHours adapts Directory to the validator's hours contract.
type directoryHours struct {
	dir Directory
}

func (d directoryHours) DayHours(ctx context.Context, clinicID uuid.UUID, clinicWeekday int) (schedule.DayHours, error) {
	h, err := d.dir.HoursForDay(ctx, clinicID, clinicWeekday)
	if err != nil {
		if errors.Is(err, clinic.ErrHoursNotFound) {
			return schedule.DayHours{}, schedule.ErrClosedDay
		}
		return schedule.DayHours{}, err
	}

	opens, err := schedule.ParseTimeOfDay(h.OpensAt)
	if err != nil {
		return schedule.DayHours{}, fmt.Errorf("stored opening time: %w", err)
	}
	closes, err := schedule.ParseTimeOfDay(h.ClosesAt)
	if err != nil {
		return schedule.DayHours{}, fmt.Errorf("stored closing time: %w", err)
	}

	return schedule.DayHours{Opens: opens, Closes: closes}, nil
}

// repoConflicts adapts the repository to the validator's conflict contract.
type repoConflicts struct {
	repo Repository
}

func (r repoConflicts) Overlapping(ctx context.Context, vetID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]uuid.UUID, error) {
	overlapping, err := r.repo.FindOverlapping(ctx, vetID, start, end, excludeID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(overlapping))
	for _, a := range overlapping {
		ids = append(ids, a.ID)
	}
	return ids, nil
}

type Service struct {
	repo      Repository
	directory Directory
	validator *schedule.Validator
	locker    redisclient.Locker
}

func NewService(repo Repository, dir Directory, locker redisclient.Locker) *Service {
	return &Service{
		repo:      repo,
		directory: dir,
		validator: schedule.NewValidator(directoryHours{dir: dir}, repoConflicts{repo: repo}),
		locker:    locker,
	}
}

type CreateInput struct {
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
}

// Create books a new appointment. The candidate window passes the full
// availability gate before anything is written, and the validate-then-
// insert sequence runs under a per-practitioner lock so concurrent
// bookings for the same practitioner cannot both pass the conflict scan.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Detail, error) {
	log.Debug().Stringer("vet_id", in.VetID).Time("start", in.StartTime).Msg("creating appointment")

	cl, err := s.directory.GetActiveClinic(ctx, in.ClinicID)
	if err != nil {
		return nil, err
	}

	vt, err := s.directory.GetActiveVet(ctx, in.VetID)
	if err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = StatusScheduled
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	var created *Appointment

	err = s.locker.WithPractitionerLock(ctx, in.VetID, func(lockCtx context.Context) error {
		if err := s.validator.Validate(lockCtx, in.ClinicID, in.VetID, in.StartTime, in.EndTime, nil); err != nil {
			return err
		}

		appt, err := s.repo.Insert(lockCtx, &Appointment{
			ID:              uuid.New(),
			ClinicID:        in.ClinicID,
			VetID:           in.VetID,
			ClientName:      in.ClientName,
			ClientPhone:     in.ClientPhone,
			PetName:         in.PetName,
			StartTime:       in.StartTime,
			EndTime:         in.EndTime,
			Status:          status,
			Origin:          in.Origin,
			ExternalEventID: in.ExternalEventID,
		})
		if err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}

		created = appt
		return nil
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrPractitionerBusy
		}
		return nil, err
	}

	log.Info().Stringer("appointment_id", created.ID).Stringer("vet_id", created.VetID).Msg("appointment created")

	return &Detail{
		Appointment: *created,
		ClinicName:  cl.Name,
		VetName:     vt.Name,
	}, nil
}

// List returns appointments matching the filters, newest start first,
// plus the total count independent of the page bounds.
func (s *Service) List(ctx context.Context, f ListFilters) ([]Appointment, int, error) {
	if f.Limit <= 0 {
		f.Limit = defaultListLimit
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	if f.Status != nil && !f.Status.Valid() {
		return nil, 0, ErrInvalidStatus
	}

	appts, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("list appointments: %w", err)
	}

	log.Debug().Int("total", total).Msg("appointments listed")
	return appts, total, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

type UpdateInput struct {
	VetID           *uuid.UUID
	ClientName      *string
	ClientPhone     *string
	PetName         *string
	StartTime       *time.Time
	EndTime         *time.Time
	Status          *Status
	Origin          *string
	ExternalEventID *string
}

// Update applies a partial update. Nil fields are left untouched. When
// the time window or practitioner changes, the whole availability gate
// runs again against the practitioner effective after the update, with
// the appointment's own id excluded from the conflict scan.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Appointment, error) {
	log.Debug().Stringer("appointment_id", id).Msg("updating appointment")

	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	effVet := appt.VetID
	if in.VetID != nil && *in.VetID != appt.VetID {
		if _, err := s.directory.GetActiveVet(ctx, *in.VetID); err != nil {
			return nil, err
		}
		effVet = *in.VetID
	}

	effStart := appt.StartTime
	if in.StartTime != nil {
		effStart = *in.StartTime
	}
	effEnd := appt.EndTime
	if in.EndTime != nil {
		effEnd = *in.EndTime
	}

	if in.Status != nil && !in.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	apply := func() {
		appt.VetID = effVet
		appt.StartTime = effStart
		appt.EndTime = effEnd
		if in.ClientName != nil {
			appt.ClientName = *in.ClientName
		}
		if in.ClientPhone != nil {
			appt.ClientPhone = in.ClientPhone
		}
		if in.PetName != nil {
			appt.PetName = *in.PetName
		}
		if in.Status != nil {
			appt.Status = *in.Status
		}
		if in.Origin != nil {
			appt.Origin = *in.Origin
		}
		if in.ExternalEventID != nil {
			appt.ExternalEventID = in.ExternalEventID
		}
	}

	needsValidation := in.StartTime != nil || in.EndTime != nil || effVet != appt.VetID

	var updated *Appointment

	if needsValidation {
		err = s.locker.WithPractitionerLock(ctx, effVet, func(lockCtx context.Context) error {
			if err := s.validator.Validate(lockCtx, appt.ClinicID, effVet, effStart, effEnd, &id); err != nil {
				return err
			}

			apply()

			updated, err = s.repo.Update(lockCtx, appt)
			if err != nil {
				return fmt.Errorf("update appointment: %w", err)
			}
			return nil
		})
		if err != nil {
			if errors.Is(err, redisclient.ErrLockNotAcquired) {
				return nil, ErrPractitionerBusy
			}
			return nil, err
		}
	} else {
		apply()

		updated, err = s.repo.Update(ctx, appt)
		if err != nil {
			return nil, fmt.Errorf("update appointment: %w", err)
		}
	}

	log.Info().Stringer("appointment_id", id).Msg("appointment updated")
	return updated, nil
}

// Cancel sets the status to cancelled. It is idempotent and never blocked:
// cancelling a past or completed appointment is allowed.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	appt.Status = StatusCancelled

	updated, err := s.repo.Update(ctx, appt)
	if err != nil {
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}

	log.Info().Stringer("appointment_id", id).Msg("appointment cancelled")
	return updated, nil
}

// Delete removes the appointment row. Administrative data correction
// only; regular callers cancel instead.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	log.Warn().Stringer("appointment_id", id).Msg("appointment physically deleted")
	return nil
}

// Availability projects the occupied windows of a practitioner on one
// calendar day. Read-only; no validation runs.
func (s *Service) Availability(ctx context.Context, vetID uuid.UUID, day time.Time) (*DayAvailability, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	appts, err := s.repo.ListForVetDay(ctx, vetID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("list day appointments: %w", err)
	}

	booked := make([]BookedWindow, 0, len(appts))
	for _, a := range appts {
		booked = append(booked, BookedWindow{
			StartTime: a.StartTime,
			EndTime:   a.EndTime,
			Status:    a.Status,
		})
	}

	return &DayAvailability{
		VetID:  vetID,
		Date:   dayStart.Format("2006-01-02"),
		Total:  len(booked),
		Booked: booked,
	}, nil
}
