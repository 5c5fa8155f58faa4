package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidWindow  = errors.New("end time must be after start time")
	ErrCrossDayWindow = errors.New("appointment must start and end on the same day")
	ErrClosedDay      = errors.New("clinic has no operating hours for this day")
	ErrOutsideHours   = errors.New("time window is outside clinic operating hours")
	ErrSlotConflict   = errors.New("time window conflicts with an existing appointment")
)

// OutsideHoursError reports the day's bounds so the caller can pick a
// valid window without a follow-up query.
type OutsideHoursError struct {
	Opens  TimeOfDay
	Closes TimeOfDay
}

func (e *OutsideHoursError) Error() string {
	return fmt.Sprintf("time window is outside clinic operating hours (%s to %s)", e.Opens, e.Closes)
}

func (e *OutsideHoursError) Unwrap() error { return ErrOutsideHours }

// ConflictError names one conflicting appointment. When several overlap,
// any one of them may be reported.
type ConflictError struct {
	ConflictingID uuid.UUID
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("time window conflicts with appointment %s", e.ConflictingID)
}

func (e *ConflictError) Unwrap() error { return ErrSlotConflict }

// DayHours is the open/close window for one clinic weekday.
type DayHours struct {
	Opens  TimeOfDay
	Closes TimeOfDay
}

// HoursSource resolves the operating hours of a clinic for a clinic
// weekday (0=Sunday). Returns ErrClosedDay when the clinic has no hours
// configured for that day.
type HoursSource interface {
	DayHours(ctx context.Context, clinicID uuid.UUID, clinicWeekday int) (DayHours, error)
}

// ConflictSource reports non-cancelled appointments of a practitioner
// overlapping [start, end). excludeID skips one appointment, so an
// update does not conflict with its own stored window.
type ConflictSource interface {
	Overlapping(ctx context.Context, vetID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]uuid.UUID, error)
}

// Validator is the availability gate run before an appointment is created
// or rescheduled. It only reads; persistence stays with the caller.
type Validator struct {
	hours     HoursSource
	conflicts ConflictSource
}

func NewValidator(hours HoursSource, conflicts ConflictSource) *Validator {
	return &Validator{
		hours:     hours,
		conflicts: conflicts,
	}
}

// Validate accepts or rejects a candidate window. Checks run in a fixed
// order and the first failure wins:
//
//  1. end must be after start
//  2. start and end must fall on the same calendar day
//  3. the clinic must be open on that weekday
//  4. the window must sit fully inside the day's open/close bounds
//  5. the practitioner must have no overlapping active appointment
//
// The window is half-open: an appointment ending exactly when another
// starts does not conflict.
func (v *Validator) Validate(ctx context.Context, clinicID, vetID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) error {
	if !end.After(start) {
		return ErrInvalidWindow
	}

	y1, m1, d1 := start.Date()
	y2, m2, d2 := end.Date()
	if y1 != y2 || m1 != m2 || d1 != d2 {
		return ErrCrossDayWindow
	}

	hours, err := v.hours.DayHours(ctx, clinicID, ClinicWeekday(start))
	if err != nil {
		if errors.Is(err, ErrClosedDay) {
			return ErrClosedDay
		}
		return fmt.Errorf("load operating hours: %w", err)
	}

	if ClockOf(start) < hours.Opens || ClockOf(end) > hours.Closes {
		return &OutsideHoursError{Opens: hours.Opens, Closes: hours.Closes}
	}

	conflicting, err := v.conflicts.Overlapping(ctx, vetID, start, end, excludeID)
	if err != nil {
		return fmt.Errorf("scan for conflicts: %w", err)
	}
	if len(conflicting) > 0 {
		return &ConflictError{ConflictingID: conflicting[0]}
	}

	return nil
}
