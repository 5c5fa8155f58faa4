package schedule_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetdesk/clinic-scheduling/internal/schedule"
)

// fakeHours serves the same window for every weekday in openDays.
type fakeHours struct {
	openDays map[int]schedule.DayHours
}

func (f fakeHours) DayHours(_ context.Context, _ uuid.UUID, clinicWeekday int) (schedule.DayHours, error) {
	h, ok := f.openDays[clinicWeekday]
	if !ok {
		return schedule.DayHours{}, schedule.ErrClosedDay
	}
	return h, nil
}

type fakeConflicts struct {
	ids        []uuid.UUID
	gotExclude *uuid.UUID
}

func (f *fakeConflicts) Overlapping(_ context.Context, _ uuid.UUID, _, _ time.Time, excludeID *uuid.UUID) ([]uuid.UUID, error) {
	f.gotExclude = excludeID
	return f.ids, nil
}

func mustTOD(t *testing.T, s string) schedule.TimeOfDay {
	t.Helper()
	tod, err := schedule.ParseTimeOfDay(s)
	require.NoError(t, err)
	return tod
}

// weekOpenHours is open Monday through Saturday 08:00-18:00, closed Sunday.
func weekOpenHours(t *testing.T) fakeHours {
	t.Helper()
	open := schedule.DayHours{Opens: mustTOD(t, "08:00"), Closes: mustTOD(t, "18:00")}
	return fakeHours{openDays: map[int]schedule.DayHours{
		1: open, 2: open, 3: open, 4: open, 5: open, 6: open,
	}}
}

// monday is a Monday, clinic weekday 1.
var monday = time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC)

func at(base time.Time, hour, min int) time.Time {
	return time.Date(base.Year(), base.Month(), base.Day(), hour, min, 0, 0, base.Location())
}

func TestValidateAcceptsWindowInsideHours(t *testing.T) {
	v := schedule.NewValidator(weekOpenHours(t), &fakeConflicts{})

	err := v.Validate(context.Background(), uuid.New(), uuid.New(), at(monday, 10, 0), at(monday, 10, 30), nil)
	assert.NoError(t, err)
}

func TestValidateRejectsInvalidWindow(t *testing.T) {
	v := schedule.NewValidator(weekOpenHours(t), &fakeConflicts{})
	ctx := context.Background()

	err := v.Validate(ctx, uuid.New(), uuid.New(), at(monday, 11, 0), at(monday, 10, 0), nil)
	assert.ErrorIs(t, err, schedule.ErrInvalidWindow)

	// Zero-length windows are invalid too.
	err = v.Validate(ctx, uuid.New(), uuid.New(), at(monday, 10, 0), at(monday, 10, 0), nil)
	assert.ErrorIs(t, err, schedule.ErrInvalidWindow)
}

func TestValidateRejectsCrossDayWindow(t *testing.T) {
	v := schedule.NewValidator(weekOpenHours(t), &fakeConflicts{})

	err := v.Validate(context.Background(), uuid.New(), uuid.New(),
		at(monday, 23, 30), at(monday.AddDate(0, 0, 1), 0, 30), nil)
	assert.ErrorIs(t, err, schedule.ErrCrossDayWindow)
}

func TestValidateRejectsClosedDay(t *testing.T) {
	v := schedule.NewValidator(weekOpenHours(t), &fakeConflicts{})

	sunday := monday.AddDate(0, 0, -1)
	err := v.Validate(context.Background(), uuid.New(), uuid.New(), at(sunday, 10, 0), at(sunday, 10, 30), nil)
	assert.ErrorIs(t, err, schedule.ErrClosedDay)
}

func TestValidateHoursContainment(t *testing.T) {
	cases := []struct {
		name    string
		startH  int
		startM  int
		endH    int
		endM    int
		outside bool
	}{
		{"exactly at opening", 8, 0, 8, 30, false},
		{"one minute before opening", 7, 59, 8, 29, true},
		{"ends exactly at closing", 17, 0, 18, 0, false},
		{"runs past closing", 17, 45, 18, 15, true},
		{"fully before opening", 6, 0, 7, 0, true},
		{"fully after closing", 19, 0, 20, 0, true},
	}

	v := schedule.NewValidator(weekOpenHours(t), &fakeConflicts{})
	ctx := context.Background()

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate(ctx, uuid.New(), uuid.New(),
				at(monday, tc.startH, tc.startM), at(monday, tc.endH, tc.endM), nil)
			if tc.outside {
				assert.ErrorIs(t, err, schedule.ErrOutsideHours)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateOutsideHoursReportsBounds(t *testing.T) {
	v := schedule.NewValidator(weekOpenHours(t), &fakeConflicts{})

	err := v.Validate(context.Background(), uuid.New(), uuid.New(), at(monday, 6, 0), at(monday, 7, 0), nil)
	require.ErrorIs(t, err, schedule.ErrOutsideHours)

	var oh *schedule.OutsideHoursError
	require.ErrorAs(t, err, &oh)
	assert.Equal(t, "08:00", oh.Opens.String())
	assert.Equal(t, "18:00", oh.Closes.String())
}

func TestValidateReportsConflictingAppointment(t *testing.T) {
	conflictID := uuid.New()
	v := schedule.NewValidator(weekOpenHours(t), &fakeConflicts{ids: []uuid.UUID{conflictID}})

	err := v.Validate(context.Background(), uuid.New(), uuid.New(), at(monday, 10, 0), at(monday, 10, 30), nil)
	require.ErrorIs(t, err, schedule.ErrSlotConflict)

	var ce *schedule.ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, conflictID, ce.ConflictingID)
}

func TestValidatePassesExcludeIDToConflictScan(t *testing.T) {
	conflicts := &fakeConflicts{}
	v := schedule.NewValidator(weekOpenHours(t), conflicts)

	own := uuid.New()
	err := v.Validate(context.Background(), uuid.New(), uuid.New(), at(monday, 10, 0), at(monday, 10, 30), &own)
	require.NoError(t, err)
	require.NotNil(t, conflicts.gotExclude)
	assert.Equal(t, own, *conflicts.gotExclude)
}

// The window shape checks run before any lookup, so a closed day never
// masks a malformed window, and hours run before the conflict scan.
func TestValidateCheckOrder(t *testing.T) {
	ctx := context.Background()
	conflicts := &fakeConflicts{ids: []uuid.UUID{uuid.New()}}
	v := schedule.NewValidator(weekOpenHours(t), conflicts)

	sunday := monday.AddDate(0, 0, -1)
	err := v.Validate(ctx, uuid.New(), uuid.New(), at(sunday, 11, 0), at(sunday, 10, 0), nil)
	assert.ErrorIs(t, err, schedule.ErrInvalidWindow)

	err = v.Validate(ctx, uuid.New(), uuid.New(), at(monday, 6, 0), at(monday, 7, 0), nil)
	assert.ErrorIs(t, err, schedule.ErrOutsideHours)
	assert.NotErrorIs(t, err, schedule.ErrSlotConflict)
}
