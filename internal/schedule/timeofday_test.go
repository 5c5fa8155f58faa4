package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetdesk/clinic-scheduling/internal/schedule"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in   string
		want schedule.TimeOfDay
	}{
		{"00:00", 0},
		{"08:00", 8 * 60},
		{"09:30", 9*60 + 30},
		{"18:00", 18 * 60},
		{"23:59", 23*60 + 59},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := schedule.ParseTimeOfDay(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.in, got.String())
		})
	}
}

func TestParseTimeOfDayRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "8:00", "08:0", "0800", "24:00", "12:60", "ab:cd", "08:00:00"} {
		t.Run(in, func(t *testing.T) {
			_, err := schedule.ParseTimeOfDay(in)
			assert.ErrorIs(t, err, schedule.ErrInvalidTimeOfDay)
		})
	}
}

func TestTimeOfDayOrdering(t *testing.T) {
	opens, err := schedule.ParseTimeOfDay("09:00")
	require.NoError(t, err)
	closes, err := schedule.ParseTimeOfDay("17:00")
	require.NoError(t, err)

	assert.True(t, opens < closes)

	noon := schedule.ClockOf(time.Date(2024, 3, 18, 12, 0, 0, 0, time.UTC))
	assert.True(t, opens < noon && noon < closes)
}
