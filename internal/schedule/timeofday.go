package schedule

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidTimeOfDay = errors.New("time of day must be HH:MM between 00:00 and 23:59")

// TimeOfDay is a wall-clock time as minutes since midnight. Operating
// hours are stored as zero-padded "HH:MM" strings; comparing parsed
// minutes keeps the containment check correct regardless of formatting.
type TimeOfDay int

// ParseTimeOfDay parses a zero-padded 24-hour "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}

	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}

	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

// ClockOf truncates a timestamp to minute-precision wall time.
func ClockOf(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}
