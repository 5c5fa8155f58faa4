package schedule

import "time"

// Clinic operating hours are keyed by a Sunday-based weekday
// (0=Sunday, 1=Monday, ..., 6=Saturday). Upstream booking channels speak
// the ISO convention (0=Monday, ..., 6=Sunday), so both mappings live here.

// ClinicDayFromISO converts an ISO weekday (0=Monday) into the clinic
// numbering (0=Sunday).
func ClinicDayFromISO(isoDay int) int {
	return (isoDay + 1) % 7
}

// ISODay returns the ISO weekday (0=Monday) for a timestamp.
func ISODay(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// ClinicWeekday returns the clinic weekday (0=Sunday) for a timestamp.
func ClinicWeekday(t time.Time) int {
	return ClinicDayFromISO(ISODay(t))
}
