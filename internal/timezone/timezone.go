package timezone

import "time"

const DefaultTimezone = "UTC"

const (
	DateLayout     = "2006-01-02"
	ClockLayout    = "15:04"
	DateTimeLayout = "2006-01-02 15:04"
)

var fallback = DefaultTimezone

// SetDefault changes the zone used when a property carries no valid timezone.
func SetDefault(tz string) {
	if IsValid(tz) {
		fallback = tz
	}
}

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(fallback)
	if err != nil {
		return time.UTC
	}
	return loc
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// ParseDate parses YYYY-MM-DD as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

// ParseDateTime joins a YYYY-MM-DD date and an HH:MM clock in loc.
func ParseDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateTimeLayout, date+" "+clock, loc)
}

// ClockMinutes converts HH:MM into minutes since midnight.
func ClockMinutes(clock string) (int, error) {
	t, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// MinutesToClock formats minutes since midnight as HH:MM. Values past
// midnight wrap around.
func MinutesToClock(m int) string {
	m = ((m % (24 * 60)) + 24*60) % (24 * 60)
	return time.Date(0, 1, 1, m/60, m%60, 0, 0, time.UTC).Format(ClockLayout)
}
