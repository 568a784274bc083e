package improvements

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

// ResolveLocation maps a time_zone parameter to a location. Empty means UTC; names are
// IANA identifiers. "Local" is rejected since it depends on the host.
func ResolveLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.UTC, nil
	}
	if name == "Local" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
	}
	return loc, nil
}

// InZone interprets t's wall clock as UTC and renders the same instant in loc.
func InZone(t time.Time, loc *time.Location) time.Time {
	utc := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	if loc == nil {
		return utc
	}
	return utc.In(loc)
}
