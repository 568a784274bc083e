package improvements

import (
	"errors"
	"testing"
	"time"
)

func TestResolveLocation(t *testing.T) {
	loc, err := ResolveLocation("")
	if err != nil || loc != time.UTC {
		t.Fatalf("empty zone: loc=%v err=%v", loc, err)
	}
	loc, err = ResolveLocation("Europe/Moscow")
	if err != nil {
		t.Fatalf("Europe/Moscow: %v", err)
	}
	if loc.String() != "Europe/Moscow" {
		t.Fatalf("unexpected location %q", loc)
	}

	for _, name := range []string{"Mars/Olympus", "Local", "../etc/passwd", "UTC+3"} {
		if _, err := ResolveLocation(name); !errors.Is(err, ErrInvalidTimezone) {
			t.Fatalf("%q: expected ErrInvalidTimezone, got %v", name, err)
		}
	}
}

func TestInZoneConvertsFromUTC(t *testing.T) {
	loc, err := ResolveLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("ResolveLocation: %v", err)
	}
	stored := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)

	got := InZone(stored, loc)
	if got.Hour() != 21 || !got.Equal(stored) {
		t.Fatalf("expected 21:00 JST for the same instant, got %v", got)
	}
	if _, offset := got.Zone(); offset != 9*3600 {
		t.Fatalf("expected +09:00 offset, got %d", offset)
	}
}

func TestInZoneTreatsWallClockAsUTC(t *testing.T) {
	naive := time.Date(2026, time.June, 1, 8, 30, 0, 0, time.FixedZone("X", 5*3600))
	got := InZone(naive, time.UTC)
	want := time.Date(2026, time.June, 1, 8, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
