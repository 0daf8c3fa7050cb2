package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// FormatDate returns t as YYYY-MM-DD using its local calendar fields.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a strict YYYY-MM-DD calendar date at midnight in loc.
// Out of range values such as 2023-02-30 are rejected.
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(date), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}

// PreviousDay returns the calendar date before date.
func PreviousDay(date string) (string, error) {
	return shiftDay(date, -1)
}

// NextDay returns the calendar date after date.
func NextDay(date string) (string, error) {
	return shiftDay(date, 1)
}

func shiftDay(date string, days int) (string, error) {
	// UTC keeps daylight saving transitions out of the arithmetic.
	t, err := ParseDate(date, time.UTC)
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, days)), nil
}

// Today returns the current calendar date in loc.
func Today(loc *time.Location, now time.Time) string {
	if loc != nil {
		now = now.In(loc)
	}
	return FormatDate(now)
}

// ClockMinutes converts HH:MM (optionally HH:MM:SS) into minutes since midnight.
func ClockMinutes(clock string) (int, error) {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time %q", clock)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("invalid hour in %q", clock)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid minute in %q", clock)
	}
	return hours*60 + minutes, nil
}

// FormatClock renders minutes since midnight as HH:MM.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
