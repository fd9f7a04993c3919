package utils

import (
	"fmt"
	"time"

	"github.com/BolkaZ/Tracker/internal/constants"
	"github.com/BolkaZ/Tracker/internal/models"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// AddDays moves a day-normalized time by n calendar days. It uses the calendar
// rather than 24h arithmetic so DST transitions don't shift the boundary.
func AddDays(day time.Time, n int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day()+n, 0, 0, 0, 0, day.Location())
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return StartOfDay(a, loc).Equal(StartOfDay(b, loc))
}

// FormatDay renders t's calendar day in loc as YYYY-MM-DD.
func FormatDay(t time.Time, loc *time.Location) string {
	return StartOfDay(t, loc).Format(constants.DateFormat)
}

// ParseDay parses a date string (YYYY-MM-DD) as midnight in loc.
func ParseDay(dateStr string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(constants.DateFormat, dateStr, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", dateStr)
	}
	return t, nil
}

// PlatformWeekday numbers t's weekday Sunday=1 ... Saturday=7.
func PlatformWeekday(t time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.Local
	}
	return int(t.In(loc).Weekday()) + 1
}

// ISOWeekday converts a Sunday=1..Saturday=7 weekday to Monday=1..Sunday=7.
// It reports false for inputs outside 1..7.
func ISOWeekday(platformWeekday int) (models.Weekday, bool) {
	if platformWeekday < 1 || platformWeekday > 7 {
		return 0, false
	}
	return models.Weekday(((platformWeekday + 5) % 7) + 1), true
}

// WeekdayOf resolves the ISO weekday of t in loc.
func WeekdayOf(t time.Time, loc *time.Location) (models.Weekday, bool) {
	return ISOWeekday(PlatformWeekday(t, loc))
}
