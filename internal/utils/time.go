package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
)

// DayKey returns the local calendar date of t as a YYYY-MM-DD string.
// Keys sort lexically in date order.
func DayKey(t time.Time) string {
	return t.In(time.Local).Format(constants.DateFormat)
}

// Today returns the day key for the current local date.
func Today() string {
	return DayKey(time.Now())
}

// StepDay shifts t by delta whole calendar days, keeping its wall-clock time.
func StepDay(t time.Time, delta int) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day()+delta, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.Local)
}

// Noon returns 12:00 local time on t's calendar day. Walking days from noon
// keeps daylight-saving transitions from skipping or repeating a date.
func Noon(t time.Time) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.Local)
}

// ParseDayKey parses a YYYY-MM-DD key and returns noon of that local day.
func ParseDayKey(key string) (time.Time, error) {
	t, err := ParseDateInLocation(key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", key, err)
	}
	return Noon(t), nil
}

// IsDayKey checks whether key is a well-formed YYYY-MM-DD date.
func IsDayKey(key string) bool {
	_, err := time.Parse(constants.DateFormat, key)
	return err == nil
}

// ParseDateInLocation parses a date string (YYYY-MM-DD) in the specified timezone.
func ParseDateInLocation(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, err
	}
	// Return the date at midnight in the specified timezone
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// StartOfWeek returns noon on the most recent weekStart day on or before t.
func StartOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	t = Noon(t)
	offset := (int(t.Weekday()) - int(weekStart) + 7) % 7
	return StepDay(t, -offset)
}

// StartOfMonth returns noon on the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), 1, 12, 0, 0, 0, time.Local)
}

// DaysInMonth returns the number of days in t's month.
func DaysInMonth(t time.Time) int {
	t = t.In(time.Local)
	// Day 0 of the next month normalizes to the last day of this one
	return time.Date(t.Year(), t.Month()+1, 0, 12, 0, 0, 0, time.Local).Day()
}

// ParseWeekday parses a weekday name ("mon", "Monday") or number (0=Sunday).
func ParseWeekday(s string) (time.Weekday, error) {
	dayMap := map[string]time.Weekday{
		"sun":       time.Sunday,
		"sunday":    time.Sunday,
		"mon":       time.Monday,
		"monday":    time.Monday,
		"tue":       time.Tuesday,
		"tuesday":   time.Tuesday,
		"wed":       time.Wednesday,
		"wednesday": time.Wednesday,
		"thu":       time.Thursday,
		"thursday":  time.Thursday,
		"fri":       time.Friday,
		"friday":    time.Friday,
		"sat":       time.Saturday,
		"saturday":  time.Saturday,
	}

	part := strings.TrimSpace(strings.ToLower(s))
	if wd, ok := dayMap[part]; ok {
		return wd, nil
	}
	// Try parsing as number (0=Sunday, 6=Saturday)
	num, err := strconv.Atoi(part)
	if err == nil && num >= 0 && num <= 6 {
		return time.Weekday(num), nil
	}
	return 0, fmt.Errorf("invalid weekday: %s", s)
}
