package models

import (
	"fmt"
	"time"
)

// DayLayout is the calendar-date format used throughout the service.
const DayLayout = "2006-01-02"

// ClockLayout is the time-of-day format accepted at the API boundary.
const ClockLayout = "15:04:05"

// ParseClock converts an "HH:MM:SS" clock string to seconds from midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return t.Hour()*3600 + t.Minute()*60 + t.Second(), nil
}

// FormatClock converts seconds from midnight back to an "HH:MM:SS" string.
func FormatClock(sec int) string {
	return fmt.Sprintf("%02d:%02d:%02d", sec/3600, (sec/60)%60, sec%60)
}

// ParseDay validates a "YYYY-MM-DD" calendar date and returns it normalized.
func ParseDay(s string) (string, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid day %q: %w", s, err)
	}
	return t.Format(DayLayout), nil
}
