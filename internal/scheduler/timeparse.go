package scheduler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrUnresolvableTime wraps the raw string that could not be parsed.
type ErrUnresolvableTime struct {
	Raw string
}

func (e *ErrUnresolvableTime) Error() string {
	return fmt.Sprintf("scheduler: cannot resolve time %q", e.Raw)
}

var (
	relativePattern  = regexp.MustCompile(`^in\s+(\d+)\s+(minute|minutes|hour|hours|day|days)$`)
	dayAtPattern     = regexp.MustCompile(`^(today|tomorrow)(?:\s+at\s+(.+))?$`)
	weekdayPattern   = regexp.MustCompile(`^(?:next\s+)?(monday|tuesday|wednesday|thursday|friday|saturday|sunday)(?:\s+at\s+(.+))?$`)
	clockPatterns    = []string{"3:04 PM", "3:04PM", "15:04", "3 PM", "3PM"}
	absoluteLayouts  = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"}
	defaultClockHour = 10 // used when a day is named without a time
)

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday,
	"friday": time.Friday, "saturday": time.Saturday,
}

// ResolveTime turns a natural-language or absolute time expression into
// a concrete time relative to now. Supported forms:
//
//	"tomorrow at 10:00 AM", "today at 3pm", "tomorrow"
//	"in 2 hours", "in 30 minutes", "in 3 days"
//	"next monday", "friday at 14:00"
//	RFC3339 and "2006-01-02 15:04" absolutes
//
// Anything else returns *ErrUnresolvableTime.
func ResolveTime(raw string, now time.Time) (time.Time, error) {
	expr := strings.ToLower(strings.TrimSpace(raw))
	if expr == "" {
		return time.Time{}, &ErrUnresolvableTime{Raw: raw}
	}

	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(raw)); err == nil {
			return t, nil
		}
	}

	if m := relativePattern.FindStringSubmatch(expr); m != nil {
		n, _ := strconv.Atoi(m[1])
		switch strings.TrimSuffix(m[2], "s") {
		case "minute":
			return now.Add(time.Duration(n) * time.Minute), nil
		case "hour":
			return now.Add(time.Duration(n) * time.Hour), nil
		case "day":
			return now.AddDate(0, 0, n), nil
		}
	}

	if m := dayAtPattern.FindStringSubmatch(expr); m != nil {
		day := now
		if m[1] == "tomorrow" {
			day = now.AddDate(0, 0, 1)
		}
		return atClock(day, m[2])
	}

	if m := weekdayPattern.FindStringSubmatch(expr); m != nil {
		target := weekdays[m[1]]
		day := now.AddDate(0, 0, daysUntil(now.Weekday(), target))
		return atClock(day, m[2])
	}

	return time.Time{}, &ErrUnresolvableTime{Raw: raw}
}

// atClock pins day to the given clock expression, or to the default
// hour when none was given.
func atClock(day time.Time, clock string) (time.Time, error) {
	if strings.TrimSpace(clock) == "" {
		return time.Date(day.Year(), day.Month(), day.Day(), defaultClockHour, 0, 0, 0, day.Location()), nil
	}
	normalized := strings.ToUpper(strings.TrimSpace(clock))
	for _, layout := range clockPatterns {
		if t, err := time.Parse(layout, normalized); err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
		}
	}
	return time.Time{}, &ErrUnresolvableTime{Raw: clock}
}

// daysUntil returns the number of days from one weekday to the next
// occurrence of another, always at least 1.
func daysUntil(from, to time.Weekday) int {
	delta := (int(to) - int(from) + 7) % 7
	if delta == 0 {
		delta = 7
	}
	return delta
}
