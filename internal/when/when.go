// Package when resolves the human-friendly temporal expressions used in tag
// parameters into concrete timestamps. Every resolution takes the reference
// instant as an argument; the package never reads the clock itself.
package when

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultDuration is used when a calendar tag omits the duration field.
const DefaultDuration = 60 * time.Minute

// Floor is the epoch lower bound that the since-keywords "all" and "*"
// resolve to.
var Floor = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.Local)

var (
	relativeRe = regexp.MustCompile(`^\+(\d+)([mhd])$`)
	todayRe    = regexp.MustCompile(`^(?i)today\s+(\d{1,2}):(\d{2})$`)
	tomorrowRe = regexp.MustCompile(`^(?i)tomorrow\s+(\d{1,2}):(\d{2})$`)
	minutesRe  = regexp.MustCompile(`^(\d+)m$`)
	hoursRe    = regexp.MustCompile(`^(\d+)h$`)
)

// ParseAt resolves an "at" expression against now. Recognized forms, in
// priority order:
//
//	+<n>m | +<n>h | +<n>d      relative offset
//	today HH:MM                today at that time, seconds zeroed
//	tomorrow HH:MM             now+1d at that time, seconds zeroed
//	YYYY-MM-DD HH:MM[:SS]      absolute, 24h
//
// All values are naive local time; hours run 0-23.
func ParseAt(expr string, now time.Time) (time.Time, error) {
	expr = strings.TrimSpace(expr)

	if m := relativeRe.FindStringSubmatch(expr); m != nil {
		value, _ := strconv.Atoi(m[1])
		switch m[2] {
		case "m":
			return now.Add(time.Duration(value) * time.Minute), nil
		case "h":
			return now.Add(time.Duration(value) * time.Hour), nil
		case "d":
			return now.AddDate(0, 0, value), nil
		}
	}

	if m := todayRe.FindStringSubmatch(expr); m != nil {
		return atClock(now, m[1], m[2])
	}

	if m := tomorrowRe.FindStringSubmatch(expr); m != nil {
		return atClock(now.AddDate(0, 0, 1), m[1], m[2])
	}

	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, expr, now.Location()); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized 'at' expression: %s", expr)
}

// ParseSince resolves a lower-bound expression. On top of the absolute
// forms it accepts the keywords all|* (the epoch floor), today and
// yesterday (local midnight), and a bare date meaning midnight that day.
func ParseSince(expr string, now time.Time) (time.Time, error) {
	trimmed := strings.TrimSpace(expr)
	switch strings.ToLower(trimmed) {
	case "all", "*":
		return Floor, nil
	case "today":
		return midnight(now), nil
	case "yesterday":
		return midnight(now.AddDate(0, 0, -1)), nil
	}

	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, trimmed, now.Location()); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("since expression must be all|today|yesterday|YYYY-MM-DD[ HH:MM]: %s", expr)
}

// ParseDuration accepts <int>m or <int>h. The empty string resolves to
// DefaultDuration.
func ParseDuration(expr string) (time.Duration, error) {
	expr = strings.ToLower(strings.TrimSpace(expr))
	if expr == "" {
		return DefaultDuration, nil
	}
	if m := minutesRe.FindStringSubmatch(expr); m != nil {
		value, _ := strconv.Atoi(m[1])
		return time.Duration(value) * time.Minute, nil
	}
	if m := hoursRe.FindStringSubmatch(expr); m != nil {
		value, _ := strconv.Atoi(m[1])
		return time.Duration(value) * time.Hour, nil
	}
	return 0, fmt.Errorf("invalid duration expression: %s", expr)
}

func atClock(day time.Time, hourStr, minuteStr string) (time.Time, error) {
	hour, _ := strconv.Atoi(hourStr)
	minute, _ := strconv.Atoi(minuteStr)
	if hour > 23 {
		return time.Time{}, fmt.Errorf("hour out of range: %d", hour)
	}
	if minute > 59 {
		return time.Time{}, fmt.Errorf("minute out of range: %d", minute)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location()), nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
