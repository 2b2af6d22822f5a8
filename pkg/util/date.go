package util

import (
	"fmt"
	"strconv"
	"time"
)

// DateLayout is the wire format for trading-day query parameters.
const DateLayout = "2006-01-02"

// ParseTradingDay parses a YYYY-MM-DD string as midnight in loc.
func ParseTradingDay(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse trading day %q: %w", s, err)
	}
	return t, nil
}

// ResolveTradingDay returns the trading day for an optional date parameter.
// Empty input resolves to today in loc, with weekends falling back to the
// previous Friday. A malformed non-empty input is an error.
func ResolveTradingDay(s string, now time.Time, loc *time.Location) (time.Time, error) {
	if s != "" {
		return ParseTradingDay(s, loc)
	}
	local := now.In(loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	switch day.Weekday() {
	case time.Saturday:
		day = day.AddDate(0, 0, -1)
	case time.Sunday:
		day = day.AddDate(0, 0, -2)
	}
	return day, nil
}

// DayBounds returns the [start, end) interval covering one trading day.
func DayBounds(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1)
}

// SessionBounds anchors HH:MM session open/close strings onto a trading day.
func SessionBounds(day time.Time, open, close string) (time.Time, time.Time, error) {
	o, err := time.Parse("15:04", open)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse session open %q: %w", open, err)
	}
	c, err := time.Parse("15:04", close)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse session close %q: %w", close, err)
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), o.Hour(), o.Minute(), 0, 0, day.Location())
	end := time.Date(day.Year(), day.Month(), day.Day(), c.Hour(), c.Minute(), 0, 0, day.Location())
	return start, end, nil
}

// ParseTime tries RFC3339, RFC3339Nano, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}
