package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTradingDay(t *testing.T) {
	got, err := ParseTradingDay("2025-03-14", time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestParseTradingDayInvalid(t *testing.T) {
	if _, err := ParseTradingDay("14-03-2025", time.UTC); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := ParseTradingDay("invalid", time.UTC); err == nil {
		t.Fatalf("expected error")
	}
}

func TestResolveTradingDayExplicit(t *testing.T) {
	now := time.Date(2025, 3, 16, 12, 0, 0, 0, time.UTC)
	got, err := ResolveTradingDay("2025-03-10", now, time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Day() != 10 {
		t.Fatalf("explicit date ignored: %v", got)
	}
}

func TestResolveTradingDayWeekendFallback(t *testing.T) {
	// 2025-03-15 is a Saturday, 2025-03-16 a Sunday.
	sat := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)
	got, err := ResolveTradingDay("", sat, time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Weekday() != time.Friday || got.Day() != 14 {
		t.Fatalf("saturday should fall back to friday, got %v", got)
	}

	sun := time.Date(2025, 3, 16, 9, 0, 0, 0, time.UTC)
	got, err = ResolveTradingDay("", sun, time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Weekday() != time.Friday || got.Day() != 14 {
		t.Fatalf("sunday should fall back to friday, got %v", got)
	}
}

func TestSessionBounds(t *testing.T) {
	day := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	open, close, err := SessionBounds(day, "06:30", "13:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if open.Hour() != 6 || open.Minute() != 30 {
		t.Fatalf("unexpected open %v", open)
	}
	if close.Hour() != 13 || close.Minute() != 0 {
		t.Fatalf("unexpected close %v", close)
	}
	if !open.Before(close) {
		t.Fatalf("open must precede close")
	}
}

func TestDayBounds(t *testing.T) {
	day := time.Date(2025, 3, 14, 15, 4, 5, 0, time.UTC)
	start, end := DayBounds(day)
	if start.Hour() != 0 || start.Day() != 14 {
		t.Fatalf("unexpected start %v", start)
	}
	if end.Sub(start) != 24*time.Hour {
		t.Fatalf("unexpected span %v", end.Sub(start))
	}
}

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
	got := ParseTimeDefault("", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
}
