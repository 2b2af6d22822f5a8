package repository

import "time"

// Timeframe represents candle resolution buckets.
type Timeframe string

const (
	TF30s Timeframe = "30s"
	TF1m  Timeframe = "1m"
	TF5m  Timeframe = "5m"
	TF15m Timeframe = "15m"
)

// ChartTimeframes lists the resolutions exposed in chart responses.
// TF1m is the fetch resolution only and never appears as a dataset key.
func ChartTimeframes() []Timeframe {
	return []Timeframe{TF30s, TF5m, TF15m}
}

// IsValidTimeframe returns true if tf is a supported chart timeframe.
func IsValidTimeframe(tf Timeframe) bool {
	switch tf {
	case TF30s, TF5m, TF15m:
		return true
	default:
		return false
	}
}

// DefaultTimeframe returns the default timeframe.
func DefaultTimeframe() Timeframe { return TF5m }

// NormalizeTimeframe converts raw string to a valid timeframe (or default).
func NormalizeTimeframe(s string) Timeframe {
	if s == "" {
		return DefaultTimeframe()
	}
	tf := Timeframe(s)
	if IsValidTimeframe(tf) {
		return tf
	}
	return DefaultTimeframe()
}

// Interval returns the bucket duration for tf.
func (tf Timeframe) Interval() time.Duration {
	switch tf {
	case TF30s:
		return 30 * time.Second
	case TF1m:
		return time.Minute
	case TF5m:
		return 5 * time.Minute
	case TF15m:
		return 15 * time.Minute
	default:
		return 5 * time.Minute
	}
}
