package models

import "time"

// Candle represents a single OHLCV bar in session-local time.
type Candle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// TimeframeDataset maps a timeframe label ("30s", "5m", "15m") to its candles.
type TimeframeDataset map[string][]Candle

// EmptyDataset returns a dataset with all chart timeframe keys present and
// empty, non-nil slices so each key marshals as a JSON array.
func EmptyDataset() TimeframeDataset {
	return TimeframeDataset{
		"30s": {},
		"5m":  {},
		"15m": {},
	}
}

// MarketHours describes the regular trading session of a chart response.
type MarketHours struct {
	Open     string `json:"open"`
	Close    string `json:"close"`
	Timezone string `json:"timezone"`
}

// ChartData is the full multi-timeframe payload for one trading day.
type ChartData struct {
	Date        string           `json:"date"`
	MarketHours MarketHours      `json:"market_hours"`
	Data        TimeframeDataset `json:"data"`
}
