package usecase

import (
	"sort"
	"time"

	"ChartPull/internal/domain/models"
	domrepo "ChartPull/internal/domain/repository"
)

// Resample aggregates base bars into interval-sized buckets. Within a bucket
// open is the first bar's open, close the last bar's close, high/low the
// extremes, volume the sum. Buckets with no bars produce no candle.
func Resample(bars []models.Candle, interval time.Duration) []models.Candle {
	if len(bars) == 0 {
		return []models.Candle{}
	}

	ordered := make([]models.Candle, len(bars))
	copy(ordered, bars)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Timestamp.Before(ordered[j].Timestamp) })

	buckets := make(map[time.Time]*models.Candle, len(ordered))
	for _, b := range ordered {
		key := b.Timestamp.Truncate(interval)
		agg, ok := buckets[key]
		if !ok {
			c := b
			c.Timestamp = key
			buckets[key] = &c
			continue
		}
		if b.High > agg.High {
			agg.High = b.High
		}
		if b.Low < agg.Low {
			agg.Low = b.Low
		}
		agg.Close = b.Close
		agg.Volume += b.Volume
	}

	out := make([]models.Candle, 0, len(buckets))
	for _, c := range buckets {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

// SyntheticThirtySecond splits each 1m bar into two 30s candles. The split
// point is the bar's typical price mid = (o+h+l+c)/4: the first half runs
// open to mid, the second mid to close, volume halved on each side.
func SyntheticThirtySecond(bars []models.Candle) []models.Candle {
	if len(bars) == 0 {
		return []models.Candle{}
	}

	out := make([]models.Candle, 0, 2*len(bars))
	for _, b := range bars {
		mid := (b.Open + b.High + b.Low + b.Close) / 4
		high := b.High
		if mid > high {
			high = mid
		}
		low := b.Low
		if mid < low {
			low = mid
		}
		half := b.Volume / 2

		out = append(out, models.Candle{
			Timestamp: b.Timestamp,
			Open:      b.Open,
			High:      high,
			Low:       low,
			Close:     mid,
			Volume:    half,
		})
		out = append(out, models.Candle{
			Timestamp: b.Timestamp.Add(30 * time.Second),
			Open:      mid,
			High:      high,
			Low:       low,
			Close:     b.Close,
			Volume:    half,
		})
	}
	return out
}

// FilterSession keeps bars inside [open, close]. When nothing falls inside
// the session, the full input is returned so thin days still chart.
func FilterSession(bars []models.Candle, open, close time.Time) []models.Candle {
	kept := make([]models.Candle, 0, len(bars))
	for _, b := range bars {
		if b.Timestamp.Before(open) || b.Timestamp.After(close) {
			continue
		}
		kept = append(kept, b)
	}
	if len(kept) == 0 {
		return bars
	}
	return kept
}

// BuildDatasets produces every chart timeframe from session 1m bars.
func BuildDatasets(bars []models.Candle) models.TimeframeDataset {
	if len(bars) == 0 {
		return models.EmptyDataset()
	}
	out := make(models.TimeframeDataset, 3)
	for _, tf := range domrepo.ChartTimeframes() {
		if tf == domrepo.TF30s {
			out[string(tf)] = SyntheticThirtySecond(bars)
			continue
		}
		out[string(tf)] = Resample(bars, tf.Interval())
	}
	return out
}
