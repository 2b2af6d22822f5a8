package usecase

import (
	"testing"
	"time"

	"ChartPull/internal/domain/models"
)

func bar(ts time.Time, o, h, l, c float64, v int64) models.Candle {
	return models.Candle{Timestamp: ts, Open: o, High: h, Low: l, Close: c, Volume: v}
}

func TestResampleAggregatesBuckets(t *testing.T) {
	base := time.Date(2025, 3, 14, 6, 30, 0, 0, time.UTC)
	bars := []models.Candle{
		bar(base, 100, 105, 99, 101, 10),
		bar(base.Add(1*time.Minute), 101, 110, 100, 108, 20),
		bar(base.Add(2*time.Minute), 108, 109, 95, 96, 30),
		bar(base.Add(3*time.Minute), 96, 98, 94, 97, 5),
		bar(base.Add(4*time.Minute), 97, 99, 96, 98, 15),
	}

	got := Resample(bars, 5*time.Minute)
	if len(got) != 1 {
		t.Fatalf("expected one 5m bucket, got %d", len(got))
	}
	c := got[0]
	if !c.Timestamp.Equal(base) {
		t.Fatalf("unexpected bucket timestamp %v", c.Timestamp)
	}
	if c.Open != 100 || c.Close != 98 {
		t.Fatalf("open/close wrong: open=%v close=%v", c.Open, c.Close)
	}
	if c.High != 110 || c.Low != 94 {
		t.Fatalf("high/low wrong: high=%v low=%v", c.High, c.Low)
	}
	if c.Volume != 80 {
		t.Fatalf("volume wrong: %d", c.Volume)
	}
}

func TestResampleDropsEmptyBuckets(t *testing.T) {
	base := time.Date(2025, 3, 14, 6, 30, 0, 0, time.UTC)
	// Gap between 06:30 and 06:45 buckets; the 06:35/06:40 buckets have no bars.
	bars := []models.Candle{
		bar(base, 100, 101, 99, 100, 1),
		bar(base.Add(15*time.Minute), 102, 103, 101, 102, 2),
	}

	got := Resample(bars, 5*time.Minute)
	if len(got) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(got))
	}
	if !got[1].Timestamp.Equal(base.Add(15 * time.Minute)) {
		t.Fatalf("unexpected second bucket %v", got[1].Timestamp)
	}
}

func TestResampleOrdersUnsortedInput(t *testing.T) {
	base := time.Date(2025, 3, 14, 6, 30, 0, 0, time.UTC)
	bars := []models.Candle{
		bar(base.Add(6*time.Minute), 200, 201, 199, 200, 1),
		bar(base, 100, 101, 99, 100, 1),
	}

	got := Resample(bars, 5*time.Minute)
	if len(got) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(got))
	}
	if !got[0].Timestamp.Before(got[1].Timestamp) {
		t.Fatalf("buckets out of order: %v then %v", got[0].Timestamp, got[1].Timestamp)
	}
}

func TestResampleEmptyInput(t *testing.T) {
	got := Resample(nil, 5*time.Minute)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", got)
	}
}

func TestSyntheticThirtySecondSplitsBars(t *testing.T) {
	base := time.Date(2025, 3, 14, 6, 30, 0, 0, time.UTC)
	src := bar(base, 100, 110, 90, 104, 21)

	got := SyntheticThirtySecond([]models.Candle{src})
	if len(got) != 2 {
		t.Fatalf("expected 2 candles, got %d", len(got))
	}

	mid := (100.0 + 110.0 + 90.0 + 104.0) / 4
	first, second := got[0], got[1]

	if !first.Timestamp.Equal(base) || !second.Timestamp.Equal(base.Add(30*time.Second)) {
		t.Fatalf("timestamps wrong: %v, %v", first.Timestamp, second.Timestamp)
	}
	if first.Open != src.Open || first.Close != mid {
		t.Fatalf("first half wrong: open=%v close=%v", first.Open, first.Close)
	}
	if second.Open != mid || second.Close != src.Close {
		t.Fatalf("second half wrong: open=%v close=%v", second.Open, second.Close)
	}
	// Integer halving may drop one unit of volume in total.
	if first.Volume != 10 || second.Volume != 10 {
		t.Fatalf("volume split wrong: %d, %d", first.Volume, second.Volume)
	}
	if first.Volume+second.Volume > src.Volume {
		t.Fatalf("synthetic volume exceeds source")
	}
}

func TestSyntheticThirtySecondPriceBounds(t *testing.T) {
	base := time.Date(2025, 3, 14, 6, 30, 0, 0, time.UTC)
	got := SyntheticThirtySecond([]models.Candle{bar(base, 100, 101, 99, 100.5, 8)})

	for _, c := range got {
		if c.Low > c.Open || c.Low > c.Close {
			t.Fatalf("low above open/close: %+v", c)
		}
		if c.High < c.Open || c.High < c.Close {
			t.Fatalf("high below open/close: %+v", c)
		}
	}
}

func TestFilterSessionKeepsRegularHours(t *testing.T) {
	day := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	open := day.Add(6*time.Hour + 30*time.Minute)
	close := day.Add(13 * time.Hour)

	bars := []models.Candle{
		bar(day.Add(5*time.Hour), 1, 1, 1, 1, 1),  // premarket
		bar(open, 2, 2, 2, 2, 1),                  // session open
		bar(day.Add(10*time.Hour), 3, 3, 3, 3, 1), // mid session
		bar(close, 4, 4, 4, 4, 1),                 // session close
		bar(day.Add(14*time.Hour), 5, 5, 5, 5, 1), // after hours
	}

	got := FilterSession(bars, open, close)
	if len(got) != 3 {
		t.Fatalf("expected 3 session bars, got %d", len(got))
	}
	if got[0].Open != 2 || got[2].Open != 4 {
		t.Fatalf("wrong bars kept: %+v", got)
	}
}

func TestFilterSessionFallsBackToFullRange(t *testing.T) {
	day := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	open := day.Add(6*time.Hour + 30*time.Minute)
	close := day.Add(13 * time.Hour)

	// Only overnight bars; the session slice would be empty.
	bars := []models.Candle{
		bar(day.Add(2*time.Hour), 1, 1, 1, 1, 1),
		bar(day.Add(3*time.Hour), 2, 2, 2, 2, 1),
	}

	got := FilterSession(bars, open, close)
	if len(got) != len(bars) {
		t.Fatalf("expected full range fallback, got %d bars", len(got))
	}
}

func TestBuildDatasetsKeys(t *testing.T) {
	base := time.Date(2025, 3, 14, 6, 30, 0, 0, time.UTC)
	bars := make([]models.Candle, 0, 30)
	for i := 0; i < 30; i++ {
		bars = append(bars, bar(base.Add(time.Duration(i)*time.Minute), 100, 101, 99, 100, 10))
	}

	ds := BuildDatasets(bars)
	for _, key := range []string{"30s", "5m", "15m"} {
		if _, ok := ds[key]; !ok {
			t.Fatalf("missing dataset key %q", key)
		}
	}
	if len(ds) != 3 {
		t.Fatalf("unexpected extra keys: %v", ds)
	}
	if len(ds["30s"]) != 60 {
		t.Fatalf("expected 60 synthetic candles, got %d", len(ds["30s"]))
	}
	if len(ds["5m"]) != 6 {
		t.Fatalf("expected 6 five-minute candles, got %d", len(ds["5m"]))
	}
	if len(ds["15m"]) != 2 {
		t.Fatalf("expected 2 fifteen-minute candles, got %d", len(ds["15m"]))
	}
}

func TestBuildDatasetsEmpty(t *testing.T) {
	ds := BuildDatasets(nil)
	for _, key := range []string{"30s", "5m", "15m"} {
		s, ok := ds[key]
		if !ok || s == nil || len(s) != 0 {
			t.Fatalf("expected empty non-nil slice for %q", key)
		}
	}
}
