package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"ChartPull/internal/domain/models"
	domrepo "ChartPull/internal/domain/repository"
	"ChartPull/pkg/cache"
)

type fakeSource struct {
	bars []models.Candle
	err  error
}

func (f *fakeSource) FetchDay(ctx context.Context, symbol string, day time.Time) ([]models.Candle, error) {
	return f.bars, f.err
}

func (f *fakeSource) Name() string { return "fake" }

type fakeStore struct {
	bars    []models.Candle
	queried bool
}

func (f *fakeStore) Init(ctx context.Context) error { return nil }
func (f *fakeStore) StoreBatch(ctx context.Context, symbol string, bars []models.Candle) error {
	return nil
}
func (f *fakeStore) Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.Candle, error) {
	f.queried = true
	return f.bars, nil
}
func (f *fakeStore) Health(ctx context.Context) error { return nil }
func (f *fakeStore) Close() error                     { return nil }

func sessionBars(t *testing.T, day string, n int) []models.Candle {
	t.Helper()
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	d, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		t.Fatalf("parse day: %v", err)
	}
	start := time.Date(d.Year(), d.Month(), d.Day(), 6, 30, 0, 0, loc)

	bars := make([]models.Candle, 0, n)
	for i := 0; i < n; i++ {
		price := 21000.0 + float64(i)
		bars = append(bars, models.Candle{
			Timestamp: start.Add(time.Duration(i) * time.Minute),
			Open:      price,
			High:      price + 2,
			Low:       price - 2,
			Close:     price + 1,
			Volume:    int64(100 + i),
		})
	}
	return bars
}

func newChartUseCase(t *testing.T, source *fakeSource, store *fakeStore, c cache.Service) *ChartDataUseCase {
	t.Helper()
	var st domrepo.CandleStore
	if store != nil {
		st = store
	}

	uc, err := NewChartDataUseCase(source, st, nil, c, nil, ChartDataConfig{
		Symbol:        "MNQ=F",
		SessionOpen:   "06:30",
		SessionClose:  "13:00",
		Timezone:      "America/Los_Angeles",
		TTLToday:      time.Minute,
		TTLHistorical: time.Hour,
	})
	if err != nil {
		t.Fatalf("new usecase: %v", err)
	}
	return uc
}

func TestGetChartDataBuildsAllTimeframes(t *testing.T) {
	source := &fakeSource{bars: sessionBars(t, "2025-03-14", 30)}
	uc := newChartUseCase(t, source, nil, nil)

	day, err := uc.ResolveDay("2025-03-14")
	if err != nil {
		t.Fatalf("resolve day: %v", err)
	}
	data, err := uc.GetChartData(context.Background(), day)
	if err != nil {
		t.Fatalf("get chart data: %v", err)
	}

	if data.Date != "2025-03-14" {
		t.Errorf("expected date 2025-03-14, got %q", data.Date)
	}
	if data.MarketHours.Open != "06:30:00" || data.MarketHours.Close != "13:00:00" {
		t.Errorf("unexpected market hours: %+v", data.MarketHours)
	}
	if data.MarketHours.Timezone != "America/Los_Angeles" {
		t.Errorf("unexpected timezone: %q", data.MarketHours.Timezone)
	}

	if got := len(data.Data["30s"]); got != 60 {
		t.Errorf("expected 60 synthetic 30s candles, got %d", got)
	}
	if got := len(data.Data["5m"]); got != 6 {
		t.Errorf("expected 6 five-minute candles, got %d", got)
	}
	if got := len(data.Data["15m"]); got != 2 {
		t.Errorf("expected 2 fifteen-minute candles, got %d", got)
	}
}

func TestGetChartDataNoData(t *testing.T) {
	source := &fakeSource{bars: []models.Candle{}}
	uc := newChartUseCase(t, source, nil, nil)

	day, _ := uc.ResolveDay("2025-03-14")
	_, err := uc.GetChartData(context.Background(), day)
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestGetChartDataStoreFallback(t *testing.T) {
	source := &fakeSource{err: errors.New("retention window expired")}
	store := &fakeStore{bars: sessionBars(t, "2025-03-07", 15)}
	uc := newChartUseCase(t, source, store, nil)

	day, _ := uc.ResolveDay("2025-03-07")
	data, err := uc.GetChartData(context.Background(), day)
	if err != nil {
		t.Fatalf("get chart data: %v", err)
	}
	if !store.queried {
		t.Error("expected fallback query against the store")
	}
	if got := len(data.Data["5m"]); got != 3 {
		t.Errorf("expected 3 five-minute candles from stored bars, got %d", got)
	}
}

func TestGetChartDataCacheRoundTrip(t *testing.T) {
	source := &fakeSource{bars: sessionBars(t, "2025-03-14", 10)}
	mem := cache.NewMemoryCache(cache.WithMemoryMaxSize(16), cache.WithMemoryCleanup(time.Minute))
	defer mem.Close()
	uc := newChartUseCase(t, source, nil, mem)

	day, _ := uc.ResolveDay("2025-03-14")
	first, err := uc.GetChartData(context.Background(), day)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}

	// Second call must be served from cache even if the source goes dark.
	source.bars = nil
	source.err = errors.New("source offline")
	second, err := uc.GetChartData(context.Background(), day)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if len(second.Data["5m"]) != len(first.Data["5m"]) {
		t.Errorf("cached payload differs: %d vs %d five-minute candles",
			len(second.Data["5m"]), len(first.Data["5m"]))
	}
}

func TestResolveDayWeekend(t *testing.T) {
	source := &fakeSource{}
	uc := newChartUseCase(t, source, nil, nil)

	// A missing date on a Saturday falls back to the prior Friday.
	uc.now = func() time.Time {
		return time.Date(2025, 3, 15, 10, 0, 0, 0, uc.loc)
	}
	day, err := uc.ResolveDay("")
	if err != nil {
		t.Fatalf("resolve empty date: %v", err)
	}
	if got := day.Format("2006-01-02"); got != "2025-03-14" {
		t.Errorf("expected saturday to fall back to friday, got %s", got)
	}

	// An explicit date is taken as-is, weekend or not.
	day, err = uc.ResolveDay("2025-03-15")
	if err != nil {
		t.Fatalf("resolve explicit date: %v", err)
	}
	if got := day.Format("2006-01-02"); got != "2025-03-15" {
		t.Errorf("expected explicit saturday to stay saturday, got %s", got)
	}

	if _, err := uc.ResolveDay("garbage"); err == nil {
		t.Error("expected error for malformed date")
	}
}
