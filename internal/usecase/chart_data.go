package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ChartPull/internal/domain/models"
	domrepo "ChartPull/internal/domain/repository"
	"ChartPull/pkg/cache"
	"ChartPull/pkg/util"
)

// ErrNoData signals that neither the provider nor the local store had bars
// for the requested trading day.
var ErrNoData = errors.New("no data for trading day")

// ChartDataConfig carries the session and caching knobs.
type ChartDataConfig struct {
	Symbol        string
	SessionOpen   string // "06:30"
	SessionClose  string // "13:00"
	Timezone      string // IANA name, e.g. "America/Los_Angeles"
	TTLToday      time.Duration
	TTLHistorical time.Duration
}

// ChartDataUseCase assembles the multi-timeframe payload for one trading day:
// fetch 1m bars, filter to the regular session, resample, and fan the captured
// bars out to the configured export backends.
type ChartDataUseCase struct {
	source   domrepo.BarSource
	store    domrepo.CandleStore // optional, also a fallback read path
	exporter *SessionExporter    // optional
	cache    cache.Service       // optional
	metrics  domrepo.Metrics
	loc      *time.Location
	cfg      ChartDataConfig
	now      func() time.Time
}

func NewChartDataUseCase(
	source domrepo.BarSource,
	store domrepo.CandleStore,
	exporter *SessionExporter,
	c cache.Service,
	metrics domrepo.Metrics,
	cfg ChartDataConfig,
) (*ChartDataUseCase, error) {
	if source == nil {
		return nil, fmt.Errorf("bar source required")
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}
	return &ChartDataUseCase{
		source:   source,
		store:    store,
		exporter: exporter,
		cache:    c,
		metrics:  metrics,
		loc:      loc,
		cfg:      cfg,
		now:      time.Now,
	}, nil
}

// Location returns the market timezone.
func (uc *ChartDataUseCase) Location() *time.Location { return uc.loc }

// ResolveDay maps an optional date parameter onto a trading day.
func (uc *ChartDataUseCase) ResolveDay(dateParam string) (time.Time, error) {
	return util.ResolveTradingDay(dateParam, uc.now(), uc.loc)
}

// GetChartData returns the chart payload for one trading day.
func (uc *ChartDataUseCase) GetChartData(ctx context.Context, day time.Time) (*models.ChartData, error) {
	start := time.Now()
	dateStr := day.Format(util.DateLayout)
	key := cache.SessionKey(uc.cfg.Symbol, dateStr)

	if uc.cache != nil {
		var cached models.ChartData
		if err := uc.cache.Get(ctx, key, &cached); err == nil {
			uc.recordCache("hit")
			return &cached, nil
		}
		uc.recordCache("miss")
	}

	bars, err := uc.loadDay(ctx, day)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, ErrNoData
	}

	open, close, err := util.SessionBounds(day, uc.cfg.SessionOpen, uc.cfg.SessionClose)
	if err != nil {
		return nil, err
	}
	session := FilterSession(bars, open, close)

	result := &models.ChartData{
		Date: dateStr,
		MarketHours: models.MarketHours{
			Open:     uc.cfg.SessionOpen + ":00",
			Close:    uc.cfg.SessionClose + ":00",
			Timezone: uc.cfg.Timezone,
		},
		Data: BuildDatasets(session),
	}

	if uc.metrics != nil {
		for tf, candles := range result.Data {
			uc.metrics.RecordBarsServed(tf, len(candles))
		}
		uc.metrics.RecordLastClose(uc.cfg.Symbol, session[len(session)-1].Close)
		uc.metrics.RecordLatency("chart_data", time.Since(start).Seconds())
	}

	if uc.exporter != nil {
		uc.exporter.Enqueue(uc.cfg.Symbol, bars)
	}

	if uc.cache != nil {
		ttl := uc.cfg.TTLHistorical
		if uc.isToday(day) {
			ttl = uc.cfg.TTLToday
		}
		if err := uc.cache.Set(ctx, key, result, ttl); err != nil && uc.metrics != nil {
			uc.metrics.RecordError("cache_set")
		}
	}

	return result, nil
}

// loadDay fetches from the provider, falling back to the local store when the
// provider's retention window has already dropped the day.
func (uc *ChartDataUseCase) loadDay(ctx context.Context, day time.Time) ([]models.Candle, error) {
	fetchStart := time.Now()
	bars, err := uc.source.FetchDay(ctx, uc.cfg.Symbol, day)
	if uc.metrics != nil {
		uc.metrics.RecordLatency("fetch_"+uc.source.Name(), time.Since(fetchStart).Seconds())
	}
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.RecordError("fetch")
		}
		if uc.store == nil {
			return nil, fmt.Errorf("fetch day: %w", err)
		}
		bars = nil
	}
	if len(bars) > 0 || uc.store == nil {
		return bars, nil
	}

	from, to := util.DayBounds(day)
	stored, serr := uc.store.Query(ctx, uc.cfg.Symbol, from, to, 0)
	if serr != nil {
		if uc.metrics != nil {
			uc.metrics.RecordError("store_query")
		}
		if err != nil {
			return nil, fmt.Errorf("fetch day: %w", err)
		}
		return nil, fmt.Errorf("query store: %w", serr)
	}
	return stored, nil
}

func (uc *ChartDataUseCase) isToday(day time.Time) bool {
	local := uc.now().In(uc.loc)
	return day.Year() == local.Year() && day.Month() == local.Month() && day.Day() == local.Day()
}

func (uc *ChartDataUseCase) recordCache(result string) {
	if uc.metrics != nil {
		uc.metrics.RecordCacheEvent("session", result)
	}
}
