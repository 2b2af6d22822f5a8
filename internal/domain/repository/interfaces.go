package repository

import (
	"context"
	"time"

	"ChartPull/internal/domain/models"
)

// BarSource fetches base-resolution (1m) bars for one trading day.
type BarSource interface {
	FetchDay(ctx context.Context, symbol string, day time.Time) ([]models.Candle, error)
	Name() string
}

// CandleStore persists captured 1m bars so sessions stay queryable after the
// upstream provider's retention window expires.
type CandleStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	StoreBatch(ctx context.Context, symbol string, bars []models.Candle) error
	Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.Candle, error)
	Health(ctx context.Context) error // ping
	Close() error
}

// CandlePublisher exports captured session bars to downstream consumers.
type CandlePublisher interface {
	PublishBatch(ctx context.Context, symbol string, bars []models.Candle) error
	Close() error
}

type Metrics interface {
	RecordExport(backend, symbol string)
	RecordError(kind string)
	RecordLastClose(symbol string, price float64)
	RecordLatency(op string, seconds float64)
	RecordBarsServed(timeframe string, n int)
	RecordCacheEvent(level, result string)
}
