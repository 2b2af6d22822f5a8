package mock

import (
	"context"
	"time"

	"ChartPull/internal/domain/models"
	drepo "ChartPull/internal/domain/repository"
)

// Source is a BarSource with zero failure points: no network, no I/O, no
// parsing. Every fetch returns an empty day and a nil error, which the
// handlers render as the fixed empty-timeframe payload.
type Source struct{}

// New creates the mock BarSource.
func New() drepo.BarSource { return &Source{} }

func (s *Source) FetchDay(ctx context.Context, symbol string, day time.Time) ([]models.Candle, error) {
	return []models.Candle{}, nil
}

func (s *Source) Name() string { return "mock" }
