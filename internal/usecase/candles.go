package usecase

import (
	"context"
	"fmt"
	"time"

	"ChartPull/internal/domain/models"
	domrepo "ChartPull/internal/domain/repository"
)

// CandlesUseCase provides read access to locally captured 1m bars.
type CandlesUseCase struct {
	store domrepo.CandleStore
}

func NewCandlesUseCase(store domrepo.CandleStore) *CandlesUseCase {
	return &CandlesUseCase{store: store}
}

type GetCandlesParams struct {
	Symbol string
	From   time.Time
	To     time.Time
	Limit  int
}

type GetCandlesResult struct {
	Symbol  string          `json:"symbol"`
	From    time.Time       `json:"from"`
	To      time.Time       `json:"to"`
	Count   int             `json:"count"`
	Candles []models.Candle `json:"candles"`
}

func (uc *CandlesUseCase) GetCandles(ctx context.Context, p GetCandlesParams) (*GetCandlesResult, error) {
	if uc.store == nil {
		return nil, fmt.Errorf("candle store not configured")
	}
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if p.From.After(p.To) {
		return nil, fmt.Errorf("from must be <= to")
	}
	if p.Limit <= 0 {
		p.Limit = 10000
	}
	if p.Limit > 50000 {
		p.Limit = 50000
	}

	candles, err := uc.store.Query(ctx, p.Symbol, p.From, p.To, p.Limit)
	if err != nil {
		return nil, fmt.Errorf("get candles: %w", err)
	}

	return &GetCandlesResult{
		Symbol:  p.Symbol,
		From:    p.From,
		To:      p.To,
		Count:   len(candles),
		Candles: candles,
	}, nil
}
