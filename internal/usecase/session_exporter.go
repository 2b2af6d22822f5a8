package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ChartPull/internal/domain/models"
	drepo "ChartPull/internal/domain/repository"
)

// SessionExporter routes captured session bars to the configured backends.
// Export happens off the request path: Enqueue hands the batch to a single
// worker so a slow backend never delays a chart response.
type SessionExporter struct {
	pub       drepo.CandlePublisher
	store     drepo.CandleStore
	metrics   drepo.Metrics
	backend   string
	batchSize int
	timeout   time.Duration

	jobs chan exportJob
	wg   sync.WaitGroup
	once sync.Once
}

type exportJob struct {
	symbol string
	bars   []models.Candle
}

// NewSessionExporter creates an exporter for the given backend
// ("none", "kafka", "clickhouse", "both").
func NewSessionExporter(
	pub drepo.CandlePublisher,
	store drepo.CandleStore,
	metrics drepo.Metrics,
	backend string,
	batchSize int,
	timeout time.Duration,
) *SessionExporter {
	if batchSize <= 0 {
		batchSize = 500
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	e := &SessionExporter{
		pub:       pub,
		store:     store,
		metrics:   metrics,
		backend:   backend,
		batchSize: batchSize,
		timeout:   timeout,
		jobs:      make(chan exportJob, 16),
	}
	e.wg.Add(1)
	go e.run()
	return e
}

// Enqueue schedules a session batch for export. Full queue drops the batch
// rather than blocking the caller; the same day will be re-captured on the
// next uncached request.
func (e *SessionExporter) Enqueue(symbol string, bars []models.Candle) {
	if e == nil || e.backend == "" || e.backend == "none" || len(bars) == 0 {
		return
	}
	select {
	case e.jobs <- exportJob{symbol: symbol, bars: bars}:
	default:
		if e.metrics != nil {
			e.metrics.RecordError("export_queue_full")
		}
	}
}

func (e *SessionExporter) run() {
	defer e.wg.Done()
	for job := range e.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
		if err := e.export(ctx, job.symbol, job.bars); err != nil && e.metrics != nil {
			e.metrics.RecordError("export")
		}
		cancel()
	}
}

// export performs the synchronous backend writes for one session, split into
// batchSize chunks.
func (e *SessionExporter) export(ctx context.Context, symbol string, bars []models.Candle) error {
	start := time.Now()

	var errKafka, errStore error
	if e.backend == "kafka" || e.backend == "both" {
		if e.pub == nil {
			errKafka = fmt.Errorf("kafka backend selected but no publisher")
		} else if errKafka = e.eachChunk(bars, func(chunk []models.Candle) error {
			return e.pub.PublishBatch(ctx, symbol, chunk)
		}); errKafka == nil && e.metrics != nil {
			e.metrics.RecordExport("kafka", symbol)
		}
	}
	if e.backend == "clickhouse" || e.backend == "both" {
		if e.store == nil {
			errStore = fmt.Errorf("clickhouse backend selected but no store")
		} else if errStore = e.eachChunk(bars, func(chunk []models.Candle) error {
			return e.store.StoreBatch(ctx, symbol, chunk)
		}); errStore == nil && e.metrics != nil {
			e.metrics.RecordExport("clickhouse", symbol)
		}
	}

	if e.metrics != nil {
		e.metrics.RecordLatency("export", time.Since(start).Seconds())
	}

	if errKafka != nil {
		return fmt.Errorf("publish session: %w", errKafka)
	}
	if errStore != nil {
		return fmt.Errorf("store session: %w", errStore)
	}
	return nil
}

func (e *SessionExporter) eachChunk(bars []models.Candle, write func([]models.Candle) error) error {
	for start := 0; start < len(bars); start += e.batchSize {
		end := start + e.batchSize
		if end > len(bars) {
			end = len(bars)
		}
		if err := write(bars[start:end]); err != nil {
			return err
		}
	}
	return nil
}

// Close drains pending jobs and closes backend resources.
func (e *SessionExporter) Close() {
	if e == nil {
		return
	}
	e.once.Do(func() {
		close(e.jobs)
	})
	e.wg.Wait()
	if e.pub != nil {
		_ = e.pub.Close()
	}
	if e.store != nil {
		_ = e.store.Close()
	}
}
