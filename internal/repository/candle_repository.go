package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"ChartPull/internal/domain/models"
	"ChartPull/internal/domain/repository"
	pkgkafka "ChartPull/pkg/kafka"
)

// ClickHouseCandleStore implements CandleStore for ClickHouse.
type ClickHouseCandleStore struct {
	db    *sql.DB
	table string
}

// NewClickHouseCandleStore creates ClickHouse-backed candle storage.
func NewClickHouseCandleStore(db *sql.DB, table string) repository.CandleStore {
	return &ClickHouseCandleStore{db: db, table: table}
}

func (s *ClickHouseCandleStore) Init(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		symbol LowCardinality(String),
		ts     DateTime64(3, 'UTC'),
		open   Float64,
		high   Float64,
		low    Float64,
		close  Float64,
		volume Int64
	) ENGINE = ReplacingMergeTree()
	ORDER BY (symbol, ts)
	PARTITION BY toYYYYMM(ts)`, s.table)
	_, err := s.db.ExecContext(ctx, ddl)
	return err
}

func (s *ClickHouseCandleStore) StoreBatch(ctx context.Context, symbol string, bars []models.Candle) error {
	if len(bars) == 0 {
		return nil
	}
	// ReplacingMergeTree on (symbol, ts) makes re-captured sessions idempotent,
	// so a plain multi-row insert is enough. Chunked to bound statement size.
	const chunkSize = 2000
	for start := 0; start < len(bars); start += chunkSize {
		end := start + chunkSize
		if end > len(bars) {
			end = len(bars)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*7)
		for _, b := range bars[start:end] {
			if b.Timestamp.IsZero() {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				symbol,
				b.Timestamp.UTC(),
				b.Open,
				b.High,
				b.Low,
				b.Close,
				b.Volume,
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (symbol, ts, open, high, low, close, volume) VALUES %s",
			s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *ClickHouseCandleStore) Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.Candle, error) {
	if limit <= 0 {
		limit = 100000
	}
	q := fmt.Sprintf("SELECT ts, open, high, low, close, volume FROM %s WHERE symbol = ? AND ts >= ? AND ts < ? ORDER BY ts ASC LIMIT ?", s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, from.UTC(), to.UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bars []models.Candle
	for rows.Next() {
		var b models.Candle
		var ts time.Time
		if err := rows.Scan(&ts, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, err
		}
		b.Timestamp = ts.In(from.Location())
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

func (s *ClickHouseCandleStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseCandleStore) Close() error {
	return nil // pool owned by pkg/clickhouse client
}

// KafkaCandlePublisher implements CandlePublisher for Kafka.
type KafkaCandlePublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaCandlePublisher creates a Kafka-backed candle publisher.
func NewKafkaCandlePublisher(producer *pkgkafka.Producer, topic string) repository.CandlePublisher {
	return &KafkaCandlePublisher{producer: producer, topic: topic}
}

// candleEvent is the wire shape published per bar.
type candleEvent struct {
	Symbol    string  `json:"symbol"`
	Timestamp int64   `json:"ts"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    int64   `json:"volume"`
}

func (p *KafkaCandlePublisher) PublishBatch(ctx context.Context, symbol string, bars []models.Candle) error {
	if len(bars) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, 0, len(bars))
	for _, b := range bars {
		msgs = append(msgs, pkgkafka.Message{
			Key: []byte(symbol),
			Value: candleEvent{
				Symbol:    symbol,
				Timestamp: b.Timestamp.Unix(),
				Open:      b.Open,
				High:      b.High,
				Low:       b.Low,
				Close:     b.Close,
				Volume:    b.Volume,
			},
		})
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaCandlePublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
