package di

import (
	"context"
	"fmt"
	"time"

	"ChartPull/internal/domain/repository"
	"ChartPull/internal/handler/api"
	internalrepo "ChartPull/internal/repository"
	"ChartPull/internal/service/mock"
	"ChartPull/internal/service/yahoo"
	"ChartPull/internal/usecase"
	"ChartPull/pkg/cache"
	pkgch "ChartPull/pkg/clickhouse"
	"ChartPull/pkg/config"
	xhttp "ChartPull/pkg/http"
	pkgkafka "ChartPull/pkg/kafka"
	applogger "ChartPull/pkg/logger"
	"ChartPull/pkg/metrics"
	"ChartPull/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	lcfg := &applogger.Config{Level: "info", Format: "json", Output: "stdout"}
	if cfg.Environment == "development" {
		lcfg.Level = "debug"
		lcfg.Format = "console"
	}
	return applogger.New(lcfg)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideBarSource selects the intraday bar provider.
func ProvideBarSource(cfg *config.Config) (repository.BarSource, error) {
	switch cfg.Provider.Type {
	case "mock":
		return mock.New(), nil
	case "yahoo":
		opts := []yahoo.Option{
			yahoo.WithRateLimit(cfg.Provider.MaxRPS, cfg.Provider.BurstSize),
			yahoo.WithHTTPTimeout(cfg.Provider.Timeout),
		}
		if cfg.Provider.BaseURL != "" {
			opts = append(opts, yahoo.WithBaseURL(cfg.Provider.BaseURL))
		}
		return yahoo.New(opts...), nil
	default:
		return nil, fmt.Errorf("unknown provider type %q", cfg.Provider.Type)
	}
}

// ProvideClickHouseClient creates a ClickHouse client when the export backend
// requires one, nil otherwise.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ExportsToClickHouse() {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database,
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideCandleStore creates ClickHouse-backed candle storage, nil when no
// ClickHouse client is configured.
func ProvideCandleStore(chClient *pkgch.Client, cfg *config.Config) (repository.CandleStore, error) {
	if chClient == nil {
		return nil, nil
	}
	store := internalrepo.NewClickHouseCandleStore(chClient.DB(), cfg.ClickHouse.Database+"."+cfg.ClickHouse.Table)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("candle table: %w", err)
	}
	return store, nil
}

// ProvideKafkaProducer creates a Kafka producer when the export backend
// requires one, nil otherwise.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.ExportsToKafka() {
		return nil, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideCandlePublisher creates the Kafka candle publisher, nil when no
// producer is configured.
func ProvideCandlePublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.CandlePublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaCandlePublisher(producer, cfg.Kafka.Topic)
}

// ProvideSessionCache creates the layered session cache, nil when caching is
// disabled. A Redis failure degrades to memory-only rather than blocking boot.
func ProvideSessionCache(cfg *config.Config, l *applogger.Logger) cache.Service {
	if !cfg.Cache.Enabled {
		return nil
	}

	var redisCache *cache.RedisCache
	if cfg.Cache.Redis.Enabled {
		rc, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
		)
		if err != nil {
			l.Warn("redis unavailable, using memory cache only", applogger.Error(err))
		} else {
			redisCache = rc
		}
	}

	return cache.NewLayeredCache(redisCache, cache.WithLayeredMemorySize(cfg.Cache.MemoryMaxSize))
}

// ProvideSessionExporter creates the export worker, nil when exporting is off.
func ProvideSessionExporter(
	pub repository.CandlePublisher,
	store repository.CandleStore,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.SessionExporter {
	if cfg.Export.Backend == "" || cfg.Export.Backend == "none" {
		return nil
	}
	return usecase.NewSessionExporter(pub, store, m, cfg.Export.Backend, cfg.Export.BatchSize, cfg.Export.BatchTimeout)
}

// ProvideChartDataUseCase creates the chart data use case.
func ProvideChartDataUseCase(
	source repository.BarSource,
	store repository.CandleStore,
	exporter *usecase.SessionExporter,
	c cache.Service,
	m repository.Metrics,
	cfg *config.Config,
) (*usecase.ChartDataUseCase, error) {
	return usecase.NewChartDataUseCase(source, store, exporter, c, m, usecase.ChartDataConfig{
		Symbol:        cfg.Provider.Symbol,
		SessionOpen:   cfg.Market.SessionOpen,
		SessionClose:  cfg.Market.SessionClose,
		Timezone:      cfg.Market.Timezone,
		TTLToday:      cfg.Cache.TTLToday,
		TTLHistorical: cfg.Cache.TTLHistorical,
	})
}

// ProvideHandler assembles the Echo route handler.
func ProvideHandler(
	cfg *config.Config,
	l *applogger.Logger,
	charts *usecase.ChartDataUseCase,
	store repository.CandleStore,
) xhttp.Handler {
	opts := []api.ChartHandlerOption{
		api.WithMockResponses(cfg.Provider.Type == "mock"),
	}
	if store != nil {
		opts = append(opts, api.WithCandles(usecase.NewCandlesUseCase(store)))
	}
	if cfg.Stream.Enabled {
		opts = append(opts, api.WithStream(api.NewStreamEchoHandler(l, charts, cfg.Stream.RefreshInterval)))
	}
	return api.NewChartEchoHandler(l, charts, opts...)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	exporter *usecase.SessionExporter,
	chClient *pkgch.Client,
	c cache.Service,
) *server.App {
	app := server.New(cfg, l, handler, exporter, chClient)
	if closer, ok := c.(interface{ Close() error }); ok {
		app.SetCache(closer)
	}
	return app
}
