package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ChartPull/internal/usecase"
	pkgch "ChartPull/pkg/clickhouse"
	"ChartPull/pkg/config"
	xhttp "ChartPull/pkg/http"
	applogger "ChartPull/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	handler    xhttp.Handler
	exporter   *usecase.SessionExporter
	chClient   *pkgch.Client
	cache      interface{ Close() error }
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	exporter *usecase.SessionExporter,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:      cfg,
		logger:   l,
		handler:  handler,
		exporter: exporter,
		chClient: chClient,
	}
}

// SetCache registers a cache to close on shutdown.
func (a *App) SetCache(c interface{ Close() error }) { a.cache = c }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := []xhttp.ServerOption{
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	}
	if a.cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetricsPath(a.cfg.Metrics.Path))
	} else {
		opts = append(opts, xhttp.WithMetricsPath(""))
	}
	a.httpServer = xhttp.NewServer(a.handler, opts...)

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("http server started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("provider", a.cfg.Provider.Type),
		applogger.String("symbol", a.cfg.Provider.Symbol))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	// Exporter first so queued batches drain before backends close.
	if a.exporter != nil {
		a.exporter.Close()
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.logger.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("cache close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
