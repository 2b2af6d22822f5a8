//go:build wireinject
// +build wireinject

package di

import (
	"ChartPull/pkg/config"
	"ChartPull/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Repositories
		ProvideBarSource,
		ProvideCandleStore,
		ProvideCandlePublisher,
		ProvideSessionCache,

		// Use cases
		ProvideSessionExporter,
		ProvideChartDataUseCase,

		// HTTP
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
