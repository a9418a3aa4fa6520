//go:build wireinject
// +build wireinject

package di

import (
	"HomePulse/pkg/config"
	"HomePulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvidePool,
		ProvideCache,

		// Infrastructure clients
		ProvideCatalog,
		ProvideTradeSource,
		ProvidePoiSearch,
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Use cases
		ProvideReconciler,
		ProvideAggregator,
		ProvideCollector,

		// HTTP handler and application server
		ProvideItemsHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
