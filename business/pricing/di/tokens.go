// Package di contains dependency injection tokens for the pricing context.
package di

import (
	"spreadwatch/business/pricing/app"
	"spreadwatch/business/pricing/domain"
	"spreadwatch/internal/di"
)

// Public service tokens - exposed to other modules
var (
	SnapshotService = di.NewToken[*app.SnapshotService]("pricing.SnapshotService")
	Pairs           = di.NewToken[[]domain.TradingPair]("pricing.Pairs")
)

// Private dependency tokens - internal to pricing module
var (
	Providers = di.NewToken[[]app.TickerProvider]("pricing:providers")
)

// Helper functions for type-safe access

func GetSnapshotService(c di.ServiceRegistry) *app.SnapshotService {
	return di.GetToken(c, SnapshotService)
}

func GetPairs(c di.ServiceRegistry) []domain.TradingPair {
	return di.GetToken(c, Pairs)
}

func GetProviders(c di.ServiceRegistry) []app.TickerProvider {
	return di.GetToken(c, Providers)
}
