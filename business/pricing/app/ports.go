// Package app contains application services and port definitions for the pricing context.
package app

import (
	"context"

	"spreadwatch/business/pricing/domain"
)

// TickerProvider defines the interface for per-venue price providers.
type TickerProvider interface {
	// Name returns the venue this provider serves.
	Name() domain.Exchange

	// FetchTickers retrieves one observation per requested pair. Pairs the
	// venue cannot serve are omitted from the result, not errors.
	FetchTickers(ctx context.Context, pairs []domain.TradingPair) ([]domain.PriceObservation, error)
}
