// Package pricing implements the pricing bounded context for multi-venue
// ticker ingestion.
package pricing

import (
	"context"
	"time"

	"spreadwatch/business/pricing/app"
	pricingDI "spreadwatch/business/pricing/di"
	"spreadwatch/business/pricing/domain"
	"spreadwatch/business/pricing/infra/binance"
	"spreadwatch/business/pricing/infra/coinbase"
	"spreadwatch/business/pricing/infra/kraken"
	subscriptionDI "spreadwatch/business/subscription/di"
	subscriptionDomain "spreadwatch/business/subscription/domain"
	"spreadwatch/internal/config"
	"spreadwatch/internal/di"
	"spreadwatch/internal/logger"
	"spreadwatch/internal/monolith"
)

// Module implements the pricing bounded context.
type Module struct{}

// RegisterServices registers all pricing services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Monitored pairs: configured list capped by the subscription plan.
	di.RegisterToken(c, pricingDI.Pairs, func(sr di.ServiceRegistry) []domain.TradingPair {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		sub := subscriptionDI.GetCurrent(sr)

		pairs := make([]domain.TradingPair, 0, len(cfg.Monitor.Pairs))
		for _, symbol := range cfg.Monitor.Pairs {
			pair, err := domain.ParsePair(symbol)
			if err != nil {
				log.Warn(context.Background(), "skipping invalid pair", "symbol", symbol, "error", err)
				continue
			}
			pairs = append(pairs, pair)
		}

		if max := subscriptionDomain.MaxPairs(sub); len(pairs) > max {
			log.Warn(context.Background(), "pair list exceeds plan limit, truncating",
				"configured", len(pairs),
				"max_pairs", max,
			)
			pairs = pairs[:max]
		}
		return pairs
	})

	// Per-venue providers - private dependency
	di.RegisterToken(c, pricingDI.Providers, func(sr di.ServiceRegistry) []app.TickerProvider {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		pairs := pricingDI.GetPairs(sr)

		var providers []app.TickerProvider
		for _, name := range cfg.Exchanges.Enabled {
			switch domain.Exchange(name) {
			case domain.ExchangeBinance:
				provider, err := binance.NewProvider(binance.ProviderConfig{
					RESTURL:           cfg.Exchanges.Binance.RESTURL,
					WebSocketURL:      cfg.Exchanges.Binance.WebSocketURL,
					StreamEnabled:     cfg.Exchanges.Binance.StreamEnabled,
					StaleTimeout:      cfg.Exchanges.Binance.StaleTimeout,
					RequestsPerMinute: cfg.Exchanges.Binance.RequestsPerMinute,
				}, pairs, log)
				if err != nil {
					panic("failed to create binance provider: " + err.Error())
				}
				providers = append(providers, provider)

			case domain.ExchangeCoinbase:
				provider, err := coinbase.NewProvider(coinbase.ProviderConfig{
					RESTURL:           cfg.Exchanges.Coinbase.RESTURL,
					RequestsPerMinute: cfg.Exchanges.Coinbase.RequestsPerMinute,
				}, log)
				if err != nil {
					panic("failed to create coinbase provider: " + err.Error())
				}
				providers = append(providers, provider)

			case domain.ExchangeKraken:
				provider, err := kraken.NewProvider(kraken.ProviderConfig{
					RESTURL:           cfg.Exchanges.Kraken.RESTURL,
					RequestsPerMinute: cfg.Exchanges.Kraken.RequestsPerMinute,
				}, log)
				if err != nil {
					panic("failed to create kraken provider: " + err.Error())
				}
				providers = append(providers, provider)
			}
		}
		return providers
	})

	// Snapshot service (public - exposed to other modules)
	di.RegisterToken(c, pricingDI.SnapshotService, func(sr di.ServiceRegistry) *app.SnapshotService {
		log := sr.Get("logger").(logger.LoggerInterface)
		providers := pricingDI.GetProviders(sr)

		service, err := app.NewSnapshotService(providers, log)
		if err != nil {
			panic("failed to create snapshot service: " + err.Error())
		}
		return service
	})

	return nil
}

// Startup initializes the pricing module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	// Connect streaming providers (don't fail startup - REST covers the gap)
	for _, provider := range pricingDI.GetProviders(mono.Services()) {
		connector, ok := provider.(interface{ Connect(context.Context) error })
		if !ok {
			continue
		}

		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := connector.Connect(connectCtx)
		cancel()
		if err == nil {
			continue
		}

		name := provider.Name()
		log.Warn(ctx, "stream connection failed, will retry in background",
			"exchange", name, "error", err)
		go func(connector interface{ Connect(context.Context) error }, name domain.Exchange) {
			for {
				select {
				case <-ctx.Done():
					return
				case <-time.After(5 * time.Second):
					if err := connector.Connect(ctx); err != nil {
						log.Warn(ctx, "stream retry failed", "exchange", name, "error", err)
					} else {
						log.Info(ctx, "stream connected", "exchange", name)
						return
					}
				}
			}
		}(connector, name)
	}

	log.Info(ctx, "pricing module started",
		"pairs", len(pricingDI.GetPairs(mono.Services())),
	)
	return nil
}
