// Package arbitrage implements the spread detection bounded context.
package arbitrage

import (
	"context"

	alertingDI "spreadwatch/business/alerting/di"
	"spreadwatch/business/arbitrage/app"
	arbitrageDI "spreadwatch/business/arbitrage/di"
	"spreadwatch/business/arbitrage/domain"
	"spreadwatch/business/arbitrage/infra"
	pricingDI "spreadwatch/business/pricing/di"
	"spreadwatch/internal/config"
	"spreadwatch/internal/di"
	"spreadwatch/internal/logger"
	"spreadwatch/internal/monolith"
)

// Module implements the arbitrage bounded context.
type Module struct{}

// RegisterServices registers the detector and reporters with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, arbitrageDI.Reporters, func(sr di.ServiceRegistry) []app.Reporter {
		cfg := sr.Get("config").(*config.Config)

		fees := domain.FeeConfig{
			BuyFeeRate:    cfg.Fees.BuyFeeRate,
			SellFeeRate:   cfg.Fees.SellFeeRate,
			WithdrawalFee: cfg.Fees.WithdrawalFee,
			GasFee:        cfg.Fees.GasFee,
		}

		if cfg.Monitor.TUIMode {
			return []app.Reporter{infra.NewTUIReporter(
				cfg.Monitor.TradeAmount,
				fees,
				cfg.Alerting.Threshold,
				cfg.Alerting.SoundEnabled,
			)}
		}
		return []app.Reporter{infra.NewConsoleReporter()}
	})

	di.RegisterToken(c, arbitrageDI.Detector, func(sr di.ServiceRegistry) *app.Detector {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		detector, err := app.NewDetector(
			pricingDI.GetSnapshotService(sr),
			alertingDI.GetEngine(sr),
			arbitrageDI.GetReporters(sr),
			app.DetectorConfig{
				Pairs:        pricingDI.GetPairs(sr),
				PollInterval: cfg.Monitor.PollInterval,
				TradeAmount:  cfg.Monitor.TradeAmount,
				MinSpread:    cfg.Monitor.MinSpread,
				Fees: domain.FeeConfig{
					BuyFeeRate:    cfg.Fees.BuyFeeRate,
					SellFeeRate:   cfg.Fees.SellFeeRate,
					WithdrawalFee: cfg.Fees.WithdrawalFee,
					GasFee:        cfg.Fees.GasFee,
				},
			},
			log,
		)
		if err != nil {
			panic("failed to create detector: " + err.Error())
		}
		return detector
	})

	return nil
}

// Startup resolves the detector so misconfiguration surfaces at module
// start. The entry point owns the detection loop's lifecycle.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	detector := arbitrageDI.GetDetector(mono.Services())
	_ = detector

	mono.Logger().Info(ctx, "arbitrage module ready",
		"min_spread", mono.Config().Monitor.MinSpread,
		"poll_interval", mono.Config().Monitor.PollInterval,
	)
	return nil
}
