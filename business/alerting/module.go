// Package alerting implements the alerting bounded context.
package alerting

import (
	"context"

	"spreadwatch/business/alerting/app"
	alertingDI "spreadwatch/business/alerting/di"
	"spreadwatch/internal/config"
	"spreadwatch/internal/di"
	"spreadwatch/internal/logger"
	"spreadwatch/internal/monolith"
)

// Module implements the alerting bounded context.
type Module struct{}

// RegisterServices registers the alert engine with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, alertingDI.Engine, func(sr di.ServiceRegistry) *app.Engine {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		return app.NewEngine(app.Config{
			Threshold:    cfg.Alerting.Threshold,
			SoundEnabled: cfg.Alerting.SoundEnabled,
			HistorySize:  cfg.Alerting.HistorySize,
		}, log)
	})
	return nil
}

// Startup logs the active alerting settings.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	engine := alertingDI.GetEngine(mono.Services())

	mono.Logger().Info(ctx, "alerting module started",
		"threshold", engine.Threshold(),
		"sound_enabled", engine.IsSoundEnabled(),
	)
	return nil
}
