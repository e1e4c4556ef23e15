// Package subscription implements the subscription bounded context gating
// pair limits and historical data access.
package subscription

import (
	"context"
	"time"

	subscriptionDI "spreadwatch/business/subscription/di"
	"spreadwatch/business/subscription/domain"
	"spreadwatch/internal/config"
	"spreadwatch/internal/di"
	"spreadwatch/internal/monolith"
)

// Module implements the subscription bounded context.
type Module struct{}

// RegisterServices registers the subscription state with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, subscriptionDI.Current, func(sr di.ServiceRegistry) *domain.UserSubscription {
		cfg := sr.Get("config").(*config.Config)

		sub := &domain.UserSubscription{
			IsPaid:          cfg.Subscription.Paid,
			StripeSessionID: cfg.Subscription.StripeSessionID,
		}
		if cfg.Subscription.PurchaseDate != "" {
			if ts, err := time.Parse(time.RFC3339, cfg.Subscription.PurchaseDate); err == nil {
				sub.PurchaseDate = &ts
			}
		}
		return sub
	})
	return nil
}

// Startup logs the active plan.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	sub := subscriptionDI.GetCurrent(mono.Services())

	plan := "free"
	if domain.IsPaidUser(sub) {
		plan = "paid"
	}
	mono.Logger().Info(ctx, "subscription module started",
		"plan", plan,
		"max_pairs", domain.MaxPairs(sub),
	)
	return nil
}
