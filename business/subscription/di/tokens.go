// Package di contains dependency injection tokens for the subscription context.
package di

import (
	"spreadwatch/business/subscription/domain"
	"spreadwatch/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Current = di.NewToken[*domain.UserSubscription]("subscription.Current")
)

// GetCurrent returns the active subscription state.
func GetCurrent(c di.ServiceRegistry) *domain.UserSubscription {
	return di.GetToken(c, Current)
}
