// Package di contains dependency injection tokens for the alerting context.
package di

import (
	"spreadwatch/business/alerting/app"
	"spreadwatch/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Engine = di.NewToken[*app.Engine]("alerting.Engine")
)

// GetEngine returns the alert engine.
func GetEngine(c di.ServiceRegistry) *app.Engine {
	return di.GetToken(c, Engine)
}
