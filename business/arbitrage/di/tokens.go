// Package di contains dependency injection tokens for the arbitrage context.
package di

import (
	"spreadwatch/business/arbitrage/app"
	"spreadwatch/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Detector = di.NewToken[*app.Detector]("arbitrage.Detector")
)

// Private dependency tokens - internal to arbitrage module
var (
	Reporters = di.NewToken[[]app.Reporter]("arbitrage:reporters")
)

// GetDetector returns the detection loop service.
func GetDetector(c di.ServiceRegistry) *app.Detector {
	return di.GetToken(c, Detector)
}

// GetReporters returns the configured reporters.
func GetReporters(c di.ServiceRegistry) []app.Reporter {
	return di.GetToken(c, Reporters)
}
