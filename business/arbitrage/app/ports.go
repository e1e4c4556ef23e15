// Package app contains application services and port definitions for the
// arbitrage context.
package app

import (
	"context"

	alertingDomain "spreadwatch/business/alerting/domain"
	"spreadwatch/business/arbitrage/domain"
	pricingDomain "spreadwatch/business/pricing/domain"
)

// Reporter is the output port for detection results.
type Reporter interface {
	// Start initializes the reporter.
	Start(ctx context.Context) error

	// ReportSpreads delivers the ranked spread results of one cycle.
	ReportSpreads(spreads []domain.SpreadResult)

	// ReportAlerts delivers the alerts triggered in one cycle.
	ReportAlerts(alerts []alertingDomain.AlertRecord)

	// UpdateObservations delivers the raw per-venue observations of one cycle.
	UpdateObservations(observations []pricingDomain.PriceObservation)

	// UpdateConnectionStatus updates a venue's connection display.
	UpdateConnectionStatus(name string, connected bool)

	// ReportError surfaces a cycle-level failure.
	ReportError(err error)

	// Stop gracefully shuts down the reporter.
	Stop() error
}
