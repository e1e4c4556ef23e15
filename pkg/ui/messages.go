// Package ui provides the Bubble Tea TUI for the spread dashboard.
package ui

import (
	alertingDomain "spreadwatch/business/alerting/domain"
	arbitrageDomain "spreadwatch/business/arbitrage/domain"
	pricingDomain "spreadwatch/business/pricing/domain"
)

// Message types for TUI updates

// SpreadsMsg carries the ranked spread results of one detection cycle.
type SpreadsMsg struct {
	Spreads []arbitrageDomain.SpreadResult
}

// ObservationsMsg carries the raw per-venue observations of one cycle.
type ObservationsMsg struct {
	Observations []pricingDomain.PriceObservation
}

// AlertsMsg carries newly triggered alerts.
type AlertsMsg struct {
	Alerts []alertingDomain.AlertRecord
}

// ProfitPreviewMsg carries the simulated profit for the current best
// spread. All values are pre-calculated by the domain - the UI only
// displays them.
type ProfitPreviewMsg struct {
	Pair            string
	TradeAmount     float64
	GrossProfit     float64
	TotalFees       float64
	NetProfit       float64
	BreakEvenSpread float64
	IsProfitable    bool
}

// ConnectionStatusMsg is sent when a venue's connection status changes.
type ConnectionStatusMsg struct {
	Name      string
	Connected bool
}

// ThresholdMsg is sent when the alert threshold changes.
type ThresholdMsg struct {
	Threshold float64
}

// SoundMsg is sent when the sound setting changes.
type SoundMsg struct {
	Enabled bool
}

// ErrorMsg is sent when a cycle-level error occurs.
type ErrorMsg struct {
	Error error
}

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}

// StartModulesMsg signals that modules should start loading.
type StartModulesMsg struct{}

// LogMsg is sent to display a log message in the UI.
type LogMsg struct {
	Level   string // "info", "warn", "error"
	Message string
}

// StartupMsg is sent during application startup to show progress.
type StartupMsg struct {
	Step    string
	Status  string // "connecting", "connected", "failed"
	Message string
}
