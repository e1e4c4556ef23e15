package infra

import (
	"context"

	alertingDomain "spreadwatch/business/alerting/domain"
	"spreadwatch/business/arbitrage/domain"
	pricingDomain "spreadwatch/business/pricing/domain"
	"spreadwatch/pkg/ui"
)

// TUIReporter implements Reporter for the Bubble Tea dashboard. It pushes
// cycle data into the running program as messages; the model never
// calculates anything itself.
type TUIReporter struct {
	tradeAmount float64
	fees        domain.FeeConfig
	threshold   float64
	sound       bool
}

// NewTUIReporter creates a new TUIReporter.
func NewTUIReporter(tradeAmount float64, fees domain.FeeConfig, threshold float64, soundEnabled bool) *TUIReporter {
	return &TUIReporter{
		tradeAmount: tradeAmount,
		fees:        fees,
		threshold:   threshold,
		sound:       soundEnabled,
	}
}

// Start pushes the initial settings into the dashboard.
func (r *TUIReporter) Start(ctx context.Context) error {
	ui.Send(ui.ThresholdMsg{Threshold: r.threshold})
	ui.Send(ui.SoundMsg{Enabled: r.sound})
	return nil
}

// ReportSpreads sends the ranked results and a profit preview for the best
// spread to the dashboard.
func (r *TUIReporter) ReportSpreads(spreads []domain.SpreadResult) {
	ui.Send(ui.SpreadsMsg{Spreads: spreads})

	if len(spreads) == 0 {
		return
	}
	best := spreads[0]
	profit, err := domain.CalculateProfit(best, r.tradeAmount, r.fees)
	if err != nil {
		ui.Send(ui.ErrorMsg{Error: err})
		return
	}
	ui.Send(ui.ProfitPreviewMsg{
		Pair:            best.Pair.Symbol,
		TradeAmount:     r.tradeAmount,
		GrossProfit:     profit.GrossProfit,
		TotalFees:       profit.TotalFees,
		NetProfit:       profit.NetProfit,
		BreakEvenSpread: domain.CalculateBreakEvenSpread(r.fees, best.BuyPrice, r.tradeAmount),
		IsProfitable:    profit.IsProfitable,
	})
}

// ReportAlerts sends newly triggered alerts to the dashboard.
func (r *TUIReporter) ReportAlerts(alerts []alertingDomain.AlertRecord) {
	ui.Send(ui.AlertsMsg{Alerts: alerts})
}

// UpdateObservations sends the raw per-venue observations to the dashboard.
func (r *TUIReporter) UpdateObservations(observations []pricingDomain.PriceObservation) {
	ui.Send(ui.ObservationsMsg{Observations: observations})
}

// UpdateConnectionStatus sends a venue's connection state to the dashboard.
func (r *TUIReporter) UpdateConnectionStatus(name string, connected bool) {
	ui.Send(ui.ConnectionStatusMsg{Name: name, Connected: connected})
}

// ReportError surfaces a cycle-level failure in the dashboard.
func (r *TUIReporter) ReportError(err error) {
	ui.Send(ui.ErrorMsg{Error: err})
}

// Stop gracefully shuts down the TUI reporter.
func (r *TUIReporter) Stop() error {
	return nil
}
