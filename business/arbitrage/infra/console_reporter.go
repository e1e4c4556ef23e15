// Package infra contains infrastructure adapters for the arbitrage context.
package infra

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	alertingDomain "spreadwatch/business/alerting/domain"
	"spreadwatch/business/arbitrage/domain"
	pricingDomain "spreadwatch/business/pricing/domain"
)

// ConsoleReporter implements Reporter for CLI output.
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a new ConsoleReporter.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{
		out: os.Stdout,
	}
}

// Start initializes the console reporter.
func (r *ConsoleReporter) Start(ctx context.Context) error {
	fmt.Fprintln(r.out, "Spreadwatch Started")
	fmt.Fprintln(r.out, "===================")
	return nil
}

// ReportSpreads outputs the ranked spread results of one cycle.
func (r *ConsoleReporter) ReportSpreads(spreads []domain.SpreadResult) {
	if len(spreads) == 0 {
		return
	}

	fmt.Fprintln(r.out, "")
	fmt.Fprintf(r.out, "[%s] %d spread(s)\n", time.Now().Format("15:04:05"), len(spreads))
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	for _, s := range spreads {
		fmt.Fprintf(r.out, "  %-10s buy %s @ %.2f, sell %s @ %.2f  →  %.3f%%\n",
			s.Pair.Symbol,
			s.BuyExchange, s.BuyPrice,
			s.SellExchange, s.SellPrice,
			s.SpreadPercent,
		)
	}
}

// ReportAlerts outputs the alerts triggered in one cycle.
func (r *ConsoleReporter) ReportAlerts(alerts []alertingDomain.AlertRecord) {
	for _, alert := range alerts {
		title, body := alertingDomain.FormatNotificationContent(alert)
		fmt.Fprintln(r.out, "")
		fmt.Fprintln(r.out, "================================================================================")
		fmt.Fprintf(r.out, "ALERT  %s\n", title)
		fmt.Fprintln(r.out, "================================================================================")
		fmt.Fprintf(r.out, "  %s\n", body)
		fmt.Fprintf(r.out, "  Triggered: %s  (id %s)\n", alert.TriggeredAt.Format(time.RFC3339), alert.ID)
	}
}

// UpdateObservations is a no-op for the console in detection mode; only
// spreads and alerts are printed, not continuous price updates.
func (r *ConsoleReporter) UpdateObservations(observations []pricingDomain.PriceObservation) {
}

// UpdateConnectionStatus outputs connection status changes.
func (r *ConsoleReporter) UpdateConnectionStatus(name string, connected bool) {
	status := "polling"
	if connected {
		status = "connected"
	}
	fmt.Fprintf(r.out, "[%s] %s: %s\n", time.Now().Format("15:04:05"), name, status)
}

// ReportError outputs a cycle-level failure.
func (r *ConsoleReporter) ReportError(err error) {
	fmt.Fprintf(r.out, "[%s] error: %v\n", time.Now().Format("15:04:05"), err)
}

// Stop gracefully shuts down the console reporter.
func (r *ConsoleReporter) Stop() error {
	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "Spreadwatch Stopped")
	return nil
}
