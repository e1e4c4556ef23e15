// Package domain contains the alert record model and the bounded-history
// bookkeeping primitives.
package domain

import (
	"fmt"
	"sort"
	"time"

	arbitrage "spreadwatch/business/arbitrage/domain"
)

// DefaultMaxHistorySize bounds the alert history.
const DefaultMaxHistorySize = 50

// AlertRecord is one triggered alert. Acknowledged starts false and is
// flipped at most once by an acknowledgment call.
type AlertRecord struct {
	ID              string
	Spread          arbitrage.SpreadResult
	EstimatedProfit arbitrage.ProfitResult
	TriggeredAt     time.Time
	Acknowledged    bool
}

// TrimAlertHistory sorts history by trigger time descending and keeps at
// most maxSize entries. This is the bound-enforcement primitive.
func TrimAlertHistory(history []AlertRecord, maxSize int) []AlertRecord {
	trimmed := make([]AlertRecord, len(history))
	copy(trimmed, history)
	sort.SliceStable(trimmed, func(i, j int) bool {
		return trimmed[i].TriggeredAt.After(trimmed[j].TriggeredAt)
	})
	if len(trimmed) > maxSize {
		trimmed = trimmed[:maxSize]
	}
	return trimmed
}

// AddAlertsToHistory merges a batch of new alerts into an existing history,
// reorders by trigger time descending, and truncates the oldest entries to
// keep at most maxSize. Final content is the same whether alerts arrive one
// at a time or in a batch.
func AddAlertsToHistory(history, newAlerts []AlertRecord, maxSize int) []AlertRecord {
	merged := make([]AlertRecord, 0, len(history)+len(newAlerts))
	merged = append(merged, history...)
	merged = append(merged, newAlerts...)
	return TrimAlertHistory(merged, maxSize)
}

// FormatNotificationContent renders an alert into a notification title and
// body. The spread is shown with three decimals and the net profit carries
// an explicit "+" when positive; exactly zero is shown unsigned.
func FormatNotificationContent(alert AlertRecord) (title, body string) {
	title = fmt.Sprintf("Arbitrage: %s spread %.3f%%",
		alert.Spread.Pair.Symbol, alert.Spread.SpreadPercent)

	net := alert.EstimatedProfit.NetProfit
	profit := fmt.Sprintf("%.2f", net)
	if net > 0 {
		profit = "+" + profit
	}
	body = fmt.Sprintf("Buy on %s at %.2f, sell on %s at %.2f. Estimated net profit: %s",
		alert.Spread.BuyExchange, alert.Spread.BuyPrice,
		alert.Spread.SellExchange, alert.Spread.SellPrice,
		profit)
	return title, body
}
