// Package app contains the alert engine.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"spreadwatch/business/alerting/domain"
	arbitrage "spreadwatch/business/arbitrage/domain"
	"spreadwatch/internal/logger"
)

const meterName = "spreadwatch/business/alerting/app"

// Config holds the engine's initial settings.
type Config struct {
	Threshold    float64
	SoundEnabled bool
	HistorySize  int
}

// Engine evaluates spread results against a configurable threshold and
// maintains a bounded, recency-ordered alert history. All mutating
// operations go through a single mutex.
type Engine struct {
	log logger.LoggerInterface

	mu           sync.Mutex
	threshold    float64
	soundEnabled bool
	history      []domain.AlertRecord
	maxHistory   int

	alertsTriggered metric.Int64Counter
}

// NewEngine builds an engine from initial settings. An invalid threshold
// falls back to the default rather than failing; SetThreshold is the
// strict path.
func NewEngine(cfg Config, log logger.LoggerInterface) *Engine {
	threshold := cfg.Threshold
	if !domain.IsValidThreshold(threshold) {
		threshold = domain.DefaultThreshold
	}
	maxHistory := cfg.HistorySize
	if maxHistory <= 0 {
		maxHistory = domain.DefaultMaxHistorySize
	}

	meter := otel.Meter(meterName)
	alertsTriggered, _ := meter.Int64Counter("alerting_alerts_triggered_total",
		metric.WithDescription("Number of alerts triggered"))

	return &Engine{
		log:             log,
		threshold:       threshold,
		soundEnabled:    cfg.SoundEnabled,
		maxHistory:      maxHistory,
		alertsTriggered: alertsTriggered,
	}
}

// Threshold returns the active threshold.
func (e *Engine) Threshold() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.threshold
}

// SetThreshold replaces the active threshold. Unlike construction, this
// path is strict and rejects invalid values.
func (e *Engine) SetThreshold(value float64) error {
	if err := domain.ValidateThreshold(value); err != nil {
		return err
	}
	e.mu.Lock()
	e.threshold = value
	e.mu.Unlock()
	return nil
}

// SetSoundEnabled toggles the audio side-effect permission. Sound state
// never affects whether an alert is recorded.
func (e *Engine) SetSoundEnabled(enabled bool) {
	e.mu.Lock()
	e.soundEnabled = enabled
	e.mu.Unlock()
}

// IsSoundEnabled reports whether audio notifications are permitted.
func (e *Engine) IsSoundEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.soundEnabled
}

// CheckAndAlert evaluates a batch of spread results against the active
// threshold, synthesizes alert records for those strictly above it, and
// folds them into history in one batch so reordering and truncation happen
// exactly once per cycle. A trade amount of zero means "unspecified" and
// defaults to one unit. The fee config is validated once up front; an
// invalid config fails the whole batch with no partial alert creation.
// Returns only the newly created alerts.
func (e *Engine) CheckAndAlert(ctx context.Context, spreads []arbitrage.SpreadResult, fees arbitrage.FeeConfig, tradeAmount float64) ([]domain.AlertRecord, error) {
	if tradeAmount == 0 {
		tradeAmount = 1
	}
	if err := arbitrage.ValidateTradeAmount(tradeAmount); err != nil {
		return nil, err
	}
	if err := arbitrage.ValidateFeeConfig(fees); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var newAlerts []domain.AlertRecord
	for _, spread := range spreads {
		if !domain.SpreadExceedsThreshold(spread, e.threshold) {
			continue
		}
		profit, err := arbitrage.CalculateProfit(spread, tradeAmount, fees)
		if err != nil {
			return nil, err
		}
		newAlerts = append(newAlerts, domain.AlertRecord{
			ID:              "alert_" + uuid.NewString(),
			Spread:          spread,
			EstimatedProfit: profit,
			TriggeredAt:     time.Now(),
			Acknowledged:    false,
		})
	}

	if len(newAlerts) > 0 {
		e.history = domain.AddAlertsToHistory(e.history, newAlerts, e.maxHistory)
		e.alertsTriggered.Add(ctx, int64(len(newAlerts)))
		e.log.Info(ctx, "alerts triggered",
			"count", len(newAlerts),
			"threshold", e.threshold,
		)
	}
	return newAlerts, nil
}

// GetAlertHistory returns a copy of the history, newest first.
func (e *Engine) GetAlertHistory() []domain.AlertRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	history := make([]domain.AlertRecord, len(e.history))
	copy(history, e.history)
	return history
}

// AcknowledgeAlert marks the alert with the given id as acknowledged.
// Returns false when no such alert exists; absence is an expected outcome,
// not an error.
func (e *Engine) AcknowledgeAlert(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.history {
		if e.history[i].ID == id {
			e.history[i].Acknowledged = true
			return true
		}
	}
	return false
}

// ClearAlertHistory empties the history. Threshold and sound settings are
// untouched.
func (e *Engine) ClearAlertHistory() {
	e.mu.Lock()
	e.history = nil
	e.mu.Unlock()
}
