package app

import (
	"context"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spreadwatch/business/alerting/domain"
	arbitrage "spreadwatch/business/arbitrage/domain"
	pricing "spreadwatch/business/pricing/domain"
	"spreadwatch/internal/logger"
)

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	log := logger.New(io.Discard, logger.LevelError, "test", nil)
	return NewEngine(cfg, log)
}

func testSpread(percent float64) arbitrage.SpreadResult {
	pair, _ := pricing.ParsePair("ETH/USDT")
	return arbitrage.SpreadResult{
		Pair:          pair,
		BuyExchange:   pricing.ExchangeBinance,
		SellExchange:  pricing.ExchangeCoinbase,
		BuyPrice:      2450,
		SellPrice:     2450 * (1 + percent/100),
		SpreadPercent: percent,
	}
}

func testFees() arbitrage.FeeConfig {
	return arbitrage.FeeConfig{BuyFeeRate: 0.001, SellFeeRate: 0.001}
}

func TestNewEngine_InvalidThresholdFallsBack(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
	}{
		{"nan", math.NaN()},
		{"zero", 0},
		{"out_of_range", 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(t, Config{Threshold: tt.threshold})
			assert.Equal(t, domain.DefaultThreshold, engine.Threshold())
		})
	}
}

func TestEngine_SetThresholdStrict(t *testing.T) {
	engine := newTestEngine(t, Config{Threshold: 1.0})

	require.NoError(t, engine.SetThreshold(2.5))
	assert.Equal(t, 2.5, engine.Threshold())

	// The setter rejects what the constructor tolerates.
	err := engine.SetThreshold(50)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be between 0.1% and 10%")
	assert.Equal(t, 2.5, engine.Threshold(), "failed set must not change the threshold")
}

func TestEngine_CheckAndAlert(t *testing.T) {
	engine := newTestEngine(t, Config{Threshold: 1.0})
	ctx := context.Background()

	spreads := []arbitrage.SpreadResult{
		testSpread(0.5), // below threshold
		testSpread(1.0), // exactly equal, must not trigger
		testSpread(1.5),
		testSpread(2.0),
	}

	alerts, err := engine.CheckAndAlert(ctx, spreads, testFees(), 0)
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	for _, a := range alerts {
		assert.True(t, strings.HasPrefix(a.ID, "alert_"), "id %q missing alert_ prefix", a.ID)
		assert.False(t, a.Acknowledged)
		assert.False(t, a.TriggeredAt.IsZero())
		assert.Greater(t, a.Spread.SpreadPercent, 1.0)
	}
	assert.NotEqual(t, alerts[0].ID, alerts[1].ID)

	history := engine.GetAlertHistory()
	assert.Len(t, history, 2)
}

func TestEngine_CheckAndAlert_DefaultAmountIsOneUnit(t *testing.T) {
	engine := newTestEngine(t, Config{Threshold: 1.0})

	alerts, err := engine.CheckAndAlert(context.Background(),
		[]arbitrage.SpreadResult{testSpread(2.0)}, arbitrage.FeeConfig{}, 0)
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	// With no fees and amount 1, net profit equals the raw price gap.
	spread := testSpread(2.0)
	want := spread.SellPrice - spread.BuyPrice
	assert.InDelta(t, want, alerts[0].EstimatedProfit.NetProfit, 1e-9)
}

func TestEngine_CheckAndAlert_InvalidFeesFailWholeBatch(t *testing.T) {
	engine := newTestEngine(t, Config{Threshold: 1.0})

	badFees := arbitrage.FeeConfig{BuyFeeRate: 1.5}
	spreads := []arbitrage.SpreadResult{testSpread(2.0), testSpread(3.0)}

	_, err := engine.CheckAndAlert(context.Background(), spreads, badFees, 1)
	require.Error(t, err)
	assert.Empty(t, engine.GetAlertHistory(), "no partial batch on validation failure")
}

func TestEngine_HistoryBound(t *testing.T) {
	engine := newTestEngine(t, Config{Threshold: 1.0})
	ctx := context.Background()

	for i := 0; i < domain.DefaultMaxHistorySize+20; i++ {
		_, err := engine.CheckAndAlert(ctx,
			[]arbitrage.SpreadResult{testSpread(2.0)}, testFees(), 1)
		require.NoError(t, err)
	}

	history := engine.GetAlertHistory()
	require.Len(t, history, domain.DefaultMaxHistorySize)

	// Newest first.
	for i := 0; i < len(history)-1; i++ {
		assert.False(t, history[i].TriggeredAt.Before(history[i+1].TriggeredAt),
			"history out of order at %d", i)
	}
}

func TestEngine_AcknowledgeAlert(t *testing.T) {
	engine := newTestEngine(t, Config{Threshold: 1.0})

	alerts, err := engine.CheckAndAlert(context.Background(),
		[]arbitrage.SpreadResult{testSpread(2.0)}, testFees(), 1)
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	assert.True(t, engine.AcknowledgeAlert(alerts[0].ID))
	assert.True(t, engine.GetAlertHistory()[0].Acknowledged)

	// Unknown id is a soft miss, not an error.
	assert.False(t, engine.AcknowledgeAlert("alert_missing"))
}

func TestEngine_ClearAlertHistory(t *testing.T) {
	engine := newTestEngine(t, Config{Threshold: 2.0, SoundEnabled: true})

	_, err := engine.CheckAndAlert(context.Background(),
		[]arbitrage.SpreadResult{testSpread(3.0)}, testFees(), 1)
	require.NoError(t, err)
	require.NotEmpty(t, engine.GetAlertHistory())

	engine.ClearAlertHistory()

	assert.Empty(t, engine.GetAlertHistory())
	assert.Equal(t, 2.0, engine.Threshold(), "clearing history must not touch the threshold")
	assert.True(t, engine.IsSoundEnabled(), "clearing history must not touch sound")
}

func TestEngine_SoundToggle(t *testing.T) {
	engine := newTestEngine(t, Config{Threshold: 1.0})

	assert.False(t, engine.IsSoundEnabled())
	engine.SetSoundEnabled(true)
	assert.True(t, engine.IsSoundEnabled())
	engine.SetSoundEnabled(false)
	assert.False(t, engine.IsSoundEnabled())
}
