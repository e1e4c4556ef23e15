package domain

import (
	"fmt"
	"strings"
	"testing"
	"time"

	arbitrage "spreadwatch/business/arbitrage/domain"
	pricing "spreadwatch/business/pricing/domain"
)

func alertAt(id string, triggeredAt time.Time) AlertRecord {
	return AlertRecord{ID: id, TriggeredAt: triggeredAt}
}

func TestTrimAlertHistory(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Deliberately out of order.
	history := []AlertRecord{
		alertAt("a", base.Add(1*time.Minute)),
		alertAt("b", base.Add(3*time.Minute)),
		alertAt("c", base),
		alertAt("d", base.Add(2*time.Minute)),
	}

	trimmed := TrimAlertHistory(history, 3)

	if len(trimmed) != 3 {
		t.Fatalf("got %d entries, want 3", len(trimmed))
	}
	wantOrder := []string{"b", "d", "a"} // newest first, oldest ("c") dropped
	for i, want := range wantOrder {
		if trimmed[i].ID != want {
			t.Errorf("trimmed[%d].ID = %s, want %s", i, trimmed[i].ID, want)
		}
	}
}

func TestAddAlertsToHistory_BatchEqualsSequential(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	var alerts []AlertRecord
	for i := 0; i < 10; i++ {
		alerts = append(alerts, alertAt(fmt.Sprintf("alert_%d", i), base.Add(time.Duration(i)*time.Second)))
	}

	batch := AddAlertsToHistory(nil, alerts, 5)

	var sequential []AlertRecord
	for _, a := range alerts {
		sequential = append([]AlertRecord{}, AddAlertsToHistory(sequential, []AlertRecord{a}, 5)...)
	}

	if len(batch) != len(sequential) {
		t.Fatalf("batch kept %d, sequential kept %d", len(batch), len(sequential))
	}
	for i := range batch {
		if batch[i].ID != sequential[i].ID {
			t.Errorf("position %d: batch %s, sequential %s", i, batch[i].ID, sequential[i].ID)
		}
	}
}

func TestAddAlertsToHistory_Bound(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	var history []AlertRecord
	for i := 0; i < 80; i++ {
		history = AddAlertsToHistory(history, []AlertRecord{
			alertAt(fmt.Sprintf("alert_%d", i), base.Add(time.Duration(i)*time.Second)),
		}, DefaultMaxHistorySize)
	}

	if len(history) != DefaultMaxHistorySize {
		t.Fatalf("history length = %d, want %d", len(history), DefaultMaxHistorySize)
	}
	// Retained entries are the most recent, newest first.
	if history[0].ID != "alert_79" {
		t.Errorf("newest entry = %s, want alert_79", history[0].ID)
	}
	if history[len(history)-1].ID != "alert_30" {
		t.Errorf("oldest retained = %s, want alert_30", history[len(history)-1].ID)
	}
}

func TestFormatNotificationContent(t *testing.T) {
	pair, _ := pricing.ParsePair("ETH/USDT")
	alert := AlertRecord{
		ID: "alert_1",
		Spread: arbitrage.SpreadResult{
			Pair:          pair,
			BuyExchange:   pricing.ExchangeBinance,
			SellExchange:  pricing.ExchangeCoinbase,
			BuyPrice:      2450,
			SellPrice:     2475,
			SpreadPercent: 1.0204081632653061,
		},
	}

	tests := []struct {
		name       string
		netProfit  float64
		wantProfit string
	}{
		{name: "positive_explicit_plus", netProfit: 9.75, wantProfit: "+9.75"},
		{name: "negative_bare_minus", netProfit: -10.01, wantProfit: "-10.01"},
		{name: "zero_unsigned", netProfit: 0, wantProfit: ": 0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alert.EstimatedProfit = arbitrage.ProfitResult{NetProfit: tt.netProfit}

			title, body := FormatNotificationContent(alert)

			if !strings.Contains(title, "ETH/USDT") {
				t.Errorf("title %q missing pair symbol", title)
			}
			if !strings.Contains(title, "1.020%") {
				t.Errorf("title %q missing 3-decimal spread", title)
			}
			if !strings.Contains(body, "binance") || !strings.Contains(body, "coinbase") {
				t.Errorf("body %q missing exchange names", body)
			}
			if !strings.Contains(body, tt.wantProfit) {
				t.Errorf("body %q missing profit %q", body, tt.wantProfit)
			}
			if tt.netProfit == 0 && strings.Contains(body, "+0.00") {
				t.Errorf("body %q signs a zero profit", body)
			}
		})
	}
}
