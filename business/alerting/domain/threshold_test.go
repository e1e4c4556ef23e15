package domain

import (
	"math"
	"strings"
	"testing"

	arbitrage "spreadwatch/business/arbitrage/domain"
)

func TestValidateThreshold(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantMsg string // empty means valid
	}{
		{name: "lower_bound", value: 0.1},
		{name: "upper_bound", value: 10},
		{name: "default", value: 1.0},
		{name: "nan", value: math.NaN(), wantMsg: "must be a valid number"},
		{name: "infinite", value: math.Inf(1), wantMsg: "must be a finite number"},
		{name: "below_range", value: 0.05, wantMsg: "must be between 0.1% and 10%"},
		{name: "above_range", value: 10.5, wantMsg: "must be between 0.1% and 10%"},
		{name: "zero", value: 0, wantMsg: "must be between 0.1% and 10%"},
		{name: "negative", value: -1, wantMsg: "must be between 0.1% and 10%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateThreshold(tt.value)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !IsValidThreshold(tt.value) {
					t.Error("IsValidThreshold disagrees with ValidateThreshold")
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantMsg)
			}
			if IsValidThreshold(tt.value) {
				t.Error("IsValidThreshold disagrees with ValidateThreshold")
			}
		})
	}
}

func TestSpreadExceedsThreshold_Strict(t *testing.T) {
	tests := []struct {
		name      string
		spread    float64
		threshold float64
		want      bool
	}{
		{name: "above", spread: 1.5, threshold: 1.0, want: true},
		{name: "exactly_equal_does_not_trigger", spread: 1.0, threshold: 1.0, want: false},
		{name: "below", spread: 0.5, threshold: 1.0, want: false},
		{name: "just_above", spread: 1.0000001, threshold: 1.0, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spread := arbitrage.SpreadResult{SpreadPercent: tt.spread}
			if got := SpreadExceedsThreshold(spread, tt.threshold); got != tt.want {
				t.Errorf("SpreadExceedsThreshold(%v, %v) = %v, want %v",
					tt.spread, tt.threshold, got, tt.want)
			}
		})
	}
}
