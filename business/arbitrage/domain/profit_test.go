package domain

import (
	"math"
	"strings"
	"testing"
)

func validFees() FeeConfig {
	return FeeConfig{
		BuyFeeRate:    0.001,
		SellFeeRate:   0.001,
		WithdrawalFee: 5,
		GasFee:        10,
	}
}

func TestValidateTradeAmount(t *testing.T) {
	tests := []struct {
		name    string
		amount  float64
		wantMsg string // empty means valid
	}{
		{name: "valid_amount", amount: 1},
		{name: "valid_fractional", amount: 0.25},
		{name: "nan", amount: math.NaN(), wantMsg: "must be a valid number"},
		{name: "positive_infinity", amount: math.Inf(1), wantMsg: "must be a finite number"},
		{name: "negative_infinity", amount: math.Inf(-1), wantMsg: "must be a finite number"},
		{name: "zero", amount: 0, wantMsg: "must be greater than 0"},
		{name: "negative", amount: -1, wantMsg: "must be greater than 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTradeAmount(tt.amount)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidateFeeConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*FeeConfig)
		wantMsg string
	}{
		{name: "valid", mutate: func(f *FeeConfig) {}},
		{name: "zero_rates_valid", mutate: func(f *FeeConfig) {
			f.BuyFeeRate, f.SellFeeRate = 0, 0
		}},
		{name: "buy_rate_nan", mutate: func(f *FeeConfig) {
			f.BuyFeeRate = math.NaN()
		}, wantMsg: "buy fee rate must be a valid number"},
		{name: "sell_rate_nan", mutate: func(f *FeeConfig) {
			f.SellFeeRate = math.NaN()
		}, wantMsg: "sell fee rate must be a valid number"},
		{name: "buy_rate_exactly_one", mutate: func(f *FeeConfig) {
			f.BuyFeeRate = 1
		}, wantMsg: "must be between 0 and 1"},
		{name: "sell_rate_above_one", mutate: func(f *FeeConfig) {
			f.SellFeeRate = 1.5
		}, wantMsg: "must be between 0 and 1"},
		{name: "negative_rate", mutate: func(f *FeeConfig) {
			f.BuyFeeRate = -0.01
		}, wantMsg: "must be between 0 and 1"},
		{name: "negative_withdrawal_fee", mutate: func(f *FeeConfig) {
			f.WithdrawalFee = -1
		}, wantMsg: "withdrawal fee"},
		{name: "negative_gas_fee", mutate: func(f *FeeConfig) {
			f.GasFee = -1
		}, wantMsg: "gas fee"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fees := validFees()
			tt.mutate(&fees)

			err := ValidateFeeConfig(fees)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestCalculateProfit_ReferenceScenario(t *testing.T) {
	// buy 2500, sell 2510, 1 unit, 0.1% per leg, 15 in fixed fees:
	// net = 2510*0.999 - 2500*1.001 - 15 ~= -10.01, a loss.
	spread := SpreadResult{BuyPrice: 2500, SellPrice: 2510}

	result, err := CalculateProfit(spread, 1, validFees())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantNet := 2510*0.999 - 2500*1.001 - 15
	if result.NetProfit != wantNet {
		t.Errorf("NetProfit = %v, want %v", result.NetProfit, wantNet)
	}
	if math.Abs(result.NetProfit-(-10.01)) > 1e-9 {
		t.Errorf("NetProfit = %v, want ~-10.01", result.NetProfit)
	}
	if result.IsProfitable {
		t.Error("loss reported as profitable")
	}
	if result.GrossProfit != 10 {
		t.Errorf("GrossProfit = %v, want 10", result.GrossProfit)
	}
}

func TestCalculateProfit_ZeroNetNotProfitable(t *testing.T) {
	// Engineered so net profit is exactly zero: no fees, equal prices.
	spread := SpreadResult{BuyPrice: 2500, SellPrice: 2500}

	result, err := CalculateProfit(spread, 1, FeeConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.NetProfit != 0 {
		t.Fatalf("NetProfit = %v, want 0", result.NetProfit)
	}
	if result.IsProfitable {
		t.Error("zero net profit reported as profitable")
	}
}

func TestCalculateProfit_PropagatesValidation(t *testing.T) {
	spread := SpreadResult{BuyPrice: 2500, SellPrice: 2510}

	if _, err := CalculateProfit(spread, math.NaN(), validFees()); err == nil {
		t.Error("expected error for NaN amount")
	}

	badFees := validFees()
	badFees.SellFeeRate = 1
	if _, err := CalculateProfit(spread, 1, badFees); err == nil {
		t.Error("expected error for invalid fee config")
	}
}

func TestCalculateNetProfit_AgreesWithGrossMinusFees(t *testing.T) {
	// The net formula and gross-minus-fees coincide for the linear fee
	// model. This pins the equivalence so a fee-model change that breaks
	// it is caught instead of assumed.
	tests := []struct {
		name   string
		buy    float64
		sell   float64
		amount float64
		fees   FeeConfig
	}{
		{"reference", 2500, 2510, 1, validFees()},
		{"larger_trade", 2450, 2475, 10, validFees()},
		{"no_fixed_fees", 100, 101, 2.5, FeeConfig{BuyFeeRate: 0.002, SellFeeRate: 0.0015}},
		{"only_fixed_fees", 64000, 65000, 0.1, FeeConfig{WithdrawalFee: 12, GasFee: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buyValue := tt.amount * tt.buy
			sellValue := tt.amount * tt.sell

			net := CalculateNetProfit(sellValue, buyValue, tt.fees)
			gross := CalculateGrossProfit(tt.buy, tt.sell, tt.amount)
			totalFees := CalculateTotalFees(buyValue, sellValue, tt.fees)

			if math.Abs(net-(gross-totalFees)) > 1e-9 {
				t.Errorf("net = %v, gross - fees = %v", net, gross-totalFees)
			}
		})
	}
}

func TestCalculateBreakEvenSpread(t *testing.T) {
	fees := validFees()

	// (0.001 + 0.001)*100 + 15/(2500*1)*100 = 0.2 + 0.6 = 0.8
	got := CalculateBreakEvenSpread(fees, 2500, 1)
	if math.Abs(got-0.8) > 1e-9 {
		t.Errorf("CalculateBreakEvenSpread = %v, want 0.8", got)
	}

	// Fixed fees dilute with trade size: break-even shrinks as amount grows.
	smaller := CalculateBreakEvenSpread(fees, 2500, 10)
	if smaller >= got {
		t.Errorf("break-even did not shrink with amount: %v >= %v", smaller, got)
	}

	// And with reference price.
	cheaper := CalculateBreakEvenSpread(fees, 250, 1)
	if cheaper <= got {
		t.Errorf("break-even did not grow with cheaper asset: %v <= %v", cheaper, got)
	}
}
