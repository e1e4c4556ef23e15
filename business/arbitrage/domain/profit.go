package domain

import (
	"math"

	"spreadwatch/internal/apperror"
)

// FeeConfig models the cost of executing one simulated round trip. Rates
// are fractions, not percentages (0.001 means 0.1%), and apply to the
// notional traded value on each leg. WithdrawalFee and GasFee are fixed
// quote-currency amounts.
type FeeConfig struct {
	BuyFeeRate    float64
	SellFeeRate   float64
	WithdrawalFee float64
	GasFee        float64
}

// ProfitResult is the simulated outcome of trading one opportunity.
// IsProfitable is strict: a net profit of exactly zero is not profitable.
type ProfitResult struct {
	GrossProfit  float64
	TotalFees    float64
	NetProfit    float64
	IsProfitable bool
}

// ValidateTradeAmount rejects NaN, infinite, and non-positive amounts.
// The NaN check runs before the range check so the error message names the
// actual defect.
func ValidateTradeAmount(amount float64) error {
	switch {
	case math.IsNaN(amount):
		return apperror.New(apperror.CodeInvalidTradeAmount,
			apperror.WithMessage("trade amount must be a valid number"))
	case math.IsInf(amount, 0):
		return apperror.New(apperror.CodeInvalidTradeAmount,
			apperror.WithMessage("trade amount must be a finite number"))
	case amount <= 0:
		return apperror.New(apperror.CodeInvalidTradeAmount,
			apperror.WithMessage("trade amount must be greater than 0"))
	}
	return nil
}

// ValidateFeeConfig checks each field independently: rates must lie in
// [0, 1) and fixed fees must be non-negative.
func ValidateFeeConfig(fees FeeConfig) error {
	rates := []struct {
		name string
		rate float64
	}{
		{"buy fee rate", fees.BuyFeeRate},
		{"sell fee rate", fees.SellFeeRate},
	}
	for _, r := range rates {
		if math.IsNaN(r.rate) {
			return apperror.New(apperror.CodeInvalidFeeConfig,
				apperror.WithMessage(r.name+" must be a valid number"))
		}
		if r.rate < 0 || r.rate >= 1 {
			return apperror.New(apperror.CodeInvalidFeeConfig,
				apperror.WithMessage(r.name+" must be between 0 and 1"))
		}
	}

	fixed := []struct {
		name string
		fee  float64
	}{
		{"withdrawal fee", fees.WithdrawalFee},
		{"gas fee", fees.GasFee},
	}
	for _, f := range fixed {
		if math.IsNaN(f.fee) || f.fee < 0 {
			return apperror.New(apperror.CodeInvalidFeeConfig,
				apperror.WithMessage(f.name+" must be greater than or equal to 0"))
		}
	}
	return nil
}

// CalculateGrossProfit is the fee-free profit of buying amount units at
// buyPrice and selling at sellPrice. Validation is the caller's concern.
func CalculateGrossProfit(buyPrice, sellPrice, amount float64) float64 {
	return amount*sellPrice - amount*buyPrice
}

// CalculateTotalFees sums the percentage fees on each leg's notional value
// plus the fixed fees.
func CalculateTotalFees(buyValue, sellValue float64, fees FeeConfig) float64 {
	return buyValue*fees.BuyFeeRate + sellValue*fees.SellFeeRate + fees.WithdrawalFee + fees.GasFee
}

// CalculateNetProfit is the canonical net-profit formula. It is kept as a
// distinct expression rather than derived from gross minus fees so a future
// non-linear fee model cannot silently break the breakdown fields. The two
// agree for the current linear model; a regression test pins that.
func CalculateNetProfit(sellValue, buyValue float64, fees FeeConfig) float64 {
	return sellValue*(1-fees.SellFeeRate) - buyValue*(1+fees.BuyFeeRate) - fees.WithdrawalFee - fees.GasFee
}

// CalculateProfit simulates trading one opportunity at the given size under
// the given fee schedule. Validation errors from the amount and fee checks
// propagate unchanged.
func CalculateProfit(spread SpreadResult, amount float64, fees FeeConfig) (ProfitResult, error) {
	if err := ValidateTradeAmount(amount); err != nil {
		return ProfitResult{}, err
	}
	if err := ValidateFeeConfig(fees); err != nil {
		return ProfitResult{}, err
	}

	buyValue := amount * spread.BuyPrice
	sellValue := amount * spread.SellPrice
	net := CalculateNetProfit(sellValue, buyValue, fees)

	return ProfitResult{
		GrossProfit:  CalculateGrossProfit(spread.BuyPrice, spread.SellPrice, amount),
		TotalFees:    CalculateTotalFees(buyValue, sellValue, fees),
		NetProfit:    net,
		IsProfitable: net > 0,
	}, nil
}

// CalculateBreakEvenSpread is the minimum spread percentage at which net
// profit turns non-negative for a trade of amount units at referencePrice.
// Fixed fees are normalized against the notional value, so larger trades
// dilute them.
func CalculateBreakEvenSpread(fees FeeConfig, referencePrice, amount float64) float64 {
	return (fees.BuyFeeRate+fees.SellFeeRate)*100 +
		(fees.WithdrawalFee+fees.GasFee)/(referencePrice*amount)*100
}
