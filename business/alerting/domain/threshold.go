package domain

import (
	"math"

	arbitrage "spreadwatch/business/arbitrage/domain"
	"spreadwatch/internal/apperror"
)

// Threshold bounds, in spread-percentage units.
const (
	MinThreshold     = 0.1
	MaxThreshold     = 10.0
	DefaultThreshold = 1.0
)

// ValidateThreshold rejects NaN, infinite, and out-of-range values. The
// NaN check runs first so the message names the actual defect.
func ValidateThreshold(value float64) error {
	switch {
	case math.IsNaN(value):
		return apperror.New(apperror.CodeInvalidThreshold,
			apperror.WithMessage("threshold must be a valid number"))
	case math.IsInf(value, 0):
		return apperror.New(apperror.CodeInvalidThreshold,
			apperror.WithMessage("threshold must be a finite number"))
	case value < MinThreshold || value > MaxThreshold:
		return apperror.New(apperror.CodeInvalidThreshold,
			apperror.WithMessage("threshold must be between 0.1% and 10%"))
	}
	return nil
}

// IsValidThreshold is the non-failing variant, used for soft checks.
func IsValidThreshold(value float64) bool {
	return ValidateThreshold(value) == nil
}

// SpreadExceedsThreshold is a strict comparison: a spread exactly equal to
// the threshold does not trigger.
func SpreadExceedsThreshold(spread arbitrage.SpreadResult, threshold float64) bool {
	return spread.SpreadPercent > threshold
}
