// Package domain contains the core domain types for the pricing context.
package domain

import (
	"fmt"
	"strings"
)

// TradingPair represents a base/quote asset combination. Symbol is always
// "BASE/QUOTE"; upstream configuration supplies uppercase symbols by
// convention, this type does not enforce casing. Equality is by Symbol.
type TradingPair struct {
	Base   string
	Quote  string
	Symbol string
}

// NewPair creates a trading pair from base and quote symbols.
func NewPair(base, quote string) TradingPair {
	return TradingPair{
		Base:   base,
		Quote:  quote,
		Symbol: base + "/" + quote,
	}
}

// ParsePair parses a "BASE/QUOTE" symbol.
func ParsePair(symbol string) (TradingPair, error) {
	base, quote, ok := strings.Cut(symbol, "/")
	if !ok || base == "" || quote == "" {
		return TradingPair{}, fmt.Errorf("invalid pair symbol %q, want BASE/QUOTE", symbol)
	}
	return NewPair(base, quote), nil
}

// String returns the pair symbol.
func (p TradingPair) String() string {
	return p.Symbol
}

// Equal reports whether two pairs identify the same market.
func (p TradingPair) Equal(other TradingPair) bool {
	return p.Symbol == other.Symbol
}
