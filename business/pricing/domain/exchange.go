package domain

// Exchange identifies a price venue. The set is small and fixed; values are
// opaque tags and carry no ordering.
type Exchange string

const (
	ExchangeBinance  Exchange = "binance"
	ExchangeCoinbase Exchange = "coinbase"
	ExchangeKraken   Exchange = "kraken"
)

// KnownExchanges lists every supported venue.
func KnownExchanges() []Exchange {
	return []Exchange{ExchangeBinance, ExchangeCoinbase, ExchangeKraken}
}

// IsKnown reports whether e is a supported venue.
func (e Exchange) IsKnown() bool {
	switch e {
	case ExchangeBinance, ExchangeCoinbase, ExchangeKraken:
		return true
	}
	return false
}

func (e Exchange) String() string {
	return string(e)
}
