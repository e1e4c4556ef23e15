package domain

import "time"

// PriceObservation is one venue's view of a pair at a point in time. Produced
// once per exchange per pair per polling cycle; immutable once created.
type PriceObservation struct {
	Pair         TradingPair
	Exchange     Exchange
	Price        float64 // last/mid price in quote currency, > 0
	Volume24h    float64
	BidAskSpread float64
	Timestamp    time.Time
	IsStale      bool
}

// DedupeByExchange enforces the at-most-one-observation-per-(pair, exchange)
// batch contract at the ingestion boundary. The first occurrence wins;
// duplicates are returned separately so callers can log them.
func DedupeByExchange(observations []PriceObservation) (kept, dropped []PriceObservation) {
	type key struct {
		symbol   string
		exchange Exchange
	}
	seen := make(map[key]bool, len(observations))

	for _, obs := range observations {
		k := key{symbol: obs.Pair.Symbol, exchange: obs.Exchange}
		if seen[k] {
			dropped = append(dropped, obs)
			continue
		}
		seen[k] = true
		kept = append(kept, obs)
	}
	return kept, dropped
}
