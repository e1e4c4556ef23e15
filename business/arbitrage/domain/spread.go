// Package domain contains the arbitrage value objects and the pure
// spread and profit arithmetic.
package domain

import (
	"sort"
	"time"

	pricing "spreadwatch/business/pricing/domain"
	"spreadwatch/internal/apperror"
)

// SpreadResult is one cross-exchange arbitrage opportunity. BuyPrice is
// always strictly lower than SellPrice; a combination is only materialized
// when that holds. SpreadPercent is computed once at creation and never
// recomputed.
type SpreadResult struct {
	Pair          pricing.TradingPair
	BuyExchange   pricing.Exchange
	SellExchange  pricing.Exchange
	BuyPrice      float64
	SellPrice     float64
	SpreadPercent float64
	Timestamp     time.Time
}

// ExchangeCombination is a buy/sell observation pairing for one trading
// pair where the buy side is strictly cheaper.
type ExchangeCombination struct {
	Buy  pricing.PriceObservation
	Sell pricing.PriceObservation
}

// PairGroup holds the observations for one trading pair, in input order.
type PairGroup struct {
	Symbol       string
	Observations []pricing.PriceObservation
}

// GroupByPair partitions observations by pair symbol. Groups appear in
// first-seen order and relative order within each group is preserved.
func GroupByPair(observations []pricing.PriceObservation) []PairGroup {
	index := make(map[string]int, len(observations))
	groups := make([]PairGroup, 0, len(observations))

	for _, obs := range observations {
		symbol := obs.Pair.Symbol
		i, ok := index[symbol]
		if !ok {
			i = len(groups)
			index[symbol] = i
			groups = append(groups, PairGroup{Symbol: symbol})
		}
		groups[i].Observations = append(groups[i].Observations, obs)
	}
	return groups
}

// GenerateExchangeCombinations enumerates every ordered pair (i, j) of one
// pair's observations where i != j and price[i] is strictly lower than
// price[j]. Equal prices produce no combination. O(n^2), where n is bounded
// by the number of configured exchanges.
func GenerateExchangeCombinations(observations []pricing.PriceObservation) []ExchangeCombination {
	var combos []ExchangeCombination
	for i := range observations {
		for j := range observations {
			if i == j {
				continue
			}
			if observations[i].Price < observations[j].Price {
				combos = append(combos, ExchangeCombination{
					Buy:  observations[i],
					Sell: observations[j],
				})
			}
		}
	}
	return combos
}

// CalculateSpreadPercent returns the spread between a buy and sell price as
// a percentage of the buy price. The buy price must be positive. This is
// the single source of truth for spread math; no rounding is applied.
func CalculateSpreadPercent(buyPrice, sellPrice float64) (float64, error) {
	if !(buyPrice > 0) {
		return 0, apperror.Validation(apperror.CodeInvalidPrice, "spread calculation")
	}
	return (sellPrice - buyPrice) / buyPrice * 100, nil
}

// CalculateSpread turns a snapshot of observations into the full set of
// arbitrage opportunities. Pairs with fewer than two observations
// contribute no results. Timestamp is the calculation time, not any
// observation's own timestamp.
func CalculateSpread(observations []pricing.PriceObservation) ([]SpreadResult, error) {
	now := time.Now()

	var results []SpreadResult
	for _, group := range GroupByPair(observations) {
		if len(group.Observations) < 2 {
			continue
		}
		for _, combo := range GenerateExchangeCombinations(group.Observations) {
			percent, err := CalculateSpreadPercent(combo.Buy.Price, combo.Sell.Price)
			if err != nil {
				return nil, err
			}
			results = append(results, SpreadResult{
				Pair:          combo.Buy.Pair,
				BuyExchange:   combo.Buy.Exchange,
				SellExchange:  combo.Sell.Exchange,
				BuyPrice:      combo.Buy.Price,
				SellPrice:     combo.Sell.Price,
				SpreadPercent: percent,
				Timestamp:     now,
			})
		}
	}
	return results, nil
}

// SortBySpread returns a new slice sorted by spread percentage descending.
// The input is not mutated. The sort is stable.
func SortBySpread(results []SpreadResult) []SpreadResult {
	sorted := make([]SpreadResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SpreadPercent > sorted[j].SpreadPercent
	})
	return sorted
}

// CalculateAndSortSpreads is the per-cycle entry point: calculate every
// opportunity from the snapshot, then rank by spread descending.
func CalculateAndSortSpreads(observations []pricing.PriceObservation) ([]SpreadResult, error) {
	results, err := CalculateSpread(observations)
	if err != nil {
		return nil, err
	}
	return SortBySpread(results), nil
}

// FilterByMinSpread keeps results whose spread meets the minimum.
func FilterByMinSpread(results []SpreadResult, minSpread float64) []SpreadResult {
	var filtered []SpreadResult
	for _, r := range results {
		if r.SpreadPercent >= minSpread {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// BestSpreadForPair returns the highest-spread result for the given pair
// symbol, or nil when the pair has no results.
func BestSpreadForPair(results []SpreadResult, symbol string) *SpreadResult {
	var best *SpreadResult
	for i := range results {
		if results[i].Pair.Symbol != symbol {
			continue
		}
		if best == nil || results[i].SpreadPercent > best.SpreadPercent {
			best = &results[i]
		}
	}
	if best == nil {
		return nil
	}
	result := *best
	return &result
}

// SpreadsByExchange returns results where the exchange participates on
// either leg.
func SpreadsByExchange(results []SpreadResult, exchange pricing.Exchange) []SpreadResult {
	var matched []SpreadResult
	for _, r := range results {
		if r.BuyExchange == exchange || r.SellExchange == exchange {
			matched = append(matched, r)
		}
	}
	return matched
}
