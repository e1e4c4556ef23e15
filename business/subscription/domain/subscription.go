// Package domain contains the subscription tier types and policy predicates.
package domain

import "time"

// Pair-count limits per tier.
const (
	FreeMaxPairs = 1
	PaidMaxPairs = 10
)

// UserSubscription is the externally supplied subscription state. Only IsPaid
// drives policy decisions; PurchaseDate and StripeSessionID are opaque
// pass-through data.
type UserSubscription struct {
	IsPaid          bool
	PurchaseDate    *time.Time
	StripeSessionID string
}

// IsPaidUser reports whether sub is a paid subscription. A nil subscription
// is free, not an error.
func IsPaidUser(sub *UserSubscription) bool {
	return sub != nil && sub.IsPaid
}

// MaxPairs returns how many trading pairs the subscription may monitor.
func MaxPairs(sub *UserSubscription) int {
	if IsPaidUser(sub) {
		return PaidMaxPairs
	}
	return FreeMaxPairs
}

// CanAccessHistoricalData reports whether historical data is available on
// this plan.
func CanAccessHistoricalData(sub *UserSubscription) bool {
	return IsPaidUser(sub)
}

// CanAddMorePairs reports whether one more pair can be added at the current
// count. A negative count is trivially within limit; the predicate imposes no
// floor and legitimate callers never pass one.
func CanAddMorePairs(sub *UserSubscription, currentCount int) bool {
	return currentCount < MaxPairs(sub)
}

// IsWithinPairLimit reports whether count itself is allowed. Inclusive: being
// exactly at the max is within limit, even though CanAddMorePairs is false
// there.
func IsWithinPairLimit(sub *UserSubscription, count int) bool {
	return count <= MaxPairs(sub)
}
