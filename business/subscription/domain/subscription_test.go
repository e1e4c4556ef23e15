package domain

import (
	"testing"
	"time"
)

func TestIsPaidUser(t *testing.T) {
	tests := []struct {
		name string
		sub  *UserSubscription
		want bool
	}{
		{name: "nil_subscription_is_free", sub: nil, want: false},
		{name: "free", sub: &UserSubscription{IsPaid: false}, want: false},
		{name: "paid", sub: &UserSubscription{IsPaid: true}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPaidUser(tt.sub); got != tt.want {
				t.Errorf("IsPaidUser = %v, want %v", got, tt.want)
			}
			if got := CanAccessHistoricalData(tt.sub); got != tt.want {
				t.Errorf("CanAccessHistoricalData = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMaxPairs(t *testing.T) {
	if got := MaxPairs(nil); got != FreeMaxPairs {
		t.Errorf("MaxPairs(nil) = %d, want %d", got, FreeMaxPairs)
	}
	if got := MaxPairs(&UserSubscription{IsPaid: true}); got != PaidMaxPairs {
		t.Errorf("MaxPairs(paid) = %d, want %d", got, PaidMaxPairs)
	}
}

func TestPairLimits(t *testing.T) {
	free := &UserSubscription{IsPaid: false}
	paid := &UserSubscription{IsPaid: true}

	tests := []struct {
		name       string
		sub        *UserSubscription
		count      int
		wantAdd    bool
		wantWithin bool
	}{
		{name: "free_empty", sub: free, count: 0, wantAdd: true, wantWithin: true},
		{name: "free_at_max", sub: free, count: 1, wantAdd: false, wantWithin: true},
		{name: "free_over_max", sub: free, count: 2, wantAdd: false, wantWithin: false},
		{name: "paid_below_max", sub: paid, count: 9, wantAdd: true, wantWithin: true},
		{name: "paid_at_max", sub: paid, count: 10, wantAdd: false, wantWithin: true},
		{name: "paid_over_max", sub: paid, count: 11, wantAdd: false, wantWithin: false},
		// Negative counts are permitted by construction, no floor.
		{name: "free_negative_count", sub: free, count: -1, wantAdd: true, wantWithin: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAddMorePairs(tt.sub, tt.count); got != tt.wantAdd {
				t.Errorf("CanAddMorePairs(%d) = %v, want %v", tt.count, got, tt.wantAdd)
			}
			if got := IsWithinPairLimit(tt.sub, tt.count); got != tt.wantWithin {
				t.Errorf("IsWithinPairLimit(%d) = %v, want %v", tt.count, got, tt.wantWithin)
			}
		})
	}
}

func TestPairLimit_PaidAtLeastAsPermissive(t *testing.T) {
	free := &UserSubscription{IsPaid: false}
	paid := &UserSubscription{IsPaid: true}

	for n := -2; n <= PaidMaxPairs+2; n++ {
		if CanAddMorePairs(free, n) && !CanAddMorePairs(paid, n) {
			t.Errorf("paid plan stricter than free at count %d", n)
		}
	}
}

func TestSubscriptionRoundTrip(t *testing.T) {
	purchase := time.Date(2025, 3, 14, 9, 26, 53, 589_000_000, time.UTC)

	tests := []struct {
		name string
		sub  UserSubscription
	}{
		{name: "free_minimal", sub: UserSubscription{IsPaid: false}},
		{
			name: "paid_full",
			sub: UserSubscription{
				IsPaid:          true,
				PurchaseDate:    &purchase,
				StripeSessionID: "cs_test_a1b2c3",
			},
		},
		{name: "paid_without_date", sub: UserSubscription{IsPaid: true, StripeSessionID: "cs_live_x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Serialize(tt.sub)
			if err != nil {
				t.Fatalf("Serialize error: %v", err)
			}

			got := Deserialize(data)
			if got == nil {
				t.Fatal("Deserialize returned nil for valid data")
			}
			if got.IsPaid != tt.sub.IsPaid {
				t.Errorf("IsPaid = %v, want %v", got.IsPaid, tt.sub.IsPaid)
			}
			if got.StripeSessionID != tt.sub.StripeSessionID {
				t.Errorf("StripeSessionID = %q, want %q", got.StripeSessionID, tt.sub.StripeSessionID)
			}
			switch {
			case tt.sub.PurchaseDate == nil:
				if got.PurchaseDate != nil {
					t.Errorf("PurchaseDate = %v, want nil", got.PurchaseDate)
				}
			case got.PurchaseDate == nil:
				t.Error("PurchaseDate lost in round trip")
			default:
				// Millisecond precision must survive.
				want := tt.sub.PurchaseDate.Truncate(time.Millisecond)
				if !got.PurchaseDate.Equal(want) {
					t.Errorf("PurchaseDate = %v, want %v", got.PurchaseDate, want)
				}
			}
		})
	}
}

func TestDeserialize_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not_json", data: "not json at all"},
		{name: "empty", data: ""},
		{name: "missing_is_paid", data: `{"purchaseDate":"2025-03-14T09:26:53.589Z"}`},
		{name: "is_paid_string", data: `{"isPaid":"yes"}`},
		{name: "is_paid_number", data: `{"isPaid":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Deserialize(tt.data); got != nil {
				t.Errorf("Deserialize(%q) = %+v, want nil", tt.data, got)
			}
		})
	}
}

func TestDeserialize_BadDateDroppedSilently(t *testing.T) {
	got := Deserialize(`{"isPaid":true,"purchaseDate":"not-a-date","stripeSessionId":"cs_1"}`)
	if got == nil {
		t.Fatal("Deserialize returned nil; a bad date must not fail the whole value")
	}
	if got.PurchaseDate != nil {
		t.Errorf("PurchaseDate = %v, want nil for unparseable date", got.PurchaseDate)
	}
	if !got.IsPaid || got.StripeSessionID != "cs_1" {
		t.Errorf("other fields lost: %+v", got)
	}
}
