package domain

import (
	"encoding/json"
	"time"
)

// purchaseDateLayout is RFC 3339 with millisecond precision.
const purchaseDateLayout = "2006-01-02T15:04:05.000Z07:00"

// wireSubscription is the storable JSON shape. IsPaid is a pointer so a
// missing or mistyped field is distinguishable from false.
type wireSubscription struct {
	IsPaid          *bool  `json:"isPaid"`
	PurchaseDate    string `json:"purchaseDate,omitempty"`
	StripeSessionID string `json:"stripeSessionId,omitempty"`
}

// Serialize encodes sub into its storable string form.
func Serialize(sub UserSubscription) (string, error) {
	wire := wireSubscription{
		IsPaid:          &sub.IsPaid,
		StripeSessionID: sub.StripeSessionID,
	}
	if sub.PurchaseDate != nil {
		wire.PurchaseDate = sub.PurchaseDate.Format(purchaseDateLayout)
	}

	data, err := json.Marshal(wire)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Deserialize decodes the storable form. Malformed input is an expected
// real-world condition (corrupted storage), so failures return nil rather
// than an error: non-JSON payloads and payloads whose isPaid is missing or
// not a boolean yield nil. An unparseable purchaseDate is silently dropped
// without failing the rest of the value.
func Deserialize(data string) *UserSubscription {
	var wire wireSubscription
	if err := json.Unmarshal([]byte(data), &wire); err != nil {
		return nil
	}
	if wire.IsPaid == nil {
		return nil
	}

	sub := &UserSubscription{
		IsPaid:          *wire.IsPaid,
		StripeSessionID: wire.StripeSessionID,
	}
	if wire.PurchaseDate != "" {
		if ts, err := time.Parse(time.RFC3339Nano, wire.PurchaseDate); err == nil {
			sub.PurchaseDate = &ts
		}
	}
	return sub
}
