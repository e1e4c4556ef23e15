package kraken

import (
	"testing"

	"spreadwatch/business/pricing/domain"
)

func TestMarketSymbol(t *testing.T) {
	tests := []struct {
		pair string
		want string
	}{
		{pair: "ETH/USDT", want: "ETHUSDT"},
		{pair: "BTC/USDT", want: "XBTUSDT"}, // Kraken uses XBT for bitcoin
		{pair: "BTC/USD", want: "XBTUSD"},
		{pair: "SOL/USDC", want: "SOLUSDC"},
	}

	for _, tt := range tests {
		t.Run(tt.pair, func(t *testing.T) {
			pair, err := domain.ParsePair(tt.pair)
			if err != nil {
				t.Fatalf("ParsePair error: %v", err)
			}
			if got := MarketSymbol(pair); got != tt.want {
				t.Errorf("MarketSymbol(%s) = %q, want %q", tt.pair, got, tt.want)
			}
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{key: "XETHZUSD", want: "ETHUSD"}, // legacy X/Z prefixed form
		{key: "XXBTZUSD", want: "XBTUSD"},
		{key: "ETHUSDT", want: "ETHUSDT"},
		{key: "xbtusdt", want: "XBTUSDT"},
	}

	for _, tt := range tests {
		if got := normalizeKey(tt.key); got != tt.want {
			t.Errorf("normalizeKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
