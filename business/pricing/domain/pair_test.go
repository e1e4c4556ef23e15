package domain

import "testing"

func TestParsePair(t *testing.T) {
	tests := []struct {
		symbol    string
		wantBase  string
		wantQuote string
		wantErr   bool
	}{
		{symbol: "ETH/USDT", wantBase: "ETH", wantQuote: "USDT"},
		{symbol: "BTC/USDT", wantBase: "BTC", wantQuote: "USDT"},
		{symbol: "SOL/USDC", wantBase: "SOL", wantQuote: "USDC"},
		{symbol: "ETHUSDT", wantErr: true},
		{symbol: "/USDT", wantErr: true},
		{symbol: "ETH/", wantErr: true},
		{symbol: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			pair, err := ParsePair(tt.symbol)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePair(%q) succeeded, want error", tt.symbol)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePair(%q) error: %v", tt.symbol, err)
			}
			if pair.Base != tt.wantBase || pair.Quote != tt.wantQuote {
				t.Errorf("got %s/%s, want %s/%s", pair.Base, pair.Quote, tt.wantBase, tt.wantQuote)
			}
			if pair.Symbol != tt.symbol {
				t.Errorf("Symbol = %q, want %q", pair.Symbol, tt.symbol)
			}
		})
	}
}

func TestDedupeByExchange(t *testing.T) {
	eth := NewPair("ETH", "USDT")
	btc := NewPair("BTC", "USDT")

	observations := []PriceObservation{
		{Pair: eth, Exchange: ExchangeBinance, Price: 2450},
		{Pair: eth, Exchange: ExchangeCoinbase, Price: 2475},
		{Pair: eth, Exchange: ExchangeBinance, Price: 2451}, // duplicate
		{Pair: btc, Exchange: ExchangeBinance, Price: 64000},
	}

	kept, dropped := DedupeByExchange(observations)

	if len(kept) != 3 {
		t.Fatalf("kept %d observations, want 3", len(kept))
	}
	if len(dropped) != 1 {
		t.Fatalf("dropped %d observations, want 1", len(dropped))
	}
	if dropped[0].Price != 2451 {
		t.Errorf("dropped price = %v, want the later duplicate 2451", dropped[0].Price)
	}
	// First occurrence wins.
	if kept[0].Price != 2450 {
		t.Errorf("kept[0].Price = %v, want 2450", kept[0].Price)
	}
}

func TestDedupeByExchange_Empty(t *testing.T) {
	kept, dropped := DedupeByExchange(nil)
	if len(kept) != 0 || len(dropped) != 0 {
		t.Errorf("got kept=%d dropped=%d, want both empty", len(kept), len(dropped))
	}
}
