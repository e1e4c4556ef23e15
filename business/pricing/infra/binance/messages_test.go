package binance

import (
	"encoding/json"
	"testing"

	"spreadwatch/business/pricing/domain"
)

func TestMarketSymbol(t *testing.T) {
	tests := []struct {
		pair string
		want string
	}{
		{pair: "ETH/USDT", want: "ETHUSDT"},
		{pair: "BTC/USDT", want: "BTCUSDT"},
		{pair: "sol/usdc", want: "SOLUSDC"},
	}

	for _, tt := range tests {
		pair, err := domain.ParsePair(tt.pair)
		if err != nil {
			t.Fatalf("ParsePair error: %v", err)
		}
		if got := MarketSymbol(pair); got != tt.want {
			t.Errorf("MarketSymbol(%s) = %q, want %q", tt.pair, got, tt.want)
		}
	}
}

func TestBookTickerStream(t *testing.T) {
	pair := domain.NewPair("ETH", "USDT")
	if got := BookTickerStream(pair); got != "ethusdt@bookTicker" {
		t.Errorf("BookTickerStream = %q, want %q", got, "ethusdt@bookTicker")
	}
}

func TestStreamEventDecoding(t *testing.T) {
	raw := `{"stream":"ethusdt@bookTicker","data":{"u":400900217,"s":"ETHUSDT","b":"2450.10","B":"31.21","a":"2450.35","A":"40.66"}}`

	var event StreamEvent
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		t.Fatalf("unmarshal StreamEvent: %v", err)
	}
	if event.Stream != "ethusdt@bookTicker" {
		t.Errorf("Stream = %q, want %q", event.Stream, "ethusdt@bookTicker")
	}

	var ticker BookTickerEvent
	if err := json.Unmarshal(event.Data, &ticker); err != nil {
		t.Fatalf("unmarshal BookTickerEvent: %v", err)
	}
	if ticker.Symbol != "ETHUSDT" {
		t.Errorf("Symbol = %q, want ETHUSDT", ticker.Symbol)
	}

	bid, err := ticker.ParseBidPrice()
	if err != nil {
		t.Fatalf("ParseBidPrice error: %v", err)
	}
	ask, err := ticker.ParseAskPrice()
	if err != nil {
		t.Fatalf("ParseAskPrice error: %v", err)
	}
	if bid.InexactFloat64() != 2450.10 {
		t.Errorf("bid = %v, want 2450.10", bid)
	}
	if !ask.GreaterThan(bid) {
		t.Errorf("ask %v not greater than bid %v", ask, bid)
	}
}

func TestBookTickerEvent_BadPrice(t *testing.T) {
	ticker := BookTickerEvent{BidPrice: "not-a-number"}
	if _, err := ticker.ParseBidPrice(); err == nil {
		t.Error("ParseBidPrice succeeded on garbage input")
	}
}
