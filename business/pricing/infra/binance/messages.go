// Package binance implements the TickerProvider interface for Binance.
package binance

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"spreadwatch/business/pricing/domain"
)

// WSRequest is a WebSocket subscription request.
type WSRequest struct {
	Method string   `json:"method"`
	Params []string `json:"params"`
	ID     int64    `json:"id"`
}

// StreamEvent is the combined-stream wrapper for all stream messages.
type StreamEvent struct {
	Stream string          `json:"stream"`
	Data   json.RawMessage `json:"data"`
}

// BookTickerEvent represents a best bid/ask update (real-time).
// Stream: <symbol>@bookTicker
type BookTickerEvent struct {
	UpdateID int64  `json:"u"` // Order book updateId
	Symbol   string `json:"s"` // Symbol
	BidPrice string `json:"b"` // Best bid price
	BidQty   string `json:"B"` // Best bid qty
	AskPrice string `json:"a"` // Best ask price
	AskQty   string `json:"A"` // Best ask qty
}

// ParseBidPrice parses the best bid price.
func (e *BookTickerEvent) ParseBidPrice() (decimal.Decimal, error) {
	return decimal.NewFromString(e.BidPrice)
}

// ParseAskPrice parses the best ask price.
func (e *BookTickerEvent) ParseAskPrice() (decimal.Decimal, error) {
	return decimal.NewFromString(e.AskPrice)
}

// Ticker24hResponse is one element of the REST /api/v3/ticker/24hr response.
// Prices arrive as strings and are parsed at this boundary.
type Ticker24hResponse struct {
	Symbol      string `json:"symbol"`
	LastPrice   string `json:"lastPrice"`
	BidPrice    string `json:"bidPrice"`
	AskPrice    string `json:"askPrice"`
	Volume      string `json:"volume"`
	QuoteVolume string `json:"quoteVolume"`
	CloseTime   int64  `json:"closeTime"`
}

// MarketSymbol converts a trading pair to the Binance market symbol
// ("ETH/USDT" -> "ETHUSDT").
func MarketSymbol(pair domain.TradingPair) string {
	return strings.ToUpper(pair.Base + pair.Quote)
}

// BookTickerStream returns the bookTicker stream name for a pair.
func BookTickerStream(pair domain.TradingPair) string {
	return strings.ToLower(MarketSymbol(pair)) + "@bookTicker"
}
