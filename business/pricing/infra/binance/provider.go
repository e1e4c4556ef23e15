package binance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"spreadwatch/business/pricing/domain"
	"spreadwatch/internal/logger"
)

// ProviderConfig holds configuration for the Binance provider.
type ProviderConfig struct {
	RESTURL           string
	WebSocketURL      string
	StreamEnabled     bool
	StaleTimeout      time.Duration
	RequestsPerMinute int
}

// Provider serves Binance price observations. The bookTicker stream is the
// primary quote source when enabled; the 24h REST ticker supplies volume and
// acts as the fallback when the stream is stale or down.
type Provider struct {
	config ProviderConfig
	rest   *RESTClient
	stream *StreamClient
	logger logger.LoggerInterface
}

// NewProvider creates a Binance provider for the given pairs.
func NewProvider(cfg ProviderConfig, pairs []domain.TradingPair, log logger.LoggerInterface) (*Provider, error) {
	if cfg.StaleTimeout == 0 {
		cfg.StaleTimeout = 10 * time.Second
	}

	rest, err := NewRESTClient(RESTClientConfig{
		BaseURL:           cfg.RESTURL,
		RequestsPerMinute: cfg.RequestsPerMinute,
	}, log)
	if err != nil {
		return nil, err
	}

	p := &Provider{
		config: cfg,
		rest:   rest,
		logger: log,
	}

	if cfg.StreamEnabled {
		stream, err := NewStreamClient(cfg.WebSocketURL, pairs, log)
		if err != nil {
			return nil, err
		}
		p.stream = stream
	}

	return p, nil
}

// Name returns the venue identifier.
func (p *Provider) Name() domain.Exchange {
	return domain.ExchangeBinance
}

// Connect establishes the stream connection when streaming is enabled.
func (p *Provider) Connect(ctx context.Context) error {
	if p.stream == nil {
		return nil
	}
	return p.stream.Connect(ctx)
}

// Close shuts down the stream connection.
func (p *Provider) Close() error {
	if p.stream == nil {
		return nil
	}
	return p.stream.Close()
}

// FetchTickers returns one observation per pair. Pairs missing from the REST
// response and without stream data are omitted.
func (p *Provider) FetchTickers(ctx context.Context, pairs []domain.TradingPair) ([]domain.PriceObservation, error) {
	symbols := make([]string, len(pairs))
	for i, pair := range pairs {
		symbols[i] = MarketSymbol(pair)
	}

	tickers, restErr := p.rest.GetTickers(ctx, symbols)
	bySymbol := make(map[string]Ticker24hResponse, len(tickers))
	for _, t := range tickers {
		bySymbol[t.Symbol] = t
	}

	observations := make([]domain.PriceObservation, 0, len(pairs))
	now := time.Now()

	for _, pair := range pairs {
		symbol := MarketSymbol(pair)

		obs := domain.PriceObservation{
			Pair:      pair,
			Exchange:  domain.ExchangeBinance,
			Timestamp: now,
		}
		haveREST := false

		if ticker, ok := bySymbol[symbol]; ok {
			if p.applyREST(&obs, ticker) {
				haveREST = true
			}
		}

		haveStream := p.applyStream(&obs, symbol, now)

		if !haveREST && !haveStream {
			if restErr != nil {
				// venue fully unavailable this cycle
				return nil, restErr
			}
			p.logger.Debug(ctx, "binance has no market for pair", "pair", pair.Symbol)
			continue
		}

		observations = append(observations, obs)
	}

	return observations, nil
}

// applyREST fills obs from the 24h ticker. Returns false when the payload has
// no usable price.
func (p *Provider) applyREST(obs *domain.PriceObservation, ticker Ticker24hResponse) bool {
	last, err := decimal.NewFromString(ticker.LastPrice)
	if err != nil || last.IsZero() {
		return false
	}
	obs.Price = last.InexactFloat64()

	if vol, err := decimal.NewFromString(ticker.Volume); err == nil {
		obs.Volume24h = vol.InexactFloat64()
	}
	bid, bidErr := decimal.NewFromString(ticker.BidPrice)
	ask, askErr := decimal.NewFromString(ticker.AskPrice)
	if bidErr == nil && askErr == nil && !bid.IsZero() && !ask.IsZero() {
		obs.BidAskSpread = ask.Sub(bid).InexactFloat64()
	}
	return true
}

// applyStream overlays the fresher bookTicker quote when available. Returns
// true when stream data was usable, marking obs stale if past the freshness
// window.
func (p *Provider) applyStream(obs *domain.PriceObservation, symbol string, now time.Time) bool {
	if p.stream == nil {
		return false
	}
	event, receivedAt, ok := p.stream.Latest(symbol)
	if !ok {
		return false
	}

	bid, bidErr := event.ParseBidPrice()
	ask, askErr := event.ParseAskPrice()
	if bidErr != nil || askErr != nil || bid.IsZero() || ask.IsZero() {
		return false
	}

	mid := bid.Add(ask).Div(decimal.NewFromInt(2))
	obs.Price = mid.InexactFloat64()
	obs.BidAskSpread = ask.Sub(bid).InexactFloat64()
	obs.Timestamp = receivedAt
	obs.IsStale = now.Sub(receivedAt) > p.config.StaleTimeout
	return true
}
