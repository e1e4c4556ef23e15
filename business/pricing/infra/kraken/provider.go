// Package kraken implements the TickerProvider interface for Kraken.
package kraken

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"spreadwatch/business/pricing/domain"
	"spreadwatch/internal/apperror"
	"spreadwatch/internal/breaker"
	"spreadwatch/internal/httpclient"
	"spreadwatch/internal/logger"
	"spreadwatch/internal/ratelimit"
)

const (
	// BaseAPIURL is the Kraken public REST API.
	BaseAPIURL = "https://api.kraken.com"

	tickerEndpoint = "/0/public/Ticker"

	tracerName = "spreadwatch/business/pricing/infra/kraken"

	httpTimeout = 10 * time.Second
)

// tickerInfo is one market's entry in the Ticker response. Kraken encodes
// numbers as string arrays: a/b are [price, wholeLotVolume, lotVolume],
// c is [lastPrice, lotVolume], v is [today, last24h].
type tickerInfo struct {
	Ask    []string `json:"a"`
	Bid    []string `json:"b"`
	Closed []string `json:"c"`
	Volume []string `json:"v"`
}

// tickerResponse is the full /0/public/Ticker payload.
type tickerResponse struct {
	Error  []string              `json:"error"`
	Result map[string]tickerInfo `json:"result"`
}

// ProviderConfig holds configuration for the Kraken provider.
type ProviderConfig struct {
	RESTURL           string
	RequestsPerMinute int
}

// Provider serves Kraken price observations over REST.
type Provider struct {
	client  httpclient.Client
	logger  logger.LoggerInterface
	tracer  trace.Tracer
	limiter *ratelimit.Limiter
	breaker *breaker.Breaker[*tickerResponse]
}

// NewProvider creates a Kraken provider.
func NewProvider(cfg ProviderConfig, log logger.LoggerInterface) (*Provider, error) {
	if cfg.RESTURL == "" {
		cfg.RESTURL = BaseAPIURL
	}
	if cfg.RequestsPerMinute == 0 {
		cfg.RequestsPerMinute = 60
	}

	tracer := otel.Tracer(tracerName)

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("kraken"),
		httpclient.WithBaseURL(cfg.RESTURL),
		httpclient.WithRequestTimeout(httpTimeout),
		httpclient.WithTraceOptions(tracer, httpclient.TraceResponse),
		httpclient.WithHeaders(map[string]string{
			"Accept": "application/json",
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &Provider{
		client:  client,
		logger:  log,
		tracer:  tracer,
		limiter: ratelimit.New(cfg.RequestsPerMinute),
		breaker: breaker.New[*tickerResponse](breaker.DefaultConfig("kraken-rest"), log),
	}, nil
}

// Name returns the venue identifier.
func (p *Provider) Name() domain.Exchange {
	return domain.ExchangeKraken
}

// MarketSymbol converts a trading pair to Kraken's altname form
// ("BTC/USDT" -> "XBTUSDT").
func MarketSymbol(pair domain.TradingPair) string {
	return krakenAsset(pair.Base) + krakenAsset(pair.Quote)
}

func krakenAsset(symbol string) string {
	s := strings.ToUpper(symbol)
	if s == "BTC" {
		return "XBT"
	}
	return s
}

// normalizeKey reduces a Kraken result key to a comparable altname.
// Kraken sometimes returns legacy keys like XETHZUSD for ETHUSD.
func normalizeKey(key string) string {
	k := strings.ToUpper(key)
	if len(k) == 8 && k[0] == 'X' && k[4] == 'Z' {
		return k[1:4] + k[5:]
	}
	return k
}

// FetchTickers returns one observation per pair. Markets Kraken does not
// list are skipped.
func (p *Provider) FetchTickers(ctx context.Context, pairs []domain.TradingPair) ([]domain.PriceObservation, error) {
	ctx, span := p.tracer.Start(ctx, "kraken.fetch_tickers",
		trace.WithAttributes(attribute.Int("pairs", len(pairs))),
	)
	defer span.End()

	symbols := make([]string, len(pairs))
	for i, pair := range pairs {
		symbols[i] = MarketSymbol(pair)
	}

	response, err := p.getTickers(ctx, symbols)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	byAltname := make(map[string]tickerInfo, len(response.Result))
	for key, info := range response.Result {
		byAltname[normalizeKey(key)] = info
	}

	observations := make([]domain.PriceObservation, 0, len(pairs))
	now := time.Now()

	for i, pair := range pairs {
		info, ok := byAltname[symbols[i]]
		if !ok {
			p.logger.Debug(ctx, "kraken has no market for pair", "pair", pair.Symbol)
			continue
		}
		obs, ok := p.toObservation(pair, info, now)
		if !ok {
			p.logger.Warn(ctx, "kraken ticker missing price", "pair", pair.Symbol)
			continue
		}
		observations = append(observations, obs)
	}

	return observations, nil
}

func (p *Provider) getTickers(ctx context.Context, symbols []string) (*tickerResponse, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	return p.breaker.Execute(func() (*tickerResponse, error) {
		var result tickerResponse
		resp, err := p.client.NewRequestWithOptions(
			httpclient.WithLabels(httpclient.NewLabel("endpoint", "ticker")),
		).
			SetQueryParam("pair", strings.Join(symbols, ",")).
			SetResult(&result).
			Get(ctx, tickerEndpoint)

		if err != nil {
			return nil, apperror.New(apperror.CodeTickerFetchFailed,
				apperror.WithCause(err),
				apperror.WithContext("kraken"))
		}
		if resp.IsError() {
			return nil, apperror.New(apperror.CodeExchangeAPIError,
				apperror.WithContext(fmt.Sprintf("kraken HTTP %d: %s", resp.StatusCode, resp.String())))
		}
		if len(result.Error) > 0 {
			return nil, apperror.New(apperror.CodeExchangeAPIError,
				apperror.WithContext("kraken: "+strings.Join(result.Error, "; ")))
		}
		return &result, nil
	})
}

func (p *Provider) toObservation(pair domain.TradingPair, info tickerInfo, now time.Time) (domain.PriceObservation, bool) {
	if len(info.Closed) == 0 {
		return domain.PriceObservation{}, false
	}
	last, err := decimal.NewFromString(info.Closed[0])
	if err != nil || last.IsZero() {
		return domain.PriceObservation{}, false
	}

	obs := domain.PriceObservation{
		Pair:      pair,
		Exchange:  domain.ExchangeKraken,
		Price:     last.InexactFloat64(),
		Timestamp: now,
	}
	if len(info.Volume) > 1 {
		if vol, err := decimal.NewFromString(info.Volume[1]); err == nil {
			obs.Volume24h = vol.InexactFloat64()
		}
	}
	if len(info.Bid) > 0 && len(info.Ask) > 0 {
		bid, bidErr := decimal.NewFromString(info.Bid[0])
		ask, askErr := decimal.NewFromString(info.Ask[0])
		if bidErr == nil && askErr == nil && !bid.IsZero() && !ask.IsZero() {
			obs.BidAskSpread = ask.Sub(bid).InexactFloat64()
		}
	}
	return obs, true
}
