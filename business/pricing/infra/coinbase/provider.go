// Package coinbase implements the TickerProvider interface for Coinbase Exchange.
package coinbase

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
	// BaseAPIURL is the Coinbase Exchange (formerly Pro) REST API.
	BaseAPIURL = "https://api.exchange.coinbase.com"

	tracerName = "spreadwatch/business/pricing/infra/coinbase"

	httpTimeout = 10 * time.Second
)

// tickerResponse is the /products/<id>/ticker payload. Prices are strings.
type tickerResponse struct {
	TradeID int64  `json:"trade_id"`
	Price   string `json:"price"`
	Size    string `json:"size"`
	Bid     string `json:"bid"`
	Ask     string `json:"ask"`
	Volume  string `json:"volume"`
	Time    string `json:"time"`
}

// ProviderConfig holds configuration for the Coinbase provider.
type ProviderConfig struct {
	RESTURL           string
	RequestsPerMinute int
}

// Provider serves Coinbase price observations over REST.
type Provider struct {
	client  httpclient.Client
	logger  logger.LoggerInterface
	tracer  trace.Tracer
	limiter *ratelimit.Limiter
	breaker *breaker.Breaker[*tickerResponse]
}

// NewProvider creates a Coinbase provider.
func NewProvider(cfg ProviderConfig, log logger.LoggerInterface) (*Provider, error) {
	if cfg.RESTURL == "" {
		cfg.RESTURL = BaseAPIURL
	}
	if cfg.RequestsPerMinute == 0 {
		cfg.RequestsPerMinute = 600
	}

	tracer := otel.Tracer(tracerName)

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("coinbase"),
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
		breaker: breaker.New[*tickerResponse](breaker.DefaultConfig("coinbase-rest"), log),
	}, nil
}

// Name returns the venue identifier.
func (p *Provider) Name() domain.Exchange {
	return domain.ExchangeCoinbase
}

// ProductID converts a trading pair to the Coinbase product id
// ("ETH/USDT" -> "ETH-USDT").
func ProductID(pair domain.TradingPair) string {
	return strings.ToUpper(pair.Base + "-" + pair.Quote)
}

// FetchTickers returns one observation per pair. Unknown products are skipped.
func (p *Provider) FetchTickers(ctx context.Context, pairs []domain.TradingPair) ([]domain.PriceObservation, error) {
	ctx, span := p.tracer.Start(ctx, "coinbase.fetch_tickers",
		trace.WithAttributes(attribute.Int("pairs", len(pairs))),
	)
	defer span.End()

	observations := make([]domain.PriceObservation, 0, len(pairs))
	now := time.Now()

	for _, pair := range pairs {
		ticker, err := p.getTicker(ctx, ProductID(pair))
		if err != nil {
			if apperror.GetCode(err) == apperror.CodeNotFound {
				p.logger.Debug(ctx, "coinbase has no product for pair", "pair", pair.Symbol)
				continue
			}
			span.RecordError(err)
			return nil, err
		}

		obs, ok := p.toObservation(pair, ticker, now)
		if !ok {
			p.logger.Warn(ctx, "coinbase ticker missing price", "pair", pair.Symbol)
			continue
		}
		observations = append(observations, obs)
	}

	return observations, nil
}

func (p *Provider) getTicker(ctx context.Context, productID string) (*tickerResponse, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	return p.breaker.Execute(func() (*tickerResponse, error) {
		var result tickerResponse
		resp, err := p.client.NewRequestWithOptions(
			httpclient.WithLabels(
				httpclient.NewLabel("endpoint", "ticker"),
				httpclient.NewLabel("product", productID),
			),
		).
			SetResult(&result).
			Get(ctx, "/products/"+productID+"/ticker")

		if err != nil {
			return nil, apperror.New(apperror.CodeTickerFetchFailed,
				apperror.WithCause(err),
				apperror.WithContext("coinbase"))
		}
		if resp.StatusCode == 404 {
			return nil, apperror.NotFound(apperror.CodeNotFound, "coinbase product "+productID)
		}
		if resp.IsError() {
			return nil, apperror.New(apperror.CodeExchangeAPIError,
				apperror.WithContext(fmt.Sprintf("coinbase HTTP %d: %s", resp.StatusCode, resp.String())))
		}
		return &result, nil
	})
}

func (p *Provider) toObservation(pair domain.TradingPair, ticker *tickerResponse, now time.Time) (domain.PriceObservation, bool) {
	price, err := decimal.NewFromString(ticker.Price)
	if err != nil || price.IsZero() {
		return domain.PriceObservation{}, false
	}

	obs := domain.PriceObservation{
		Pair:      pair,
		Exchange:  domain.ExchangeCoinbase,
		Price:     price.InexactFloat64(),
		Timestamp: now,
	}
	if vol, err := decimal.NewFromString(ticker.Volume); err == nil {
		obs.Volume24h = vol.InexactFloat64()
	}
	bid, bidErr := decimal.NewFromString(ticker.Bid)
	ask, askErr := decimal.NewFromString(ticker.Ask)
	if bidErr == nil && askErr == nil && !bid.IsZero() && !ask.IsZero() {
		obs.BidAskSpread = ask.Sub(bid).InexactFloat64()
	}
	if ts, err := time.Parse(time.RFC3339, ticker.Time); err == nil {
		obs.Timestamp = ts
		obs.IsStale = now.Sub(ts) > time.Minute
	}
	return obs, true
}
