package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"spreadwatch/internal/apperror"
	"spreadwatch/internal/breaker"
	"spreadwatch/internal/httpclient"
	"spreadwatch/internal/logger"
	"spreadwatch/internal/ratelimit"
)

const (
	// Binance REST API
	BaseAPIURL = "https://api.binance.com"

	ticker24hEndpoint = "/api/v3/ticker/24hr"

	httpTimeout = 10 * time.Second
)

// RESTClientConfig holds configuration for the Binance REST client.
type RESTClientConfig struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute int
}

// DefaultRESTClientConfig returns sensible defaults.
func DefaultRESTClientConfig() RESTClientConfig {
	return RESTClientConfig{
		BaseURL:           BaseAPIURL,
		Timeout:           httpTimeout,
		RequestsPerMinute: 1200,
	}
}

// RESTClient provides Binance REST API access. Requests pass through a rate
// limiter and a circuit breaker.
type RESTClient struct {
	client  httpclient.Client
	config  RESTClientConfig
	logger  logger.LoggerInterface
	tracer  trace.Tracer
	limiter *ratelimit.Limiter
	breaker *breaker.Breaker[[]Ticker24hResponse]
}

// NewRESTClient creates a new Binance REST client.
func NewRESTClient(cfg RESTClientConfig, log logger.LoggerInterface) (*RESTClient, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = BaseAPIURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = httpTimeout
	}
	if cfg.RequestsPerMinute == 0 {
		cfg.RequestsPerMinute = 1200
	}

	tracer := otel.Tracer(tracerName)

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("binance"),
		httpclient.WithBaseURL(cfg.BaseURL),
		httpclient.WithRequestTimeout(cfg.Timeout),
		httpclient.WithTraceOptions(tracer, httpclient.TraceResponse),
		httpclient.WithHeaders(map[string]string{
			"Accept": "application/json",
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &RESTClient{
		client:  client,
		config:  cfg,
		logger:  log,
		tracer:  tracer,
		limiter: ratelimit.New(cfg.RequestsPerMinute),
		breaker: breaker.New[[]Ticker24hResponse](breaker.DefaultConfig("binance-rest"), log),
	}, nil
}

// GetTickers fetches 24h ticker statistics for the given market symbols.
func (c *RESTClient) GetTickers(ctx context.Context, symbols []string) ([]Ticker24hResponse, error) {
	ctx, span := c.tracer.Start(ctx, "binance.rest.get_tickers",
		trace.WithAttributes(attribute.Int("symbols", len(symbols))),
	)
	defer span.End()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	result, err := c.breaker.Execute(func() ([]Ticker24hResponse, error) {
		return c.fetchTickers(ctx, symbols)
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	c.logger.Debug(ctx, "fetched binance tickers", "count", len(result))
	return result, nil
}

func (c *RESTClient) fetchTickers(ctx context.Context, symbols []string) ([]Ticker24hResponse, error) {
	// Binance wants symbols as a JSON array: ["ETHUSDT","BTCUSDT"]
	quoted := make([]string, len(symbols))
	for i, s := range symbols {
		quoted[i] = `"` + s + `"`
	}

	var result []Ticker24hResponse
	resp, err := c.client.NewRequestWithOptions(
		httpclient.WithLabels(httpclient.NewLabel("endpoint", "ticker24h")),
		httpclient.WithResponseErrorHandler(binanceErrorHandler),
	).
		SetQueryParam("symbols", "["+strings.Join(quoted, ",")+"]").
		SetResult(&result).
		Get(ctx, ticker24hEndpoint)

	if err != nil {
		return nil, apperror.New(apperror.CodeTickerFetchFailed,
			apperror.WithCause(err),
			apperror.WithContext("binance"))
	}
	if resp.IsError() {
		return nil, apperror.New(apperror.CodeExchangeAPIError,
			apperror.WithContext(fmt.Sprintf("binance HTTP %d: %s", resp.StatusCode, resp.String())))
	}
	return result, nil
}

// BinanceAPIError represents an error response from the Binance API.
type BinanceAPIError struct {
	Code    int    `json:"code"`
	Message string `json:"msg"`
}

func (e *BinanceAPIError) Error() string {
	return fmt.Sprintf("binance API error %d: %s", e.Code, e.Message)
}

// binanceErrorHandler parses Binance API error responses.
func binanceErrorHandler(statusCode int, body []byte) error {
	if statusCode >= 400 {
		var apiErr BinanceAPIError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Code != 0 {
			return &apiErr
		}
		return fmt.Errorf("HTTP %d: %s", statusCode, string(body))
	}
	return nil
}
