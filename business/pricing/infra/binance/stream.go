package binance

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"spreadwatch/business/pricing/domain"
	"spreadwatch/internal/logger"
	"spreadwatch/internal/wsconn"
)

const (
	tracerName = "spreadwatch/business/pricing/infra/binance"
	meterName  = "spreadwatch/business/pricing/infra/binance"
)

// bookEntry is the latest best bid/ask seen for one market symbol.
type bookEntry struct {
	event      BookTickerEvent
	receivedAt time.Time
}

// streamMetrics holds OTEL metric instruments.
type streamMetrics struct {
	messagesReceived metric.Int64Counter
	parseErrors      metric.Int64Counter
	reconnects       metric.Int64Counter
}

// StreamClient consumes Binance combined bookTicker streams and caches the
// latest quote per symbol.
type StreamClient struct {
	wsURL  string
	pairs  []domain.TradingPair
	conn   *wsconn.Client
	logger logger.LoggerInterface

	mu    sync.RWMutex
	books map[string]bookEntry

	metrics *streamMetrics
}

// NewStreamClient creates a stream client for the given pairs.
// wsURL is the stream host, e.g. wss://stream.binance.com:9443.
func NewStreamClient(wsURL string, pairs []domain.TradingPair, log logger.LoggerInterface) (*StreamClient, error) {
	s := &StreamClient{
		wsURL:  wsURL,
		pairs:  pairs,
		logger: log,
		books:  make(map[string]bookEntry),
	}
	if err := s.initMetrics(); err != nil {
		return nil, err
	}

	streams := make([]string, len(pairs))
	for i, pair := range pairs {
		streams[i] = BookTickerStream(pair)
	}
	url := strings.TrimSuffix(wsURL, "/") + "/stream?streams=" + strings.Join(streams, "/")

	cfg := wsconn.DefaultConfig(url, "binance-stream")
	conn, err := wsconn.New(cfg)
	if err != nil {
		return nil, err
	}

	conn.OnMessage(s.handleMessage)
	conn.OnStateChange(func(state wsconn.State, err error) {
		switch state {
		case wsconn.StateReconnecting:
			s.metrics.reconnects.Add(context.Background(), 1)
			log.Warn(context.Background(), "binance stream reconnecting", "error", err)
		case wsconn.StateConnected:
			log.Info(context.Background(), "binance stream connected")
		}
	})

	s.conn = conn
	return s, nil
}

func (s *StreamClient) initMetrics() error {
	meter := otel.Meter(meterName)
	s.metrics = &streamMetrics{}

	var err error
	if s.metrics.messagesReceived, err = meter.Int64Counter(
		"binance_stream_messages_total",
		metric.WithDescription("Stream messages received"),
	); err != nil {
		return err
	}
	if s.metrics.parseErrors, err = meter.Int64Counter(
		"binance_stream_parse_errors_total",
		metric.WithDescription("Stream messages that failed to parse"),
	); err != nil {
		return err
	}
	if s.metrics.reconnects, err = meter.Int64Counter(
		"binance_stream_reconnects_total",
		metric.WithDescription("Stream reconnect attempts"),
	); err != nil {
		return err
	}
	return nil
}

// Connect establishes the stream connection.
func (s *StreamClient) Connect(ctx context.Context) error {
	return s.conn.Connect(ctx)
}

// IsConnected reports whether the stream is live.
func (s *StreamClient) IsConnected() bool {
	return s.conn.IsConnected()
}

// Close shuts the stream down.
func (s *StreamClient) Close() error {
	return s.conn.Close()
}

// Latest returns the freshest quote for a market symbol, with its receive
// time. ok is false when no quote has arrived yet.
func (s *StreamClient) Latest(symbol string) (BookTickerEvent, time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.books[symbol]
	return entry.event, entry.receivedAt, ok
}

func (s *StreamClient) handleMessage(ctx context.Context, msg []byte) {
	s.metrics.messagesReceived.Add(ctx, 1)

	var event StreamEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		s.metrics.parseErrors.Add(ctx, 1)
		s.logger.Debug(ctx, "unparseable stream message", "error", err)
		return
	}
	if !strings.HasSuffix(event.Stream, "@bookTicker") {
		return
	}

	var ticker BookTickerEvent
	if err := json.Unmarshal(event.Data, &ticker); err != nil {
		s.metrics.parseErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("stream", event.Stream)))
		return
	}

	s.mu.Lock()
	s.books[ticker.Symbol] = bookEntry{event: ticker, receivedAt: time.Now()}
	s.mu.Unlock()
}
