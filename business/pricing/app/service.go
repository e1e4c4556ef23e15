package app

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"spreadwatch/business/pricing/domain"
	"spreadwatch/internal/apm"
	"spreadwatch/internal/logger"
)

const (
	tracerName = "spreadwatch/business/pricing/app"
	meterName  = "spreadwatch/business/pricing/app"
)

// snapshotMetrics holds OTEL metric instruments.
type snapshotMetrics struct {
	observations   metric.Int64Counter
	providerErrors metric.Int64Counter
	duplicates     metric.Int64Counter
}

// SnapshotService fans a snapshot request out to every configured venue and
// assembles the per-cycle observation batch.
type SnapshotService struct {
	providers []TickerProvider
	logger    logger.LoggerInterface
	tracer    apm.Tracer
	metrics   *snapshotMetrics
}

// NewSnapshotService creates a SnapshotService over the given providers.
func NewSnapshotService(providers []TickerProvider, log logger.LoggerInterface) (*SnapshotService, error) {
	s := &SnapshotService{
		providers: providers,
		logger:    log,
		tracer:    apm.NewTracer(tracerName),
	}
	if err := s.initMetrics(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SnapshotService) initMetrics() error {
	meter := otel.Meter(meterName)
	s.metrics = &snapshotMetrics{}

	var err error
	if s.metrics.observations, err = meter.Int64Counter(
		"pricing_observations_total",
		metric.WithDescription("Price observations collected per venue"),
	); err != nil {
		return err
	}
	if s.metrics.providerErrors, err = meter.Int64Counter(
		"pricing_provider_errors_total",
		metric.WithDescription("Failed snapshot fetches per venue"),
	); err != nil {
		return err
	}
	if s.metrics.duplicates, err = meter.Int64Counter(
		"pricing_duplicate_observations_total",
		metric.WithDescription("Observations dropped by the ingestion dedupe"),
	); err != nil {
		return err
	}
	return nil
}

// Snapshot collects the current observation batch for the given pairs.
// A failing venue shrinks the batch rather than failing it; pairs left with
// fewer than two venues simply produce no spreads downstream.
func (s *SnapshotService) Snapshot(ctx context.Context, pairs []domain.TradingPair) []domain.PriceObservation {
	ctx, span := s.tracer.StartSpanFromContext(ctx, "pricing.Snapshot")
	defer span.End()

	type result struct {
		venue domain.Exchange
		obs   []domain.PriceObservation
		err   error
	}

	results := make([]result, len(s.providers))
	var wg sync.WaitGroup

	for i, provider := range s.providers {
		wg.Add(1)
		go func(i int, p TickerProvider) {
			defer wg.Done()
			obs, err := p.FetchTickers(ctx, pairs)
			results[i] = result{venue: p.Name(), obs: obs, err: err}
		}(i, provider)
	}
	wg.Wait()

	var batch []domain.PriceObservation
	for _, r := range results {
		venueAttr := metric.WithAttributes(attribute.String("exchange", string(r.venue)))
		if r.err != nil {
			s.metrics.providerErrors.Add(ctx, 1, venueAttr)
			s.logger.Warn(ctx, "venue snapshot failed",
				"exchange", r.venue,
				"error", r.err,
			)
			continue
		}
		s.metrics.observations.Add(ctx, int64(len(r.obs)), venueAttr)
		batch = append(batch, r.obs...)
	}

	kept, dropped := domain.DedupeByExchange(batch)
	if len(dropped) > 0 {
		s.metrics.duplicates.Add(ctx, int64(len(dropped)))
		for _, obs := range dropped {
			s.logger.Warn(ctx, "duplicate observation dropped",
				"pair", obs.Pair.Symbol,
				"exchange", obs.Exchange,
			)
		}
	}

	span.SetAttributes(attribute.Int("pricing.observations", len(kept)))
	return kept
}
