package app

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	alertingApp "spreadwatch/business/alerting/app"
	alertingDomain "spreadwatch/business/alerting/domain"
	"spreadwatch/business/arbitrage/domain"
	pricingApp "spreadwatch/business/pricing/app"
	pricingDomain "spreadwatch/business/pricing/domain"
	"spreadwatch/internal/apm"
	"spreadwatch/internal/logger"
)

const (
	tracerName = "spreadwatch/business/arbitrage/app"
	meterName  = "spreadwatch/business/arbitrage/app"
)

// DetectorConfig holds the detection loop settings.
type DetectorConfig struct {
	Pairs        []pricingDomain.TradingPair
	PollInterval time.Duration
	TradeAmount  float64
	MinSpread    float64
	Fees         domain.FeeConfig
}

type detectorMetrics struct {
	cycles        metric.Int64Counter
	spreadsFound  metric.Int64Counter
	cycleErrors   metric.Int64Counter
	cycleDuration metric.Float64Histogram
}

// Detector runs the polling loop: snapshot prices, compute and rank
// spreads, feed the alert engine, and hand everything to the reporters.
type Detector struct {
	snapshots *pricingApp.SnapshotService
	engine    *alertingApp.Engine
	reporters []Reporter
	cfg       DetectorConfig
	log       logger.LoggerInterface
	tracer    apm.Tracer
	metrics   *detectorMetrics

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	// Venues that have delivered observations, for connection status.
	venues map[pricingDomain.Exchange]bool
}

// NewDetector creates a Detector.
func NewDetector(
	snapshots *pricingApp.SnapshotService,
	engine *alertingApp.Engine,
	reporters []Reporter,
	cfg DetectorConfig,
	log logger.LoggerInterface,
) (*Detector, error) {
	d := &Detector{
		snapshots: snapshots,
		engine:    engine,
		reporters: reporters,
		cfg:       cfg,
		log:       log,
		tracer:    apm.NewTracer(tracerName),
		venues:    make(map[pricingDomain.Exchange]bool),
	}
	if err := d.initMetrics(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Detector) initMetrics() error {
	meter := otel.Meter(meterName)
	d.metrics = &detectorMetrics{}

	var err error
	if d.metrics.cycles, err = meter.Int64Counter(
		"arbitrage_detection_cycles_total",
		metric.WithDescription("Completed detection cycles"),
	); err != nil {
		return err
	}
	if d.metrics.spreadsFound, err = meter.Int64Counter(
		"arbitrage_spreads_found_total",
		metric.WithDescription("Spread results above the minimum spread"),
	); err != nil {
		return err
	}
	if d.metrics.cycleErrors, err = meter.Int64Counter(
		"arbitrage_cycle_errors_total",
		metric.WithDescription("Detection cycles that failed"),
	); err != nil {
		return err
	}
	if d.metrics.cycleDuration, err = meter.Float64Histogram(
		"arbitrage_cycle_duration_seconds",
		metric.WithDescription("Wall time of one detection cycle"),
		metric.WithUnit("s"),
	); err != nil {
		return err
	}
	return nil
}

// Start begins the detection loop. The fee config is validated up front so
// a misconfiguration fails startup instead of every cycle.
func (d *Detector) Start(ctx context.Context) error {
	if err := domain.ValidateFeeConfig(d.cfg.Fees); err != nil {
		return err
	}
	if err := domain.ValidateTradeAmount(d.cfg.TradeAmount); err != nil {
		return err
	}

	for _, r := range d.reporters {
		if err := r.Start(ctx); err != nil {
			return err
		}
	}

	d.log.Info(ctx, "starting spread detector",
		"pairs", len(d.cfg.Pairs),
		"poll_interval", d.cfg.PollInterval,
		"min_spread", d.cfg.MinSpread,
	)

	runCtx, cancel := context.WithCancel(ctx)
	d.mu.Lock()
	d.cancel = cancel
	d.done = make(chan struct{})
	d.mu.Unlock()

	go d.run(runCtx)
	return nil
}

func (d *Detector) run(ctx context.Context) {
	defer close(d.done)

	ticker := time.NewTicker(d.cfg.PollInterval)
	defer ticker.Stop()

	// First cycle immediately, then on the tick.
	d.cycle(ctx)
	for {
		select {
		case <-ctx.Done():
			d.log.Info(ctx, "detector stopping", "reason", ctx.Err())
			return
		case <-ticker.C:
			d.cycle(ctx)
		}
	}
}

func (d *Detector) cycle(ctx context.Context) {
	ctx, span := d.tracer.StartSpanFromContext(ctx, "arbitrage.DetectionCycle")
	defer span.End()

	started := time.Now()
	defer func() {
		d.metrics.cycleDuration.Record(ctx, time.Since(started).Seconds())
	}()

	observations := d.snapshots.Snapshot(ctx, d.cfg.Pairs)
	for _, r := range d.reporters {
		r.UpdateObservations(observations)
	}
	d.reportVenueStatus(observations)

	results, err := domain.CalculateAndSortSpreads(observations)
	if err != nil {
		d.metrics.cycleErrors.Add(ctx, 1)
		span.NoticeError(err)
		d.log.Error(ctx, "spread calculation failed", "error", err)
		for _, r := range d.reporters {
			r.ReportError(err)
		}
		return
	}

	displayed := domain.FilterByMinSpread(results, d.cfg.MinSpread)
	d.metrics.spreadsFound.Add(ctx, int64(len(displayed)))
	for _, r := range d.reporters {
		r.ReportSpreads(displayed)
	}

	alerts, err := d.engine.CheckAndAlert(ctx, results, d.cfg.Fees, d.cfg.TradeAmount)
	if err != nil {
		d.metrics.cycleErrors.Add(ctx, 1)
		span.NoticeError(err)
		d.log.Error(ctx, "alert check failed", "error", err)
		for _, r := range d.reporters {
			r.ReportError(err)
		}
		return
	}
	if len(alerts) > 0 {
		for _, r := range d.reporters {
			r.ReportAlerts(alerts)
		}
		for _, alert := range alerts {
			title, body := alertingDomain.FormatNotificationContent(alert)
			d.log.Info(ctx, "alert", "title", title, "body", body)
		}
	}

	d.metrics.cycles.Add(ctx, 1)
	span.SetAttributes(
		attribute.Int("arbitrage.spreads", len(results)),
		attribute.Int("arbitrage.alerts", len(alerts)),
	)
}

// reportVenueStatus marks venues present in the batch as reachable and
// previously seen venues that went silent as down.
func (d *Detector) reportVenueStatus(observations []pricingDomain.PriceObservation) {
	seen := make(map[pricingDomain.Exchange]bool)
	for _, obs := range observations {
		seen[obs.Exchange] = true
	}

	for venue := range seen {
		d.venues[venue] = true
	}
	for venue := range d.venues {
		for _, r := range d.reporters {
			r.UpdateConnectionStatus(string(venue), seen[venue])
		}
	}
}

// Stop shuts down the loop and the reporters.
func (d *Detector) Stop() error {
	d.mu.Lock()
	cancel, done := d.cancel, d.done
	d.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}

	var firstErr error
	for _, r := range d.reporters {
		if err := r.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
