package app

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"spreadwatch/business/pricing/domain"
	"spreadwatch/internal/logger"
)

type fakeProvider struct {
	name domain.Exchange
	obs  []domain.PriceObservation
	err  error
}

func (f *fakeProvider) Name() domain.Exchange { return f.name }

func (f *fakeProvider) FetchTickers(_ context.Context, _ []domain.TradingPair) ([]domain.PriceObservation, error) {
	return f.obs, f.err
}

func testObservation(exchange domain.Exchange, symbol string, price float64) domain.PriceObservation {
	pair, _ := domain.ParsePair(symbol)
	return domain.PriceObservation{
		Pair:      pair,
		Exchange:  exchange,
		Price:     price,
		Timestamp: time.Now(),
	}
}

func newTestService(t *testing.T, providers ...TickerProvider) *SnapshotService {
	t.Helper()
	log := logger.New(io.Discard, logger.LevelError, "test", nil)
	service, err := NewSnapshotService(providers, log)
	if err != nil {
		t.Fatalf("NewSnapshotService error: %v", err)
	}
	return service
}

func TestSnapshot_MergesVenues(t *testing.T) {
	service := newTestService(t,
		&fakeProvider{name: domain.ExchangeBinance, obs: []domain.PriceObservation{
			testObservation(domain.ExchangeBinance, "ETH/USDT", 2450),
			testObservation(domain.ExchangeBinance, "BTC/USDT", 64000),
		}},
		&fakeProvider{name: domain.ExchangeCoinbase, obs: []domain.PriceObservation{
			testObservation(domain.ExchangeCoinbase, "ETH/USDT", 2475),
		}},
	)

	pairs := []domain.TradingPair{domain.NewPair("ETH", "USDT"), domain.NewPair("BTC", "USDT")}
	batch := service.Snapshot(context.Background(), pairs)

	if len(batch) != 3 {
		t.Fatalf("got %d observations, want 3", len(batch))
	}

	byVenue := make(map[domain.Exchange]int)
	for _, obs := range batch {
		byVenue[obs.Exchange]++
	}
	if byVenue[domain.ExchangeBinance] != 2 || byVenue[domain.ExchangeCoinbase] != 1 {
		t.Errorf("venue counts = %v, want binance=2 coinbase=1", byVenue)
	}
}

func TestSnapshot_FailingVenueShrinksBatch(t *testing.T) {
	service := newTestService(t,
		&fakeProvider{name: domain.ExchangeBinance, obs: []domain.PriceObservation{
			testObservation(domain.ExchangeBinance, "ETH/USDT", 2450),
		}},
		&fakeProvider{name: domain.ExchangeKraken, err: errors.New("connection refused")},
	)

	pairs := []domain.TradingPair{domain.NewPair("ETH", "USDT")}
	batch := service.Snapshot(context.Background(), pairs)

	if len(batch) != 1 {
		t.Fatalf("got %d observations, want 1", len(batch))
	}
	if batch[0].Exchange != domain.ExchangeBinance {
		t.Errorf("surviving observation from %s, want binance", batch[0].Exchange)
	}
}

func TestSnapshot_AllVenuesDown(t *testing.T) {
	service := newTestService(t,
		&fakeProvider{name: domain.ExchangeBinance, err: errors.New("timeout")},
		&fakeProvider{name: domain.ExchangeKraken, err: errors.New("timeout")},
	)

	batch := service.Snapshot(context.Background(), []domain.TradingPair{domain.NewPair("ETH", "USDT")})
	if len(batch) != 0 {
		t.Errorf("got %d observations, want 0", len(batch))
	}
}

func TestSnapshot_DropsDuplicateObservations(t *testing.T) {
	// Two providers claiming the same venue simulate a misconfigured setup.
	// Only the first (pair, exchange) observation may survive.
	first := testObservation(domain.ExchangeBinance, "ETH/USDT", 2450)
	second := testObservation(domain.ExchangeBinance, "ETH/USDT", 2451)

	service := newTestService(t,
		&fakeProvider{name: domain.ExchangeBinance, obs: []domain.PriceObservation{first}},
		&fakeProvider{name: domain.ExchangeBinance, obs: []domain.PriceObservation{second}},
	)

	batch := service.Snapshot(context.Background(), []domain.TradingPair{domain.NewPair("ETH", "USDT")})
	if len(batch) != 1 {
		t.Fatalf("got %d observations, want 1", len(batch))
	}
	if batch[0].Price != 2450 {
		t.Errorf("kept price = %v, want the first occurrence 2450", batch[0].Price)
	}
}
