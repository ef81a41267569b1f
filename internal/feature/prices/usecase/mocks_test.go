package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/Aughra/picsou/internal/feature/prices/domain/entity"
)

var (
	ErrDB        = errors.New("database error")
	ErrMarketAPI = errors.New("market API error")
)

// mockLedgerReader is a mock implementation of the LedgerReader interface.
type mockLedgerReader struct {
	symbols  []string
	first    time.Time
	last     time.Time
	rangeErr error
	symErr   error
}

func (m *mockLedgerReader) ListSymbols(ctx context.Context) ([]string, error) {
	return m.symbols, m.symErr
}

func (m *mockLedgerReader) DateRange(ctx context.Context) (time.Time, time.Time, error) {
	return m.first, m.last, m.rangeErr
}

// mockPriceStore is a mock implementation of the PriceStore interface.
type mockPriceStore struct {
	DaysPresentFunc func(ctx context.Context, symbol string, from, to time.Time) (map[string]struct{}, error)
	UpsertBatchFunc func(ctx context.Context, points []entity.PricePoint) (int, error)
	Upserted        map[string][]entity.PricePoint
}

func (m *mockPriceStore) DaysPresent(ctx context.Context, symbol string, from, to time.Time) (map[string]struct{}, error) {
	if m.DaysPresentFunc != nil {
		return m.DaysPresentFunc(ctx, symbol, from, to)
	}
	return map[string]struct{}{}, nil
}

func (m *mockPriceStore) UpsertBatch(ctx context.Context, points []entity.PricePoint) (int, error) {
	if m.Upserted == nil {
		m.Upserted = map[string][]entity.PricePoint{}
	}
	for _, p := range points {
		m.Upserted[p.Symbol] = append(m.Upserted[p.Symbol], p)
	}
	if m.UpsertBatchFunc != nil {
		return m.UpsertBatchFunc(ctx, points)
	}
	return len(points), nil
}

type marketCall struct {
	CoinID string
	From   time.Time
	To     time.Time
}

// mockMarketRepository is a mock implementation of the MarketRepository interface.
type mockMarketRepository struct {
	GetMarketChartRangeFunc func(ctx context.Context, coinID string, from, to time.Time) ([]entity.PricePoint, error)
	Calls                   []marketCall
}

func (m *mockMarketRepository) GetMarketChartRange(ctx context.Context, coinID string, from, to time.Time) ([]entity.PricePoint, error) {
	m.Calls = append(m.Calls, marketCall{CoinID: coinID, From: from, To: to})
	if m.GetMarketChartRangeFunc != nil {
		return m.GetMarketChartRangeFunc(ctx, coinID, from, to)
	}
	return nil, errors.New("GetMarketChartRangeFunc is not implemented")
}

// mockSimplePriceRepository is a mock implementation of the SimplePriceRepository interface.
type mockSimplePriceRepository struct {
	GetSimplePriceFunc func(ctx context.Context, ids []string) (map[string]float64, error)
	Calls              [][]string
}

func (m *mockSimplePriceRepository) GetSimplePrice(ctx context.Context, ids []string) (map[string]float64, error) {
	m.Calls = append(m.Calls, ids)
	if m.GetSimplePriceFunc != nil {
		return m.GetSimplePriceFunc(ctx, ids)
	}
	return map[string]float64{}, nil
}

// mockRateLimiter is a mock implementation of the RateLimiterInterface.
type mockRateLimiter struct {
	PauseCalls   int
	BackoffCalls int
}

func (m *mockRateLimiter) Pause()   { m.PauseCalls++ }
func (m *mockRateLimiter) Backoff() { m.BackoffCalls++ }
