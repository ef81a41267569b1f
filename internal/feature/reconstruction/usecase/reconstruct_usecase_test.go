package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ledgerdomain "github.com/Aughra/picsou/internal/feature/ledger/domain"
	ledgerentity "github.com/Aughra/picsou/internal/feature/ledger/domain/entity"
	priceentity "github.com/Aughra/picsou/internal/feature/prices/domain/entity"
	"github.com/Aughra/picsou/internal/feature/reconstruction/domain"
	"github.com/Aughra/picsou/internal/feature/reconstruction/domain/entity"
)

var ErrDB = errors.New("database error")

// mockTransactionReader is a mock implementation of the TransactionReader interface.
type mockTransactionReader struct {
	recs  []ledgerentity.TransactionRecord
	err   error
	calls int
}

func (m *mockTransactionReader) ListTransactions(ctx context.Context) ([]ledgerentity.TransactionRecord, error) {
	m.calls++
	return m.recs, m.err
}

// mockPriceReader is a mock implementation of the PriceReader interface.
type mockPriceReader struct {
	recs  []priceentity.PriceRecord
	err   error
	calls int
}

func (m *mockPriceReader) ListPoints(ctx context.Context) ([]priceentity.PriceRecord, error) {
	m.calls++
	return m.recs, m.err
}

func d(n int) time.Time {
	return time.Date(2025, 1, n, 12, 0, 0, 0, time.UTC)
}

func tx(day int, symbol, qty, price, fee string) ledgerentity.TransactionRecord {
	return ledgerentity.TransactionRecord{DateUTC: d(day), Symbol: symbol, Qty: qty, PriceEUR: price, FeeEUR: fee}
}

func px(ts time.Time, symbol, price string) priceentity.PriceRecord {
	return priceentity.PriceRecord{TS: ts, Symbol: symbol, PriceEUR: price}
}

func newReconstruct(txs []ledgerentity.TransactionRecord, prices []priceentity.PriceRecord, cfg Config, today int) *ReconstructUsecase {
	uc := NewReconstructUsecase(&mockTransactionReader{recs: txs}, &mockPriceReader{recs: prices}, cfg)
	uc.now = func() time.Time { return d(today) }
	return uc
}

func utcConfig() Config {
	return Config{Location: time.UTC, FillPolicy: domain.FillForwardBackward, SellFeePolicy: domain.SellFeeIgnore}
}

func TestReconstruct_BuyThenSell(t *testing.T) {
	txs := []ledgerentity.TransactionRecord{
		tx(1, "BTC", "2", "100", "1"),
		tx(5, "btc", "-1", "150", "1"),
	}
	prices := []priceentity.PriceRecord{px(d(1), "btc", "100"), px(d(5), "btc", "150")}

	table, err := newReconstruct(txs, prices, utcConfig(), 5).Reconstruct(context.Background(), []string{"btc"})
	require.NoError(t, err)
	require.Equal(t, 5, table.Len())

	btc, ok := table.Asset("btc")
	require.True(t, ok)

	assert.Equal(t, []float64{201, 0, 0, 0, 0}, btc.BoughtEUR, "the sell deploys no capital")
	assert.Equal(t, []float64{201, 201, 201, 201, 201}, btc.BoughtCum)
	assert.Equal(t, []float64{2, 2, 2, 2, 1}, btc.QtyCum)
	assert.Equal(t, []float64{100, 100, 100, 100, 150}, btc.Price)
	assert.Equal(t, []float64{200, 200, 200, 200, 150}, btc.Value)
	assert.Equal(t, -51.0, btc.GainLoss[4])

	assert.Equal(t, 201.0, table.Totals.Bought[4])
	assert.Equal(t, 150.0, table.Totals.Value[4])
	assert.Equal(t, -51.0, table.Totals.GainLoss[4])
}

func TestReconstruct_SellFeeCounted(t *testing.T) {
	txs := []ledgerentity.TransactionRecord{
		tx(1, "btc", "2", "100", "1"),
		tx(5, "btc", "-1", "150", "1"),
	}
	cfg := utcConfig()
	cfg.SellFeePolicy = domain.SellFeeCount

	table, err := newReconstruct(txs, nil, cfg, 5).Reconstruct(context.Background(), []string{"btc"})
	require.NoError(t, err)

	btc, _ := table.Asset("btc")
	assert.Equal(t, 1.0, btc.BoughtEUR[4])
	assert.Equal(t, 202.0, btc.BoughtCum[4])
}

func TestReconstruct_GapFill(t *testing.T) {
	txs := []ledgerentity.TransactionRecord{
		tx(1, "btc", "1", "10", "0"),
		tx(10, "btc", "1", "10", "0"),
	}
	prices := []priceentity.PriceRecord{px(d(1), "btc", "10"), px(d(11), "btc", "20")}

	table, err := newReconstruct(txs, prices, utcConfig(), 11).Reconstruct(context.Background(), []string{"btc"})
	require.NoError(t, err)
	require.Equal(t, 11, table.Len())

	btc, _ := table.Asset("btc")
	for i := 0; i < 10; i++ {
		assert.Equal(t, 10.0, btc.Price[i], "day %d carries the day-1 price", i+1)
	}
	assert.Equal(t, 20.0, btc.Price[10])
	assert.Equal(t, 40.0, btc.Value[10])
	assert.Equal(t, 10.0, btc.Value[8])
	assert.Equal(t, 20.0, btc.Value[9])
}

func TestReconstruct_FillPolicies(t *testing.T) {
	txs := []ledgerentity.TransactionRecord{tx(1, "eth", "1", "5", "0")}
	prices := []priceentity.PriceRecord{px(d(3), "eth", "7")}

	tests := []struct {
		name      string
		policy    domain.FillPolicy
		wantValue []float64
		nanPrices int
	}{
		{"forward and backward", domain.FillForwardBackward, []float64{7, 7, 7, 7}, 0},
		{"forward only", domain.FillForwardOnly, []float64{0, 0, 7, 7}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := utcConfig()
			cfg.FillPolicy = tt.policy

			table, err := newReconstruct(txs, prices, cfg, 4).Reconstruct(context.Background(), []string{"eth"})
			require.NoError(t, err)

			eth, _ := table.Asset("eth")
			assert.Equal(t, tt.wantValue, eth.Value)
			nan := 0
			for _, p := range eth.Price {
				if math.IsNaN(p) {
					nan++
				}
			}
			assert.Equal(t, tt.nanPrices, nan)
		})
	}
}

func TestReconstruct_AssetWithoutTransactions(t *testing.T) {
	txs := []ledgerentity.TransactionRecord{tx(1, "btc", "1", "100", "0")}
	prices := []priceentity.PriceRecord{px(d(1), "btc", "100")}

	table, err := newReconstruct(txs, prices, utcConfig(), 3).Reconstruct(context.Background(), []string{"btc", "xrp"})
	require.NoError(t, err)

	xrp, ok := table.Asset("xrp")
	require.True(t, ok, "a configured asset always gets its columns")
	zeros := []float64{0, 0, 0}
	assert.Equal(t, zeros, xrp.BoughtEUR)
	assert.Equal(t, zeros, xrp.BoughtCum)
	assert.Equal(t, zeros, xrp.Value)
	assert.Equal(t, zeros, xrp.GainLoss)
	assert.Equal(t, []float64{100, 100, 100}, table.Totals.Value)
}

func TestReconstruct_Invariants(t *testing.T) {
	txs := []ledgerentity.TransactionRecord{
		tx(1, "btc", "0.5", "30000", "2"),
		tx(2, "eth", "3", "2000", "1.5"),
		tx(4, "btc", "-0.5", "32000", "2"),
		tx(4, "eth", "1", "2100", "0"),
		tx(6, "eth", "-4", "2300", "1"),
		tx(7, "btc", "0.25", "31000", "1"),
		tx(7, "doge", "1000", "0.1", "0"),
	}
	prices := []priceentity.PriceRecord{
		px(d(1), "btc", "30000"),
		px(d(3), "btc", "31000"),
		px(d(6), "eth", "2300"),
		px(d(8), "btc", "33000"),
	}

	table, err := newReconstruct(txs, prices, utcConfig(), 9).Reconstruct(context.Background(), []string{"btc", "eth", "sol"})
	require.NoError(t, err)
	require.Len(t, table.Assets, 3)

	for _, a := range table.Assets {
		for i := range table.Days {
			if i > 0 {
				assert.GreaterOrEqual(t, a.BoughtCum[i], a.BoughtCum[i-1], "%s bought cum decreased on day %d", a.Symbol, i)
			}
			if a.QtyCum[i] == 0 {
				assert.Equal(t, 0.0, a.Value[i], "%s value must be 0 when nothing is held (day %d)", a.Symbol, i)
			}
			assert.InDelta(t, a.Value[i]-a.BoughtCum[i], a.GainLoss[i], 1e-9)
		}
	}
	for i := range table.Days {
		var sumValue, sumBought float64
		for _, a := range table.Assets {
			sumValue += a.Value[i]
			sumBought += a.BoughtCum[i]
		}
		assert.Equal(t, sumValue, table.Totals.Value[i], "total value on day %d", i)
		assert.Equal(t, sumBought, table.Totals.Bought[i], "total bought on day %d", i)
		assert.Equal(t, table.Totals.Value[i]-table.Totals.Bought[i], table.Totals.GainLoss[i])
	}

	for i, day := range table.Days {
		assert.Equal(t, 0, day.Hour())
		if i > 0 {
			assert.Equal(t, table.Days[i-1].AddDate(0, 0, 1), day, "grid must be contiguous")
		}
	}
}

func TestReconstruct_LastPriceOfDayWins(t *testing.T) {
	txs := []ledgerentity.TransactionRecord{tx(1, "btc", "1", "1", "0")}
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	prices := []priceentity.PriceRecord{
		px(base.Add(20*time.Hour), "btc", "300"),
		px(base.Add(8*time.Hour), "btc", "100"),
		px(base.Add(20*time.Hour), "BTC", "310"),
		px(base.Add(21*time.Hour), "btc", "bad"),
	}

	table, err := newReconstruct(txs, prices, utcConfig(), 1).Reconstruct(context.Background(), []string{"btc"})
	require.NoError(t, err)

	btc, _ := table.Asset("btc")
	assert.Equal(t, []float64{310}, btc.Price, "latest instant wins, later input wins a tie, malformed price is dropped")
}

func TestReconstruct_LocalCalendar(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	// 23:30 UTC on Jan 1 is already Jan 2 in Paris.
	txs := []ledgerentity.TransactionRecord{{
		DateUTC: time.Date(2025, 1, 1, 23, 30, 0, 0, time.UTC), Symbol: "btc", Qty: "1", PriceEUR: "10", FeeEUR: "0",
	}}
	prices := []priceentity.PriceRecord{px(time.Date(2025, 1, 2, 22, 30, 0, 0, time.UTC), "btc", "12")}

	cfg := utcConfig()
	cfg.Location = paris
	uc := newReconstruct(txs, prices, cfg, 1)
	uc.now = func() time.Time { return time.Date(2025, 1, 3, 10, 0, 0, 0, time.UTC) }

	table, err := uc.Reconstruct(context.Background(), []string{"btc"})
	require.NoError(t, err)

	require.Len(t, table.Days, 2)
	assert.True(t, time.Date(2025, 1, 2, 0, 0, 0, 0, paris).Equal(table.Days[0]), "got %v", table.Days[0])
	btc, _ := table.Asset("btc")
	assert.Equal(t, 10.0, btc.BoughtEUR[0])
	assert.Equal(t, []float64{12, 12}, btc.Value, "22:30 UTC is still Jan 2 in Paris")
}

func TestReconstruct_MalformedFieldsDefaultToZero(t *testing.T) {
	txs := []ledgerentity.TransactionRecord{
		tx(1, "btc", "1", "100", "oops"),
		tx(2, "btc", "n/a", "100", "1"),
	}

	table, err := newReconstruct(txs, nil, utcConfig(), 2).Reconstruct(context.Background(), []string{"btc"})
	require.NoError(t, err)

	btc, _ := table.Asset("btc")
	assert.Equal(t, []float64{100, 1}, btc.BoughtEUR)
	assert.Equal(t, []float64{1, 1}, btc.QtyCum)
	assert.Equal(t, []float64{0, 0}, btc.Value, "no price at all values the holding at 0")
}

func TestReconstruct_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("empty ledger", func(t *testing.T) {
		prices := &mockPriceReader{}
		uc := NewReconstructUsecase(&mockTransactionReader{}, prices, utcConfig())
		_, err := uc.Reconstruct(ctx, []string{"btc"})
		assert.ErrorIs(t, err, ledgerdomain.ErrNoTransactions)
	})

	t.Run("ledger unreadable", func(t *testing.T) {
		uc := NewReconstructUsecase(&mockTransactionReader{err: ErrDB}, &mockPriceReader{}, utcConfig())
		_, err := uc.Reconstruct(ctx, []string{"btc"})
		assert.ErrorIs(t, err, ErrDB)
	})

	t.Run("prices unreadable", func(t *testing.T) {
		ledger := &mockTransactionReader{recs: []ledgerentity.TransactionRecord{tx(1, "btc", "1", "1", "0")}}
		uc := NewReconstructUsecase(ledger, &mockPriceReader{err: ErrDB}, utcConfig())
		_, err := uc.Reconstruct(ctx, []string{"btc"})
		assert.ErrorIs(t, err, ErrDB)
	})
}

func TestReconstruct_WideColumns(t *testing.T) {
	txs := []ledgerentity.TransactionRecord{tx(1, "btc", "1", "1", "0")}

	table, err := newReconstruct(txs, nil, utcConfig(), 1).Reconstruct(context.Background(), []string{"btc", "ETH", "btc"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"btc bought", "btc value", "btc gain loss", "btc bought cum", "btc value cum",
		"eth bought", "eth value", "eth gain loss", "eth bought cum", "eth value cum",
		"bought BTC", "value BTC", "bought ETH", "value ETH",
		entity.LabelTotalBought, entity.LabelTotalValue, entity.LabelTotalGainLoss,
	}, table.Labels())

	positions := table.Positions()
	require.Len(t, positions, 2)
	assert.Equal(t, "qty_btc", positions[0].Label)
	assert.Equal(t, "eth", positions[1].Symbol)
	btc, ok := table.Asset("btc")
	require.True(t, ok)
	assert.Equal(t, btc.QtyCum, positions[0].Values)
}

func TestDensify(t *testing.T) {
	t.Parallel()

	keys := []string{"d1", "d2", "d3", "d4"}

	got := Densify(keys, map[string]float64{"d2": 5, "d4": 9, "d9": 1}, domain.FillForwardBackward)
	assert.Equal(t, []float64{5, 5, 5, 9}, got)

	got = Densify(keys, nil, domain.FillForwardBackward)
	for _, v := range got {
		assert.True(t, math.IsNaN(v))
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("PORTFOLIO_TZ", "")
	t.Setenv("PRICE_FILL_POLICY", "")
	t.Setenv("SELL_FEE_POLICY", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultTimezone, cfg.Location.String())
	assert.Equal(t, domain.FillForwardBackward, cfg.FillPolicy)
	assert.Equal(t, domain.SellFeeIgnore, cfg.SellFeePolicy)

	t.Setenv("PORTFOLIO_TZ", "UTC")
	t.Setenv("PRICE_FILL_POLICY", "ffill_only")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, domain.FillForwardOnly, cfg.FillPolicy)

	t.Setenv("PORTFOLIO_TZ", "Nowhere/Special")
	_, err = LoadConfig()
	assert.Error(t, err)

	t.Setenv("PORTFOLIO_TZ", "")
	t.Setenv("PRICE_FILL_POLICY", "guess")
	_, err = LoadConfig()
	assert.Error(t, err)
}
