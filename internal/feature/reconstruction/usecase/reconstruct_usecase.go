// Package usecase rebuilds the dense daily portfolio table from the ledger and the price store.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	ledgerdomain "github.com/Aughra/picsou/internal/feature/ledger/domain"
	ledgerentity "github.com/Aughra/picsou/internal/feature/ledger/domain/entity"
	pricesdomain "github.com/Aughra/picsou/internal/feature/prices/domain"
	priceentity "github.com/Aughra/picsou/internal/feature/prices/domain/entity"
	"github.com/Aughra/picsou/internal/feature/reconstruction/domain"
	"github.com/Aughra/picsou/internal/feature/reconstruction/domain/entity"
	"github.com/Aughra/picsou/internal/shared/calendar"
)

// TransactionReader reads every ledger record.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type TransactionReader interface {
	ListTransactions(ctx context.Context) ([]ledgerentity.TransactionRecord, error)
}

// PriceReader reads every stored price point.
type PriceReader interface {
	ListPoints(ctx context.Context) ([]priceentity.PriceRecord, error)
}

// ReconstructUsecase computes the daily table. It holds no state between runs.
type ReconstructUsecase struct {
	ledger TransactionReader
	prices PriceReader
	cfg    Config
	now    func() time.Time
}

// NewReconstructUsecase returns a ReconstructUsecase. A nil cfg.Location means UTC.
func NewReconstructUsecase(ledger TransactionReader, prices PriceReader, cfg Config) *ReconstructUsecase {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.FillPolicy == "" {
		cfg.FillPolicy = domain.FillForwardBackward
	}
	if cfg.SellFeePolicy == "" {
		cfg.SellFeePolicy = domain.SellFeeIgnore
	}
	return &ReconstructUsecase{ledger: ledger, prices: prices, cfg: cfg, now: time.Now}
}

// Reconstruct builds one row per local calendar day, from the earliest transaction to today,
// with a column group per asset in the given order. Both stores are read once up front and
// the result is computed from that snapshot only.
func (ru *ReconstructUsecase) Reconstruct(ctx context.Context, assets []string) (*entity.DailyTable, error) {
	recs, err := ru.ledger.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	txs := ledgerdomain.NormalizeAll(recs)
	if len(txs) == 0 {
		return nil, ledgerdomain.ErrNoTransactions
	}

	priceRecs, err := ru.prices.ListPoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("load prices: %w", err)
	}
	points := pricesdomain.NormalizePoints(priceRecs)

	loc := ru.cfg.Location
	first := txs[0].DateUTC
	for _, tx := range txs[1:] {
		if tx.DateUTC.Before(first) {
			first = tx.DateUTC
		}
	}
	end := ru.now()
	if end.Before(first) {
		end = first
	}
	days := calendar.Range(first, end, loc)
	keys := make([]string, len(days))
	index := make(map[string]int, len(days))
	for i, d := range days {
		keys[i] = d.Format(calendar.DayFormat)
		index[keys[i]] = i
	}

	daily := dailyPrices(points, loc)
	bySymbol := map[string][]ledgerentity.Transaction{}
	for _, tx := range txs {
		bySymbol[tx.Symbol] = append(bySymbol[tx.Symbol], tx)
	}

	table := &entity.DailyTable{
		Location: loc,
		Days:     days,
		Totals: entity.Totals{
			Bought:   make([]float64, len(days)),
			Value:    make([]float64, len(days)),
			GainLoss: make([]float64, len(days)),
		},
	}

	for _, symbol := range uniqueAssets(assets) {
		prices := Densify(keys, daily[symbol], ru.cfg.FillPolicy)
		series, unpriced := ru.buildSeries(symbol, bySymbol[symbol], prices, index, loc)
		if unpriced > 0 {
			slog.Warn("asset held on days without a resolvable price, valued at 0",
				"symbol", symbol, "unpriced_days", unpriced, "fill_policy", ru.cfg.FillPolicy)
		}
		table.Assets = append(table.Assets, series)
		for i := range days {
			table.Totals.Bought[i] += series.BoughtCum[i]
			table.Totals.Value[i] += series.Value[i]
		}
	}
	for i := range days {
		table.Totals.GainLoss[i] = table.Totals.Value[i] - table.Totals.Bought[i]
	}

	slog.Info("daily table reconstructed", "days", len(days), "assets", len(table.Assets),
		"from", keys[0], "to", keys[len(keys)-1], "transactions", len(txs), "price_points", len(points))
	return table, nil
}

// qtyEpsilon absorbs float residue left by selling a whole position in several parts.
const qtyEpsilon = 1e-12

// buildSeries aggregates one asset's transactions per day and derives the cumulative figures.
// It returns the series and the number of held days valued at 0 for lack of a price.
func (ru *ReconstructUsecase) buildSeries(symbol string, txs []ledgerentity.Transaction, prices []float64,
	index map[string]int, loc *time.Location) (entity.AssetSeries, int) {
	n := len(prices)
	s := entity.AssetSeries{
		Symbol:    symbol,
		BoughtEUR: make([]float64, n),
		BoughtCum: make([]float64, n),
		QtyCum:    make([]float64, n),
		Price:     prices,
		Value:     make([]float64, n),
		GainLoss:  make([]float64, n),
	}

	qtyDay := make([]float64, n)
	for _, tx := range txs {
		i, ok := index[calendar.Key(tx.DateUTC, loc)]
		if !ok {
			slog.Debug("transaction outside calendar grid ignored", "symbol", symbol, "date", tx.DateUTC)
			continue
		}
		s.BoughtEUR[i] += ru.deployed(tx)
		qtyDay[i] += tx.Qty
	}

	unpriced := 0
	var bought, qty float64
	for i := 0; i < n; i++ {
		bought += s.BoughtEUR[i]
		qty += qtyDay[i]
		s.BoughtCum[i] = bought
		s.QtyCum[i] = qty
		switch {
		case math.Abs(qty) < qtyEpsilon:
			s.Value[i] = 0
		case math.IsNaN(prices[i]):
			s.Value[i] = 0
			unpriced++
		default:
			s.Value[i] = qty * prices[i]
		}
		s.GainLoss[i] = s.Value[i] - bought
	}
	return s, unpriced
}

// deployed is the capital a transaction adds that day: notional plus fee for buys,
// nothing for sells unless sell fees are counted.
func (ru *ReconstructUsecase) deployed(tx ledgerentity.Transaction) float64 {
	if tx.Qty < 0 {
		if ru.cfg.SellFeePolicy == domain.SellFeeCount {
			return tx.FeeEUR
		}
		return 0
	}
	return tx.Qty*tx.PriceEUR + tx.FeeEUR
}

// dailyPrices resolves one price per symbol and local day: the last observation of the day.
// Points sharing a timestamp keep their input order, so the later one wins.
func dailyPrices(points []priceentity.PricePoint, loc *time.Location) map[string]map[string]float64 {
	sorted := make([]priceentity.PricePoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].TS.Before(sorted[j].TS) })

	out := map[string]map[string]float64{}
	for _, p := range sorted {
		if math.IsNaN(p.PriceEUR) {
			continue
		}
		m, ok := out[p.Symbol]
		if !ok {
			m = map[string]float64{}
			out[p.Symbol] = m
		}
		m[calendar.Key(p.TS, loc)] = p.PriceEUR
	}
	return out
}

// Densify lays a sparse daily price series onto keys. Days before the first observation are
// NaN under FillForwardOnly and take the first observed price under FillForwardBackward.
// Observations outside keys are ignored. An asset with no observation yields all NaN.
func Densify(keys []string, observed map[string]float64, policy domain.FillPolicy) []float64 {
	out := make([]float64, len(keys))
	firstIdx := -1
	last := math.NaN()
	for i, k := range keys {
		if p, ok := observed[k]; ok {
			last = p
			if firstIdx < 0 {
				firstIdx = i
			}
		}
		out[i] = last
	}
	if policy == domain.FillForwardBackward && firstIdx > 0 {
		for i := 0; i < firstIdx; i++ {
			out[i] = out[firstIdx]
		}
	}
	return out
}

func uniqueAssets(assets []string) []string {
	seen := make(map[string]bool, len(assets))
	out := make([]string, 0, len(assets))
	for _, a := range assets {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}
