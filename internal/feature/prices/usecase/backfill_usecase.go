// Package usecase implements price backfilling and snapshotting.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Aughra/picsou/internal/feature/prices/domain"
	"github.com/Aughra/picsou/internal/feature/prices/domain/entity"
	"github.com/Aughra/picsou/internal/shared/calendar"
	"github.com/Aughra/picsou/internal/shared/ratelimiter"
)

// LedgerReader exposes the parts of the ledger the price jobs need.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type LedgerReader interface {
	ListSymbols(ctx context.Context) ([]string, error)
	DateRange(ctx context.Context) (first, last time.Time, err error)
}

// PriceStore is the write side of the price store plus the coverage query.
type PriceStore interface {
	DaysPresent(ctx context.Context, symbol string, from, to time.Time) (map[string]struct{}, error)
	UpsertBatch(ctx context.Context, points []entity.PricePoint) (int, error)
}

// MarketRepository fetches a historical price series from the remote source.
type MarketRepository interface {
	GetMarketChartRange(ctx context.Context, coinID string, from, to time.Time) ([]entity.PricePoint, error)
}

// BackfillUsecase fills the price store with one point per asset and UTC calendar day,
// fetching only the days that are missing.
type BackfillUsecase struct {
	ledger      LedgerReader
	prices      PriceStore
	market      MarketRepository
	rateLimiter ratelimiter.RateLimiterInterface
	coinIDs     domain.CoinIDs
	now         func() time.Time
}

// NewBackfillUsecase returns a BackfillUsecase.
func NewBackfillUsecase(ledger LedgerReader, prices PriceStore, market MarketRepository,
	rateLimiter ratelimiter.RateLimiterInterface, coinIDs domain.CoinIDs) *BackfillUsecase {
	return &BackfillUsecase{
		ledger:      ledger,
		prices:      prices,
		market:      market,
		rateLimiter: rateLimiter,
		coinIDs:     coinIDs,
		now:         time.Now,
	}
}

// BackfillAll backfills every symbol present in the ledger, one after the other.
// Only an empty or unreadable ledger aborts the run; a failure on one asset is recorded and skipped.
func (bu *BackfillUsecase) BackfillAll(ctx context.Context) (*entity.BackfillReport, error) {
	first, _, err := bu.ledger.DateRange(ctx)
	if err != nil {
		return nil, fmt.Errorf("backfill date range: %w", err)
	}
	symbols, err := bu.ledger.ListSymbols(ctx)
	if err != nil {
		return nil, fmt.Errorf("backfill symbols: %w", err)
	}

	now := bu.now().UTC()
	report := &entity.BackfillReport{
		RunID: uuid.New(),
		From:  calendar.StartOfDay(first, time.UTC),
		To:    calendar.StartOfDay(now, time.UTC),
	}
	days := calendar.Keys(first, now, time.UTC)

	slog.Info("backfill started", "run_id", report.RunID, "from", report.From.Format(calendar.DayFormat),
		"to", report.To.Format(calendar.DayFormat), "symbols", len(symbols))

	for _, s := range symbols {
		res := bu.backfillOne(ctx, s, days, report.From, now)
		report.Assets = append(report.Assets, res)
		logAssetResult(report.RunID, res)
	}

	slog.Info("backfill finished", "run_id", report.RunID, "written", report.Written(), "skipped", len(report.Skipped()))
	return report, nil
}

func (bu *BackfillUsecase) backfillOne(ctx context.Context, symbol string, days []string, from, now time.Time) entity.AssetResult {
	res := entity.AssetResult{Symbol: symbol}

	id, err := bu.coinIDs.Lookup(symbol)
	if err != nil {
		res.Status = entity.StatusUnmapped
		res.Err = err
		return res
	}
	res.CoinID = id

	present, err := bu.prices.DaysPresent(ctx, symbol, from, calendar.StartOfDay(now, time.UTC).AddDate(0, 0, 1))
	if err != nil {
		res.Status = entity.StatusFailed
		res.Err = err
		return res
	}

	missing := missingDays(days, present)
	res.Missing = len(missing)
	if len(missing) == 0 {
		res.Status = entity.StatusComplete
		return res
	}

	// One contiguous request covering every gap; the result is filtered back down to the gaps.
	rangeFrom, rangeTo := fetchWindow(missing, now)
	points, err := bu.market.GetMarketChartRange(ctx, id, rangeFrom, rangeTo)
	if errors.Is(err, domain.ErrRateLimited) {
		res.Status = entity.StatusRateLimited
		res.Err = err
		bu.rateLimiter.Backoff()
		return res
	}
	if err != nil {
		res.Status = entity.StatusFailed
		res.Err = err
		return res
	}
	bu.rateLimiter.Pause()

	points = LastPerDay(FilterDays(points, missing), time.UTC)
	for i := range points {
		points[i].Symbol = symbol
	}

	n, err := bu.prices.UpsertBatch(ctx, points)
	if err != nil {
		res.Status = entity.StatusFailed
		res.Err = err
		return res
	}
	res.Status = entity.StatusFetched
	res.Written = n
	return res
}

// missingDays returns the keys of days absent from present, in calendar order.
func missingDays(days []string, present map[string]struct{}) []string {
	var out []string
	for _, d := range days {
		if _, ok := present[d]; !ok {
			out = append(out, d)
		}
	}
	return out
}

// fetchWindow spans from the start of the first missing day to the end of the last one, capped at now.
func fetchWindow(missing []string, now time.Time) (time.Time, time.Time) {
	from, _ := time.ParseInLocation(calendar.DayFormat, missing[0], time.UTC)
	last, _ := time.ParseInLocation(calendar.DayFormat, missing[len(missing)-1], time.UTC)
	to := last.AddDate(0, 0, 1)
	if to.After(now) {
		to = now
	}
	return from, to
}

// FilterDays keeps the points whose UTC calendar day is in days.
func FilterDays(points []entity.PricePoint, days []string) []entity.PricePoint {
	want := make(map[string]struct{}, len(days))
	for _, d := range days {
		want[d] = struct{}{}
	}
	out := make([]entity.PricePoint, 0, len(points))
	for _, p := range points {
		if _, ok := want[calendar.Key(p.TS, time.UTC)]; ok {
			out = append(out, p)
		}
	}
	return out
}

// LastPerDay keeps one point per calendar day in loc: the latest one. The result is ordered by time.
func LastPerDay(points []entity.PricePoint, loc *time.Location) []entity.PricePoint {
	byDay := make(map[string]entity.PricePoint, len(points))
	for _, p := range points {
		k := calendar.Key(p.TS, loc)
		if cur, ok := byDay[k]; !ok || !p.TS.Before(cur.TS) {
			byDay[k] = p
		}
	}
	out := make([]entity.PricePoint, 0, len(byDay))
	for _, p := range byDay {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TS.Before(out[j].TS) })
	return out
}

func logAssetResult(runID uuid.UUID, res entity.AssetResult) {
	attrs := []any{"run_id", runID, "symbol", res.Symbol, "status", res.Status,
		"missing_days", res.Missing, "written", res.Written}
	switch res.Status {
	case entity.StatusFetched, entity.StatusComplete:
		slog.Info("backfill asset", attrs...)
	case entity.StatusUnmapped:
		slog.Warn("backfill asset skipped: no remote id, add it to COINS_MAP", attrs...)
	default:
		slog.Error("backfill asset failed", append(attrs, "error", res.Err)...)
	}
}
