package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Aughra/picsou/internal/feature/prices/domain"
	"github.com/Aughra/picsou/internal/feature/prices/domain/entity"
)

// SimplePriceRepository fetches the current price of several remote ids in one call.
type SimplePriceRepository interface {
	GetSimplePrice(ctx context.Context, ids []string) (map[string]float64, error)
}

// SnapshotUsecase records the current price of every ledger symbol.
type SnapshotUsecase struct {
	ledger  LedgerReader
	prices  PriceStore
	market  SimplePriceRepository
	coinIDs domain.CoinIDs
	now     func() time.Time
}

// NewSnapshotUsecase returns a SnapshotUsecase.
func NewSnapshotUsecase(ledger LedgerReader, prices PriceStore, market SimplePriceRepository, coinIDs domain.CoinIDs) *SnapshotUsecase {
	return &SnapshotUsecase{ledger: ledger, prices: prices, market: market, coinIDs: coinIDs, now: time.Now}
}

// SnapshotCurrent fetches current prices in a single remote call and stores them at the current UTC second.
func (su *SnapshotUsecase) SnapshotCurrent(ctx context.Context) (*entity.SnapshotReport, error) {
	report := &entity.SnapshotReport{
		RunID: uuid.New(),
		At:    su.now().UTC().Truncate(time.Second),
	}

	symbols, err := su.ledger.ListSymbols(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot symbols: %w", err)
	}
	if len(symbols) == 0 {
		slog.Info("no symbols in ledger, snapshot skipped", "run_id", report.RunID)
		return report, nil
	}

	mapped, unmapped := su.coinIDs.Split(symbols)
	report.Unmapped = unmapped
	if len(unmapped) > 0 {
		slog.Warn("symbols without remote id, add them to COINS_MAP", "run_id", report.RunID, "symbols", unmapped)
	}
	if len(mapped) == 0 {
		return report, nil
	}

	ids := make([]string, 0, len(mapped))
	for _, s := range mapped {
		ids = append(ids, su.coinIDs[s])
	}
	quotes, err := su.market.GetSimplePrice(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("snapshot current prices: %w", err)
	}

	points := make([]entity.PricePoint, 0, len(mapped))
	for _, s := range mapped {
		p, ok := quotes[su.coinIDs[s]]
		if !ok {
			report.Missing = append(report.Missing, s)
			continue
		}
		points = append(points, entity.PricePoint{TS: report.At, Symbol: s, PriceEUR: p})
	}
	sort.Strings(report.Missing)
	if len(report.Missing) > 0 {
		slog.Warn("remote returned no price for some symbols", "run_id", report.RunID, "symbols", report.Missing)
	}

	n, err := su.prices.UpsertBatch(ctx, points)
	if err != nil {
		return nil, fmt.Errorf("snapshot upsert: %w", err)
	}
	report.Written = n
	slog.Info("snapshot stored", "run_id", report.RunID, "at", report.At, "written", n)
	return report, nil
}
