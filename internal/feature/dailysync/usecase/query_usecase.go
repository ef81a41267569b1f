package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/Aughra/picsou/internal/feature/dailysync/domain"
	"github.com/Aughra/picsou/internal/feature/dailysync/domain/entity"
)

// ViewReader reads a view of the daily table.
type ViewReader interface {
	ReadView(ctx context.Context, view string) (*entity.ViewRows, error)
}

// QueryUsecase serves the synced table through its views.
type QueryUsecase struct {
	reader ViewReader
	view   string
	assets map[string]bool
}

// NewQueryUsecase returns a QueryUsecase limited to assets.
func NewQueryUsecase(reader ViewReader, cfg Config, assets []string) *QueryUsecase {
	set := make(map[string]bool, len(assets))
	for _, a := range assets {
		set[strings.ToLower(a)] = true
	}
	return &QueryUsecase{reader: reader, view: cfg.View, assets: set}
}

// ListDaily returns every day with every display column.
func (qu *QueryUsecase) ListDaily(ctx context.Context) (*entity.ViewRows, error) {
	return qu.reader.ReadView(ctx, qu.view)
}

// ListTotals returns every day with the totals only.
func (qu *QueryUsecase) ListTotals(ctx context.Context) (*entity.ViewRows, error) {
	return qu.reader.ReadView(ctx, domain.TotalsViewName(qu.view))
}

// ListPositions returns every day with the held quantity of each asset.
func (qu *QueryUsecase) ListPositions(ctx context.Context) (*entity.ViewRows, error) {
	return qu.reader.ReadView(ctx, domain.PositionsViewName(qu.view))
}

// ListAsset returns every day with the columns of one asset. A configured asset that no sync
// has included yet has no view and is reported as unknown.
func (qu *QueryUsecase) ListAsset(ctx context.Context, symbol string) (*entity.ViewRows, error) {
	symbol = strings.ToLower(strings.TrimSpace(symbol))
	if !qu.assets[symbol] {
		return nil, domain.ErrUnknownAsset
	}
	rows, err := qu.reader.ReadView(ctx, domain.AssetViewName(qu.view, symbol))
	if errors.Is(err, domain.ErrViewNotFound) {
		return nil, domain.ErrUnknownAsset
	}
	return rows, err
}
