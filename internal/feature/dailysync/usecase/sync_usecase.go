// Package usecase projects the reconstructed daily table into the persisted table and serves it back.
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Aughra/picsou/internal/feature/dailysync/domain"
	"github.com/Aughra/picsou/internal/feature/dailysync/domain/entity"
	reconentity "github.com/Aughra/picsou/internal/feature/reconstruction/domain/entity"
	"github.com/Aughra/picsou/internal/shared/calendar"
)

// Reconstructor produces the daily table for an ordered asset set.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider.
type Reconstructor interface {
	Reconstruct(ctx context.Context, assets []string) (*reconentity.DailyTable, error)
}

// DailyRepository is the persisted daily table and its views.
type DailyRepository interface {
	EnsureSchema(ctx context.Context, columns []entity.Column) (*entity.SchemaChange, error)
	UpsertRows(ctx context.Context, rows []entity.Row, columns []entity.Column) (*entity.UpsertResult, error)
	SweepNulls(ctx context.Context, columns []string) *entity.SweepResult
	RecreateViews(ctx context.Context, views []entity.ViewDef) error
	ReadView(ctx context.Context, view string) (*entity.ViewRows, error)
}

// SyncUsecase runs reconstruction and writes the result into the daily table.
type SyncUsecase struct {
	recon Reconstructor
	repo  DailyRepository
	cfg   Config
}

// NewSyncUsecase returns a SyncUsecase.
func NewSyncUsecase(recon Reconstructor, repo DailyRepository, cfg Config) *SyncUsecase {
	return &SyncUsecase{recon: recon, repo: repo, cfg: cfg}
}

// Sync reconstructs the portfolio for assets and projects it into the table: additive schema
// changes, upsert keyed by day, null sweep, then views. Running it twice on unchanged stores
// leaves the table unchanged.
func (su *SyncUsecase) Sync(ctx context.Context, assets []string) (*entity.SyncReport, error) {
	table, err := su.recon.Reconstruct(ctx, assets)
	if err != nil {
		return nil, err
	}

	// Amount columns first, then the held quantities of the positions block.
	wide := table.Wide()
	positions := table.Positions()
	series := make([][]float64, 0, len(wide)+len(positions))
	defs := make([]entity.Column, 0, len(wide)+len(positions))
	for _, c := range wide {
		defs = append(defs, entity.Column{Label: c.Label, Scale: domain.ValueScale})
		series = append(series, c.Values)
	}
	for _, c := range positions {
		defs = append(defs, entity.Column{Label: c.Label, Scale: domain.QuantityScale})
		series = append(series, c.Values)
	}
	cols, err := domain.BuildColumns(defs)
	if err != nil {
		return nil, err
	}
	storage := domain.StorageNames(cols)

	report := &entity.SyncReport{RunID: uuid.New(), Table: su.cfg.Table, Days: table.Len()}
	log := slog.With("run_id", report.RunID, "table", su.cfg.Table)

	schema, err := su.repo.EnsureSchema(ctx, cols)
	if err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	report.Schema = *schema
	if schema.Created || len(schema.Added) > 0 || len(schema.Dropped) > 0 {
		log.Info("daily table schema updated", "created", schema.Created, "added", schema.Added, "dropped", schema.Dropped)
	}

	rows := make([]entity.Row, table.Len())
	for i, day := range table.Days {
		values := make(map[string]float64, len(series))
		for j, v := range series {
			values[storage[j]] = v[i]
		}
		rows[i] = entity.Row{Date: day.Format(calendar.DayFormat), Values: values}
	}
	upsert, err := su.repo.UpsertRows(ctx, rows, cols)
	if err != nil {
		return nil, fmt.Errorf("upsert rows: %w", err)
	}
	report.Upsert = *upsert

	report.Sweep = *su.repo.SweepNulls(ctx, storage)

	views := su.views(cols, table.Assets)
	if err := su.repo.RecreateViews(ctx, views); err != nil {
		return nil, fmt.Errorf("recreate views: %w", err)
	}
	for _, v := range views {
		report.Views = append(report.Views, v.Name)
	}

	log.Info("daily table synced", "days", report.Days, "inserted", report.Upsert.Inserted,
		"updated", report.Upsert.Updated, "nulls_swept", report.Sweep.Rewritten,
		"sweep_failures", len(report.Sweep.Failed), "views", len(report.Views))
	return report, nil
}

// views derives the whole-table view, one view per asset, the totals view and the positions view.
func (su *SyncUsecase) views(cols []entity.Column, assets []reconentity.AssetSeries) []entity.ViewDef {
	byLabel := make(map[string]entity.Column, len(cols))
	for _, c := range cols {
		byLabel[c.Label] = c
	}
	pick := func(labels []string) []entity.Column {
		out := make([]entity.Column, 0, len(labels))
		for _, l := range labels {
			out = append(out, byLabel[l])
		}
		return out
	}

	views := []entity.ViewDef{{Name: su.cfg.View, Columns: cols}}
	for _, a := range assets {
		views = append(views, entity.ViewDef{
			Name:    domain.AssetViewName(su.cfg.View, a.Symbol),
			Columns: pick(reconentity.AssetLabels(a.Symbol)),
		})
	}
	views = append(views, entity.ViewDef{
		Name:    domain.TotalsViewName(su.cfg.View),
		Columns: pick(reconentity.TotalLabels()),
	})
	qty := make([]string, len(assets))
	for i, a := range assets {
		qty[i] = reconentity.LabelQty(a.Symbol)
	}
	views = append(views, entity.ViewDef{
		Name:    domain.PositionsViewName(su.cfg.View),
		Columns: pick(qty),
	})
	return views
}
