package adapters

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Aughra/picsou/internal/feature/prices/domain/entity"
	"github.com/Aughra/picsou/internal/shared/amount"
	"github.com/Aughra/picsou/internal/shared/calendar"
)

// upsertBatchSize keeps each statement well under SQLite's bound-parameter limit.
const upsertBatchSize = 500

type priceGorm struct {
	db *gorm.DB
}

// NewPriceRepository returns the gorm-backed price store.
func NewPriceRepository(db *gorm.DB) *priceGorm {
	return &priceGorm{db: db}
}

// PriceSnapshotModel mirrors the price_snapshot table. (ts, symbol) is unique.
type PriceSnapshotModel struct {
	ID        uint            `gorm:"primaryKey"`
	TS        time.Time       `gorm:"column:ts;not null;index;uniqueIndex:uk_price_snapshot_ts_symbol,priority:1"`
	Symbol    string          `gorm:"size:20;not null;index;uniqueIndex:uk_price_snapshot_ts_symbol,priority:2"`
	PriceEUR  decimal.Decimal `gorm:"column:price_eur;type:decimal(18,8);not null"`
	CreatedAt time.Time
}

func (PriceSnapshotModel) TableName() string {
	return "price_snapshot"
}

type priceRow struct {
	TS       time.Time      `gorm:"column:ts"`
	Symbol   string         `gorm:"column:symbol"`
	PriceEUR sql.NullString `gorm:"column:price_eur"`
}

// normalizeTS keeps timestamps comparable across drivers: UTC, microsecond precision.
func normalizeTS(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// UpsertBatch inserts the points, updating the price of any existing (ts, symbol).
// Points with a non-finite price are skipped. It returns the number of points written.
func (r *priceGorm) UpsertBatch(ctx context.Context, points []entity.PricePoint) (int, error) {
	ms := make([]PriceSnapshotModel, 0, len(points))
	for _, p := range points {
		d, ok := amount.FromFloat(p.PriceEUR)
		if !ok {
			slog.Warn("skipping non-finite price point", "symbol", p.Symbol, "ts", p.TS)
			continue
		}
		ms = append(ms, PriceSnapshotModel{
			TS:       normalizeTS(p.TS),
			Symbol:   p.Symbol,
			PriceEUR: d,
		})
	}
	if len(ms) == 0 {
		return 0, nil
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ts"}, {Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{"price_eur"}),
	}).CreateInBatches(&ms, upsertBatchSize).Error
	if err != nil {
		return 0, fmt.Errorf("upsert prices: %w", err)
	}
	return len(ms), nil
}

// ListPoints returns every stored point, ordered by symbol then timestamp.
func (r *priceGorm) ListPoints(ctx context.Context) ([]entity.PriceRecord, error) {
	var rows []priceRow
	err := r.db.WithContext(ctx).
		Model(&PriceSnapshotModel{}).
		Select("ts, symbol, price_eur").
		Order("symbol, ts, id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list price points: %w", err)
	}
	out := make([]entity.PriceRecord, 0, len(rows))
	for _, m := range rows {
		out = append(out, entity.PriceRecord{
			TS:       m.TS.UTC(),
			Symbol:   m.Symbol,
			PriceEUR: m.PriceEUR.String,
		})
	}
	return out, nil
}

// DaysPresent returns the UTC calendar days in [from, to) that hold at least one point for symbol.
func (r *priceGorm) DaysPresent(ctx context.Context, symbol string, from, to time.Time) (map[string]struct{}, error) {
	var stamps []time.Time
	err := r.db.WithContext(ctx).
		Model(&PriceSnapshotModel{}).
		Where("LOWER(symbol) = ? AND ts >= ? AND ts < ?", symbol, normalizeTS(from), normalizeTS(to)).
		Pluck("ts", &stamps).Error
	if err != nil {
		return nil, fmt.Errorf("days present for %s: %w", symbol, err)
	}
	days := make(map[string]struct{}, len(stamps))
	for _, ts := range stamps {
		days[calendar.Key(ts, time.UTC)] = struct{}{}
	}
	return days, nil
}
