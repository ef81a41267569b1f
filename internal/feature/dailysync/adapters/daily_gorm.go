package adapters

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Aughra/picsou/internal/feature/dailysync/domain"
	"github.com/Aughra/picsou/internal/feature/dailysync/domain/entity"
	"github.com/Aughra/picsou/internal/feature/dailysync/usecase"
	"github.com/Aughra/picsou/internal/shared/amount"
)

const upsertBatchSize = 100

type dailyGorm struct {
	db    *gorm.DB
	table string
}

var _ usecase.DailyRepository = (*dailyGorm)(nil)

// NewDailyRepository returns the gorm implementation of the daily table and its views.
func NewDailyRepository(db *gorm.DB, table string) *dailyGorm {
	return &dailyGorm{db: db, table: table}
}

// EnsureSchema creates the table when missing and adds every absent value column.
// Columns are never dropped, except legacy artifacts that are not expected.
func (r *dailyGorm) EnsureSchema(ctx context.Context, columns []entity.Column) (*entity.SchemaChange, error) {
	db := r.db.WithContext(ctx)
	m := db.Migrator()
	change := &entity.SchemaChange{}

	if !m.HasTable(r.table) {
		err := db.Exec("CREATE TABLE ? (? VARCHAR(10) NOT NULL PRIMARY KEY)",
			clause.Table{Name: r.table}, clause.Column{Name: domain.DateColumn}).Error
		if err != nil {
			return nil, fmt.Errorf("create table %s: %w", r.table, err)
		}
		change.Created = true
	}

	existing, err := r.columnSet(db)
	if err != nil {
		return nil, err
	}

	expected := make(map[string]bool, len(columns)+1)
	expected[domain.DateColumn] = true
	for _, c := range columns {
		expected[c.Storage] = true
	}

	for _, legacy := range domain.LegacyColumns {
		if existing[legacy] && !expected[legacy] {
			err := db.Exec("ALTER TABLE ? DROP COLUMN ?", clause.Table{Name: r.table}, clause.Column{Name: legacy}).Error
			if err != nil {
				return nil, fmt.Errorf("drop legacy column %s: %w", legacy, err)
			}
			change.Dropped = append(change.Dropped, legacy)
		}
	}

	for _, c := range columns {
		if existing[c.Storage] {
			continue
		}
		err := db.Exec("ALTER TABLE ? ADD COLUMN ? "+columnType(c.Scale),
			clause.Table{Name: r.table}, clause.Column{Name: c.Storage}).Error
		if err != nil {
			return nil, fmt.Errorf("add column %s: %w", c.Storage, err)
		}
		existing[c.Storage] = true
		change.Added = append(change.Added, c.Storage)
	}
	return change, nil
}

// columnType is the DECIMAL type holding scale decimals and 18 integer digits.
func columnType(scale int32) string {
	return fmt.Sprintf("DECIMAL(%d,%d)", 18+scale, scale)
}

// columnSet returns the lowercased column names of the table.
func (r *dailyGorm) columnSet(db *gorm.DB) (map[string]bool, error) {
	rows, err := db.Table(r.table).Limit(1).Rows()
	if err != nil {
		return nil, fmt.Errorf("read columns of %s: %w", r.table, err)
	}
	defer rows.Close()
	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns of %s: %w", r.table, err)
	}
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[strings.ToLower(n)] = true
	}
	return out, nil
}

// UpsertRows writes rows keyed by date: existing days have every column updated, new days are inserted.
// Values are rounded to the column scale; NaN and infinities are stored as 0.
func (r *dailyGorm) UpsertRows(ctx context.Context, rows []entity.Row, columns []entity.Column) (*entity.UpsertResult, error) {
	res := &entity.UpsertResult{}
	if len(rows) == 0 {
		return res, nil
	}
	db := r.db.WithContext(ctx)

	dates, err := r.listDates(ctx)
	if err != nil {
		return nil, fmt.Errorf("read existing days: %w", err)
	}
	present := make(map[string]bool, len(dates))
	for _, d := range dates {
		present[d] = true
	}

	records := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		rec := make(map[string]interface{}, len(columns)+1)
		rec[domain.DateColumn] = row.Date
		for _, c := range columns {
			rec[c.Storage] = amount.Round(row.Values[c.Storage], c.Scale)
		}
		records = append(records, rec)
		if present[row.Date] {
			res.Updated++
		} else {
			res.Inserted++
		}
	}

	err = db.Table(r.table).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: domain.DateColumn}},
		DoUpdates: clause.AssignmentColumns(domain.StorageNames(columns)),
	}).CreateInBatches(&records, upsertBatchSize).Error
	if err != nil {
		return nil, fmt.Errorf("upsert %s: %w", r.table, err)
	}
	return res, nil
}

// SweepNulls rewrites any NULL to 0 in columns and in every other value column the table has,
// including columns left by earlier runs over a wider asset set. A failing column is logged and skipped.
func (r *dailyGorm) SweepNulls(ctx context.Context, columns []string) *entity.SweepResult {
	res := &entity.SweepResult{}
	db := r.db.WithContext(ctx)

	targets := append([]string(nil), columns...)
	existing, err := r.columnSet(db)
	if err != nil {
		slog.Warn("null sweep limited to current columns", "table", r.table, "error", err)
	} else {
		listed := make(map[string]bool, len(columns))
		for _, c := range columns {
			listed[strings.ToLower(c)] = true
		}
		var extra []string
		for c := range existing {
			if c != domain.DateColumn && !listed[c] {
				extra = append(extra, c)
			}
		}
		sort.Strings(extra)
		targets = append(targets, extra...)
	}

	for _, c := range targets {
		tx := db.Exec("UPDATE ? SET ? = 0 WHERE ? IS NULL",
			clause.Table{Name: r.table}, clause.Column{Name: c}, clause.Column{Name: c})
		if tx.Error != nil {
			slog.Warn("null sweep failed", "table", r.table, "column", c, "error", tx.Error)
			res.Failed = append(res.Failed, c)
			continue
		}
		res.Rewritten += tx.RowsAffected
	}
	return res
}

// RecreateViews drops and recreates every view. Views only read the table.
func (r *dailyGorm) RecreateViews(ctx context.Context, views []entity.ViewDef) error {
	db := r.db.WithContext(ctx)
	for _, v := range views {
		if err := db.Exec("DROP VIEW IF EXISTS ?", clause.Table{Name: v.Name}).Error; err != nil {
			return fmt.Errorf("drop view %s: %w", v.Name, err)
		}
		if err := db.Exec(r.viewSQL(v)).Error; err != nil {
			return fmt.Errorf("create view %s: %w", v.Name, err)
		}
	}
	return nil
}

func (r *dailyGorm) viewSQL(v entity.ViewDef) string {
	var b strings.Builder
	b.WriteString("CREATE VIEW ")
	r.db.Dialector.QuoteTo(&b, v.Name)
	b.WriteString(" AS SELECT ")
	r.db.Dialector.QuoteTo(&b, domain.DateColumn)
	b.WriteString(" AS ")
	r.db.Dialector.QuoteTo(&b, domain.DateColumn)
	for _, c := range v.Columns {
		b.WriteString(", ")
		r.db.Dialector.QuoteTo(&b, c.Storage)
		b.WriteString(" AS ")
		r.db.Dialector.QuoteTo(&b, c.Label)
	}
	b.WriteString(" FROM ")
	r.db.Dialector.QuoteTo(&b, r.table)
	return b.String()
}

// ReadView returns the content of a view ordered by date, with its columns in view order.
func (r *dailyGorm) ReadView(ctx context.Context, view string) (*entity.ViewRows, error) {
	rows, err := r.db.WithContext(ctx).Table(view).
		Order(clause.OrderByColumn{Column: clause.Column{Name: domain.DateColumn}}).
		Rows()
	if err != nil {
		if exists, existsErr := r.viewExists(ctx, view); existsErr == nil && !exists {
			return nil, fmt.Errorf("read view %s: %w", view, domain.ErrViewNotFound)
		}
		return nil, fmt.Errorf("read view %s: %w", view, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	out := &entity.ViewRows{View: view, Rows: []entity.ViewRow{}}
	for _, c := range cols {
		if c != domain.DateColumn {
			out.Columns = append(out.Columns, c)
		}
	}

	for rows.Next() {
		raw := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := entity.ViewRow{Values: make(map[string]float64, len(cols)-1)}
		for i, c := range cols {
			if c == domain.DateColumn {
				row.Date = asString(raw[i])
				continue
			}
			row.Values[c] = asFloat(raw[i])
		}
		out.Rows = append(out.Rows, row)
	}
	return out, rows.Err()
}

// viewExists reports whether a table or view called name is visible to the connection.
func (r *dailyGorm) viewExists(ctx context.Context, name string) (bool, error) {
	query := "SELECT count(*) FROM information_schema.tables WHERE table_schema = CURRENT_SCHEMA() AND table_name = ?"
	if r.db.Dialector.Name() == "sqlite" {
		query = "SELECT count(*) FROM sqlite_master WHERE type IN ('table', 'view') AND name = ?"
	}
	var n int64
	if err := r.db.WithContext(ctx).Raw(query, name).Scan(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// listDates returns the stored days in order.
func (r *dailyGorm) listDates(ctx context.Context) ([]string, error) {
	var dates []string
	err := r.db.WithContext(ctx).Table(r.table).
		Order(clause.OrderByColumn{Column: clause.Column{Name: domain.DateColumn}}).
		Pluck(domain.DateColumn, &dates).Error
	if err != nil {
		return nil, err
	}
	return dates, nil
}

// asString renders a scanned date cell. Drivers return text columns as string or []byte.
func asString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}

// asFloat converts a scanned numeric cell. DECIMAL columns come back as text, integer or float
// depending on driver and stored value; NULL reads as 0.
func asFloat(v interface{}) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		return x
	case float32:
		return float64(x)
	case int64:
		return float64(x)
	case int32:
		return float64(x)
	case int:
		return float64(x)
	case []byte:
		f, _ := amount.Parse(string(x))
		return f
	case string:
		f, _ := amount.Parse(x)
		return f
	case decimal.Decimal:
		return x.InexactFloat64()
	case sql.NullFloat64:
		return x.Float64
	default:
		f, _ := strconv.ParseFloat(fmt.Sprint(x), 64)
		return f
	}
}
