package adapters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Aughra/picsou/internal/feature/ledger/domain"
	"github.com/Aughra/picsou/internal/feature/ledger/domain/entity"
)

type transactionGorm struct {
	db *gorm.DB
}

// NewTransactionRepository returns the gorm-backed ledger reader.
func NewTransactionRepository(db *gorm.DB) *transactionGorm {
	return &transactionGorm{db: db}
}

// TransactionModel mirrors the transactions table. Ingestion writes it; this package only reads.
type TransactionModel struct {
	ID        uint            `gorm:"primaryKey"`
	DateUTC   time.Time       `gorm:"column:date_utc;not null;index"`
	Symbol    string          `gorm:"size:20;not null;index"`
	Qty       decimal.Decimal `gorm:"column:qty;type:decimal(18,8);not null"`
	PriceEUR  decimal.Decimal `gorm:"column:price_eur;type:decimal(18,8);not null;default:0"`
	FeeEUR    decimal.Decimal `gorm:"column:fee_eur;type:decimal(18,8);not null;default:0"`
	Exchange  *string         `gorm:"size:50"`
	Note      *string         `gorm:"size:500"`
	DedupHash string          `gorm:"column:dedup_hash;size:40;not null;uniqueIndex"`
	CreatedAt time.Time
}

func (TransactionModel) TableName() string {
	return "transactions"
}

// transactionRow reads amounts as text so that one malformed value cannot fail the whole scan.
type transactionRow struct {
	DateUTC  time.Time      `gorm:"column:date_utc"`
	Symbol   string         `gorm:"column:symbol"`
	Qty      sql.NullString `gorm:"column:qty"`
	PriceEUR sql.NullString `gorm:"column:price_eur"`
	FeeEUR   sql.NullString `gorm:"column:fee_eur"`
}

func (r *transactionGorm) ListTransactions(ctx context.Context) ([]entity.TransactionRecord, error) {
	var rows []transactionRow
	err := r.db.WithContext(ctx).
		Model(&TransactionModel{}).
		Select("date_utc, symbol, qty, price_eur, fee_eur").
		Order("date_utc, id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	out := make([]entity.TransactionRecord, 0, len(rows))
	for _, m := range rows {
		out = append(out, entity.TransactionRecord{
			DateUTC:  m.DateUTC.UTC(),
			Symbol:   domain.NormalizeSymbol(m.Symbol),
			Qty:      m.Qty.String,
			PriceEUR: m.PriceEUR.String,
			FeeEUR:   m.FeeEUR.String,
		})
	}
	return out, nil
}

func (r *transactionGorm) ListSymbols(ctx context.Context) ([]string, error) {
	var raw []string
	if err := r.db.WithContext(ctx).Model(&TransactionModel{}).Distinct().Pluck("symbol", &raw).Error; err != nil {
		return nil, fmt.Errorf("list symbols: %w", err)
	}
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = domain.NormalizeSymbol(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out, nil
}

// DateRange returns the first and last transaction instants in UTC.
func (r *transactionGorm) DateRange(ctx context.Context) (time.Time, time.Time, error) {
	var first, last TransactionModel
	err := r.db.WithContext(ctx).Select("date_utc").Order("date_utc ASC").Take(&first).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, time.Time{}, domain.ErrNoTransactions
	}
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("first transaction date: %w", err)
	}
	if err := r.db.WithContext(ctx).Select("date_utc").Order("date_utc DESC").Take(&last).Error; err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("last transaction date: %w", err)
	}
	return first.DateUTC.UTC(), last.DateUTC.UTC(), nil
}
