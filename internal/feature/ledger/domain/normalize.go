package domain

import (
	"log/slog"
	"strings"

	"github.com/Aughra/picsou/internal/feature/ledger/domain/entity"
	"github.com/Aughra/picsou/internal/shared/amount"
)

// NormalizeSymbol lowercases and trims an asset symbol.
func NormalizeSymbol(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Normalize converts a stored record into a Transaction. Malformed amounts default to 0
// and are logged; a single bad field never rejects the record.
func Normalize(rec entity.TransactionRecord) entity.Transaction {
	tx := entity.Transaction{
		DateUTC: rec.DateUTC.UTC(),
		Symbol:  NormalizeSymbol(rec.Symbol),
	}
	fields := []struct {
		name string
		raw  string
		dst  *float64
	}{
		{"qty", rec.Qty, &tx.Qty},
		{"price_eur", rec.PriceEUR, &tx.PriceEUR},
		{"fee_eur", rec.FeeEUR, &tx.FeeEUR},
	}
	for _, f := range fields {
		v, ok := amount.Parse(f.raw)
		if !ok && strings.TrimSpace(f.raw) != "" {
			slog.Warn("malformed transaction field, defaulting to 0",
				"symbol", tx.Symbol, "date", tx.DateUTC, "field", f.name, "value", f.raw)
		}
		*f.dst = v
	}
	return tx
}

// NormalizeAll applies Normalize to every record.
func NormalizeAll(recs []entity.TransactionRecord) []entity.Transaction {
	out := make([]entity.Transaction, 0, len(recs))
	for _, r := range recs {
		out = append(out, Normalize(r))
	}
	return out
}
