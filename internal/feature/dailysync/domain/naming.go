package domain

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/Aughra/picsou/internal/feature/dailysync/domain/entity"
)

// DateColumn is both the storage name and the display label of the key column.
const DateColumn = "date"

// Decimal places kept in storage: cents for amounts, finer for held quantities.
const (
	ValueScale    int32 = 2
	QuantityScale int32 = 10
)

// LegacyColumns are artifact columns left by older exports, dropped when not expected.
var LegacyColumns = []string{"index"}

// Normalize maps a display label to a storage-safe column name: accents folded, lowercase ASCII
// letters and digits, every other run of characters collapsed into a single underscore.
// The result never starts with a digit and is never empty.
func Normalize(label string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), label)
	if err != nil {
		folded = label
	}

	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}

	out := b.String()
	if out == "" {
		return "col"
	}
	if out[0] >= '0' && out[0] <= '9' {
		return "c_" + out
	}
	return out
}

// Labeled returns one column per label with the given scale and no storage name yet.
func Labeled(scale int32, labels ...string) []entity.Column {
	out := make([]entity.Column, len(labels))
	for i, l := range labels {
		out[i] = entity.Column{Label: l, Scale: scale}
	}
	return out
}

// BuildColumns fills the storage name of every column from its label, in order.
func BuildColumns(defs []entity.Column) ([]entity.Column, error) {
	if len(defs) == 0 {
		return nil, ErrNoColumns
	}
	seen := make(map[string]string, len(defs))
	out := make([]entity.Column, 0, len(defs))
	for _, d := range defs {
		l := d.Label
		s := Normalize(l)
		if s == DateColumn {
			return nil, fmt.Errorf("%w: %q is reserved", ErrColumnCollision, l)
		}
		if prev, ok := seen[s]; ok {
			return nil, fmt.Errorf("%w: %q and %q both map to %q", ErrColumnCollision, prev, l, s)
		}
		seen[s] = l
		out = append(out, entity.Column{Storage: s, Label: l, Scale: d.Scale})
	}
	return out, nil
}

// StorageNames returns the storage names of cols.
func StorageNames(cols []entity.Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Storage
	}
	return out
}

// AssetViewName returns the name of the per-asset view derived from the whole-table view.
func AssetViewName(base, symbol string) string {
	return base + "_" + Normalize(symbol)
}

// PositionsViewName returns the name of the held-quantity view derived from the whole-table view.
func PositionsViewName(base string) string {
	return base + "_positions"
}

// TotalsViewName returns the name of the totals view derived from the whole-table view.
func TotalsViewName(base string) string {
	return base + "_totals"
}
