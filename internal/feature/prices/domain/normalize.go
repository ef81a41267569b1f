package domain

import (
	"log/slog"
	"strings"

	"github.com/Aughra/picsou/internal/feature/prices/domain/entity"
	"github.com/Aughra/picsou/internal/shared/amount"
)

// NormalizePoints converts stored records into price points. Symbols are lowercased;
// records whose price is missing or malformed are dropped and counted in the log.
func NormalizePoints(recs []entity.PriceRecord) []entity.PricePoint {
	out := make([]entity.PricePoint, 0, len(recs))
	dropped := 0
	for _, r := range recs {
		p, ok := amount.Parse(r.PriceEUR)
		if !ok {
			dropped++
			slog.Debug("dropping price point without usable price",
				"symbol", r.Symbol, "ts", r.TS, "value", r.PriceEUR)
			continue
		}
		out = append(out, entity.PricePoint{
			TS:       r.TS.UTC(),
			Symbol:   strings.ToLower(strings.TrimSpace(r.Symbol)),
			PriceEUR: p,
		})
	}
	if dropped > 0 {
		slog.Warn("dropped price points without usable price", "count", dropped)
	}
	return out
}
