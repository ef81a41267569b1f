// Package entity defines the reconstructed daily portfolio table.
package entity

import "time"

// AssetSeries holds the daily figures of one asset, aligned on DailyTable.Days.
type AssetSeries struct {
	Symbol    string
	BoughtEUR []float64 // capital deployed that day
	BoughtCum []float64 // running sum of BoughtEUR, never decreases
	QtyCum    []float64 // running sum of signed quantities
	Price     []float64 // resolved price; NaN when no price could be resolved
	Value     []float64 // QtyCum * Price, exactly 0 when QtyCum is 0
	GainLoss  []float64 // Value - BoughtCum
}

// Totals holds the per-day sums across the configured assets.
type Totals struct {
	Bought   []float64
	Value    []float64
	GainLoss []float64
}

// DailyTable is the dense daily reconstruction of the portfolio.
type DailyTable struct {
	Location *time.Location
	Days     []time.Time // contiguous local calendar days, midnight in Location
	Assets   []AssetSeries
	Totals   Totals
}

// Column is one labeled column of the wide table.
type Column struct {
	Label  string
	Symbol string // owning asset, "" for totals
	Values []float64
}

// Len returns the number of days in the table.
func (t *DailyTable) Len() int { return len(t.Days) }

// Asset returns the series of symbol.
func (t *DailyTable) Asset(symbol string) (AssetSeries, bool) {
	for _, a := range t.Assets {
		if a.Symbol == symbol {
			return a, true
		}
	}
	return AssetSeries{}, false
}

// Wide flattens the table into its display columns: the five per-asset columns grouped by
// asset, then the cumulative bought/value block per asset, then the three totals.
func (t *DailyTable) Wide() []Column {
	cols := make([]Column, 0, len(t.Assets)*7+3)
	for _, a := range t.Assets {
		cols = append(cols,
			Column{Label: LabelBought(a.Symbol), Symbol: a.Symbol, Values: a.BoughtEUR},
			Column{Label: LabelValue(a.Symbol), Symbol: a.Symbol, Values: a.Value},
			Column{Label: LabelGainLoss(a.Symbol), Symbol: a.Symbol, Values: a.GainLoss},
			Column{Label: LabelBoughtCum(a.Symbol), Symbol: a.Symbol, Values: a.BoughtCum},
			Column{Label: LabelValueCum(a.Symbol), Symbol: a.Symbol, Values: a.Value},
		)
	}
	for _, a := range t.Assets {
		cols = append(cols,
			Column{Label: LabelBoughtTail(a.Symbol), Symbol: a.Symbol, Values: a.BoughtCum},
			Column{Label: LabelValueTail(a.Symbol), Symbol: a.Symbol, Values: a.Value},
		)
	}
	cols = append(cols,
		Column{Label: LabelTotalBought, Values: t.Totals.Bought},
		Column{Label: LabelTotalValue, Values: t.Totals.Value},
		Column{Label: LabelTotalGainLoss, Values: t.Totals.GainLoss},
	)
	return cols
}

// Positions returns the cumulative held quantity of every asset, in asset order.
func (t *DailyTable) Positions() []Column {
	cols := make([]Column, 0, len(t.Assets))
	for _, a := range t.Assets {
		cols = append(cols, Column{Label: LabelQty(a.Symbol), Symbol: a.Symbol, Values: a.QtyCum})
	}
	return cols
}

// Labels returns the display labels of Wide, in order.
func (t *DailyTable) Labels() []string {
	cols := t.Wide()
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Label
	}
	return out
}
