package entity

import "strings"

// Display labels of the wide table.
const (
	LabelDate          = "date"
	LabelTotalBought   = "total bought"
	LabelTotalValue    = "total value"
	LabelTotalGainLoss = "total gain loss"
)

func LabelBought(symbol string) string    { return symbol + " bought" }
func LabelValue(symbol string) string     { return symbol + " value" }
func LabelGainLoss(symbol string) string  { return symbol + " gain loss" }
func LabelBoughtCum(symbol string) string { return symbol + " bought cum" }
func LabelValueCum(symbol string) string  { return symbol + " value cum" }

// LabelBoughtTail and LabelValueTail name the trailing per-asset block, upper-cased.
func LabelBoughtTail(symbol string) string { return "bought " + strings.ToUpper(symbol) }
func LabelValueTail(symbol string) string  { return "value " + strings.ToUpper(symbol) }

// LabelQty names the held quantity of symbol in the positions block.
func LabelQty(symbol string) string { return "qty_" + symbol }

// AssetLabels returns the seven labels owned by symbol, in wide-table order.
func AssetLabels(symbol string) []string {
	return []string{
		LabelBought(symbol),
		LabelValue(symbol),
		LabelGainLoss(symbol),
		LabelBoughtCum(symbol),
		LabelValueCum(symbol),
		LabelBoughtTail(symbol),
		LabelValueTail(symbol),
	}
}

// TotalLabels returns the three totals labels.
func TotalLabels() []string {
	return []string{LabelTotalBought, LabelTotalValue, LabelTotalGainLoss}
}
