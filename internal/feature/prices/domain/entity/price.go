// Package entity defines the domain models for the prices feature.
package entity

import "time"

// PricePoint is one observed unit price of an asset, in fiat.
type PricePoint struct {
	TS       time.Time // observation instant (UTC)
	Symbol   string    // lowercased asset symbol
	PriceEUR float64
}

// PriceRecord is a stored price point before numeric coercion.
// PriceEUR holds the stored textual value, or "" when NULL.
type PriceRecord struct {
	TS       time.Time
	Symbol   string
	PriceEUR string
}
