// Package entity defines the domain models for the ledger feature.
package entity

import "time"

// TransactionRecord is a ledger row as read from the store, before numeric coercion.
// Amount fields hold the stored textual value, or "" when the column is NULL.
type TransactionRecord struct {
	DateUTC  time.Time
	Symbol   string
	Qty      string
	PriceEUR string
	FeeEUR   string
}

// Transaction is a normalized ledger movement.
type Transaction struct {
	DateUTC  time.Time // instant of the movement
	Symbol   string    // lowercased asset symbol (e.g. "btc")
	Qty      float64   // signed quantity: positive buys, negative sells
	PriceEUR float64   // unit price in fiat
	FeeEUR   float64   // fee in fiat
}

// IsBuy reports whether the transaction adds to the holding.
func (t Transaction) IsBuy() bool { return t.Qty > 0 }
