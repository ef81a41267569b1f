// Package domain holds ledger-level rules shared by the features reading the ledger.
package domain

import "errors"

// ErrNoTransactions is returned when the ledger is empty; no calendar can be derived from it.
var ErrNoTransactions = errors.New("no transactions in ledger")
