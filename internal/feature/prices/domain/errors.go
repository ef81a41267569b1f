// Package domain holds errors and mappings shared by the prices feature.
package domain

import "errors"

var (
	// ErrRateLimited is returned by the remote price source when it answers HTTP 429.
	ErrRateLimited = errors.New("remote price source rate limited the request")
	// ErrUnmappedSymbol is returned when a ledger symbol has no remote id.
	ErrUnmappedSymbol = errors.New("symbol has no remote price id")
)
