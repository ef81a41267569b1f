package entity

import (
	"time"

	"github.com/google/uuid"
)

// AssetStatus is the outcome of backfilling one asset.
type AssetStatus string

const (
	StatusFetched     AssetStatus = "fetched"      // missing days were fetched and merged
	StatusComplete    AssetStatus = "complete"     // every day already had a price; no remote call
	StatusUnmapped    AssetStatus = "unmapped"     // no remote id configured for the symbol
	StatusRateLimited AssetStatus = "rate_limited" // remote rejected the call with 429
	StatusFailed      AssetStatus = "failed"       // any other error
)

// AssetResult reports what happened to one asset during a backfill run.
type AssetResult struct {
	Symbol  string
	CoinID  string
	Status  AssetStatus
	Missing int // calendar days without a price before the run
	Written int // points upserted
	Err     error
}

// BackfillReport summarizes a backfill run.
type BackfillReport struct {
	RunID  uuid.UUID
	From   time.Time
	To     time.Time
	Assets []AssetResult
}

// Written returns the number of points upserted across all assets.
func (r *BackfillReport) Written() int {
	n := 0
	for _, a := range r.Assets {
		n += a.Written
	}
	return n
}

// Skipped returns the assets that were not fetched, with their reason.
func (r *BackfillReport) Skipped() []AssetResult {
	var out []AssetResult
	for _, a := range r.Assets {
		if a.Status != StatusFetched {
			out = append(out, a)
		}
	}
	return out
}

// SnapshotReport summarizes a current-price snapshot run.
type SnapshotReport struct {
	RunID    uuid.UUID
	At       time.Time
	Written  int
	Unmapped []string // ledger symbols with no remote id
	Missing  []string // mapped symbols the remote returned no price for
}
