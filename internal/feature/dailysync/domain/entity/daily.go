// Package entity defines the rows, views and reports of the synced daily table.
package entity

import (
	"github.com/google/uuid"
)

// Column maps a storage-safe column name to its display label.
type Column struct {
	Storage string
	Label   string
	Scale   int32 // decimal places kept in storage
}

// Row is one day of the daily table, keyed by storage column name.
type Row struct {
	Date   string // YYYY-MM-DD
	Values map[string]float64
}

// ViewDef describes a read view: the date column followed by Columns, exposed under their labels.
type ViewDef struct {
	Name    string
	Columns []Column
}

// SchemaChange reports what EnsureSchema did to the table.
type SchemaChange struct {
	Created bool
	Added   []string
	Dropped []string
}

// UpsertResult counts the rows written by an upsert.
type UpsertResult struct {
	Inserted int
	Updated  int
}

// SweepResult reports the post-sync null sweep.
type SweepResult struct {
	Rewritten int64    // cells rewritten from NULL to 0
	Failed    []string // columns whose sweep failed
}

// SyncReport summarizes a sync run.
type SyncReport struct {
	RunID  uuid.UUID
	Table  string
	Days   int
	Schema SchemaChange
	Upsert UpsertResult
	Sweep  SweepResult
	Views  []string
}

// ViewRow is one row read back from a view, keyed by display label.
type ViewRow struct {
	Date   string             `json:"date"`
	Values map[string]float64 `json:"values"`
}

// ViewRows is the content of a view in column order.
type ViewRows struct {
	View    string    `json:"view"`
	Columns []string  `json:"columns"`
	Rows    []ViewRow `json:"rows"`
}
