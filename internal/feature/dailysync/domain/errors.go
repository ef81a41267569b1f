// Package domain holds the column naming and view naming rules of the synced daily table.
package domain

import "errors"

var (
	// ErrNoColumns is returned when a sync is attempted with no value column.
	ErrNoColumns = errors.New("daily table has no value columns")
	// ErrColumnCollision is returned when two display labels normalize to the same storage name.
	ErrColumnCollision = errors.New("display labels collide after normalization")
	// ErrUnknownAsset is returned when a read targets an asset outside the configured set.
	ErrUnknownAsset = errors.New("asset is not part of the portfolio")
	// ErrViewNotFound is returned when a read targets a view no sync has created yet.
	ErrViewNotFound = errors.New("view does not exist")
)
