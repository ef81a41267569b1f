// Package domain holds the reconstruction policies and asset-set rules.
package domain

import (
	"fmt"
	"strings"
)

// FillPolicy controls how a daily price series is densified onto the calendar grid.
type FillPolicy string

const (
	// FillForwardBackward carries the last known price forward, then the first known price
	// backward over the days preceding the first observation.
	FillForwardBackward FillPolicy = "ffill_bfill"
	// FillForwardOnly leaves days before the first observation unpriced.
	FillForwardOnly FillPolicy = "ffill_only"
)

// SellFeePolicy controls whether fees paid on sells count as capital deployed.
type SellFeePolicy string

const (
	SellFeeIgnore SellFeePolicy = "ignore"
	SellFeeCount  SellFeePolicy = "count"
)

// ParseFillPolicy parses s; an empty string selects FillForwardBackward.
func ParseFillPolicy(s string) (FillPolicy, error) {
	switch p := FillPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return FillForwardBackward, nil
	case FillForwardBackward, FillForwardOnly:
		return p, nil
	default:
		return "", fmt.Errorf("unknown price fill policy %q", s)
	}
}

// ParseSellFeePolicy parses s; an empty string selects SellFeeIgnore.
func ParseSellFeePolicy(s string) (SellFeePolicy, error) {
	switch p := SellFeePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return SellFeeIgnore, nil
	case SellFeeIgnore, SellFeeCount:
		return p, nil
	default:
		return "", fmt.Errorf("unknown sell fee policy %q", s)
	}
}
