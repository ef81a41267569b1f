package domain

import "strings"

// DefaultAssets is the asset set used when PORTFOLIO_COINS is not set.
var DefaultAssets = []string{"btc", "eth", "avax", "dot", "ada", "sol", "xrp"}

// ParseAssets parses a comma-separated asset list, lowercased, keeping the first
// occurrence of duplicates. An empty list yields DefaultAssets.
func ParseAssets(s string) []string {
	seen := map[string]bool{}
	var out []string
	for _, f := range strings.Split(s, ",") {
		a := strings.ToLower(strings.TrimSpace(f))
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	if len(out) == 0 {
		return append([]string(nil), DefaultAssets...)
	}
	return out
}
