package domain

import (
	"sort"
	"strings"
)

// DefaultCoinsMap is used when COINS_MAP is not set.
const DefaultCoinsMap = "btc:bitcoin,eth:ethereum,sol:solana,ada:cardano,avax:avalanche-2,dot:polkadot,xrp:ripple"

// CoinIDs maps a lowercased ledger symbol to its remote price id.
type CoinIDs map[string]string

// ParseCoinIDs parses "sym:id,sym:id". Pairs without a colon or with an empty side are ignored.
func ParseCoinIDs(s string) CoinIDs {
	out := CoinIDs{}
	for _, pair := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		k = strings.ToLower(strings.TrimSpace(k))
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// Lookup returns the remote id of symbol.
func (c CoinIDs) Lookup(symbol string) (string, error) {
	id, ok := c[strings.ToLower(symbol)]
	if !ok {
		return "", ErrUnmappedSymbol
	}
	return id, nil
}

// Split separates symbols into mapped ones and unmapped ones, both sorted.
func (c CoinIDs) Split(symbols []string) (mapped, unmapped []string) {
	for _, s := range symbols {
		if _, ok := c[strings.ToLower(s)]; ok {
			mapped = append(mapped, s)
		} else {
			unmapped = append(unmapped, s)
		}
	}
	sort.Strings(mapped)
	sort.Strings(unmapped)
	return mapped, unmapped
}
