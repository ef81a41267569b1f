// Package coingecko provides a client for the CoinGecko market data API.
package coingecko

import (
	"os"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.coingecko.com/api/v3"

// Config holds configuration for the CoinGecko API client.
type Config struct {
	APIKey     string        // optional demo/pro key sent as a header
	BaseURL    string        // API base URL (e.g., "https://api.coingecko.com/api/v3")
	VsCurrency string        // fiat unit prices are quoted in
	UserAgent  string        // anonymous requests without a UA are rejected more often
	Timeout    time.Duration // HTTP request timeout
}

// LoadConfig loads CoinGecko configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{
		APIKey:     os.Getenv("COINGECKO_API_KEY"),
		BaseURL:    strings.TrimRight(os.Getenv("COINGECKO_BASE_URL"), "/"),
		VsCurrency: strings.ToLower(os.Getenv("VS_CURRENCY")),
		UserAgent:  "picsou/1.0",
		Timeout:    30 * time.Second,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.VsCurrency == "" {
		cfg.VsCurrency = "eur"
	}
	return cfg
}
