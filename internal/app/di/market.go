// Package di provides dependency injection factories for creating application components.
package di

import (
	"os"
	"time"

	"github.com/Aughra/picsou/internal/feature/prices/domain"
	"github.com/Aughra/picsou/internal/platform/externalapi/coingecko"
	infrahttp "github.com/Aughra/picsou/internal/platform/http"
	"github.com/Aughra/picsou/internal/shared/ratelimiter"
)

const (
	defaultBackfillPause   = 1200 * time.Millisecond
	defaultBackfillBackoff = 10 * time.Second
)

// NewMarket creates a fully configured CoinGeckoMarket with HTTP client.
func NewMarket() *coingecko.CoinGeckoMarket {
	cfg := coingecko.LoadConfig()
	httpClient := infrahttp.NewHTTPClient(infrahttp.ClientConfig{Timeout: cfg.Timeout})
	return coingecko.NewCoinGeckoMarket(cfg, httpClient)
}

// NewRateLimiter paces remote calls using BACKFILL_PAUSE and BACKFILL_BACKOFF.
func NewRateLimiter() *ratelimiter.RateLimiter {
	return ratelimiter.NewRateLimiter(
		durationEnv("BACKFILL_PAUSE", defaultBackfillPause),
		durationEnv("BACKFILL_BACKOFF", defaultBackfillBackoff),
	)
}

// NewCoinIDs reads COINS_MAP, falling back to the default mapping when unset.
func NewCoinIDs() domain.CoinIDs {
	s := os.Getenv("COINS_MAP")
	if s == "" {
		s = domain.DefaultCoinsMap
	}
	return domain.ParseCoinIDs(s)
}

func durationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return def
	}
	return d
}
