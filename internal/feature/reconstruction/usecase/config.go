package usecase

import (
	"fmt"
	"os"
	"time"

	"github.com/Aughra/picsou/internal/feature/reconstruction/domain"
	"github.com/Aughra/picsou/internal/shared/calendar"
)

// DefaultTimezone is the zone whose calendar days make up the grid.
const DefaultTimezone = "Europe/Paris"

// Config holds the reconstruction policies.
type Config struct {
	Location      *time.Location
	FillPolicy    domain.FillPolicy
	SellFeePolicy domain.SellFeePolicy
}

// DefaultConfig returns the configuration used when no environment is set.
func DefaultConfig() Config {
	return Config{
		Location:      calendar.LoadLocation(DefaultTimezone),
		FillPolicy:    domain.FillForwardBackward,
		SellFeePolicy: domain.SellFeeIgnore,
	}
}

// LoadConfig reads PORTFOLIO_TZ, PRICE_FILL_POLICY and SELL_FEE_POLICY.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	if tz := os.Getenv("PORTFOLIO_TZ"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return Config{}, fmt.Errorf("PORTFOLIO_TZ: %w", err)
		}
		cfg.Location = loc
	}

	fill, err := domain.ParseFillPolicy(os.Getenv("PRICE_FILL_POLICY"))
	if err != nil {
		return Config{}, fmt.Errorf("PRICE_FILL_POLICY: %w", err)
	}
	cfg.FillPolicy = fill

	fee, err := domain.ParseSellFeePolicy(os.Getenv("SELL_FEE_POLICY"))
	if err != nil {
		return Config{}, fmt.Errorf("SELL_FEE_POLICY: %w", err)
	}
	cfg.SellFeePolicy = fee

	return cfg, nil
}
