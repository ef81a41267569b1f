package di

import (
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	dailyadapters "github.com/Aughra/picsou/internal/feature/dailysync/adapters"
	dailyusecase "github.com/Aughra/picsou/internal/feature/dailysync/usecase"
	ledgeradapters "github.com/Aughra/picsou/internal/feature/ledger/adapters"
	priceadapters "github.com/Aughra/picsou/internal/feature/prices/adapters"
	priceusecase "github.com/Aughra/picsou/internal/feature/prices/usecase"
	"github.com/Aughra/picsou/internal/feature/reconstruction/domain"
	reconusecase "github.com/Aughra/picsou/internal/feature/reconstruction/usecase"
	"github.com/Aughra/picsou/internal/platform/cache"
	infraredis "github.com/Aughra/picsou/internal/platform/redis"
	"github.com/Aughra/picsou/internal/shared/calendar"
)

// PortfolioAssets returns PORTFOLIO_COINS, or the default asset list when unset.
func PortfolioAssets() []string {
	return domain.ParseAssets(os.Getenv("PORTFOLIO_COINS"))
}

// NewBackfillUsecase wires the backfill controller to the stores and the remote source.
func NewBackfillUsecase(db *gorm.DB) *priceusecase.BackfillUsecase {
	return priceusecase.NewBackfillUsecase(
		ledgeradapters.NewTransactionRepository(db),
		priceadapters.NewPriceRepository(db),
		NewMarket(),
		NewRateLimiter(),
		NewCoinIDs(),
	)
}

// NewSnapshotUsecase wires the current-price snapshot.
func NewSnapshotUsecase(db *gorm.DB) *priceusecase.SnapshotUsecase {
	return priceusecase.NewSnapshotUsecase(
		ledgeradapters.NewTransactionRepository(db),
		priceadapters.NewPriceRepository(db),
		NewMarket(),
		NewCoinIDs(),
	)
}

// NewReconstructUsecase wires the reconstruction engine with its environment policies.
func NewReconstructUsecase(db *gorm.DB) (*reconusecase.ReconstructUsecase, error) {
	cfg, err := reconusecase.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("reconstruction config: %w", err)
	}
	return reconusecase.NewReconstructUsecase(
		ledgeradapters.NewTransactionRepository(db),
		priceadapters.NewPriceRepository(db),
		cfg,
	), nil
}

// NewDailyRepository returns the sync-table repository, wrapped in the redis read cache when rdb is set.
// The cache expires at local midnight of PORTFOLIO_TZ, when the grid gains a day.
func NewDailyRepository(db *gorm.DB, rdb *redis.Client, cfg dailyusecase.Config) dailyusecase.DailyRepository {
	repo := dailyadapters.NewDailyRepository(db, cfg.Table)
	if rdb == nil {
		return repo
	}
	tz := os.Getenv("PORTFOLIO_TZ")
	if tz == "" {
		tz = reconusecase.DefaultTimezone
	}
	return cache.NewCachingDailyRepository(rdb, infraredis.LoadConfig().CacheTTL, repo, cfg.Table, calendar.LoadLocation(tz))
}

// NewSyncUsecase wires reconstruction into the sync layer.
func NewSyncUsecase(db *gorm.DB, rdb *redis.Client) (*dailyusecase.SyncUsecase, error) {
	recon, err := NewReconstructUsecase(db)
	if err != nil {
		return nil, err
	}
	cfg := dailyusecase.LoadConfig()
	return dailyusecase.NewSyncUsecase(recon, NewDailyRepository(db, rdb, cfg), cfg), nil
}

// NewQueryUsecase wires the read API to the (possibly cached) views.
func NewQueryUsecase(db *gorm.DB, rdb *redis.Client) *dailyusecase.QueryUsecase {
	cfg := dailyusecase.LoadConfig()
	return dailyusecase.NewQueryUsecase(NewDailyRepository(db, rdb, cfg), cfg, PortfolioAssets())
}
