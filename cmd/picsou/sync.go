package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/Aughra/picsou/internal/app/di"
	"github.com/Aughra/picsou/internal/feature/dailysync/domain/entity"
	recondomain "github.com/Aughra/picsou/internal/feature/reconstruction/domain"
	"github.com/Aughra/picsou/internal/platform/redis"
)

type syncCmd struct {
	coins string
}

func (*syncCmd) Name() string     { return "sync" }
func (*syncCmd) Synopsis() string { return "rebuild the daily table and write it to the store" }
func (*syncCmd) Usage() string {
	return `picsou sync [-coins btc,eth]

  Reconstructs the daily portfolio table, upserts it by date, zeroes NULL
  cells and recreates the views. Defaults to PORTFOLIO_COINS.
`
}

func (c *syncCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.coins, "coins", "", "comma-separated assets to include (default PORTFOLIO_COINS)")
}

func (c *syncCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	g, err := openDB()
	if err != nil {
		return fail(os.Stderr, c.Name(), err)
	}
	defer closeDB(g)

	// Redis is only needed to invalidate the read cache; sync runs without it.
	rdb, err := redis.NewRedisClient(ctx, redis.LoadConfig())
	if err != nil {
		slog.Warn("redis unavailable, read cache not invalidated")
	}
	if rdb != nil {
		defer rdb.Close()
	}

	uc, err := di.NewSyncUsecase(g, rdb)
	if err != nil {
		return fail(os.Stderr, c.Name(), err)
	}

	assets := di.PortfolioAssets()
	if c.coins != "" {
		assets = recondomain.ParseAssets(c.coins)
	}
	report, err := uc.Sync(ctx, assets)
	if err != nil {
		return fail(os.Stderr, c.Name(), err)
	}
	printSync(os.Stdout, report)
	return subcommands.ExitSuccess
}

func printSync(w io.Writer, r *entity.SyncReport) {
	fmt.Fprintf(w, "sync %s  table=%s days=%d\n", r.RunID, r.Table, r.Days)
	if r.Schema.Created {
		fmt.Fprintln(w, "  table created")
	}
	if len(r.Schema.Added) > 0 {
		fmt.Fprintf(w, "  columns added: %s\n", strings.Join(r.Schema.Added, ", "))
	}
	if len(r.Schema.Dropped) > 0 {
		fmt.Fprintf(w, "  columns dropped: %s\n", strings.Join(r.Schema.Dropped, ", "))
	}
	fmt.Fprintf(w, "  rows inserted=%d updated=%d\n", r.Upsert.Inserted, r.Upsert.Updated)
	fmt.Fprintf(w, "  nulls swept=%d\n", r.Sweep.Rewritten)
	if len(r.Sweep.Failed) > 0 {
		fmt.Fprintf(w, "  sweep failed: %s\n", strings.Join(r.Sweep.Failed, ", "))
	}
	fmt.Fprintf(w, "  views: %s\n", strings.Join(r.Views, ", "))
}
