package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"

	"github.com/Aughra/picsou/internal/app/di"
	"github.com/Aughra/picsou/internal/feature/prices/domain/entity"
)

type pricesCmd struct{}

func (*pricesCmd) Name() string     { return "prices" }
func (*pricesCmd) Synopsis() string { return "record the current price of every ledger asset" }
func (*pricesCmd) Usage() string {
	return `picsou prices

  Fetches the current price of every mapped ledger asset in one call and
  stores it at the current UTC second.
`
}
func (*pricesCmd) SetFlags(*flag.FlagSet) {}

func (c *pricesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	g, err := openDB()
	if err != nil {
		return fail(os.Stderr, c.Name(), err)
	}
	defer closeDB(g)

	report, err := di.NewSnapshotUsecase(g).SnapshotCurrent(ctx)
	if err != nil {
		return fail(os.Stderr, c.Name(), err)
	}
	printSnapshot(os.Stdout, report)
	return subcommands.ExitSuccess
}

func printSnapshot(w io.Writer, r *entity.SnapshotReport) {
	fmt.Fprintf(w, "prices %s  at %s  %d written\n", r.RunID, r.At.Format(time.RFC3339), r.Written)
	if len(r.Unmapped) > 0 {
		fmt.Fprintf(w, "  unmapped: %s\n", strings.Join(r.Unmapped, ", "))
	}
	if len(r.Missing) > 0 {
		fmt.Fprintf(w, "  no price returned: %s\n", strings.Join(r.Missing, ", "))
	}
}
