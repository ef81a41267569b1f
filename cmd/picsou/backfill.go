package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/Aughra/picsou/internal/app/di"
	"github.com/Aughra/picsou/internal/feature/prices/domain/entity"
	"github.com/Aughra/picsou/internal/shared/calendar"
)

type backfillCmd struct{}

func (*backfillCmd) Name() string     { return "backfill" }
func (*backfillCmd) Synopsis() string { return "fetch the missing daily prices of every ledger asset" }
func (*backfillCmd) Usage() string {
	return `picsou backfill

  For each asset of the ledger, fetches one price per UTC day for the days the
  price store does not cover yet, from the first transaction up to today.
`
}
func (*backfillCmd) SetFlags(*flag.FlagSet) {}

func (c *backfillCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	g, err := openDB()
	if err != nil {
		return fail(os.Stderr, c.Name(), err)
	}
	defer closeDB(g)

	report, err := di.NewBackfillUsecase(g).BackfillAll(ctx)
	if err != nil {
		return fail(os.Stderr, c.Name(), err)
	}
	printBackfill(os.Stdout, report)
	return subcommands.ExitSuccess
}

func printBackfill(w io.Writer, r *entity.BackfillReport) {
	fmt.Fprintf(w, "backfill %s  %s -> %s\n", r.RunID, r.From.Format(calendar.DayFormat), r.To.Format(calendar.DayFormat))
	for _, a := range r.Assets {
		line := fmt.Sprintf("  %-6s %-13s missing=%d written=%d", a.Symbol, a.Status, a.Missing, a.Written)
		if a.Err != nil {
			line += "  " + a.Err.Error()
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "  %d points written, %d assets skipped\n", r.Written(), len(r.Skipped()))
}
