// Command picsou rebuilds the daily valuation of a crypto portfolio from its ledger and price history.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	_ "time/tzdata"

	"github.com/Aughra/picsou/internal/platform/db"
	"github.com/Aughra/picsou/internal/platform/logger"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		slog.Debug(".env not found; using system environment variables")
	}
	logger.Setup()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&backfillCmd{}, "prices")
	commander.Register(&pricesCmd{}, "prices")
	commander.Register(&syncCmd{}, "portfolio")
	commander.Register(&serveCmd{}, "portfolio")
	commander.Register(&tokenCmd{}, "portfolio")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// openDB connects to the configured store.
func openDB() (*gorm.DB, error) {
	return db.OpenDB(db.LoadConfigFromEnv())
}

// fail prints the single blocking message of a command and returns the failure status.
func fail(w io.Writer, cmd string, err error) subcommands.ExitStatus {
	fmt.Fprintf(w, "picsou %s: %v\n", cmd, err)
	return subcommands.ExitFailure
}

func closeDB(g *gorm.DB) {
	if err := db.Close(g); err != nil {
		slog.Error("failed to close database", "error", err)
	}
}
