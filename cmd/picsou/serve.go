package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/subcommands"
	redisv9 "github.com/redis/go-redis/v9"

	"github.com/Aughra/picsou/internal/app/di"
	"github.com/Aughra/picsou/internal/app/router"
	dailyhandler "github.com/Aughra/picsou/internal/feature/dailysync/transport/handler"
	healthhandler "github.com/Aughra/picsou/internal/platform/http/handler"
	jwtmw "github.com/Aughra/picsou/internal/platform/jwt"
	"github.com/Aughra/picsou/internal/platform/redis"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the synced daily table over HTTP" }
func (*serveCmd) Usage() string {
	return `picsou serve [-addr :8080]

  Serves /healthz and the token-protected /portfolio routes.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	f.StringVar(&c.addr, "addr", addr, "listen address")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	g, err := openDB()
	if err != nil {
		return fail(os.Stderr, c.Name(), err)
	}
	defer closeDB(g)

	var rdb *redisv9.Client
	if tmp, err := redis.NewRedisClient(ctx, redis.LoadConfig()); err != nil {
		slog.Warn("redis unavailable, running without cache")
	} else if tmp != nil {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close redis client", "error", err)
			}
		}()
	}

	secret, _ := jwtmw.LoadConfig()
	if secret == "" {
		slog.Warn("JWT_SECRET is not set; /portfolio routes will answer 500")
	}

	checks := map[string]healthhandler.Checker{
		"db": func(ctx context.Context) error {
			sqlDB, err := g.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	engine := router.NewRouter(
		dailyhandler.NewDailyHandler(di.NewQueryUsecase(g, rdb)),
		router.Options{JWTSecret: secret, CORSOrigins: splitList(os.Getenv("CORS_ORIGINS")), Checks: checks},
	)

	srv := &http.Server{Addr: c.addr, Handler: engine, ReadHeaderTimeout: 10 * time.Second}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", c.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fail(os.Stderr, c.Name(), err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fail(os.Stderr, c.Name(), err)
		}
	}
	return subcommands.ExitSuccess
}

func splitList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
