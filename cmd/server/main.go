package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/net/netutil"

	httpadapter "kmfi/internal/adapters/http"
	"kmfi/internal/adapters/memory"
	rediscache "kmfi/internal/adapters/redis"
	"kmfi/internal/config"
	"kmfi/internal/ports"
	"kmfi/internal/scoring"
	"kmfi/internal/services/cycles"
	"kmfi/internal/services/scores"
	"kmfi/internal/workers/scorerunner"
)

func main() {
	cfg, err := config.Load()
	if err != nil && !errors.Is(err, config.ErrNoDatabase) {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	if cfg.Production() {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var store backend
	if cfg.DatabaseURL == "" {
		slog.Warn("DATABASE_URL not set, serving from an in-memory store", "seed_file", cfg.SeedFile)
		store, err = openMemory(cfg, slog.Default())
	} else {
		store, err = openPostgres(ctx, cfg)
	}
	if err != nil {
		slog.Error("open store", "error", err)
		os.Exit(1)
	}
	defer store.close()

	var cache ports.ScoreCache = memory.NewScoreCache(cfg.CacheTTL)
	if cfg.RedisURL != "" {
		rc, err := rediscache.NewScoreCache(cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			slog.Error("redis", "error", err)
			os.Exit(1)
		}
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			slog.Warn("redis unreachable, scores will be computed per request", "error", err)
		}
		cache = rc
	}

	totaling, _ := scoring.ParseTotaling(cfg.Totaling)
	cyc := cycles.New(store.cycles)
	svc := scores.New(cyc, store.companies, store.snapshots, cache,
		scores.WithTotaling(totaling),
		scores.WithConcurrency(cfg.BatchConcurrency))

	processor := scorerunner.RecomputeProcessor{Scores: svc, Repo: store.jobs}
	srv := httpadapter.New(svc, cyc, store.jobs, processor, scoring.Regime(cfg.DefaultRegime))
	r := chi.NewRouter()
	r.Mount("/", srv.Routes())

	if cfg.ScoreWorkers > 0 {
		scorerunner.Run(ctx, store.jobs, processor, cfg.ScoreWorkers, 500*time.Millisecond)
		slog.Info("score workers started", "workers", cfg.ScoreWorkers)
	}

	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		slog.Error("listen", "addr", cfg.ListenAddr, "error", err)
		os.Exit(1)
	}
	if cfg.MaxHTTPConns > 0 {
		ln = netutil.LimitListener(ln, cfg.MaxHTTPConns)
	}
	httpSrv := &http.Server{Handler: r, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.Serve(ln) }()
	slog.Info("listening", "addr", cfg.ListenAddr, "env", cfg.Env)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		slog.Info("shutting down", "signal", sig.String())
		cancel()
		shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown", "error", err)
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}
}
