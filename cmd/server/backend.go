package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/rotisserie/eris"

	"kmfi/internal/adapters/memory"
	pg "kmfi/internal/adapters/postgres"
	"kmfi/internal/config"
	"kmfi/internal/domain"
	"kmfi/internal/ports"
)

// backend is the set of repositories the services run on.
type backend struct {
	cycles    ports.CycleRepository
	companies ports.CompanyRepository
	snapshots ports.SnapshotRepository
	jobs      ports.JobRepository
	close     func()
}

func openPostgres(ctx context.Context, cfg config.Config) (backend, error) {
	db, err := pg.Connect(ctx, cfg.DatabaseURL, cfg.MaxConns)
	if err != nil {
		return backend{}, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return backend{}, err
	}
	return backend{cycles: db, companies: db, snapshots: db, jobs: db, close: db.Close}, nil
}

// openMemory serves a single unlocked cycle loaded from the seed file. Nothing
// survives a restart.
func openMemory(cfg config.Config, log *slog.Logger) (backend, error) {
	store := memory.NewStore()
	store.PutCycle(domain.Cycle{ID: cfg.SeedCycle, Name: cfg.SeedCycle})
	if cfg.SeedFile != "" {
		f, err := os.Open(cfg.SeedFile)
		if err != nil {
			return backend{}, eris.Wrap(err, "open seed file")
		}
		defer f.Close()
		n, err := store.LoadRecords(cfg.SeedCycle, f)
		if err != nil {
			return backend{}, eris.Wrapf(err, "load seed file %s", cfg.SeedFile)
		}
		log.Info("seeded in-memory store", "cycle", cfg.SeedCycle, "records", n, "file", cfg.SeedFile)
	}
	return backend{cycles: store, companies: store, snapshots: store, jobs: memory.NewJobQueue(), close: func() {}}, nil
}
