package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/planoraa/planoraa-api/internal/config"
	"github.com/planoraa/planoraa-api/internal/handler"
	"github.com/planoraa/planoraa-api/internal/repo"
	"github.com/planoraa/planoraa-api/internal/repo/mongostore"
	"github.com/planoraa/planoraa-api/migrations"
)

// store is the set of repos for the configured driver plus its cleanup.
type store struct {
	users      repo.UserRepo
	trips      repo.TripRepo
	activities repo.ActivityRepo
	expenses   repo.ExpenseRepo
	polls      repo.PollRepo
	pinger     handler.Pinger
	close      func()
}

func openStore(ctx context.Context, cfg config.Config) (store, error) {
	if cfg.StoreDriver == config.DriverMongo {
		return openMongo(ctx, cfg)
	}
	return openPostgres(ctx, cfg)
}

func openPostgres(ctx context.Context, cfg config.Config) (store, error) {
	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return store{}, fmt.Errorf("create pool: %w", err)
	}
	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return store{}, fmt.Errorf("ping: %w", err)
	}

	if cfg.MigrateOnStart {
		if err := migrate(ctx, pool); err != nil {
			pool.Close()
			return store{}, err
		}
	}

	return store{
		users:      repo.NewUserRepo(pool),
		trips:      repo.NewTripRepo(pool),
		activities: repo.NewActivityRepo(pool),
		expenses:   repo.NewExpenseRepo(pool),
		polls:      repo.NewPollRepo(pool),
		pinger:     pool,
		close:      pool.Close,
	}, nil
}

// migrate applies pending goose migrations through a database/sql handle
// borrowed from the pool.
func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	for _, res := range results {
		slog.Info("migration applied", "version", res.Source.Version, "duration", res.Duration)
	}
	return nil
}

func openMongo(ctx context.Context, cfg config.Config) (store, error) {
	ms, err := mongostore.Open(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return store{}, err
	}
	if err := mongostore.EnsureIndexes(ctx, ms.Database()); err != nil {
		_ = ms.Close(ctx)
		return store{}, err
	}

	users, trips, activities, expenses, polls := ms.Repos()
	return store{
		users:      users,
		trips:      trips,
		activities: activities,
		expenses:   expenses,
		polls:      polls,
		pinger:     ms,
		close: func() {
			if err := ms.Close(context.Background()); err != nil {
				slog.Warn("mongo disconnect", "error", err)
			}
		},
	}, nil
}
