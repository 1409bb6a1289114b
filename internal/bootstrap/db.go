package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/oakline-signs/site-backend/config"
	httpapi "github.com/oakline-signs/site-backend/internal/api/http"
	"github.com/oakline-signs/site-backend/internal/contact/repository"
	"github.com/oakline-signs/site-backend/internal/contact/service"
	"github.com/oakline-signs/site-backend/internal/db"
	"github.com/oakline-signs/site-backend/internal/storage/postgres"
	redisstore "github.com/oakline-signs/site-backend/internal/storage/redis"
)

// Backends holds the storage selected by STORE_DRIVER.
type Backends struct {
	Store  service.Store
	Outbox *repository.OutboxRepository // postgres only
	Checks map[string]httpapi.PingFunc

	pool  *db.DB
	sqlDB *sql.DB
	redis *redis.Client
}

// OpenBackends connects to the configured store. With migrate set the
// Postgres schema is brought up to date first.
func OpenBackends(ctx context.Context, cfg *config.Config, migrate bool) (*Backends, error) {
	b := &Backends{Checks: map[string]httpapi.PingFunc{}}

	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		dsn := postgres.DSN(&cfg.Database)

		pool, err := db.Open(ctx, dsn)
		if err != nil {
			return nil, err
		}
		b.pool = pool

		if migrate {
			if err := pool.Migrate(ctx); err != nil {
				b.Close()
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}

		sqlDB, err := postgres.NewConnection(ctx, &cfg.Database)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.sqlDB = sqlDB

		b.Store = repository.NewSubmissionRepository(sqlDB)
		b.Outbox = repository.NewOutboxRepository(sqlDB)
		b.Checks["postgres"] = pool.Ping

	case config.StoreDriverRedis:
		client, err := redisstore.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, err
		}
		b.redis = client

		repo := repository.NewRedisSubmissionRepository(client)
		b.Store = repo
		b.Checks["redis"] = repo.Ping

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	return b, nil
}

// FailureRecorder returns the outbox as a recorder, or nil when there is none.
func (b *Backends) FailureRecorder() service.FailureRecorder {
	if b.Outbox == nil {
		return nil
	}
	return b.Outbox
}

// Migrate runs the Postgres schema migration.
func (b *Backends) Migrate(ctx context.Context) error {
	if b.pool == nil {
		return fmt.Errorf("migrations need the postgres store driver")
	}
	return b.pool.Migrate(ctx)
}

func (b *Backends) Close() {
	if b.sqlDB != nil {
		_ = b.sqlDB.Close()
	}
	if b.redis != nil {
		_ = b.redis.Close()
	}
	b.pool.Close()
}
