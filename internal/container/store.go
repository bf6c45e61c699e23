package container

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-ecommerce/config"
	"github.com/oksasatya/go-ddd-ecommerce/internal/infrastructure/memory"
	mongoinfra "github.com/oksasatya/go-ddd-ecommerce/internal/infrastructure/mongodb"
	pginfra "github.com/oksasatya/go-ddd-ecommerce/internal/infrastructure/postgres"
)

// OpenStore connects the store named by cfg.StoreDriver, installs its
// repositories and returns a func that releases the connection.
func OpenStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (func(), error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, db, err := mongoinfra.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoTimeout)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		if err := mongoinfra.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		SetRepositories(mongoinfra.NewUserRepository(db), mongoinfra.NewProductRepository(db), mongoinfra.NewOrderRepository(db))
		logger.WithField("database", cfg.MongoDatabase).Info("using mongo store")
		return func() { _ = client.Disconnect(context.Background()) }, nil

	case config.StorePostgres:
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{
			MaxConns:    cfg.DBMaxConns,
			MinConns:    cfg.DBMinConns,
			MaxConnLife: cfg.DBMaxConnLife,
		})
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			pool.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
		SetRepositories(pginfra.NewUserRepository(pool), pginfra.NewProductRepository(pool), pginfra.NewOrderRepository(pool))
		logger.WithField("database", cfg.DBName).Info("using postgres store")
		return pool.Close, nil

	case config.StoreMemory:
		s := memory.NewStore()
		SetRepositories(s.Users(), s.Products(), s.Orders())
		logger.Warn("using in-memory store; data is lost on exit")
		return func() {}, nil
	}
	return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}
