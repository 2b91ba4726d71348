package blobstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"energy-forecast-service/internal/adapters/secondary/memory"
	"energy-forecast-service/internal/adapters/secondary/postgres"
	"energy-forecast-service/internal/adapters/secondary/s3"
	"energy-forecast-service/internal/config"
	ports "energy-forecast-service/internal/core/ports/output"
)

// Open builds the blob store selected by cfg.Storage.Backend. The returned
// close func releases backend resources and is never nil.
func Open(ctx context.Context, cfg *config.Config) (ports.BlobStore, func(), error) {
	noop := func() {}

	switch cfg.Storage.Backend {
	case config.BackendS3:
		client, err := s3.NewAPIClient(ctx, &cfg.Storage)
		if err != nil {
			return nil, noop, err
		}
		log.WithFields(log.Fields{
			"bucket": cfg.Storage.Bucket,
			"region": cfg.Storage.Region,
		}).Info("s3 blob store initialized")
		return s3.NewBlobStore(client), noop, nil

	case config.BackendPostgres:
		poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
		if err != nil {
			return nil, noop, fmt.Errorf("parse db config: %w", err)
		}
		poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
		poolCfg.MinConns = int32(cfg.Database.MaxIdleConns)
		poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, noop, fmt.Errorf("create db pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, noop, fmt.Errorf("ping db: %w", err)
		}

		repo := postgres.NewBlobRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, noop, err
		}
		log.Info("postgres blob store initialized")
		return repo, pool.Close, nil

	case config.BackendMemory:
		log.Warn("memory blob store in use, artifacts are lost on exit")
		return memory.NewBlobStore(), noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
