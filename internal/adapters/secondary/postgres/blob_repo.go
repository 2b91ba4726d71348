package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"energy-forecast-service/internal/core/domain"
)

// DB is satisfied by *pgxpool.Pool and by pgxmock pools.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// BlobRepository stores artifact blobs in a bytea column, one row per
// (bucket, blob).
type BlobRepository struct {
	db DB
}

func NewBlobRepository(db DB) *BlobRepository {
	return &BlobRepository{db: db}
}

// EnsureSchema creates the blob table when missing.
func (r *BlobRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS artifact_blobs (
			bucket     TEXT        NOT NULL,
			blob       TEXT        NOT NULL,
			data       BYTEA       NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (bucket, blob)
		)
	`
	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("create artifact_blobs: %w", err)
	}
	return nil
}

func (r *BlobRepository) Get(ctx context.Context, bucket, blob string) ([]byte, error) {
	query := `SELECT data FROM artifact_blobs WHERE bucket = $1 AND blob = $2`

	var data []byte
	if err := r.db.QueryRow(ctx, query, bucket, blob).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s/%s: %w", bucket, blob, domain.ErrBlobNotFound)
		}
		return nil, fmt.Errorf("get blob %s/%s: %w", bucket, blob, err)
	}
	return data, nil
}

func (r *BlobRepository) Put(ctx context.Context, bucket, blob string, data []byte) error {
	query := `
		INSERT INTO artifact_blobs (bucket, blob, data, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (bucket, blob) DO UPDATE
		SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
	`
	if _, err := r.db.Exec(ctx, query, bucket, blob, data); err != nil {
		return fmt.Errorf("put blob %s/%s: %w", bucket, blob, err)
	}
	return nil
}
