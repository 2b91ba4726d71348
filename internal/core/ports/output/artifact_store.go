package ports

import (
	"context"

	"energy-forecast-service/internal/core/domain"
)

// BlobStore reads and writes raw objects. Get returns domain.ErrBlobNotFound
// when the object does not exist; every other error is a storage failure.
type BlobStore interface {
	Get(ctx context.Context, bucket, blob string) ([]byte, error)
	Put(ctx context.Context, bucket, blob string, data []byte) error
}

// TableCodec converts tables to and from their stored columnar form.
type TableCodec interface {
	Encode(table *domain.Table) ([]byte, error)
	Decode(data []byte) (*domain.Table, error)
}

// ArtifactStore persists whole tables. Read reports a missing artifact as
// found=false with a nil error.
type ArtifactStore interface {
	Write(ctx context.Context, ref domain.ArtifactRef, table *domain.Table) error
	Read(ctx context.Context, ref domain.ArtifactRef) (table *domain.Table, found bool, err error)
}
