package services

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"energy-forecast-service/internal/core/domain"
	ports "energy-forecast-service/internal/core/ports/output"
)

// ArtifactGateway stores tables as encoded blobs.
type ArtifactGateway struct {
	blobs ports.BlobStore
	codec ports.TableCodec
}

func NewArtifactGateway(blobs ports.BlobStore, codec ports.TableCodec) *ArtifactGateway {
	return &ArtifactGateway{blobs: blobs, codec: codec}
}

// Write replaces the blob at ref with the encoded table.
func (g *ArtifactGateway) Write(ctx context.Context, ref domain.ArtifactRef, table *domain.Table) error {
	data, err := g.codec.Encode(table)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ref, err)
	}
	if err := g.blobs.Put(ctx, ref.Bucket, ref.Blob, data); err != nil {
		return fmt.Errorf("write %s: %w", ref, err)
	}

	log.WithFields(log.Fields{
		"bucket": ref.Bucket,
		"blob":   ref.Blob,
		"rows":   table.Len(),
		"bytes":  len(data),
	}).Debug("artifact written")
	return nil
}

// Read fetches and decodes the blob at ref. A missing blob yields found=false
// and no error; transport and decode failures are returned as is.
func (g *ArtifactGateway) Read(ctx context.Context, ref domain.ArtifactRef) (*domain.Table, bool, error) {
	data, err := g.blobs.Get(ctx, ref.Bucket, ref.Blob)
	if errors.Is(err, domain.ErrBlobNotFound) {
		log.WithFields(log.Fields{"bucket": ref.Bucket, "blob": ref.Blob}).Debug("artifact absent")
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", ref, err)
	}

	table, err := g.codec.Decode(data)
	if err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", ref, err)
	}

	log.WithFields(log.Fields{
		"bucket": ref.Bucket,
		"blob":   ref.Blob,
		"rows":   table.Len(),
	}).Debug("artifact read")
	return table, true, nil
}
