package memory

import (
	"context"
	"fmt"
	"sync"

	"energy-forecast-service/internal/core/domain"
)

// BlobStore keeps blobs in process memory. Used for local runs and tests.
type BlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewBlobStore() *BlobStore {
	return &BlobStore{blobs: make(map[string][]byte)}
}

func (s *BlobStore) Get(ctx context.Context, bucket, blob string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[key(bucket, blob)]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", bucket, blob, domain.ErrBlobNotFound)
	}
	return append([]byte(nil), data...), nil
}

func (s *BlobStore) Put(ctx context.Context, bucket, blob string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key(bucket, blob)] = append([]byte(nil), data...)
	return nil
}

func key(bucket, blob string) string {
	return bucket + "/" + blob
}
