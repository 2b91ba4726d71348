package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy-forecast-service/internal/core/domain"
)

func TestBlobStore_PutGet(t *testing.T) {
	s := NewBlobStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "bucket", "y.parquet", []byte("v1")))
	require.NoError(t, s.Put(ctx, "bucket", "y.parquet", []byte("v2")))

	data, err := s.Get(ctx, "bucket", "y.parquet")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), data)
}

func TestBlobStore_Missing(t *testing.T) {
	s := NewBlobStore()
	require.NoError(t, s.Put(context.Background(), "other", "y.parquet", []byte("x")))

	_, err := s.Get(context.Background(), "bucket", "y.parquet")
	assert.ErrorIs(t, err, domain.ErrBlobNotFound)
}

func TestBlobStore_CopiesData(t *testing.T) {
	s := NewBlobStore()
	ctx := context.Background()
	data := []byte("abc")
	require.NoError(t, s.Put(ctx, "b", "k", data))
	data[0] = 'z'

	got, err := s.Get(ctx, "b", "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
}
