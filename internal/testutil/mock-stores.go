package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"energy-forecast-service/internal/core/domain"
)

// MockBlobStore is a mock of BlobStore.
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Get(ctx context.Context, bucket, blob string) ([]byte, error) {
	args := m.Called(ctx, bucket, blob)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockBlobStore) Put(ctx context.Context, bucket, blob string, data []byte) error {
	args := m.Called(ctx, bucket, blob, data)
	return args.Error(0)
}

// MockTableCodec is a mock of TableCodec.
type MockTableCodec struct {
	mock.Mock
}

func (m *MockTableCodec) Encode(table *domain.Table) ([]byte, error) {
	args := m.Called(table)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockTableCodec) Decode(data []byte) (*domain.Table, error) {
	args := m.Called(data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Table), args.Error(1)
}

// MockArtifactStore is a mock of ArtifactStore.
type MockArtifactStore struct {
	mock.Mock
}

func (m *MockArtifactStore) Write(ctx context.Context, ref domain.ArtifactRef, table *domain.Table) error {
	args := m.Called(ctx, ref, table)
	return args.Error(0)
}

func (m *MockArtifactStore) Read(ctx context.Context, ref domain.ArtifactRef) (*domain.Table, bool, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Table), args.Bool(1), args.Error(2)
}
