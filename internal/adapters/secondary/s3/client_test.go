package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"energy-forecast-service/internal/core/domain"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

func (m *mockAPI) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func objectInput(bucket, key string) interface{} {
	return mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return aws.ToString(in.Bucket) == bucket && aws.ToString(in.Key) == key
	})
}

func TestBlobStore_Get(t *testing.T) {
	api := new(mockAPI)
	api.On("GetObject", mock.Anything, objectInput("energy", "y.parquet")).
		Return(&s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader("payload"))}, nil)

	data, err := NewBlobStore(api).Get(context.Background(), "energy", "y.parquet")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)
	api.AssertExpectations(t)
}

func TestBlobStore_GetNoSuchKey(t *testing.T) {
	api := new(mockAPI)
	api.On("GetObject", mock.Anything, objectInput("energy", "y.parquet")).
		Return(nil, &types.NoSuchKey{Message: aws.String("The specified key does not exist.")})

	_, err := NewBlobStore(api).Get(context.Background(), "energy", "y.parquet")
	assert.ErrorIs(t, err, domain.ErrBlobNotFound)
}

func TestBlobStore_GetGenericNotFoundCode(t *testing.T) {
	api := new(mockAPI)
	api.On("GetObject", mock.Anything, mock.Anything).
		Return(nil, &smithy.GenericAPIError{Code: "NoSuchKey", Message: "missing"})

	_, err := NewBlobStore(api).Get(context.Background(), "energy", "X.parquet")
	assert.ErrorIs(t, err, domain.ErrBlobNotFound)
}

func TestBlobStore_GetAccessDeniedIsNotAbsence(t *testing.T) {
	api := new(mockAPI)
	api.On("GetObject", mock.Anything, mock.Anything).
		Return(nil, &smithy.GenericAPIError{Code: "AccessDenied", Message: "denied"})

	_, err := NewBlobStore(api).Get(context.Background(), "energy", "y.parquet")
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrBlobNotFound))

	var apiErr smithy.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "AccessDenied", apiErr.ErrorCode())
}

func TestBlobStore_Put(t *testing.T) {
	api := new(mockAPI)
	var captured *s3.PutObjectInput
	api.On("PutObject", mock.Anything, mock.AnythingOfType("*s3.PutObjectInput")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*s3.PutObjectInput)
		}).
		Return(&s3.PutObjectOutput{}, nil)

	err := NewBlobStore(api).Put(context.Background(), "energy", "predictions.parquet", []byte("bytes"))
	require.NoError(t, err)
	api.AssertExpectations(t)

	require.NotNil(t, captured)
	assert.Equal(t, "energy", aws.ToString(captured.Bucket))
	assert.Equal(t, "predictions.parquet", aws.ToString(captured.Key))
	assert.Equal(t, int64(5), aws.ToInt64(captured.ContentLength))
	body, err := io.ReadAll(captured.Body)
	require.NoError(t, err)
	assert.Equal(t, "bytes", string(body))
}

func TestBlobStore_PutFailure(t *testing.T) {
	api := new(mockAPI)
	api.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	err := NewBlobStore(api).Put(context.Background(), "energy", "y.parquet", nil)
	assert.ErrorContains(t, err, "connection reset")
}
