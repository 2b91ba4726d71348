package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy-forecast-service/internal/core/domain"
	ports "energy-forecast-service/internal/core/ports/output"
)

func TestBlobRepository_ImplementsBlobStore(t *testing.T) {
	assert.Implements(t, (*ports.BlobStore)(nil), new(BlobRepository))
}

func TestBlobRepository_EnsureSchema(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS artifact_blobs").
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	require.NoError(t, NewBlobRepository(mock).EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBlobRepository_Get(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"data"}).AddRow([]byte("parquet-bytes"))
	mock.ExpectQuery("SELECT data FROM artifact_blobs").
		WithArgs("energy", "y.parquet").
		WillReturnRows(rows)

	data, err := NewBlobRepository(mock).Get(context.Background(), "energy", "y.parquet")
	require.NoError(t, err)
	assert.Equal(t, []byte("parquet-bytes"), data)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBlobRepository_GetMissing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT data FROM artifact_blobs").
		WithArgs("energy", "y.parquet").
		WillReturnError(pgx.ErrNoRows)

	_, err = NewBlobRepository(mock).Get(context.Background(), "energy", "y.parquet")
	assert.ErrorIs(t, err, domain.ErrBlobNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBlobRepository_GetFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT data FROM artifact_blobs").
		WithArgs("energy", "y.parquet").
		WillReturnError(errors.New("connection refused"))

	_, err = NewBlobRepository(mock).Get(context.Background(), "energy", "y.parquet")
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrBlobNotFound))
}

func TestBlobRepository_Put(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO artifact_blobs").
		WithArgs("energy", "predictions.parquet", []byte("payload")).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = NewBlobRepository(mock).Put(context.Background(), "energy", "predictions.parquet", []byte("payload"))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
