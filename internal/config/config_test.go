package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AWS_BUCKET", "energy-artifacts")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8001, cfg.Server.Port)
	assert.Equal(t, "Energy Consumption API", cfg.Project.Name)
	assert.Equal(t, "0.1.0", cfg.Project.Version)
	assert.Equal(t, BackendS3, cfg.Storage.Backend)
	assert.Equal(t, "energy-artifacts", cfg.Storage.Bucket)
	assert.Equal(t, "us-east-1", cfg.Storage.Region)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "json", cfg.Logger.Format)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("AWS_BUCKET", "b")
	t.Setenv("AWS_DEFAULT_REGION", "eu-central-1")
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIA")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	t.Setenv("AWS_ENDPOINT_URL", "http://localhost:9000")
	t.Setenv("AWS_S3_FORCE_PATH_STYLE", "true")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("PROJECT_NAME", "energy")
	t.Setenv("VERSION", "2.3.4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, ProjectConfig{Name: "energy", Version: "2.3.4"}, cfg.Project)
	assert.Equal(t, StorageConfig{
		Backend:      BackendS3,
		Bucket:       "b",
		Region:       "eu-central-1",
		AccessKey:    "AKIA",
		SecretKey:    "secret",
		Endpoint:     "http://localhost:9000",
		UsePathStyle: true,
	}, cfg.Storage)
}

func TestLoad_MissingBucket(t *testing.T) {
	t.Setenv("AWS_BUCKET", "")
	t.Setenv("STORAGE_BACKEND", BackendS3)

	_, err := Load()
	assert.ErrorContains(t, err, "AWS_BUCKET")
}

func TestLoad_MemoryBackendNeedsNoBucket(t *testing.T) {
	t.Setenv("AWS_BUCKET", "")
	t.Setenv("STORAGE_BACKEND", BackendMemory)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
}

func TestValidate_UnknownBackend(t *testing.T) {
	cfg := &Config{
		Server:  ServerConfig{Port: 80},
		Storage: StorageConfig{Backend: "gcs", Bucket: "b"},
	}
	assert.ErrorContains(t, cfg.Validate(), `unknown STORAGE_BACKEND "gcs"`)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "energy", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/energy?sslmode=disable", d.DSN())
}
