package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendS3       = "s3"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	Server   ServerConfig
	Project  ProjectConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Logger   LoggerConfig
}

type ServerConfig struct {
	Host     string
	Port     int
	BasePath string
}

type ProjectConfig struct {
	Name    string
	Version string
}

type StorageConfig struct {
	Backend      string
	Bucket       string
	Region       string
	AccessKey    string
	SecretKey    string
	Endpoint     string
	UsePathStyle bool
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type LoggerConfig struct {
	Level  string
	Format string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first without overriding variables already set.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8001)
	v.SetDefault("SERVER_BASE_PATH", "")
	v.SetDefault("PROJECT_NAME", "Energy Consumption API")
	v.SetDefault("VERSION", "0.1.0")
	v.SetDefault("STORAGE_BACKEND", BackendS3)
	v.SetDefault("AWS_BUCKET", "")
	v.SetDefault("AWS_DEFAULT_REGION", "us-east-1")
	v.SetDefault("AWS_ACCESS_KEY_ID", "")
	v.SetDefault("AWS_SECRET_ACCESS_KEY", "")
	v.SetDefault("AWS_ENDPOINT_URL", "")
	v.SetDefault("AWS_S3_FORCE_PATH_STYLE", false)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "energy")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")

	// Env
	v.AutomaticEnv()

	lifetime, err := time.ParseDuration(v.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		lifetime = 30 * time.Minute
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:     v.GetString("SERVER_HOST"),
			Port:     v.GetInt("SERVER_PORT"),
			BasePath: v.GetString("SERVER_BASE_PATH"),
		},
		Project: ProjectConfig{
			Name:    v.GetString("PROJECT_NAME"),
			Version: v.GetString("VERSION"),
		},
		Storage: StorageConfig{
			Backend:      v.GetString("STORAGE_BACKEND"),
			Bucket:       v.GetString("AWS_BUCKET"),
			Region:       v.GetString("AWS_DEFAULT_REGION"),
			AccessKey:    v.GetString("AWS_ACCESS_KEY_ID"),
			SecretKey:    v.GetString("AWS_SECRET_ACCESS_KEY"),
			Endpoint:     v.GetString("AWS_ENDPOINT_URL"),
			UsePathStyle: v.GetBool("AWS_S3_FORCE_PATH_STYLE"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: lifetime,
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("SERVER_PORT must be positive, got %d", c.Server.Port))
	}
	switch c.Storage.Backend {
	case BackendS3, BackendPostgres:
		if c.Storage.Bucket == "" {
			errs = append(errs, fmt.Errorf("AWS_BUCKET is required for the %s backend", c.Storage.Backend))
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend))
	}
	return errors.Join(errs...)
}
