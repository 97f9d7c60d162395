// Package config loads the environment-provided settings shared by the
// evaluation CLI and the metrics server.
package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Storage backend selectors.
const (
	BackendS3    = "s3"
	BackendMinio = "minio"
)

// Config holds environment-provided settings. The bucket name and the
// consultation selection come from CLI arguments, not from here.
type Config struct {
	StorageBackend string `env:"STORAGE_BACKEND" env-default:"s3"`

	AWSRegion string `env:"AWS_REGION" env-default:"us-east-1"`

	MinioEndpoint        string `env:"MINIO_ENDPOINT"`
	MinioAccessKeyID     string `env:"MINIO_ACCESS_KEY_ID"`
	MinioSecretAccessKey string `env:"MINIO_SECRET_ACCESS_KEY"`
	MinioUseSSL          bool   `env:"MINIO_USE_SSL" env-default:"false"`

	// DatabaseDSN enables the optional relational results store when set.
	DatabaseDSN string `env:"DATABASE_DSN"`

	ServerPort int `env:"SERVER_PORT" env-default:"8080"`
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment variables: %w", err)
	}
	if cfg.StorageBackend != BackendS3 && cfg.StorageBackend != BackendMinio {
		return nil, fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", BackendS3, BackendMinio, cfg.StorageBackend)
	}
	return &cfg, nil
}
