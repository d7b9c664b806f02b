// Package config loads process configuration from PROVISIONS_* environment
// variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const Prefix = "PROVISIONS"

type Config struct {
	Port       string `envconfig:"PORT" default:"8080"`
	DBPath     string `envconfig:"DB_PATH" default:"provisions.db"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
	StorageKey string `envconfig:"STORAGE_KEY" default:"shopping-manager-v2-data"`

	// SeedItemPool fills empty item pools with the default templates at startup.
	SeedItemPool bool `envconfig:"SEED_ITEM_POOL" default:"true"`

	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3Bucket    string `envconfig:"S3_BUCKET"`
	S3Region    string `envconfig:"S3_REGION" default:"auto"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY"`

	BackupPassphrase    string `envconfig:"BACKUP_PASSPHRASE"`
	BackupHour          int    `envconfig:"BACKUP_HOUR" default:"3"`
	BackupRetentionDays int    `envconfig:"BACKUP_RETENTION_DAYS" default:"30"`
}

// Load reads the environment and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.BackupHour < 0 || c.BackupHour > 23 {
		return fmt.Errorf("BACKUP_HOUR must be between 0 and 23, got %d", c.BackupHour)
	}
	if c.BackupRetentionDays < 1 {
		return fmt.Errorf("BACKUP_RETENTION_DAYS must be at least 1, got %d", c.BackupRetentionDays)
	}
	return nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// S3Configured reports whether enough S3 settings are present to upload backups.
func (c *Config) S3Configured() bool {
	return c.S3Bucket != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// BackupsEnabled reports whether scheduled encrypted backups can run.
func (c *Config) BackupsEnabled() bool {
	return c.S3Configured() && c.BackupPassphrase != ""
}

func (c *Config) BackupRetention() time.Duration {
	return time.Duration(c.BackupRetentionDays) * 24 * time.Hour
}
