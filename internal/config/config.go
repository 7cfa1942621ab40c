package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gridedit/internal/domain"

	"github.com/joho/godotenv"
)

// Config is the runtime configuration of the editor backend.
type Config struct {
	Connection domain.DatabaseConnection
	Password   string
	// PasswordKey names a keychain item holding the password when Password is empty.
	PasswordKey string

	DataDir    string
	SchemaFile string

	JournalRetention     time.Duration
	JournalPruneSchedule string
}

// Load reads configuration from the environment. Values in envFiles (or
// ./.env when none are given) are loaded first; variables already set in the
// environment take precedence.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			envFiles = []string{".env"}
		}
	}
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, fmt.Errorf("load env file: %w", err)
		}
		log.Printf("[CONFIG] Loaded %v", envFiles)
	}

	homeDir, _ := os.UserHomeDir()
	retention, err := time.ParseDuration(getEnv("GRIDEDIT_JOURNAL_RETENTION", "720h"))
	if err != nil {
		return nil, fmt.Errorf("GRIDEDIT_JOURNAL_RETENTION: %w", err)
	}

	cfg := &Config{
		Connection: domain.DatabaseConnection{
			Driver:   domain.DatabaseDriver(getEnv("GRIDEDIT_DRIVER", string(domain.DatabaseDriverMongoDB))),
			Host:     getEnv("GRIDEDIT_MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("GRIDEDIT_MONGO_DATABASE", ""),
		},
		Password:             os.Getenv("GRIDEDIT_MONGO_PASSWORD"),
		PasswordKey:          os.Getenv("GRIDEDIT_MONGO_PASSWORD_KEY"),
		DataDir:              getEnv("GRIDEDIT_DATA_DIR", filepath.Join(homeDir, ".local", "share", "gridedit")),
		SchemaFile:           os.Getenv("GRIDEDIT_SCHEMA_FILE"),
		JournalRetention:     retention,
		JournalPruneSchedule: getEnv("GRIDEDIT_JOURNAL_PRUNE_SCHEDULE", "@every 1h"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for obviously unusable values.
func (c *Config) Validate() error {
	if c.Connection.Driver == domain.DatabaseDriverMongoDB && c.Connection.Host == "" {
		return errors.New("GRIDEDIT_MONGO_URI is required")
	}
	if c.DataDir == "" {
		return errors.New("GRIDEDIT_DATA_DIR is required")
	}
	if c.JournalRetention <= 0 {
		return errors.New("GRIDEDIT_JOURNAL_RETENTION must be positive")
	}
	return nil
}

// DBPath is the SQLite file holding field schemas and the edit journal.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "gridedit.db")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
