// Package config loads GraphLink settings from a YAML file, .env
// files, and GRAPHLINK_* environment variables, with working defaults
// when none of those exist.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/graphlink/graphlink-go/internal/ingestion"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration settings
type Config struct {
	// Data directory for the database, exclusion list, and exports
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`

	// Storage configuration
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`

	// Ingestion settings
	Ingest IngestConfig `mapstructure:"ingest" yaml:"ingest"`

	// Exclusion list location
	Exclusion ExclusionConfig `mapstructure:"exclusion" yaml:"exclusion"`
}

type StorageConfig struct {
	Type        string `mapstructure:"type" yaml:"type"` // "sqlite", "postgres"
	Path        string `mapstructure:"path" yaml:"path"` // sqlite file path
	PostgresDSN string `mapstructure:"postgres_dsn" yaml:"postgres_dsn"`
}

type IngestConfig struct {
	InputDir         string `mapstructure:"input_dir" yaml:"input_dir"`
	Workers          int    `mapstructure:"workers" yaml:"workers"` // 0 = one per CPU
	OwnerURLTemplate string `mapstructure:"owner_url_template" yaml:"owner_url_template"`
}

type ExclusionConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

// Default returns default configuration
func Default() *Config {
	dataDir := "output_graphlink"
	return &Config{
		DataDir: dataDir,
		Storage: StorageConfig{
			Type: "sqlite",
			Path: filepath.Join(dataDir, "graphlink.sqlite"),
		},
		Ingest: IngestConfig{
			InputDir:         ".",
			Workers:          0,
			OwnerURLTemplate: ingestion.DefaultOwnerURLTemplate,
		},
		Exclusion: ExclusionConfig{
			File: filepath.Join(dataDir, "blacklist.json"),
		},
	}
}

// DSN returns the connection string for the configured backend.
func (s StorageConfig) DSN() string {
	if s.Type == "postgres" {
		return s.PostgresDSN
	}
	return s.Path
}

// Load loads configuration from file
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	// Set defaults
	cfg := Default()
	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("storage", cfg.Storage)
	v.SetDefault("ingest", cfg.Ingest)
	v.SetDefault("exclusion", cfg.Exclusion)

	// Load from environment variables
	v.SetEnvPrefix("GRAPHLINK")
	v.AutomaticEnv()

	// Try to find config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".graphlink")
		v.AddConfigPath(".")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".graphlink"))
	}

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(cfg)

	// Paths left at their defaults follow a relocated data dir.
	if cfg.Storage.Path == filepath.Join("output_graphlink", "graphlink.sqlite") && cfg.DataDir != "output_graphlink" {
		cfg.Storage.Path = filepath.Join(cfg.DataDir, "graphlink.sqlite")
	}
	if cfg.Exclusion.File == filepath.Join("output_graphlink", "blacklist.json") && cfg.DataDir != "output_graphlink" {
		cfg.Exclusion.File = filepath.Join(cfg.DataDir, "blacklist.json")
	}

	return cfg, nil
}

// loadEnvFiles loads .env files in order of precedence
func loadEnvFiles() {
	envFiles := []string{
		".env.local", // Local overrides (highest precedence)
		".env",       // Main environment file
	}
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			godotenv.Load(file)
		}
	}
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if dsn := os.Getenv("GRAPHLINK_POSTGRES_DSN"); dsn != "" {
		cfg.Storage.PostgresDSN = dsn
	}
	if workers := os.Getenv("GRAPHLINK_WORKERS"); workers != "" {
		if n, err := strconv.Atoi(workers); err == nil {
			cfg.Ingest.Workers = n
		}
	}
}
