package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// TMDB
	TMDBAPIKey     string
	TMDBBaseURL    string
	TMDBTimeout    time.Duration // Per request timeout (default: 10s)
	TMDBMaxRetries int           // Retries on network errors and 5xx (default: 3)
	CacheTTL       time.Duration // How long fetched records stay cached (default: 60m)

	// Game
	Location *time.Location // Time zone that decides when a new day starts

	// Server
	ServerPort string

	// Paths
	CatalogFile  string // $CONFIG_DIR/catalog.txt
	DatabaseFile string // $CONFIG_DIR/reeldle.db

	// Observability
	LogLevel       string
	TracingEnabled bool
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Setup viper FIRST to load .env file
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	SetDefaults()

	// NOW read CONFIG_DIR from viper (which has loaded .env file)
	configDir := viper.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "reeldle")
	} else {
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	location, err := time.LoadLocation(viper.GetString("TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	config := &Config{
		// TMDB
		TMDBAPIKey:     viper.GetString("TMDB_API_KEY"),
		TMDBBaseURL:    viper.GetString("TMDB_BASE_URL"),
		TMDBTimeout:    time.Duration(viper.GetInt("TMDB_TIMEOUT_SECONDS")) * time.Second,
		TMDBMaxRetries: viper.GetInt("TMDB_MAX_RETRIES"),
		CacheTTL:       time.Duration(viper.GetInt("CACHE_TTL_MINUTES")) * time.Minute,

		// Game
		Location: location,

		// Server
		ServerPort: viper.GetString("SERVER_PORT"),

		// Paths
		CatalogFile:  pathOrDefault(viper.GetString("CATALOG_FILE"), configDir, "catalog.txt"),
		DatabaseFile: pathOrDefault(viper.GetString("DATABASE_FILE"), configDir, "reeldle.db"),

		// Observability
		LogLevel:       viper.GetString("LOG_LEVEL"),
		TracingEnabled: viper.GetBool("TRACING_ENABLED"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// SetDefaults registers default values for every optional key
func SetDefaults() {
	viper.SetDefault("TMDB_BASE_URL", "https://api.themoviedb.org/3")
	viper.SetDefault("TMDB_TIMEOUT_SECONDS", 10)
	viper.SetDefault("TMDB_MAX_RETRIES", 3)
	viper.SetDefault("CACHE_TTL_MINUTES", 60)
	viper.SetDefault("TIMEZONE", "UTC")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("TRACING_ENABLED", false)
}

// Validate checks required fields and value ranges
func (c *Config) Validate() error {
	if c.TMDBAPIKey == "" {
		return fmt.Errorf("TMDB_API_KEY is required")
	}
	if c.TMDBBaseURL == "" {
		return fmt.Errorf("TMDB_BASE_URL must not be empty")
	}
	if c.TMDBTimeout <= 0 {
		return fmt.Errorf("TMDB_TIMEOUT_SECONDS must be positive")
	}
	if c.TMDBMaxRetries < 0 {
		return fmt.Errorf("TMDB_MAX_RETRIES must not be negative")
	}
	return nil
}

func pathOrDefault(value, configDir, name string) string {
	if value == "" {
		return filepath.Join(configDir, name)
	}
	if filepath.IsAbs(value) {
		return value
	}
	return filepath.Join(configDir, value)
}
