package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Remote catalog API
	APIBaseURL     string // e.g. https://catalog.example.com
	PageSize       int    // records per page (default: 50)
	RequestsPerSec int    // outbound rate limit (default: 4)

	// Behavior
	DeleteRollback  bool   // reinsert optimistically removed records on failed delete
	AuthRecheckSpec string // cron spec for periodic session re-validation

	// Local view server
	ServerPort string

	// Paths
	DatabaseFile string // $CONFIG_DIR/mediadeck.db

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	viper.SetDefault("PAGE_SIZE", 50)
	viper.SetDefault("REQUESTS_PER_SEC", 4)
	viper.SetDefault("DELETE_ROLLBACK", true)
	viper.SetDefault("AUTH_RECHECK_SPEC", "@every 30m")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "mediadeck")
	} else {
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config := &Config{
		APIBaseURL:     strings.TrimRight(viper.GetString("API_BASE_URL"), "/"),
		PageSize:       viper.GetInt("PAGE_SIZE"),
		RequestsPerSec: viper.GetInt("REQUESTS_PER_SEC"),

		DeleteRollback:  viper.GetBool("DELETE_ROLLBACK"),
		AuthRecheckSpec: viper.GetString("AUTH_RECHECK_SPEC"),

		ServerPort: viper.GetString("SERVER_PORT"),

		DatabaseFile: filepath.Join(configDir, "mediadeck.db"),

		LogLevel: viper.GetString("LOG_LEVEL"),
	}

	if config.APIBaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL is required")
	}
	if config.PageSize < 1 {
		return nil, fmt.Errorf("PAGE_SIZE must be at least 1")
	}

	return config, nil
}
