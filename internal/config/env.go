package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// LoadFromEnv loads configuration from environment variables
// Parameters:
// - configDir: Directory containing config files (or empty for default)
// - configFilePath: Path to .env file (or empty for default)
func LoadFromEnv(configDir string, configFilePath string) (*Config, error) {
	cfg := New()

	// If configDir is empty, use the default
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".gistman")

		if err := os.MkdirAll(configDir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	cfg.configDir = configDir

	// Default log path is in the config directory
	defaultLogPath := filepath.Join(configDir, "gistman.log")

	// Use provided config file path or default
	if configFilePath == "" {
		configFilePath = filepath.Join(configDir, ".env")
	}

	// Check if ENV_FILE_PATH is set to load from a custom .env file
	envFilePath := getEnvString("ENV_FILE_PATH", "")
	if envFilePath != "" {
		// User specified a custom env file path
		if err := godotenv.Load(envFilePath); err != nil {
			return nil, fmt.Errorf("failed to load env file from %s: %w", envFilePath, err)
		}
	} else {
		// Try to load from config directory first
		if err := godotenv.Load(configFilePath); err != nil {
			// Then try current directory as fallback
			_ = godotenv.Load() // Ignore errors if file doesn't exist
		}
	}

	// GitHub Configuration. The token itself is resolved separately so the
	// stored-config fallback chain applies (see token.go).
	cfg.GitHub = GitHubConfig{
		APIURL:            getEnvString("GISTMAN_GITHUB_API_URL", "https://api.github.com"),
		RequestTimeout:    getEnvDuration("GISTMAN_GITHUB_REQUEST_TIMEOUT", 30*time.Second),
		MaxRetries:        getEnvInt("GISTMAN_GITHUB_MAX_RETRIES", 3),
		RequestsPerSecond: getEnvFloat("GISTMAN_GITHUB_REQUESTS_PER_SECOND", 5),
		Burst:             getEnvInt("GISTMAN_GITHUB_BURST", 5),
	}

	token, err := ResolveToken(configDir)
	if err != nil {
		return nil, err
	}
	cfg.GitHub.Token = token

	// Gist Configuration
	cfg.Gist = GistConfig{
		MaxFileSize:    getEnvInt64("GISTMAN_GIST_MAX_FILE_SIZE", 1<<20),
		ReservedPrefix: getEnvString("GISTMAN_GIST_RESERVED_PREFIX", "gistfile"),
		ListLimit:      getEnvInt("GISTMAN_GIST_LIST_LIMIT", 30),
	}

	// Logging Configuration
	cfg.Logging = LoggingConfig{
		Level:      getEnvString("GISTMAN_LOG_LEVEL", "info"),
		Format:     getEnvString("GISTMAN_LOG_FORMAT", "text"),
		Output:     getEnvString("GISTMAN_LOG_OUTPUT", defaultLogPath),
		AddSource:  getEnvBool("GISTMAN_LOG_ADD_SOURCE", false),
		TimeFormat: getEnvString("GISTMAN_LOG_TIME_FORMAT", time.RFC3339),
	}

	// Validate the configuration
	return cfg, cfg.Validate()
}
