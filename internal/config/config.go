// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Storage StorageConfig
	Server  ServerConfig
	Watcher WatcherConfig
	Search  SearchConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// StorageConfig holds record storage configuration.
type StorageConfig struct {
	// Backend selects the persistence engine: badger or sqlite.
	Backend string
	// DataPath is the base directory for the record store and search index.
	DataPath string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Name         string
	Host         string
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
	// RateLimitRPS is requests per second per client; 0 disables limiting.
	RateLimitRPS   float64
	RateLimitBurst int
}

// WatcherConfig holds inbox watcher configuration.
type WatcherConfig struct {
	// Enabled turns the filesystem inbox watcher on (default: false).
	Enabled bool
	// InboxPath is the directory watched for new audio files.
	InboxPath string
	// SettleDelay is how long a file must stay quiet before ingestion.
	SettleDelay time.Duration
}

// SearchConfig holds transcript search configuration.
type SearchConfig struct {
	// Enabled turns the full-text transcript index on (default: true).
	Enabled bool
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
//
// Flag values come from the Flags struct so tests can load without
// touching the global flag set.
func LoadConfig(flags Flags) (*Config, error) {
	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(flags.envFileOrDefault())

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(flags.Env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(flags.LogLevel, "LOG_LEVEL", "info"),
		},
		Storage: StorageConfig{
			Backend:  getConfigValue(flags.StorageBackend, "STORAGE_BACKEND", "badger"),
			DataPath: getConfigValue(flags.DataPath, "DATA_PATH", ""),
		},
		Server: ServerConfig{
			Name:           getConfigValue(flags.ServerName, "SERVER_NAME", "AudioLab Server"),
			Host:           getConfigValue(flags.Host, "SERVER_HOST", ""),
			Port:           getConfigValue(flags.Port, "SERVER_PORT", "8080"),
			RateLimitRPS:   getFloatConfigValue(flags.RateLimitRPS, "RATE_LIMIT_RPS", 0),
			RateLimitBurst: getIntConfigValue(flags.RateLimitBurst, "RATE_LIMIT_BURST", 20),
		},
		Watcher: WatcherConfig{
			Enabled:   getBoolConfigValue(flags.WatcherEnabled, "WATCHER_ENABLED", false),
			InboxPath: getConfigValue(flags.InboxPath, "INBOX_PATH", ""),
		},
		Search: SearchConfig{
			Enabled: getBoolConfigValue(flags.SearchEnabled, "SEARCH_ENABLED", true),
		},
	}

	// Parse server timeouts.
	var err error
	cfg.Server.ReadTimeout, err = parseDurationValue(flags.ReadTimeout, "SERVER_READ_TIMEOUT", "15s")
	if err != nil {
		return nil, fmt.Errorf("invalid read timeout: %w", err)
	}
	cfg.Server.WriteTimeout, err = parseDurationValue(flags.WriteTimeout, "SERVER_WRITE_TIMEOUT", "15s")
	if err != nil {
		return nil, fmt.Errorf("invalid write timeout: %w", err)
	}
	cfg.Server.IdleTimeout, err = parseDurationValue(flags.IdleTimeout, "SERVER_IDLE_TIMEOUT", "60s")
	if err != nil {
		return nil, fmt.Errorf("invalid idle timeout: %w", err)
	}

	cfg.Watcher.SettleDelay, err = parseDurationValue(flags.SettleDelay, "WATCHER_SETTLE_DELAY", "2s")
	if err != nil {
		return nil, fmt.Errorf("invalid watcher settle delay: %w", err)
	}

	// Expand and validate the data path.
	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	// Expand the inbox path if set.
	if err := cfg.expandInboxPath(); err != nil {
		return nil, fmt.Errorf("invalid inbox path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	validBackends := map[string]bool{
		"badger": true,
		"sqlite": true,
	}
	if !validBackends[c.Storage.Backend] {
		return fmt.Errorf("invalid storage backend: %s (must be badger or sqlite)", c.Storage.Backend)
	}

	if c.Storage.DataPath == "" {
		return errors.New("data path cannot be empty after expansion")
	}

	if c.Watcher.Enabled && c.Watcher.InboxPath == "" {
		return errors.New("inbox path is required when the watcher is enabled")
	}

	if c.Server.RateLimitRPS < 0 {
		return fmt.Errorf("rate limit rps cannot be negative: %g", c.Server.RateLimitRPS)
	}

	return nil
}

// Addr returns the host:port the HTTP server should bind to.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// StorePath returns the directory for the record store.
func (c *Config) StorePath() string {
	return filepath.Join(c.Storage.DataPath, "store")
}

// SearchPath returns the directory for the transcript index.
func (c *Config) SearchPath() string {
	return filepath.Join(c.Storage.DataPath, "search")
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath expands ~ and makes the path absolute.
// Defaults to ~/AudioLab/data when unset.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "AudioLab", "data")

	expanded, err := expandPath(c.Storage.DataPath, defaultPath)
	if err != nil {
		return err
	}
	c.Storage.DataPath = expanded
	return nil
}

// expandInboxPath expands ~ and makes the path absolute.
// Empty stays empty; the watcher is then not started.
func (c *Config) expandInboxPath() error {
	if c.Watcher.InboxPath == "" {
		return nil
	}

	expanded, err := expandPath(c.Watcher.InboxPath, "")
	if err != nil {
		return err
	}
	c.Watcher.InboxPath = expanded
	return nil
}

// parseDurationValue resolves a duration with the usual precedence and
// parses it.
func parseDurationValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	str := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(str)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", str, err)
	}
	return d, nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// getFloatConfigValue returns a float64 from flag, env var, or default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result float64
	if _, err := fmt.Sscanf(strValue, "%g", &result); err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=value.
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present.
		value = strings.Trim(value, `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
