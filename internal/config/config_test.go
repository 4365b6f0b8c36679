package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Environment: "development",
		},
		Logger: LoggerConfig{
			Level: "info",
		},
		Storage: StorageConfig{
			Backend:  "badger",
			DataPath: "/some/path",
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	err := validConfig().Validate()
	assert.NoError(t, err)
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"DEBUG", true},  // case insensitive
		{"trace", false}, // not supported
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_StorageBackends(t *testing.T) {
	tests := []struct {
		backend string
		valid   bool
	}{
		{"badger", true},
		{"sqlite", true},
		{"postgres", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			cfg := validConfig()
			cfg.Storage.Backend = tt.backend

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_EmptyDataPath(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.DataPath = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "data path cannot be empty")
}

func TestValidate_WatcherRequiresInboxPath(t *testing.T) {
	cfg := validConfig()
	cfg.Watcher.Enabled = true

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "inbox path is required")

	cfg.Watcher.InboxPath = "/inbox"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_NegativeRateLimit(t *testing.T) {
	cfg := validConfig()
	cfg.Server.RateLimitRPS = -1

	err := cfg.Validate()
	assert.Error(t, err)
}

func TestExpandDataPath_EmptyUsesDefault(t *testing.T) {
	cfg := &Config{}

	err := cfg.expandDataPath()
	require.NoError(t, err)

	homeDir, _ := os.UserHomeDir() //nolint:errcheck // Test setup
	expected := filepath.Join(homeDir, "AudioLab", "data")
	assert.Equal(t, expected, cfg.Storage.DataPath)
}

func TestExpandDataPath_TildeExpansion(t *testing.T) {
	cfg := &Config{
		Storage: StorageConfig{
			DataPath: "~/my-data",
		},
	}

	err := cfg.expandDataPath()
	require.NoError(t, err)

	homeDir, _ := os.UserHomeDir() //nolint:errcheck // Test setup
	expected := filepath.Join(homeDir, "my-data")
	assert.Equal(t, expected, cfg.Storage.DataPath)
}

func TestExpandDataPath_RelativePath(t *testing.T) {
	cfg := &Config{
		Storage: StorageConfig{
			DataPath: "relative/path",
		},
	}

	err := cfg.expandDataPath()
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(cfg.Storage.DataPath))
	assert.Contains(t, cfg.Storage.DataPath, "relative/path")
}

func TestExpandInboxPath_EmptyStaysEmpty(t *testing.T) {
	cfg := &Config{}

	err := cfg.expandInboxPath()
	require.NoError(t, err)
	assert.Empty(t, cfg.Watcher.InboxPath)
}

func TestDerivedPaths(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = "9090"

	assert.Equal(t, "127.0.0.1:9090", cfg.Addr())
	assert.Equal(t, "/some/path/store", cfg.StorePath())
	assert.Equal(t, "/some/path/search", cfg.SearchPath())
}

func TestGetConfigValue_Precedence(t *testing.T) {
	// Flag value takes priority.
	result := getConfigValue("flag-value", "ENV_KEY", "default-value")
	assert.Equal(t, "flag-value", result)

	// Env var when flag is empty.
	os.Setenv("TEST_ENV_KEY", "env-value") //nolint:errcheck // Test setup
	defer os.Unsetenv("TEST_ENV_KEY")      //nolint:errcheck // Test cleanup

	result = getConfigValue("", "TEST_ENV_KEY", "default-value")
	assert.Equal(t, "env-value", result)

	// Default when both are empty.
	result = getConfigValue("", "NONEXISTENT_KEY", "default-value")
	assert.Equal(t, "default-value", result)
}

func TestGetFloatConfigValue(t *testing.T) {
	assert.Equal(t, 2.5, getFloatConfigValue("2.5", "UNUSED", 0))
	assert.Equal(t, 10.0, getFloatConfigValue("", "NONEXISTENT", 10.0))
	assert.Equal(t, 10.0, getFloatConfigValue("not-a-number", "UNUSED", 10.0))
}

func TestLoadEnvFile_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")

	content := `# Test env file
ENV=staging
LOG_LEVEL=debug
DATA_PATH=/test/path
# Comment line
QUOTED_VALUE="some value"
SINGLE_QUOTED='another value'
`
	err := os.WriteFile(envFile, []byte(content), 0o644)
	require.NoError(t, err)

	os.Unsetenv("ENV")           //nolint:errcheck // Test cleanup
	os.Unsetenv("LOG_LEVEL")     //nolint:errcheck // Test cleanup
	os.Unsetenv("DATA_PATH")     //nolint:errcheck // Test cleanup
	os.Unsetenv("QUOTED_VALUE")  //nolint:errcheck // Test cleanup
	os.Unsetenv("SINGLE_QUOTED") //nolint:errcheck // Test cleanup
	defer func() {
		os.Unsetenv("ENV")           //nolint:errcheck // Test cleanup
		os.Unsetenv("LOG_LEVEL")     //nolint:errcheck // Test cleanup
		os.Unsetenv("DATA_PATH")     //nolint:errcheck // Test cleanup
		os.Unsetenv("QUOTED_VALUE")  //nolint:errcheck // Test cleanup
		os.Unsetenv("SINGLE_QUOTED") //nolint:errcheck // Test cleanup
	}()

	err = loadEnvFile(envFile)
	require.NoError(t, err)

	assert.Equal(t, "staging", os.Getenv("ENV"))
	assert.Equal(t, "debug", os.Getenv("LOG_LEVEL"))
	assert.Equal(t, "/test/path", os.Getenv("DATA_PATH"))
	assert.Equal(t, "some value", os.Getenv("QUOTED_VALUE"))
	assert.Equal(t, "another value", os.Getenv("SINGLE_QUOTED"))
}

func TestLoadEnvFile_InvalidFormat(t *testing.T) {
	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")

	content := `VALID_KEY=valid_value
INVALID LINE WITHOUT EQUALS
ANOTHER_VALID=value
`
	err := os.WriteFile(envFile, []byte(content), 0o644)
	require.NoError(t, err)

	err = loadEnvFile(envFile)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestLoadEnvFile_NonExistentFile(t *testing.T) {
	err := loadEnvFile("/nonexistent/file/.env")
	assert.Error(t, err)
}

func TestLoadEnvFile_ExistingEnvVarsNotOverwritten(t *testing.T) {
	os.Setenv("TEST_VAR", "original-value") //nolint:errcheck // Test setup
	defer os.Unsetenv("TEST_VAR")           //nolint:errcheck // Test cleanup

	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")

	content := `TEST_VAR=new-value`
	err := os.WriteFile(envFile, []byte(content), 0o644)
	require.NoError(t, err)

	err = loadEnvFile(envFile)
	require.NoError(t, err)

	assert.Equal(t, "original-value", os.Getenv("TEST_VAR"))
}

func TestLoadConfig_Defaults(t *testing.T) {
	// Keep ambient env out of the way.
	for _, key := range []string{"ENV", "LOG_LEVEL", "STORAGE_BACKEND", "DATA_PATH", "SERVER_PORT", "WATCHER_ENABLED", "SEARCH_ENABLED"} {
		os.Unsetenv(key) //nolint:errcheck // Test setup
	}

	cfg, err := LoadConfig(Flags{EnvFile: filepath.Join(t.TempDir(), ".env")})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "badger", cfg.Storage.Backend)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.False(t, cfg.Watcher.Enabled)
	assert.True(t, cfg.Search.Enabled)
	assert.NotEmpty(t, cfg.Storage.DataPath)
}

func TestLoadConfig_FlagsOverride(t *testing.T) {
	cfg, err := LoadConfig(Flags{
		Env:            "production",
		LogLevel:       "warn",
		StorageBackend: "sqlite",
		DataPath:       "/var/lib/audiolab",
		Port:           "9090",
		SettleDelay:    "500ms",
		EnvFile:        filepath.Join(t.TempDir(), ".env"),
	})
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.App.Environment)
	assert.Equal(t, "warn", cfg.Logger.Level)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "/var/lib/audiolab", cfg.Storage.DataPath)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "500ms", cfg.Watcher.SettleDelay.String())
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	_, err := LoadConfig(Flags{
		ReadTimeout: "not-a-duration",
		EnvFile:     filepath.Join(t.TempDir(), ".env"),
	})
	assert.Error(t, err)
}
