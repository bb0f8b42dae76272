// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	API       APIConfig
	Storage   StorageConfig
	DevServer DevServerConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// APIConfig holds the blog backend connection settings.
type APIConfig struct {
	BaseURL           string
	Timeout           time.Duration // per request (default: 30s)
	RequestsPerSecond float64       // outbound throttle; negative disables it (default: 10)
	Burst             int           // default: 20
}

// StorageConfig holds local storage configuration.
type StorageConfig struct {
	// DataPath holds the local database with the session tokens and menu
	// items (default: ~/.vantage).
	DataPath string
}

// DBPath returns the directory of the local Badger database.
func (s StorageConfig) DBPath() string {
	return filepath.Join(s.DataPath, "db")
}

// DevServerConfig holds settings for the development backend.
type DevServerConfig struct {
	Port          string // default: 8090
	AdminEmail    string
	AdminPassword string
	// Session durations
	AccessTokenDuration  time.Duration // e.g., 15m
	RefreshTokenDuration time.Duration // e.g., 720h (30 days)
}

// Flags carries command-line values. Empty strings mean "not set".
type Flags struct {
	Env      string
	LogLevel string
	EnvFile  string

	APIURL     string
	APITimeout string
	APIRPS     string
	APIBurst   string

	DataPath string

	Port                 string
	AdminEmail           string
	AdminPassword        string
	AccessTokenDuration  string
	RefreshTokenDuration string
}

// Default values.
const (
	DefaultBaseURL = "https://rest-test.machineheads.ru"
	DefaultEnvFile = ".env"
)

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig(flags Flags) (*Config, error) {
	envFile := flags.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}

	// Load .env file if it exists (silently ignore if not found).
	if err := loadEnvFile(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	// Build config with proper precedence.
	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(flags.Env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(flags.LogLevel, "LOG_LEVEL", "info"),
		},
		API: APIConfig{
			BaseURL: getConfigValue(flags.APIURL, "VANTAGE_API_URL", DefaultBaseURL),
			Burst:   getIntConfigValue(flags.APIBurst, "VANTAGE_API_BURST", 20),
		},
		Storage: StorageConfig{
			DataPath: getConfigValue(flags.DataPath, "VANTAGE_DATA_PATH", ""),
		},
		DevServer: DevServerConfig{
			Port:          getConfigValue(flags.Port, "DEVSERVER_PORT", "8090"),
			AdminEmail:    getConfigValue(flags.AdminEmail, "DEVSERVER_ADMIN_EMAIL", "admin@example.com"),
			AdminPassword: getConfigValue(flags.AdminPassword, "DEVSERVER_ADMIN_PASSWORD", ""),
		},
	}

	rpsStr := getConfigValue(flags.APIRPS, "VANTAGE_API_RPS", "10")
	rps, err := strconv.ParseFloat(rpsStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid requests per second %q: %w", rpsStr, err)
	}
	cfg.API.RequestsPerSecond = rps

	if cfg.API.Timeout, err = getDurationConfigValue(flags.APITimeout, "VANTAGE_API_TIMEOUT", "30s"); err != nil {
		return nil, fmt.Errorf("invalid api timeout: %w", err)
	}

	// Parse auth durations.
	if cfg.DevServer.AccessTokenDuration, err = getDurationConfigValue(flags.AccessTokenDuration, "ACCESS_TOKEN_DURATION", "15m"); err != nil {
		return nil, fmt.Errorf("invalid access token duration: %w", err)
	}
	if cfg.DevServer.RefreshTokenDuration, err = getDurationConfigValue(flags.RefreshTokenDuration, "REFRESH_TOKEN_DURATION", "720h"); err != nil {
		return nil, fmt.Errorf("invalid refresh token duration: %w", err)
	}

	// Expand and validate data path.
	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	// Validate configuration.
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

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api url: %q (must be an absolute http or https url)", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("invalid api timeout: %s (must be positive)", c.API.Timeout)
	}
	if c.API.Burst <= 0 {
		return fmt.Errorf("invalid api burst: %d (must be positive)", c.API.Burst)
	}

	if c.Storage.DataPath == "" {
		return errors.New("data path cannot be empty after expansion")
	}

	if c.DevServer.AccessTokenDuration <= 0 || c.DevServer.RefreshTokenDuration <= 0 {
		return errors.New("token durations must be positive")
	}

	return nil
}

// ValidateDevServer checks the settings only the development backend needs.
func (c *Config) ValidateDevServer() error {
	if c.DevServer.AdminEmail == "" {
		return errors.New("dev server admin email is required")
	}
	if c.DevServer.AdminPassword == "" {
		return errors.New("dev server admin password is required (DEVSERVER_ADMIN_PASSWORD)")
	}
	if _, err := strconv.Atoi(c.DevServer.Port); err != nil {
		return fmt.Errorf("invalid dev server port: %q", c.DevServer.Port)
	}
	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
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
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, ".vantage")

	expanded, err := expandPath(c.Storage.DataPath, defaultPath)
	if err != nil {
		return err
	}
	c.Storage.DataPath = expanded
	return nil
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

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strValue)
	if err != nil {
		return defaultValue
	}
	return result
}

// getDurationConfigValue parses a duration from flag, env var, or default.
func getDurationConfigValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	strValue := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(strValue)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", strValue, err)
	}
	return d, nil
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
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
