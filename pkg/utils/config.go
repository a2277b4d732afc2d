package utils

import (
	"fmt"
	"maps"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config provides a thread-safe configuration management system
// that handles environment variables with defaults and type conversion
type Config struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewConfig creates a new Config instance with the provided key-value pairs
func NewConfig(values map[string]string) *Config {
	config := &Config{
		values: make(map[string]string),
	}

	maps.Copy(config.values, values)

	return config
}

// NewConfigFromEnv creates a new Config instance by loading environment variables
// from the specified .env files (similar to LoadEnv)
func NewConfigFromEnv(files ...string) *Config {
	envMap := LoadEnv(files...)
	return NewConfig(envMap)
}

// Get retrieves a configuration value by key
// Returns empty string if key doesn't exist
func (c *Config) Get(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values[key]
}

// GetWithDefault retrieves a configuration value by key with a fallback default
func (c *Config) GetWithDefault(key, defaultValue string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if value, exists := c.values[key]; exists && value != "" {
		return value
	}
	return defaultValue
}

// GetDurationWithDefault retrieves a configuration value as a time.Duration
// Unparseable and non-positive values fall back to the default
func (c *Config) GetDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := c.Get(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		return defaultValue
	}
	return parsed
}

// GetBool retrieves a configuration value as a boolean
// Returns false if key doesn't exist or cannot be parsed as boolean
func (c *Config) GetBool(key string) bool {
	value := c.Get(key)
	if value == "" {
		return false
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		switch strings.ToLower(value) {
		case "yes", "on", "enabled":
			return true
		default:
			return false
		}
	}
	return parsed
}

// fileConfig is the layout of the optional YAML settings file
type fileConfig struct {
	Server struct {
		Port        string   `yaml:"port"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`
	Sheet struct {
		ID            string `yaml:"id"`
		Name          string `yaml:"name"`
		Backend       string `yaml:"backend"`
		Endpoint      string `yaml:"endpoint"`
		Timeout       string `yaml:"timeout"`
		CheckSchedule string `yaml:"check_schedule"`
		VerifyOnStart bool   `yaml:"verify_on_start"`
	} `yaml:"sheet"`
}

// LoadYAML overlays settings from a YAML file onto the config. Keys already
// present with a non-empty value (i.e. set through the environment) win over the file
func (c *Config) LoadYAML(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	overlay := map[string]string{
		"API_PORT":             fc.Server.Port,
		"CORS_ALLOWED_ORIGINS": strings.Join(fc.Server.CORSOrigins, ","),
		"SHEET_ID":             fc.Sheet.ID,
		"SHEET_NAME":           fc.Sheet.Name,
		"SHEETS_BACKEND":       fc.Sheet.Backend,
		"SHEETS_ENDPOINT":      fc.Sheet.Endpoint,
		"SHEETS_TIMEOUT":       fc.Sheet.Timeout,
		"SHEET_CHECK_SCHEDULE": fc.Sheet.CheckSchedule,
	}
	if fc.Sheet.VerifyOnStart {
		overlay["SHEET_VERIFY_ON_START"] = "true"
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, value := range overlay {
		if value == "" || c.values[key] != "" {
			continue
		}
		c.values[key] = value
	}

	return nil
}
