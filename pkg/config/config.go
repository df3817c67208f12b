package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the Zoom Phone exporter
type Config struct {
	// Zoom API settings
	Zoom ZoomConfig `yaml:"zoom" json:"zoom"`

	// Retry behavior for rate-limited requests
	Retry RetryConfig `yaml:"retry" json:"retry"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ZoomConfig holds Zoom API credentials and endpoint settings
type ZoomConfig struct {
	Server            string        `yaml:"server" json:"server"`
	APIKey            string        `yaml:"api_key" json:"api_key"`
	APISecret         string        `yaml:"api_secret" json:"api_secret"`
	UserPageSize      int           `yaml:"user_page_size" json:"user_page_size"`
	RecordingPageSize int           `yaml:"recording_page_size" json:"recording_page_size"`
	RequestTimeout    time.Duration `yaml:"request_timeout" json:"request_timeout"`
	TokenLifetime     time.Duration `yaml:"token_lifetime" json:"token_lifetime"`
}

// RetryConfig holds rate-limit retry configuration
type RetryConfig struct {
	// RateLimitRetries is the number of retries after the initial attempt
	// when the API answers 429
	RateLimitRetries int `yaml:"rate_limit_retries" json:"rate_limit_retries"`
	// RateLimitPause is the fixed delay between rate-limited attempts
	RateLimitPause time.Duration `yaml:"rate_limit_pause" json:"rate_limit_pause"`
}

// UnmarshalYAML decodes the zoom section, parsing durations from strings
// like "30s" and leaving absent fields at their current values
func (z *ZoomConfig) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Server            *string `yaml:"server"`
		APIKey            *string `yaml:"api_key"`
		APISecret         *string `yaml:"api_secret"`
		UserPageSize      *int    `yaml:"user_page_size"`
		RecordingPageSize *int    `yaml:"recording_page_size"`
		RequestTimeout    *string `yaml:"request_timeout"`
		TokenLifetime     *string `yaml:"token_lifetime"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	if raw.Server != nil {
		z.Server = *raw.Server
	}
	if raw.APIKey != nil {
		z.APIKey = *raw.APIKey
	}
	if raw.APISecret != nil {
		z.APISecret = *raw.APISecret
	}
	if raw.UserPageSize != nil {
		z.UserPageSize = *raw.UserPageSize
	}
	if raw.RecordingPageSize != nil {
		z.RecordingPageSize = *raw.RecordingPageSize
	}
	if raw.RequestTimeout != nil {
		d, err := time.ParseDuration(*raw.RequestTimeout)
		if err != nil {
			return fmt.Errorf("invalid request_timeout: %w", err)
		}
		z.RequestTimeout = d
	}
	if raw.TokenLifetime != nil {
		d, err := time.ParseDuration(*raw.TokenLifetime)
		if err != nil {
			return fmt.Errorf("invalid token_lifetime: %w", err)
		}
		z.TokenLifetime = d
	}
	return nil
}

// MarshalYAML renders durations as strings
func (z ZoomConfig) MarshalYAML() (interface{}, error) {
	return map[string]interface{}{
		"server":              z.Server,
		"api_key":             z.APIKey,
		"api_secret":          z.APISecret,
		"user_page_size":      z.UserPageSize,
		"recording_page_size": z.RecordingPageSize,
		"request_timeout":     z.RequestTimeout.String(),
		"token_lifetime":      z.TokenLifetime.String(),
	}, nil
}

// UnmarshalYAML decodes the retry section, parsing the pause from a
// duration string
func (r *RetryConfig) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		RateLimitRetries *int    `yaml:"rate_limit_retries"`
		RateLimitPause   *string `yaml:"rate_limit_pause"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	if raw.RateLimitRetries != nil {
		r.RateLimitRetries = *raw.RateLimitRetries
	}
	if raw.RateLimitPause != nil {
		d, err := time.ParseDuration(*raw.RateLimitPause)
		if err != nil {
			return fmt.Errorf("invalid rate_limit_pause: %w", err)
		}
		r.RateLimitPause = d
	}
	return nil
}

// MarshalYAML renders the pause as a duration string
func (r RetryConfig) MarshalYAML() (interface{}, error) {
	return map[string]interface{}{
		"rate_limit_retries": r.RateLimitRetries,
		"rate_limit_pause":   r.RateLimitPause.String(),
	}, nil
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	BaseDirectory string `yaml:"base_directory" json:"base_directory"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Zoom: ZoomConfig{
			Server:            "api.zoom.us/v2",
			UserPageSize:      100,
			RecordingPageSize: 300,
			RequestTimeout:    30 * time.Second,
			TokenLifetime:     30 * time.Minute,
		},
		Retry: RetryConfig{
			RateLimitRetries: 5,
			RateLimitPause:   time.Second,
		},
		Output: OutputConfig{
			BaseDirectory: "recordings",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if server := os.Getenv("ZPEXPORT_SERVER"); server != "" {
		c.Zoom.Server = server
	}
	if apiKey := os.Getenv("ZPEXPORT_API_KEY"); apiKey != "" {
		c.Zoom.APIKey = apiKey
	}
	if apiSecret := os.Getenv("ZPEXPORT_API_SECRET"); apiSecret != "" {
		c.Zoom.APISecret = apiSecret
	}

	if outputDir := os.Getenv("ZPEXPORT_OUTPUT_DIR"); outputDir != "" {
		c.Output.BaseDirectory = outputDir
	}

	if pageSize := os.Getenv("ZPEXPORT_RECORDING_PAGE_SIZE"); pageSize != "" {
		var val int
		fmt.Sscanf(pageSize, "%d", &val)
		if val > 0 {
			c.Zoom.RecordingPageSize = val
		}
	}

	if logLevel := os.Getenv("ZPEXPORT_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".zpexport.yaml",
		".zpexport.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "zpexport", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "zpexport", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".zpexport.yaml"),
		filepath.Join(os.Getenv("HOME"), ".zpexport.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Zoom.Server == "" {
		errs = append(errs, errors.New("API server host is required"))
	}

	if c.Zoom.UserPageSize < 1 || c.Zoom.UserPageSize > 100 {
		errs = append(errs, errors.New("user page size must be between 1 and 100"))
	}
	if c.Zoom.RecordingPageSize < 1 || c.Zoom.RecordingPageSize > 300 {
		errs = append(errs, errors.New("recording page size must be between 1 and 300"))
	}
	if c.Zoom.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	if c.Retry.RateLimitRetries < 0 {
		errs = append(errs, errors.New("rate limit retries cannot be negative"))
	}
	if c.Retry.RateLimitPause <= 0 {
		errs = append(errs, errors.New("rate limit pause must be positive"))
	}

	if c.Output.BaseDirectory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if apiKey, ok := flags["api-key"].(string); ok && apiKey != "" {
		c.Zoom.APIKey = apiKey
	}
	if apiSecret, ok := flags["api-secret"].(string); ok && apiSecret != "" {
		c.Zoom.APISecret = apiSecret
	}
	if server, ok := flags["server"].(string); ok && server != "" {
		c.Zoom.Server = server
	}
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.BaseDirectory = outputDir
	}
	if pageSize, ok := flags["page-size"].(int); ok && pageSize > 0 {
		c.Zoom.RecordingPageSize = pageSize
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".zpexport.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
