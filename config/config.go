package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server Server
	Search Search
	LLM    LLM
	Cache  Cache
}

// Server holds server-related configuration
type Server struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Search holds web search capability configuration. An empty command
// disables live search: every lookup then answers from the estimate table.
type Search struct {
	Command          string        `mapstructure:"command"`
	Args             []string      `mapstructure:"args"`
	Timeout          time.Duration `mapstructure:"timeout"`
	ResultLimit      int           `mapstructure:"result_limit"`
	MaxContentLength int           `mapstructure:"max_content_length"`
}

// LLM holds generative extraction capability configuration. An empty model
// disables the semantic path; the fast extractor still runs.
type LLM struct {
	BaseURL   string        `mapstructure:"base_url"`
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	Timeout   time.Duration `mapstructure:"timeout"`
	MaxTokens int64         `mapstructure:"max_tokens"`
}

// Cache holds result cache configuration
type Cache struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/pricescout/")

	// Environment variable settings
	v.SetEnvPrefix("PRICESCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Search defaults: command empty means live search disabled
	v.SetDefault("search.command", "")
	v.SetDefault("search.args", []string{})
	v.SetDefault("search.timeout", "20s")
	v.SetDefault("search.result_limit", 5)
	v.SetDefault("search.max_content_length", 1500)

	// LLM defaults: model empty means semantic extraction disabled
	v.SetDefault("llm.base_url", "http://localhost:11434/v1")
	v.SetDefault("llm.api_key", "ollama")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.timeout", "30s")
	v.SetDefault("llm.max_tokens", 1000)

	// Cache defaults
	v.SetDefault("cache.ttl", "1h")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Search.ResultLimit < 1 || config.Search.ResultLimit > 10 {
		return fmt.Errorf("search result_limit must be between 1 and 10, got: %d", config.Search.ResultLimit)
	}

	if config.Search.Timeout < time.Second {
		return fmt.Errorf("search timeout must be at least 1s, got: %s", config.Search.Timeout)
	}

	if config.Search.MaxContentLength != 0 &&
		(config.Search.MaxContentLength < 500 || config.Search.MaxContentLength > 3000) {
		return fmt.Errorf("search max_content_length must be between 500 and 3000, got: %d", config.Search.MaxContentLength)
	}

	return nil
}
