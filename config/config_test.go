package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("PRICESCOUT_SERVER_PORT")
		os.Unsetenv("PRICESCOUT_SERVER_ENVIRONMENT")
		os.Unsetenv("PRICESCOUT_SEARCH_COMMAND")
		os.Unsetenv("PRICESCOUT_SEARCH_TIMEOUT")
		os.Unsetenv("PRICESCOUT_SEARCH_RESULT_LIMIT")
		os.Unsetenv("PRICESCOUT_SEARCH_MAX_CONTENT_LENGTH")
		os.Unsetenv("PRICESCOUT_LLM_BASE_URL")
		os.Unsetenv("PRICESCOUT_LLM_API_KEY")
		os.Unsetenv("PRICESCOUT_LLM_MODEL")
		os.Unsetenv("PRICESCOUT_CACHE_TTL")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Search.Command != "" {
			t.Errorf("Search.Command = %s, want empty (live search disabled)", cfg.Search.Command)
		}
		if cfg.Search.Timeout != 20*time.Second {
			t.Errorf("Search.Timeout = %v, want 20s", cfg.Search.Timeout)
		}
		if cfg.Search.ResultLimit != 5 {
			t.Errorf("Search.ResultLimit = %d, want 5", cfg.Search.ResultLimit)
		}
		if cfg.Search.MaxContentLength != 1500 {
			t.Errorf("Search.MaxContentLength = %d, want 1500", cfg.Search.MaxContentLength)
		}
		if cfg.LLM.BaseURL != "http://localhost:11434/v1" {
			t.Errorf("LLM.BaseURL = %s", cfg.LLM.BaseURL)
		}
		if cfg.LLM.Model != "" {
			t.Errorf("LLM.Model = %s, want empty (semantic extraction disabled)", cfg.LLM.Model)
		}
		if cfg.Cache.TTL != time.Hour {
			t.Errorf("Cache.TTL = %v, want 1h", cfg.Cache.TTL)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("PRICESCOUT_SERVER_PORT", "9090")
		os.Setenv("PRICESCOUT_SEARCH_COMMAND", "npx")
		os.Setenv("PRICESCOUT_SEARCH_TIMEOUT", "10s")
		os.Setenv("PRICESCOUT_SEARCH_RESULT_LIMIT", "3")
		os.Setenv("PRICESCOUT_LLM_MODEL", "qwen2.5:7b")
		os.Setenv("PRICESCOUT_CACHE_TTL", "30m")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Search.Command != "npx" {
			t.Errorf("Search.Command = %s, want npx", cfg.Search.Command)
		}
		if cfg.Search.Timeout != 10*time.Second {
			t.Errorf("Search.Timeout = %v, want 10s", cfg.Search.Timeout)
		}
		if cfg.Search.ResultLimit != 3 {
			t.Errorf("Search.ResultLimit = %d, want 3", cfg.Search.ResultLimit)
		}
		if cfg.LLM.Model != "qwen2.5:7b" {
			t.Errorf("LLM.Model = %s, want qwen2.5:7b", cfg.LLM.Model)
		}
		if cfg.Cache.TTL != 30*time.Minute {
			t.Errorf("Cache.TTL = %v, want 30m", cfg.Cache.TTL)
		}
	})

	t.Run("rejects result limit out of range", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("PRICESCOUT_SEARCH_RESULT_LIMIT", "25")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want validation failure")
		}
	})

	t.Run("rejects sub-second search timeout", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("PRICESCOUT_SEARCH_TIMEOUT", "100ms")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want validation failure")
		}
	})

	t.Run("rejects content length out of range", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("PRICESCOUT_SEARCH_MAX_CONTENT_LENGTH", "100")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want validation failure")
		}
	})

	t.Run("accepts zero content length as unset", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("PRICESCOUT_SEARCH_MAX_CONTENT_LENGTH", "0")
		defer cleanupEnv()

		if _, err := Load(); err != nil {
			t.Errorf("Load() error = %v, want nil", err)
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Search: Search{
				Timeout:          20 * time.Second,
				ResultLimit:      5,
				MaxContentLength: 1500,
			},
		}
	}

	t.Run("valid config passes", func(t *testing.T) {
		if err := validate(valid()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("result limit bounds", func(t *testing.T) {
		for _, limit := range []int{0, -1, 11} {
			cfg := valid()
			cfg.Search.ResultLimit = limit
			if err := validate(cfg); err == nil {
				t.Errorf("validate() with result_limit=%d error = nil, want failure", limit)
			}
		}
	})

	t.Run("content length bounds", func(t *testing.T) {
		for _, length := range []int{499, 3001} {
			cfg := valid()
			cfg.Search.MaxContentLength = length
			if err := validate(cfg); err == nil {
				t.Errorf("validate() with max_content_length=%d error = nil, want failure", length)
			}
		}
	})
}
