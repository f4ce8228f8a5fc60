package config

import (
	"encoding/json"
	"errors"
	"os"
	"time"
)

// Config mirrors config.json.
type Config struct {
	LLM            *LLMConfig `json:"llm,omitempty"`
	ServerAddr     string     `json:"server_addr,omitempty"`
	RequestTimeout int        `json:"request_timeout_seconds,omitempty"`
}

// LLMConfig holds the model gateway settings.
type LLMConfig struct {
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
	APIKey   string `json:"api_key,omitempty"`
	// APIKeyEnv names an environment variable to read the key from when
	// api_key itself is not set, so the key can stay out of the file.
	APIKeyEnv string `json:"api_key_env,omitempty"`
	BaseURL   string `json:"base_url,omitempty"`
}

// Load reads and validates a JSON config file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.LLM == nil || cfg.LLM.Provider == "" {
		return Config{}, errors.New("config must include llm.provider")
	}
	if cfg.LLM.APIKey == "" && cfg.LLM.APIKeyEnv != "" {
		cfg.LLM.APIKey = os.Getenv(cfg.LLM.APIKeyEnv)
	}
	return cfg, nil
}

// Timeout returns the configured per-call gateway timeout, or zero when
// unset so the pipeline default applies.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}
