package main

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// Config is the YAML configuration for the companion demo. API keys left
// empty fall back to the matching environment variables, so a config file
// is optional for anyone who exports DEEPGRAM_API_KEY and OPENAI_API_KEY.
type Config struct {
	DeepgramAPIKey string `yaml:"deepgram_api_key"`
	OpenAIAPIKey   string `yaml:"openai_api_key"`
	GroqAPIKey     string `yaml:"groq_api_key"`

	// Provider selects the completion backend: "openai" or "groq".
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	Voice    string `yaml:"voice"`

	Identity IdentityConfig `yaml:"identity"`

	Greeting     string `yaml:"greeting"`
	SystemPrompt string `yaml:"system_prompt"`

	// UtteranceEndSilenceMs is the pause, in milliseconds, that finalizes
	// an utterance. Zero keeps the default.
	UtteranceEndSilenceMs int `yaml:"utterance_end_silence_ms"`
}

type IdentityConfig struct {
	Name       string `yaml:"name"`
	Descriptor string `yaml:"descriptor"`
}

const (
	providerOpenAI = "openai"
	providerGroq   = "groq"
)

// LoadConfig reads a YAML config file. With an empty path it returns a
// default config driven entirely by environment variables.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{Provider: providerOpenAI}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if cfg.Provider == "" {
		cfg.Provider = providerOpenAI
	}
	if cfg.Provider != providerOpenAI && cfg.Provider != providerGroq {
		return nil, fmt.Errorf("unknown provider %q (expected %q or %q)", cfg.Provider, providerOpenAI, providerGroq)
	}
	return cfg, nil
}

// UtteranceEndSilence converts the configured pause to a duration, zero
// when unset.
func (c *Config) UtteranceEndSilence() time.Duration {
	return time.Duration(c.UtteranceEndSilenceMs) * time.Millisecond
}
