package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "companion.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfigReadsAllFields(t *testing.T) {
	path := writeConfig(t, `
deepgram_api_key: dg-key
groq_api_key: groq-key
provider: groq
model: llama-3.3-70b-versatile
voice: aura-2-luna-en
identity:
  name: Alex
  descriptor: a retired carpenter
greeting: "Hello again!"
system_prompt: "You are brief."
utterance_end_silence_ms: 1500
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DeepgramAPIKey != "dg-key" {
		t.Fatalf("unexpected deepgram key %q", cfg.DeepgramAPIKey)
	}
	if cfg.Provider != providerGroq {
		t.Fatalf("unexpected provider %q", cfg.Provider)
	}
	if cfg.Identity.Name != "Alex" || cfg.Identity.Descriptor != "a retired carpenter" {
		t.Fatalf("unexpected identity %+v", cfg.Identity)
	}
	if cfg.Greeting != "Hello again!" {
		t.Fatalf("unexpected greeting %q", cfg.Greeting)
	}
	if got := cfg.UtteranceEndSilence(); got != 1500*time.Millisecond {
		t.Fatalf("unexpected utterance end silence %v", got)
	}
}

func TestLoadConfigDefaultsProviderToOpenAI(t *testing.T) {
	path := writeConfig(t, "model: gpt-4o-mini\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider != providerOpenAI {
		t.Fatalf("expected the openai default, got %q", cfg.Provider)
	}
}

func TestLoadConfigEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider != providerOpenAI {
		t.Fatalf("expected the openai default, got %q", cfg.Provider)
	}
	if got := cfg.UtteranceEndSilence(); got != 0 {
		t.Fatalf("expected zero silence when unset, got %v", got)
	}
}

func TestLoadConfigRejectsUnknownProvider(t *testing.T) {
	path := writeConfig(t, "provider: anthropic\n")

	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected an error for an unknown provider")
	}
}

func TestLoadConfigMissingFileFails(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
