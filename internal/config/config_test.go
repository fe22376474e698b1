package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "CORS_ALLOWED_ORIGIN", "HTTP_TIMEOUT", "STORE_DRIVER", "STT_PROVIDER",
		"LLM_PROVIDER", "LMSTUDIO_URL", "LLM_TEMPERATURE", "SUMMARY_MODE", "SENTIMENT_PROVIDER",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	if cfg.Port != "8000" {
		t.Errorf("Expected default port 8000, got %s", cfg.Port)
	}

	if cfg.AllowedOrigin != "http://localhost:3000" {
		t.Errorf("Expected default origin http://localhost:3000, got %s", cfg.AllowedOrigin)
	}

	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("Expected default HTTP timeout 30s, got %s", cfg.HTTPTimeout)
	}

	if cfg.Store.Driver != StoreSQLite {
		t.Errorf("Expected default store driver %s, got %s", StoreSQLite, cfg.Store.Driver)
	}

	if cfg.LLM.BaseURL != "http://host.docker.internal:1234" {
		t.Errorf("Expected default LM Studio URL, got %s", cfg.LLM.BaseURL)
	}

	if cfg.LLM.Temperature != 0.7 {
		t.Errorf("Expected default temperature 0.7, got %f", cfg.LLM.Temperature)
	}

	if cfg.LLM.SummaryMode != SummaryModeJSON {
		t.Errorf("Expected default summary mode %s, got %s", SummaryModeJSON, cfg.LLM.SummaryMode)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("LLM_TEMPERATURE", "0.2")
	t.Setenv("GOOGLE_SPEECH_SAMPLE_RATE", "16000")
	t.Setenv("STORE_DRIVER", StoreMemory)

	cfg := FromEnv()

	if cfg.Port != "9000" {
		t.Errorf("Expected port 9000, got %s", cfg.Port)
	}

	if cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("Expected HTTP timeout 5s, got %s", cfg.HTTPTimeout)
	}

	if cfg.LLM.Temperature != float32(0.2) {
		t.Errorf("Expected temperature 0.2, got %f", cfg.LLM.Temperature)
	}

	if cfg.STT.GoogleSampleRate != 16000 {
		t.Errorf("Expected sample rate 16000, got %d", cfg.STT.GoogleSampleRate)
	}

	if cfg.Store.Driver != StoreMemory {
		t.Errorf("Expected store driver %s, got %s", StoreMemory, cfg.Store.Driver)
	}
}

func TestFromEnvIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT", "soon")
	t.Setenv("LLM_TEMPERATURE", "hot")
	t.Setenv("GOOGLE_SPEECH_SAMPLE_RATE", "-1")

	cfg := FromEnv()

	if cfg.HTTPTimeout != defaultHTTPTimeout {
		t.Errorf("Expected fallback HTTP timeout, got %s", cfg.HTTPTimeout)
	}

	if cfg.LLM.Temperature != defaultTemperature {
		t.Errorf("Expected fallback temperature, got %f", cfg.LLM.Temperature)
	}

	if cfg.STT.GoogleSampleRate != 0 {
		t.Errorf("Expected fallback sample rate 0, got %d", cfg.STT.GoogleSampleRate)
	}
}

func TestValidate(t *testing.T) {
	for _, key := range []string{"STORE_DRIVER", "STT_PROVIDER", "LLM_PROVIDER", "SUMMARY_MODE", "SENTIMENT_PROVIDER", "HTTP_TIMEOUT"} {
		t.Setenv(key, "")
	}
	base := func() Config {
		return FromEnv()
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown store", func(c *Config) { c.Store.Driver = "redis" }},
		{"unknown stt", func(c *Config) { c.STT.Provider = "vosk" }},
		{"static without transcript", func(c *Config) { c.STT.Provider = STTStatic; c.STT.StaticTranscript = "" }},
		{"gemini without key", func(c *Config) { c.LLM.Provider = LLMGemini; c.LLM.GeminiAPIKey = "" }},
		{"unknown summary mode", func(c *Config) { c.LLM.SummaryMode = "xml" }},
		{"unknown sentiment", func(c *Config) { c.Sentiment.Provider = "aws" }},
		{"zero timeout", func(c *Config) { c.HTTPTimeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}
