package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Supported providers and drivers
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
	StoreMemory   = "memory"

	STTWhisper = "whisper"
	STTGoogle  = "google"
	STTStatic  = "static"

	LLMLMStudio = "lmstudio"
	LLMGemini   = "gemini"

	SummaryModeJSON = "json"
	SummaryModeText = "text"

	SentimentOCI  = "oci"
	SentimentNone = "none"
)

const (
	defaultPort           = "8000"
	defaultAllowedOrigin  = "http://localhost:3000"
	defaultUploadMaxSize  = "50M"
	defaultHTTPTimeout    = 30 * time.Second
	defaultSTTTimeout     = 5 * time.Minute
	defaultDatabaseURL    = "file:tuturan.db"
	defaultMongoURI       = "mongodb://localhost:27017"
	defaultMongoDatabase  = "tuturan"
	defaultWhisperURL     = "https://api.openai.com/v1"
	defaultWhisperModel   = "whisper-1"
	defaultSpeechLanguage = "en-US"
	defaultLMStudioURL    = "http://host.docker.internal:1234"
	defaultLLMModel       = "local-model"
	defaultTemperature    = 0.7
	defaultGeminiModel    = "gemini-2.0-flash"
	defaultOCIProfile     = "DEFAULT"
	defaultOCILanguage    = "en"
)

// Config holds the complete service configuration
type Config struct {
	Port          string
	Environment   string
	LogLevel      string
	AllowedOrigin string
	ScratchDir    string
	UploadMaxSize string
	HTTPTimeout   time.Duration
	STTTimeout    time.Duration

	Store     StoreConfig
	STT       STTConfig
	LLM       LLMConfig
	Sentiment SentimentConfig
}

// StoreConfig selects and configures the transcript store
type StoreConfig struct {
	Driver        string
	DatabaseURL   string
	MongoURI      string
	MongoDatabase string
}

// STTConfig selects and configures the speech-to-text engine
type STTConfig struct {
	Provider         string
	WhisperURL       string
	WhisperAPIKey    string
	WhisperModel     string
	GoogleLanguage   string
	GoogleSampleRate int
	StaticTranscript string
}

// LLMConfig configures the chat-completion endpoint used for summaries and chat
type LLMConfig struct {
	Provider     string
	BaseURL      string
	APIKey       string
	Model        string
	Temperature  float32
	GeminiAPIKey string
	GeminiModel  string
	SummaryMode  string
}

// SentimentConfig configures the cloud sentiment service
type SentimentConfig struct {
	Provider      string
	ConfigFile    string
	Profile       string
	CompartmentID string
	LanguageCode  string
}

// Load reads .env (when present) and the process environment into a Config
func Load() (Config, error) {
	// a missing .env file is not an error
	_ = godotenv.Load()

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv builds a Config from environment variables, applying defaults
func FromEnv() Config {
	return Config{
		Port:          envOr("PORT", defaultPort),
		Environment:   os.Getenv("ENVIRONMENT"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		AllowedOrigin: envOr("CORS_ALLOWED_ORIGIN", defaultAllowedOrigin),
		ScratchDir:    envOr("SCRATCH_DIR", os.TempDir()),
		UploadMaxSize: envOr("UPLOAD_MAX_SIZE", defaultUploadMaxSize),
		HTTPTimeout:   envDuration("HTTP_TIMEOUT", defaultHTTPTimeout),
		STTTimeout:    envDuration("STT_TIMEOUT", defaultSTTTimeout),
		Store: StoreConfig{
			Driver:        envOr("STORE_DRIVER", StoreSQLite),
			DatabaseURL:   envOr("DATABASE_URL", defaultDatabaseURL),
			MongoURI:      envOr("MONGODB_URI", defaultMongoURI),
			MongoDatabase: envOr("MONGODB_DATABASE", defaultMongoDatabase),
		},
		STT: STTConfig{
			Provider:         envOr("STT_PROVIDER", STTWhisper),
			WhisperURL:       envOr("WHISPER_URL", defaultWhisperURL),
			WhisperAPIKey:    os.Getenv("OPENAI_API_KEY"),
			WhisperModel:     envOr("WHISPER_MODEL", defaultWhisperModel),
			GoogleLanguage:   envOr("GOOGLE_SPEECH_LANGUAGE", defaultSpeechLanguage),
			GoogleSampleRate: envInt("GOOGLE_SPEECH_SAMPLE_RATE", 0),
			StaticTranscript: os.Getenv("STATIC_TRANSCRIPT"),
		},
		LLM: LLMConfig{
			Provider:     envOr("LLM_PROVIDER", LLMLMStudio),
			BaseURL:      envOr("LMSTUDIO_URL", defaultLMStudioURL),
			APIKey:       os.Getenv("LMSTUDIO_API_KEY"),
			Model:        envOr("LLM_MODEL", defaultLLMModel),
			Temperature:  envFloat32("LLM_TEMPERATURE", defaultTemperature),
			GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
			GeminiModel:  envOr("GEMINI_MODEL", defaultGeminiModel),
			SummaryMode:  envOr("SUMMARY_MODE", SummaryModeJSON),
		},
		Sentiment: SentimentConfig{
			Provider:      envOr("SENTIMENT_PROVIDER", SentimentOCI),
			ConfigFile:    envOr("OCI_CONFIG_FILE", defaultOCIConfigFile()),
			Profile:       envOr("OCI_PROFILE", defaultOCIProfile),
			CompartmentID: os.Getenv("OCI_COMPARTMENT_ID"),
			LanguageCode:  envOr("OCI_LANGUAGE_CODE", defaultOCILanguage),
		},
	}
}

// Validate checks provider names and the keys each provider requires
func (c Config) Validate() error {
	switch c.Store.Driver {
	case StoreSQLite, StorePostgres, StoreMongo, StoreMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}

	switch c.STT.Provider {
	case STTWhisper, STTGoogle:
	case STTStatic:
		if c.STT.StaticTranscript == "" {
			return fmt.Errorf("STATIC_TRANSCRIPT is required when STT_PROVIDER=%s", STTStatic)
		}
	default:
		return fmt.Errorf("unsupported STT_PROVIDER %q", c.STT.Provider)
	}

	switch c.LLM.Provider {
	case LLMLMStudio:
		if c.LLM.BaseURL == "" {
			return fmt.Errorf("LMSTUDIO_URL is required when LLM_PROVIDER=%s", LLMLMStudio)
		}
	case LLMGemini:
		if c.LLM.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when LLM_PROVIDER=%s", LLMGemini)
		}
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", c.LLM.Provider)
	}

	switch c.LLM.SummaryMode {
	case SummaryModeJSON, SummaryModeText:
	default:
		return fmt.Errorf("unsupported SUMMARY_MODE %q", c.LLM.SummaryMode)
	}

	switch c.Sentiment.Provider {
	case SentimentOCI, SentimentNone:
	default:
		return fmt.Errorf("unsupported SENTIMENT_PROVIDER %q", c.Sentiment.Provider)
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout)
	}
	if c.STTTimeout <= 0 {
		return fmt.Errorf("STT_TIMEOUT must be positive, got %s", c.STTTimeout)
	}

	return nil
}

func defaultOCIConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".oci", "config")
	}
	return filepath.Join(home, ".oci", "config")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func envFloat32(key string, def float32) float32 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil && f >= 0 && f <= 2 {
			return float32(f)
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
