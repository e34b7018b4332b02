package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"interview-prep-be/pkg/apperror"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Llm      LLMConfig
	Prep     PrepConfig
	Cache    CacheConfig
	Events   EventsConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	WsLogFilePath      string
	CorsAllowedOrigins string
}

type DatabaseConfig struct {
	Connection string
	LogLevel   string // silent, error, warn, info
}

type AuthConfig struct {
	JwtSecret string
}

type LLMConfig struct {
	Provider        string // "openai" or "ollama"
	APIKey          string
	BaseURL         string
	ModelPowerful   string
	ModelEfficient  string
	MaxTokens       int
	LegacyMaxTokens bool
	TimeoutSeconds  int
	MaxRetries      int
	RatePerSecond   float64
}

type PrepConfig struct {
	MeaningfulMinChars  int
	CrossQuestionStyle  string // "qa" or "plain"
	MaxProposedTopics   int
	SourceMaxChars      int
	ProposalWithContent bool
}

type CacheConfig struct {
	RedisURL   string
	TTLSeconds int
}

type EventsConfig struct {
	NatsURL     string
	DurableName string
}

type TracingConfig struct {
	Enabled      bool
	Endpoint     string
	ServiceName  string
	SamplerRatio float64
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			WsLogFilePath:      getEnv("WS_LOG_FILE_PATH", "logs/websocket.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			LogLevel:   getEnv("DB_LOG_LEVEL", "warn"),
		},
		Auth: AuthConfig{
			JwtSecret: getEnv("AUTH_JWT_SECRET", ""),
		},
		Llm: LLMConfig{
			Provider:        strings.ToLower(getEnv("LLM_PROVIDER", "openai")),
			APIKey:          getEnv("LLM_API_KEY", ""),
			BaseURL:         getEnv("LLM_BASE_URL", ""),
			ModelPowerful:   getEnv("LLM_MODEL_POWERFUL", "gpt-4o"),
			ModelEfficient:  getEnv("LLM_MODEL_EFFICIENT", "gpt-4o-mini"),
			MaxTokens:       getEnvAsInt("LLM_MAX_TOKENS", 2000),
			LegacyMaxTokens: getEnvAsBool("LLM_LEGACY_MAX_TOKENS", false),
			TimeoutSeconds:  getEnvAsInt("LLM_TIMEOUT_SECONDS", 120),
			MaxRetries:      getEnvAsInt("LLM_MAX_RETRIES", 2),
			RatePerSecond:   getEnvAsFloat("LLM_RATE_PER_SECOND", 0),
		},
		Prep: PrepConfig{
			MeaningfulMinChars:  getEnvAsInt("PREP_MEANINGFUL_MIN_CHARS", 50),
			CrossQuestionStyle:  getEnv("PREP_CROSS_QUESTION_STYLE", "qa"),
			MaxProposedTopics:   getEnvAsInt("PREP_MAX_PROPOSED_TOPICS", 8),
			SourceMaxChars:      getEnvAsInt("PREP_SOURCE_MAX_CHARS", 12000),
			ProposalWithContent: getEnvAsBool("PREP_PROPOSAL_WITH_CONTENT", false),
		},
		Cache: CacheConfig{
			RedisURL:   getEnv("REDIS_URL", "redis://localhost:6379"),
			TTLSeconds: getEnvAsInt("CACHE_TTL_SECONDS", 300),
		},
		Events: EventsConfig{
			NatsURL:     getEnv("NATS_URL", "nats://localhost:4222"),
			DurableName: getEnv("NATS_DURABLE_NAME", "prep-event-relay"),
		},
		Tracing: TracingConfig{
			Enabled:      getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:     getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "interview-prep-be"),
			SamplerRatio: getEnvAsFloat("OTEL_SAMPLER_RATIO", 1.0),
		},
	}
}

// Validate reports the first missing required setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.Connection) == "" {
		return &apperror.ConfigurationError{Key: "DB_CONNECTION_STRING"}
	}
	if c.Llm.Provider != "ollama" && strings.TrimSpace(c.Llm.APIKey) == "" {
		return &apperror.ConfigurationError{Key: "LLM_API_KEY"}
	}
	if strings.TrimSpace(c.Auth.JwtSecret) == "" {
		return &apperror.ConfigurationError{Key: "AUTH_JWT_SECRET"}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
