package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	InfoEx   InfoExConfig
	Ai       AIConfig
	Data     DataConfig
	Topics   TopicConfig
}

type AppConfig struct {
	Port                  string
	Environment           string
	LogFilePath           string
	CorsAllowedOrigins    string
	NatsURL               string
	RedisURL              string
	ServiceKey            string
	SessionTTLSeconds     int
	MaxConversationLength int
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host           string
	Port           int
	Email          string
	Password       string
	SenderName     string
	AlertRecipient string
}

type InfoExConfig struct {
	Environment   string
	BaseURL       string
	APIKey        string
	OperationUUID string
}

type AIConfig struct {
	LLMProvider     string // "anthropic", "ollama", "huggingface"
	LLMModel        string
	OllamaBaseURL   string
	AnthropicAPIKey string
	HuggingFaceKey  string
	Temperature     float64
}

type DataConfig struct {
	ConstantsPath string
	TemplatesDir  string
}

type TopicConfig struct {
	SubmissionTopic string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	cfg := &Config{
		App: AppConfig{
			Port:                  getEnv("APP_PORT", "8000"),
			Environment:           getEnv("GO_ENV", "development"),
			LogFilePath:           getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins:    getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5678"),
			NatsURL:               getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:              getEnv("REDIS_URL", "redis://localhost:6379"),
			ServiceKey:            getEnv("SERVICE_KEY", ""),
			SessionTTLSeconds:     getEnvAsInt("SESSION_TTL_SECONDS", 3600),
			MaxConversationLength: getEnvAsInt("MAX_CONVERSATION_LENGTH", 50),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:           getEnv("SMTP_HOST", ""),
			Port:           getEnvAsInt("SMTP_PORT", 587),
			Email:          getEnv("SMTP_EMAIL", ""),
			Password:       getEnv("SMTP_PASSWORD", ""),
			SenderName:     getEnv("SMTP_SENDER_NAME", "InfoEx Agent"),
			AlertRecipient: getEnv("ALERT_RECIPIENT_EMAIL", ""),
		},
		InfoEx:   loadInfoEx(),
		Ai: AIConfig{
			LLMProvider:     getEnv("LLM_PROVIDER", "anthropic"),
			LLMModel:        getEnv("LLM_MODEL", "claude-3-opus-20240229"),
			OllamaBaseURL:   getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
			HuggingFaceKey:  getEnv("HUGGINGFACE_API_KEY", ""),
			Temperature:     getEnvAsFloat("LLM_TEMPERATURE", 0.3),
		},
		Data: DataConfig{
			ConstantsPath: getEnv("INFOEX_CONSTANTS_PATH", "data/infoex_constants.json"),
			TemplatesDir:  getEnv("INFOEX_TEMPLATES_DIR", "data/templates"),
		},
		Topics: TopicConfig{
			SubmissionTopic: getEnv("SUBMISSION_TOPIC_NAME", "INFOEX_SUBMISSION"),
		},
	}

	return cfg
}

// loadInfoEx resolves the active InfoEx endpoint from the selected
// environment. Staging and production carry separate API keys.
func loadInfoEx() InfoExConfig {
	env := getEnv("INFOEX_ENVIRONMENT", "staging")

	cfg := InfoExConfig{
		Environment:   env,
		OperationUUID: getEnv("INFOEX_OPERATION_UUID", ""),
	}

	if env == "production" {
		cfg.BaseURL = getEnv("INFOEX_PRODUCTION_URL", "https://can.infoex.ca/safe-server")
		cfg.APIKey = getEnv("INFOEX_PRODUCTION_API_KEY", getEnv("INFOEX_API_KEY", ""))
	} else {
		cfg.BaseURL = getEnv("INFOEX_STAGING_URL", "https://staging-can.infoex.ca/safe-server")
		cfg.APIKey = getEnv("INFOEX_STAGING_API_KEY", getEnv("INFOEX_API_KEY", ""))
	}

	return cfg
}

// Validate checks the settings the service cannot run without.
func (c *Config) Validate() error {
	if c.InfoEx.APIKey == "" {
		return fmt.Errorf("missing InfoEx API key for %s environment", c.InfoEx.Environment)
	}
	if c.InfoEx.OperationUUID == "" {
		return fmt.Errorf("missing InfoEx operation UUID")
	}
	if c.Ai.LLMProvider == "anthropic" && c.Ai.AnthropicAPIKey == "" {
		return fmt.Errorf("LLM_PROVIDER is anthropic but ANTHROPIC_API_KEY is not set")
	}
	return nil
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
