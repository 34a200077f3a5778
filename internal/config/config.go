package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	BaseURL            string
	GoogleClientID     string
	GoogleClientSecret string
	SessionSecret      string
	SigningSecret      string
	DatabaseURL        string
	CredentialsDir     string
	OpenRouterKey      string
	AIModel            string
	AIBaseURL          string
	SiteURL            string
	SiteName           string
	ResendAPIKey       string
	NotifyFrom         string
	SMTPAddr           string
	SMTPUsername       string
	SMTPPassword       string
	BatchSize          int
	MaxEmails          int
	Env                string
}

func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:               GetEnv("PORT", "8080"),
		BaseURL:            GetEnv("BASE_URL", "http://localhost:8080"),
		GoogleClientID:     GetEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: GetEnv("GOOGLE_CLIENT_SECRET", ""),
		SessionSecret:      GetEnv("SESSION_SECRET", "175cd51c-b5e7-4218-81ed-e6832c8b53f1"),
		SigningSecret:      GetEnv("SECRET_KEY", ""),
		DatabaseURL:        GetEnv("DATABASE_URL", ""),
		CredentialsDir:     GetEnv("CREDENTIALS_DIR", "credentials"),
		OpenRouterKey:      GetEnv("OPENROUTER_API_KEY", ""),
		AIModel:            GetEnv("AI_MODEL", "deepseek/deepseek-chat-v3-0324:free"),
		AIBaseURL:          GetEnv("AI_BASE_URL", "https://openrouter.ai/api/v1"),
		SiteURL:            GetEnv("SITE_URL", "http://localhost:8080"),
		SiteName:           GetEnv("SITE_NAME", "mailbot"),
		ResendAPIKey:       GetEnv("RESEND_API_KEY", ""),
		NotifyFrom:         GetEnv("NOTIFY_FROM", "mailbot <notifications@aialexa.org>"),
		SMTPAddr:           GetEnv("SMTP_ADDR", ""),
		SMTPUsername:       GetEnv("SMTP_USERNAME", ""),
		SMTPPassword:       GetEnv("SMTP_PASSWORD", ""),
		BatchSize:          GetEnvInt("BATCH_SIZE", 5),
		MaxEmails:          GetEnvInt("MAX_EMAILS", 10),
		Env:                GetEnv("ENV", "development"),
	}, nil
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func GetEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.GoogleClientID == "" {
		return fmt.Errorf("GOOGLE_CLIENT_ID is required")
	}
	if c.GoogleClientSecret == "" {
		return fmt.Errorf("GOOGLE_CLIENT_SECRET is required")
	}
	if c.SigningSecret == "" {
		return fmt.Errorf("SECRET_KEY is required")
	}
	if c.OpenRouterKey == "" {
		return fmt.Errorf("OPENROUTER_API_KEY is required")
	}
	if c.ResendAPIKey == "" && c.SMTPAddr == "" {
		return fmt.Errorf("RESEND_API_KEY or SMTP_ADDR is required")
	}
	return nil
}
