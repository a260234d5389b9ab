package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration
type Config struct {
	TwelveAPIKey   string `env:"TWELVE_API_KEY"`
	Symbol         string `env:"SYMBOL" envDefault:"EUR/USD"`
	Interval       string `env:"INTERVAL" envDefault:"1h"`
	CandleCount    int    `env:"CANDLE_COUNT" envDefault:"200"`
	RequestTimeout int    `env:"REQUEST_TIMEOUT" envDefault:"30"` // seconds
	RequestsPerSec int    `env:"REQUESTS_PER_SEC" envDefault:"5"`

	// InputFile switches the candle source from the API to a CSV file
	InputFile   string `env:"INPUT_FILE"`
	IndexColumn string `env:"INDEX_COLUMN" envDefault:"datetime"`
	OutputFile  string `env:"OUTPUT_FILE"`

	OpenColumn  string `env:"OPEN_COLUMN" envDefault:"Open"`
	HighColumn  string `env:"HIGH_COLUMN" envDefault:"High"`
	LowColumn   string `env:"LOW_COLUMN" envDefault:"Low"`
	CloseColumn string `env:"CLOSE_COLUMN" envDefault:"Close"`

	SetupLength     int  `env:"SETUP_LENGTH" envDefault:"9"`
	CountdownLength int  `env:"COUNTDOWN_LENGTH" envDefault:"13"`
	ApplyPerfection bool `env:"APPLY_PERFECTION" envDefault:"true"`
	TDSTLevels      bool `env:"TDST_LEVELS" envDefault:"true"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DB DBConfig

	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   int64  `env:"TELEGRAM_CHAT_ID"`
}

// DBConfig holds PostgreSQL settings; the signal store is off when Host is empty
type DBConfig struct {
	Host     string `env:"DB_HOST"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
}

// Enabled reports whether a database is configured
func (c DBConfig) Enabled() bool { return c.Host != "" }

// TelegramEnabled reports whether signals should be sent to Telegram
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != 0
}

// Load initializes configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}
	return FromEnv(), nil
}

// FromEnv reads the configuration from the process environment only
func FromEnv() *Config {
	var cfg Config

	cfg.TwelveAPIKey = os.Getenv("TWELVE_API_KEY")
	cfg.Symbol = getEnvWithDefault("SYMBOL", "EUR/USD")
	cfg.Interval = getEnvWithDefault("INTERVAL", "1h")
	cfg.CandleCount = getEnvIntWithDefault("CANDLE_COUNT", 200)
	cfg.RequestTimeout = getEnvIntWithDefault("REQUEST_TIMEOUT", 30)
	cfg.RequestsPerSec = getEnvIntWithDefault("REQUESTS_PER_SEC", 5)

	cfg.InputFile = os.Getenv("INPUT_FILE")
	cfg.IndexColumn = getEnvWithDefault("INDEX_COLUMN", "datetime")
	cfg.OutputFile = os.Getenv("OUTPUT_FILE")

	cfg.OpenColumn = getEnvWithDefault("OPEN_COLUMN", "Open")
	cfg.HighColumn = getEnvWithDefault("HIGH_COLUMN", "High")
	cfg.LowColumn = getEnvWithDefault("LOW_COLUMN", "Low")
	cfg.CloseColumn = getEnvWithDefault("CLOSE_COLUMN", "Close")

	cfg.SetupLength = getEnvIntWithDefault("SETUP_LENGTH", 9)
	cfg.CountdownLength = getEnvIntWithDefault("COUNTDOWN_LENGTH", 13)
	cfg.ApplyPerfection = getEnvBoolWithDefault("APPLY_PERFECTION", true)
	cfg.TDSTLevels = getEnvBoolWithDefault("TDST_LEVELS", true)

	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", "info")

	cfg.DB = DBConfig{
		Host:     os.Getenv("DB_HOST"),
		Port:     getEnvWithDefault("DB_PORT", "5432"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     os.Getenv("DB_NAME"),
		SSLMode:  getEnvWithDefault("DB_SSLMODE", "disable"),
	}

	cfg.TelegramBotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.TelegramChatID = getEnvInt64WithDefault("TELEGRAM_CHAT_ID", 0)

	return &cfg
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64WithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
