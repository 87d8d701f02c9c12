package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"normatlas/pkg/errors"
)

type Config struct {
	App           AppConfig
	Server        ServerConfig
	Dataset       DatasetConfig
	Postgres      PostgresConfig
	Redis         RedisConfig
	AI            AIConfig
	Agent         AgentConfig
	ErrorTracking ErrorTrackingConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"normatlas"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

type ServerConfig struct {
	Port int `envconfig:"HTTP_PORT" default:"8000"`
}

// DatasetConfig points at the two source tables loaded once at startup.
// Both .xlsx and .csv files are supported, selected by extension.
type DatasetConfig struct {
	NeedPath    string `envconfig:"DATASET_NEED_PATH" default:"data/ihtiyac_data.xlsx"`
	SurplusPath string `envconfig:"DATASET_SURPLUS_PATH" default:"data/norm_fazlasi.xlsx"`
}

type PostgresConfig struct {
	Enabled  bool   `envconfig:"POSTGRES_ENABLED" default:"false"`
	Host     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" default:"normatlas"`
	Password string `envconfig:"POSTGRES_PASSWORD"`
	Database string `envconfig:"POSTGRES_DB" default:"normatlas"`
	SSLMode  string `envconfig:"POSTGRES_SSL_MODE" default:"disable"`
	MaxConns int    `envconfig:"POSTGRES_MAX_CONNS" default:"10"`
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

type RedisConfig struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type AIConfig struct {
	GeminiKey       string        `envconfig:"GEMINI_API_KEY"`
	OpenAIKey       string        `envconfig:"OPENAI_API_KEY"`
	DefaultProvider string        `envconfig:"DEFAULT_AI_PROVIDER" default:"gemini"`
	Model           string        `envconfig:"AI_MODEL" default:"gemini-1.5-flash"`
	Timeout         time.Duration `envconfig:"AI_TIMEOUT" default:"60s"`
}

type AgentConfig struct {
	MaxTurns        int           `envconfig:"AGENT_MAX_TURNS" default:"3"`
	MaxRetries      int           `envconfig:"AGENT_MAX_RETRIES" default:"3"`
	RetryBackoff    time.Duration `envconfig:"AGENT_RETRY_BACKOFF" default:"2s"`
	MinInterval     time.Duration `envconfig:"AGENT_MIN_INTERVAL" default:"1s"`
	UserCooldown    time.Duration `envconfig:"USER_QUERY_COOLDOWN" default:"1s"`
	Temperature     float64       `envconfig:"AGENT_TEMPERATURE" default:"0"`
	HistoryMessages int           `envconfig:"AGENT_HISTORY_MESSAGES" default:"6"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// Load reads configuration from environment variables.
// It first tries to load a .env file (useful for local development).
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}
