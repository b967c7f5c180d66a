package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment `mapstructure:"-"`

	// Server configuration
	ServerPort     string   `mapstructure:"SERVER_PORT" validate:"required,numeric"`
	ServerHost     string   `mapstructure:"SERVER_HOST"`
	AllowedOrigins []string `mapstructure:"ALLOWED_ORIGINS"`
	LogLevel       string   `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`

	// Database configuration
	DBDriver   string `mapstructure:"DB_DRIVER" validate:"oneof=postgres sqlite"`
	DBHost     string `mapstructure:"DB_HOST" validate:"required_if=DBDriver postgres"`
	DBPort     string `mapstructure:"DB_PORT" validate:"required_if=DBDriver postgres"`
	DBUser     string `mapstructure:"DB_USER" validate:"required_if=DBDriver postgres"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME" validate:"required_if=DBDriver postgres"`
	DBSSLMode  string `mapstructure:"DB_SSL_MODE"`
	SQLitePath string `mapstructure:"SQLITE_PATH" validate:"required_if=DBDriver sqlite"`

	// Redis configuration
	RedisHost     string `mapstructure:"REDIS_HOST"`
	RedisPort     string `mapstructure:"REDIS_PORT"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB" validate:"gte=0"`
	RedisURL      string `mapstructure:"REDIS_URL"`

	// JWT configuration
	JWTSecret string `mapstructure:"JWT_SECRET" validate:"required"`

	// Recipe generation
	LLMProvider          string        `mapstructure:"LLM_PROVIDER" validate:"oneof=gemini deepseek"`
	GeminiAPIKey         string        `mapstructure:"GEMINI_API_KEY" validate:"required_if=LLMProvider gemini"`
	GeminiModel          string        `mapstructure:"GEMINI_MODEL" validate:"required"`
	DeepSeekAPIKey       string        `mapstructure:"DEEPSEEK_API_KEY" validate:"required_if=LLMProvider deepseek"`
	DeepSeekAPIURL       string        `mapstructure:"DEEPSEEK_API_URL" validate:"omitempty,url"`
	GenerationRateLimit  int           `mapstructure:"GENERATION_RATE_LIMIT" validate:"gte=0"`
	GenerationRateWindow time.Duration `mapstructure:"GENERATION_RATE_WINDOW"`

	// Recipe sharing; empty bucket disables it
	S3Bucket  string `mapstructure:"S3_BUCKET_NAME"`
	AWSRegion string `mapstructure:"AWS_REGION" validate:"required_with=S3Bucket"`
}

// secretKeys are the settings that may be provided as Docker secrets. The
// secret file name is the lower-cased key.
var secretKeys = []string{
	"DB_USER",
	"DB_PASSWORD",
	"JWT_SECRET",
	"REDIS_PASSWORD",
	"REDIS_URL",
	"GEMINI_API_KEY",
	"DEEPSEEK_API_KEY",
}

// ciAliases maps settings to the GitHub Actions secrets that carry them in CI.
var ciAliases = map[string]string{
	"DB_PASSWORD":    "TEST_DB_PASSWORD",
	"JWT_SECRET":     "TEST_JWT_SECRET",
	"REDIS_PASSWORD": "TEST_REDIS_PASSWORD",
	"REDIS_URL":      "TEST_REDIS_URL",
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	v := viper.New()
	setDefaults(v)
	for _, key := range configKeys() {
		names := []string{key}
		if alias, ok := ciAliases[key]; ok && env == CI {
			names = append(names, alias)
		}
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	v.AutomaticEnv()

	// CI uses environment variables only; everywhere else secrets win.
	if env != CI {
		for _, key := range secretKeys {
			if value := readSecret(strings.ToLower(key)); value != "" {
				v.Set(key, value)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	cfg.Environment = env

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "pantrychef")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("SQLITE_PATH", "pantrychef.db")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("LLM_PROVIDER", "gemini")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-pro")
	v.SetDefault("DEEPSEEK_API_URL", "https://api.deepseek.com/v1/chat/completions")
	v.SetDefault("GENERATION_RATE_LIMIT", 10)
	v.SetDefault("GENERATION_RATE_WINDOW", "1m")
}

// configKeys lists every mapstructure key of Config.
func configKeys() []string {
	return []string{
		"SERVER_PORT", "SERVER_HOST", "ALLOWED_ORIGINS", "LOG_LEVEL",
		"DB_DRIVER", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL_MODE", "SQLITE_PATH",
		"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB", "REDIS_URL",
		"JWT_SECRET",
		"LLM_PROVIDER", "GEMINI_API_KEY", "GEMINI_MODEL", "DEEPSEEK_API_KEY", "DEEPSEEK_API_URL",
		"GENERATION_RATE_LIMIT", "GENERATION_RATE_WINDOW",
		"S3_BUCKET_NAME", "AWS_REGION",
	}
}

// RedisAddr returns host:port for the Redis client.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

// PostgresDSN returns the connection string for the PostgreSQL driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
