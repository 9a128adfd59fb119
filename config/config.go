// Package config handles loading and validation of application
// configuration from environment variables.
package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/xpress-inn/feedback-api/logger"
)

// Environment represents the application's running environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Environment    Environment `mapstructure:"ENVIRONMENT"`
	Port           string      `mapstructure:"PORT"`
	AllowedOrigins []string    `mapstructure:"ALLOWED_ORIGINS"`
	Version        string      `mapstructure:"VERSION"`
}

// DatabaseConfig holds PostgreSQL connection details.
type DatabaseConfig struct {
	Host                string `mapstructure:"HOST"`
	Port                int    `mapstructure:"PORT"`
	User                string `mapstructure:"USER"`
	Password            string `mapstructure:"PASSWORD"`
	Name                string `mapstructure:"NAME"`
	SSLMode             string `mapstructure:"SSL_MODE"`
	MaxConns            int    `mapstructure:"MAX_CONNS"`
	MinConns            int    `mapstructure:"MIN_CONNS"`
	ConnMaxLife         string `mapstructure:"CONN_MAX_LIFE"`
	QueryTimeoutSeconds int    `mapstructure:"QUERY_TIMEOUT_SECONDS"`
}

// URL returns a postgres:// connection URL suitable for pgx and
// golang-migrate.
func (c *DatabaseConfig) URL() string {
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.User),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		c.Name,
		sslmode,
	)
}

// RedisConfig holds Redis connection details for the rate limiter.
type RedisConfig struct {
	Address  string `mapstructure:"ADDRESS"`
	Password string `mapstructure:"PASSWORD"`
	DB       int    `mapstructure:"DB"`
}

// EmailConfig holds configuration for outbound email.
type EmailConfig struct {
	FromAddress     string `mapstructure:"FROM_ADDRESS"`
	FromName        string `mapstructure:"FROM_NAME"`
	BusinessAddress string `mapstructure:"BUSINESS_ADDRESS"`
	ResendAPIKey    string `mapstructure:"RESEND_API_KEY"`
}

// WorkerPoolConfig holds configuration for the notification worker pool.
type WorkerPoolConfig struct {
	MaxWorkers             int `mapstructure:"MAX_WORKERS"`
	QueueSize              int `mapstructure:"QUEUE_SIZE"`
	ShutdownTimeoutSeconds int `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS"`
}

// RateLimitConfig holds configuration for submission rate limiting.
type RateLimitConfig struct {
	SubmitRequestsPerMinute int `mapstructure:"SUBMIT_REQUESTS_PER_MINUTE"`
}

// Config is the root configuration for the service.
type Config struct {
	Server     ServerConfig     `mapstructure:"SERVER"`
	Database   DatabaseConfig   `mapstructure:"DATABASE"`
	Redis      RedisConfig      `mapstructure:"REDIS"`
	Email      EmailConfig      `mapstructure:"EMAIL"`
	WorkerPool WorkerPoolConfig `mapstructure:"WORKER_POOL"`
	RateLimit  RateLimitConfig  `mapstructure:"RATE_LIMIT"`
}

// IsProduction returns true when running in the production environment.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

// LoadConfig loads configuration from environment variables using Viper,
// applies defaults, unmarshals into Config, and validates it.
func LoadConfig() (*Config, error) {
	v := viper.New()
	log := logger.GetLogger()

	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.PORT", "5000")
	v.SetDefault("SERVER.ALLOWED_ORIGINS", []string{"http://localhost:3000"})
	v.SetDefault("SERVER.VERSION", "dev")
	v.SetDefault("DATABASE.HOST", "localhost")
	v.SetDefault("DATABASE.PORT", 5432)
	v.SetDefault("DATABASE.USER", "postgres")
	v.SetDefault("DATABASE.PASSWORD", "")
	v.SetDefault("DATABASE.NAME", "feedback_dev")
	v.SetDefault("DATABASE.SSL_MODE", "disable")
	v.SetDefault("DATABASE.MAX_CONNS", 10)
	v.SetDefault("DATABASE.MIN_CONNS", 2)
	v.SetDefault("DATABASE.CONN_MAX_LIFE", "1h")
	v.SetDefault("DATABASE.QUERY_TIMEOUT_SECONDS", 5)
	v.SetDefault("REDIS.ADDRESS", "localhost:6379")
	v.SetDefault("REDIS.PASSWORD", "")
	v.SetDefault("REDIS.DB", 0)
	v.SetDefault("EMAIL.FROM_NAME", "Xpress Inn Marshall")
	v.SetDefault("WORKER_POOL.MAX_WORKERS", 4)
	v.SetDefault("WORKER_POOL.QUEUE_SIZE", 256)
	v.SetDefault("WORKER_POOL.SHUTDOWN_TIMEOUT_SECONDS", 15)
	v.SetDefault("RATE_LIMIT.SUBMIT_REQUESTS_PER_MINUTE", 10)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envBindings := [][2]string{
		{"SERVER.ENVIRONMENT", "ENVIRONMENT"},
		{"SERVER.PORT", "PORT"},
		{"SERVER.ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
		{"SERVER.VERSION", "VERSION"},
		{"DATABASE.HOST", "DB_HOST"},
		{"DATABASE.PORT", "DB_PORT"},
		{"DATABASE.USER", "DB_USER"},
		{"DATABASE.PASSWORD", "DB_PASSWORD"},
		{"DATABASE.NAME", "DB_NAME"},
		{"DATABASE.SSL_MODE", "DB_SSL_MODE"},
		{"DATABASE.MAX_CONNS", "DB_MAX_CONNS"},
		{"DATABASE.MIN_CONNS", "DB_MIN_CONNS"},
		{"DATABASE.CONN_MAX_LIFE", "DB_CONN_MAX_LIFE"},
		{"DATABASE.QUERY_TIMEOUT_SECONDS", "DB_QUERY_TIMEOUT_SECONDS"},
		{"REDIS.ADDRESS", "REDIS_ADDRESS"},
		{"REDIS.PASSWORD", "REDIS_PASSWORD"},
		{"REDIS.DB", "REDIS_DB"},
		{"EMAIL.FROM_ADDRESS", "EMAIL_FROM_ADDRESS"},
		{"EMAIL.FROM_NAME", "EMAIL_FROM_NAME"},
		{"EMAIL.BUSINESS_ADDRESS", "BUSINESS_EMAIL"},
		{"EMAIL.RESEND_API_KEY", "RESEND_API_KEY"},
		{"WORKER_POOL.MAX_WORKERS", "WORKER_POOL_MAX_WORKERS"},
		{"WORKER_POOL.QUEUE_SIZE", "WORKER_POOL_QUEUE_SIZE"},
		{"WORKER_POOL.SHUTDOWN_TIMEOUT_SECONDS", "WORKER_POOL_SHUTDOWN_TIMEOUT_SECONDS"},
		{"RATE_LIMIT.SUBMIT_REQUESTS_PER_MINUTE", "RATE_LIMIT_SUBMIT_REQUESTS_PER_MINUTE"},
	}

	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// ALLOWED_ORIGINS arrives as a comma-separated string from the env.
	if len(cfg.Server.AllowedOrigins) == 1 && strings.Contains(cfg.Server.AllowedOrigins[0], ",") {
		cfg.Server.AllowedOrigins = splitAndTrim(cfg.Server.AllowedOrigins[0])
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Infow("Configuration loaded",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
		"db_host", cfg.Database.Host,
		"allowed_origins", cfg.Server.AllowedOrigins,
	)

	return &cfg, nil
}

// Validate checks the configuration for values that would fail at runtime.
func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("invalid server port %q: %w", c.Server.Port, err)
	}
	if c.Database.Host == "" || c.Database.Name == "" {
		return fmt.Errorf("database host and name are required")
	}
	if c.WorkerPool.MaxWorkers <= 0 || c.WorkerPool.QueueSize <= 0 {
		return fmt.Errorf("worker pool size and queue size must be positive")
	}
	if c.IsProduction() {
		if c.Email.ResendAPIKey == "" {
			return fmt.Errorf("RESEND_API_KEY is required in production")
		}
		if c.Email.FromAddress == "" || c.Email.BusinessAddress == "" {
			return fmt.Errorf("EMAIL_FROM_ADDRESS and BUSINESS_EMAIL are required in production")
		}
	}
	return nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
