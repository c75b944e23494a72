package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/srgjo27/showtime_booking/internal/platform/database"
)

const (
	CatalogMemory   = "memory"
	CatalogPostgres = "postgres"
)

type Config struct {
	ServiceName string
	Port        string
	LogLevel    string
	LogFormat   string

	CatalogSource string
	DB            database.Config

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SeatCacheTTL  time.Duration

	AMQPURL         string
	AMQPDialTimeout time.Duration
	PublishTimeout  time.Duration

	PaymentTimeout      time.Duration
	PaymentLatency      time.Duration
	PaymentLimitCents   int64
	PaymentDeclineUsers []string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// parseErrs holds variables that were set but could not be parsed.
	parseErrs []error
}

// Load reads the given .env files, when present, into the process
// environment and builds the configuration from it. Variables already set in
// the environment win over the files.
func Load(envFiles ...string) (*Config, error) {
	for _, file := range envFiles {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return nil, fmt.Errorf("load %s: %w", file, err)
		}
	}

	env := &envReader{}

	cfg := &Config{
		ServiceName: getEnv("SERVICE_NAME", "showtime-booking"),
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),

		CatalogSource: strings.ToLower(getEnv("CATALOG_SOURCE", CatalogMemory)),
		DB: database.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "showtime_booking"),
		},

		RedisAddr:     redisAddr(),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       env.Int("REDIS_DB", 0),
		SeatCacheTTL:  env.Duration("SEAT_CACHE_TTL", 5*time.Second),

		AMQPURL:         getEnv("AMQP_URL", ""),
		AMQPDialTimeout: env.Duration("AMQP_DIAL_TIMEOUT", 5*time.Second),
		PublishTimeout:  env.Duration("EVENT_PUBLISH_TIMEOUT", 2*time.Second),

		PaymentTimeout:      env.Duration("PAYMENT_TIMEOUT", 5*time.Second),
		PaymentLatency:      env.Duration("PAYMENT_LATENCY", 200*time.Millisecond),
		PaymentLimitCents:   env.Int64("PAYMENT_LIMIT_CENTS", 0),
		PaymentDeclineUsers: getEnvList("PAYMENT_DECLINE_USERS"),

		ReadTimeout:     env.Duration("HTTP_READ_TIMEOUT", 5*time.Second),
		WriteTimeout:    env.Duration("HTTP_WRITE_TIMEOUT", 10*time.Second),
		IdleTimeout:     env.Duration("HTTP_IDLE_TIMEOUT", 120*time.Second),
		ShutdownTimeout: env.Duration("HTTP_SHUTDOWN_TIMEOUT", 5*time.Second),
	}
	cfg.parseErrs = env.errs

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	errs := slices.Clone(c.parseErrs)

	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %q", c.Port))
	}

	if c.CatalogSource != CatalogMemory && c.CatalogSource != CatalogPostgres {
		errs = append(errs, fmt.Errorf("CATALOG_SOURCE must be %q or %q, got %q", CatalogMemory, CatalogPostgres, c.CatalogSource))
	}

	if c.PaymentTimeout <= 0 {
		errs = append(errs, fmt.Errorf("PAYMENT_TIMEOUT must be positive, got %s", c.PaymentTimeout))
	}
	if c.PaymentLatency < 0 {
		errs = append(errs, fmt.Errorf("PAYMENT_LATENCY must not be negative, got %s", c.PaymentLatency))
	}
	if c.PaymentLimitCents < 0 {
		errs = append(errs, fmt.Errorf("PAYMENT_LIMIT_CENTS must not be negative, got %d", c.PaymentLimitCents))
	}
	if c.PublishTimeout <= 0 {
		errs = append(errs, fmt.Errorf("EVENT_PUBLISH_TIMEOUT must be positive, got %s", c.PublishTimeout))
	}
	if c.AMQPDialTimeout <= 0 {
		errs = append(errs, fmt.Errorf("AMQP_DIAL_TIMEOUT must be positive, got %s", c.AMQPDialTimeout))
	}
	if c.SeatCacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("SEAT_CACHE_TTL must be positive, got %s", c.SeatCacheTTL))
	}

	return errors.Join(errs...)
}

func redisAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	return getEnv("REDIS_HOST", "localhost") + ":" + getEnv("REDIS_PORT", "6379")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envReader parses typed variables and remembers every value it had to
// reject, so a typo fails Validate instead of silently using the default.
type envReader struct {
	errs []error
}

func (r *envReader) Int(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s must be an integer, got %q", key, v))
		return fallback
	}
	return n
}

func (r *envReader) Int64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s must be an integer, got %q", key, v))
		return fallback
	}
	return n
}

func (r *envReader) Duration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s must be a duration such as 5s or 250ms, got %q", key, v))
		return fallback
	}
	return d
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
