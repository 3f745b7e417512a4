package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mytheresa/inventory-ledger/models"
)

type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
	LogLevel        string

	DatabaseURL     string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	OverdrawPolicy    models.OverdrawPolicy
	LowStockThreshold int

	RedisAddr      string
	RedisPassword  string
	IdempotencyTTL time.Duration

	KafkaBrokers []string
	KafkaTopic   string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("SHUTDOWN_TIMEOUT", "5s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 25)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("OVERDRAW_POLICY", string(models.OverdrawClamp))
	v.SetDefault("LOW_STOCK_THRESHOLD", 10)
	v.SetDefault("IDEMPOTENCY_TTL", "24h")
	v.SetDefault("KAFKA_TOPIC", "inventory.transactions")
}

// Load reads the configuration from the environment. Call godotenv.Load
// first to pick up a .env file.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	policy, err := models.ParseOverdrawPolicy(v.GetString("OVERDRAW_POLICY"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		HTTPAddr:          v.GetString("HTTP_ADDR"),
		ShutdownTimeout:   v.GetDuration("SHUTDOWN_TIMEOUT"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		DatabaseURL:       v.GetString("DATABASE_URL"),
		MaxOpenConns:      v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns:      v.GetInt("DB_MAX_IDLE_CONNS"),
		ConnMaxLifetime:   v.GetDuration("DB_CONN_MAX_LIFETIME"),
		OverdrawPolicy:    policy,
		LowStockThreshold: v.GetInt("LOW_STOCK_THRESHOLD"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		IdempotencyTTL:    v.GetDuration("IDEMPOTENCY_TTL"),
		KafkaBrokers:      splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:        v.GetString("KAFKA_TOPIC"),
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.LowStockThreshold < 0 {
		errs = append(errs, fmt.Errorf("LOW_STOCK_THRESHOLD must not be negative, got %d", c.LowStockThreshold))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT must be positive"))
	}
	if c.RedisAddr != "" && c.IdempotencyTTL <= 0 {
		errs = append(errs, errors.New("IDEMPOTENCY_TTL must be positive"))
	}
	return errors.Join(errs...)
}

func (c Config) RedisEnabled() bool { return c.RedisAddr != "" }

func (c Config) KafkaEnabled() bool { return len(c.KafkaBrokers) > 0 }

// splitList splits a comma separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
