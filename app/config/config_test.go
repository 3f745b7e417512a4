package config

import (
	"testing"
	"time"

	"github.com/mytheresa/inventory-ledger/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/inventory")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 25, cfg.MaxOpenConns)
	assert.Equal(t, 25, cfg.MaxIdleConns)
	assert.Equal(t, 5*time.Minute, cfg.ConnMaxLifetime)
	assert.Equal(t, models.OverdrawClamp, cfg.OverdrawPolicy)
	assert.Equal(t, 10, cfg.LowStockThreshold)
	assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	assert.Equal(t, "inventory.transactions", cfg.KafkaTopic)
	assert.False(t, cfg.RedisEnabled())
	assert.False(t, cfg.KafkaEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/inventory")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("OVERDRAW_POLICY", "reject")
	t.Setenv("LOW_STOCK_THRESHOLD", "3")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("IDEMPOTENCY_TTL", "1h")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, models.OverdrawReject, cfg.OverdrawPolicy)
	assert.Equal(t, 3, cfg.LowStockThreshold)
	assert.Equal(t, time.Hour, cfg.IdempotencyTTL)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.KafkaEnabled())
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{name: "Missing database url", env: map[string]string{"DATABASE_URL": ""}},
		{name: "Unknown overdraw policy", env: map[string]string{"OVERDRAW_POLICY": "sometimes"}},
		{name: "Negative threshold", env: map[string]string{"LOW_STOCK_THRESHOLD": "-1"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "postgres://localhost/inventory")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := Load()

			assert.Error(t, err)
		})
	}
}
