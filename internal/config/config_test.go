package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("LEAVE_PLANNED_NOTICE_DAYS", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "leave-service", cfg.App.Name)
	assert.Equal(t, 30, cfg.Leave.PlannedNoticeDays)
	assert.Equal(t, 12, cfg.Leave.DefaultPlanned)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, time.Minute, cfg.Throttle.Window())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("THROTTLE_WINDOW_SECONDS", "5")
	t.Setenv("LEAVE_DEFAULT_SICK", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 5*time.Second, cfg.Throttle.Window())
	assert.Equal(t, 10, cfg.Leave.DefaultSick)
}

func TestLoadRejectsDefaultSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestAddr(t *testing.T) {
	assert.Equal(t, "127.0.0.1:9000", AppConfig{Host: "127.0.0.1", Port: "9000"}.Addr())
	assert.Zero(t, AppConfig{}.RequestTimeout())
}
