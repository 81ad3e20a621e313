package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "sales-api", cfg.ServiceName)
	assert.Equal(t, []string{"kafka:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.EventsEnabled)
	assert.Equal(t, 4, cfg.WorkerCount)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092 ,,c:9092")
	t.Setenv("WORKER_COUNT", "12")
	t.Setenv("EVENTS_ENABLED", "false")

	cfg := Load()
	assert.Equal(t, []string{"a:9092", "b:9092", "c:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 12, cfg.WorkerCount)
	assert.False(t, cfg.EventsEnabled)
}

func TestAtoiFallsBackToOne(t *testing.T) {
	t.Setenv("WORKER_COUNT", "zero")
	assert.Equal(t, 1, Load().WorkerCount)
}
