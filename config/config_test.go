package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "DB_DSN", "DB_LOCK_TIMEOUT", "REDIS_ADDR", "AMQP_URL", "RELAY_BATCH_SIZE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, 3*time.Second, cfg.DB.LockTimeout)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, "reservation_events", cfg.AMQP.Queue)
	assert.Equal(t, 100, cfg.Relay.BatchSize)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_DSN", "host=localhost dbname=reservations")
	t.Setenv("DB_LOCK_TIMEOUT", "750ms")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("AVAILABILITY_CACHE_TTL", "1m")
	t.Setenv("JWT_TTL", "2h")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, 750*time.Millisecond, cfg.DB.LockTimeout)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, time.Minute, cfg.Redis.AvailabilityTTL)
	assert.Equal(t, 2*time.Hour, cfg.JWT.TTL)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("RESERVATION_TEST_PORT_MARKER=1\nAMQP_QUEUE=from_file\n"), 0o600))
	t.Cleanup(func() {
		_ = os.Unsetenv("RESERVATION_TEST_PORT_MARKER")
		_ = os.Unsetenv("AMQP_QUEUE")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from_file", cfg.AMQP.Queue)
	assert.Equal(t, "1", os.Getenv("RESERVATION_TEST_PORT_MARKER"))
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string][2]string{
		"unknown driver":  {"DB_DRIVER", "oracle"},
		"bad duration":    {"DB_LOCK_TIMEOUT", "soon"},
		"bad int":         {"REDIS_DB", "zero"},
		"zero batch size": {"RELAY_BATCH_SIZE", "0"},
	}
	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
		})
	}
}
