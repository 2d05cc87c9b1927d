package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type DBConfig struct {
	Driver       string
	DSN          string
	LockTimeout  time.Duration
	MaxOpenConns int
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type RedisConfig struct {
	Addr            string
	Password        string
	DB              int
	AvailabilityTTL time.Duration
}

type AMQPConfig struct {
	URL   string
	Queue string
}

type RelayConfig struct {
	Interval  time.Duration
	BatchSize int
}

type Config struct {
	Port               string
	GinMode            string
	LogLevel           string
	CORSOrigin         string
	RateLimitPerSecond int
	DB                 DBConfig
	JWT                JWTConfig
	Redis              RedisConfig
	AMQP               AMQPConfig
	Relay              RelayConfig
}

// Load membaca file .env (jika ada) lalu environment variable dengan nilai default.
// Redis dan AMQP bersifat opsional: address kosong berarti fitur dimatikan.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	l := &loader{}
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		GinMode:            getEnv("GIN_MODE", "debug"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSOrigin:         getEnv("CORS_ORIGIN", "*"),
		RateLimitPerSecond: l.int("RATE_LIMIT_PER_SECOND", 50),
		DB: DBConfig{
			Driver:       getEnv("DB_DRIVER", "sqlite"),
			DSN:          getEnv("DB_DSN", "file:reservations.db?_busy_timeout=5000&_foreign_keys=on"),
			LockTimeout:  l.duration("DB_LOCK_TIMEOUT", 3*time.Second),
			MaxOpenConns: l.int("DB_MAX_OPEN_CONNS", 20),
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
			TTL:    l.duration("JWT_TTL", 24*time.Hour),
		},
		Redis: RedisConfig{
			Addr:            os.Getenv("REDIS_ADDR"),
			Password:        os.Getenv("REDIS_PASSWORD"),
			DB:              l.int("REDIS_DB", 0),
			AvailabilityTTL: l.duration("AVAILABILITY_CACHE_TTL", 30*time.Second),
		},
		AMQP: AMQPConfig{
			URL:   os.Getenv("AMQP_URL"),
			Queue: getEnv("AMQP_QUEUE", "reservation_events"),
		},
		Relay: RelayConfig{
			Interval:  l.duration("RELAY_INTERVAL", time.Second),
			BatchSize: l.int("RELAY_BATCH_SIZE", 100),
		},
	}
	if l.err != nil {
		return nil, l.err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.Relay.BatchSize < 1 {
		return errors.New("RELAY_BATCH_SIZE must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// loader keeps the first parse error so Load can report it once.
type loader struct {
	err error
}

func (l *loader) int(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil && l.err == nil {
		l.err = fmt.Errorf("%s: %w", key, err)
	}
	return v
}

func (l *loader) duration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil && l.err == nil {
		l.err = fmt.Errorf("%s: %w", key, err)
	}
	return v
}
