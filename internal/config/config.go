package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Memory   MemoryConfig
	Events   EventsConfig
	Ledger   LedgerConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port            string
	ShutdownTimeout time.Duration
}

type StorageConfig struct {
	Driver string // memory, postgres or redis
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// MemoryConfig sets the artificial latency of the in-memory stores.
type MemoryConfig struct {
	LatencyMin time.Duration
	LatencyMax time.Duration
}

type EventsConfig struct {
	Driver       string // none, kafka, nats or rabbitmq
	KafkaBrokers []string
	NatsURL      string
	NatsPrefix   string
	RabbitMQ     RabbitMQConfig
}

type RabbitMQConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	VHost    string
}

type LedgerConfig struct {
	// LockTimeout bounds the wait for an account lock; zero waits forever.
	LockTimeout time.Duration
}

type LogConfig struct {
	Level string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	lockTimeout, err := durationFromEnv("LEDGER_LOCK_TIMEOUT", 0)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := durationFromEnv("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("HTTP_PORT", "8080"),
			ShutdownTimeout: shutdownTimeout,
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(getEnv("STORAGE_DRIVER", "memory")),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     intFromEnv("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "points"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     intFromEnv("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       intFromEnv("REDIS_DB", 0),
		},
		Memory: MemoryConfig{
			LatencyMin: time.Duration(intFromEnv("MEMORY_LATENCY_MIN_MS", 0)) * time.Millisecond,
			LatencyMax: time.Duration(intFromEnv("MEMORY_LATENCY_MAX_MS", 0)) * time.Millisecond,
		},
		Events: EventsConfig{
			Driver:       strings.ToLower(getEnv("EVENTS_DRIVER", "none")),
			KafkaBrokers: listFromEnv("KAFKA_BROKERS"),
			NatsURL:      getEnv("NATS_URL", "nats://localhost:4222"),
			NatsPrefix:   getEnv("NATS_SUBJECT_PREFIX", "points."),
			RabbitMQ: RabbitMQConfig{
				Host:     getEnv("RABBITMQ_HOST", "localhost"),
				Port:     intFromEnv("RABBITMQ_PORT", 5672),
				User:     getEnv("RABBITMQ_USER", "guest"),
				Password: getEnv("RABBITMQ_PASSWORD", "guest"),
				VHost:    getEnv("RABBITMQ_VHOST", "/"),
			},
		},
		Ledger: LedgerConfig{
			LockTimeout: lockTimeout,
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "memory", "postgres", "redis":
	default:
		return fmt.Errorf("invalid storage driver %q, must be 'memory', 'postgres' or 'redis'", c.Storage.Driver)
	}

	switch c.Events.Driver {
	case "none", "nats", "rabbitmq":
	case "kafka":
		if len(c.Events.KafkaBrokers) == 0 {
			return fmt.Errorf("missing required env for kafka events: KAFKA_BROKERS")
		}
	default:
		return fmt.Errorf("invalid events driver %q, must be 'none', 'kafka', 'nats' or 'rabbitmq'", c.Events.Driver)
	}

	if c.Memory.LatencyMin < 0 || c.Memory.LatencyMax < c.Memory.LatencyMin {
		return fmt.Errorf("invalid memory latency range [%s, %s]", c.Memory.LatencyMin, c.Memory.LatencyMax)
	}
	if c.Ledger.LockTimeout < 0 {
		return fmt.Errorf("LEDGER_LOCK_TIMEOUT must not be negative")
	}
	return nil
}

func (c *Config) HTTPAddr() string {
	return ":" + c.Server.Port
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c RabbitMQConfig) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d%s", c.User, c.Password, c.Host, c.Port, c.VHost)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func intFromEnv(key string, defaultValue int) int {
	val := getEnv(key, "")
	if val == "" {
		return defaultValue
	}
	if parsed, err := strconv.Atoi(val); err == nil {
		return parsed
	}
	return defaultValue
}

func durationFromEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	val := getEnv(key, "")
	if val == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid duration in %s: %w", key, err)
	}
	return d, nil
}

func listFromEnv(key string) []string {
	var out []string
	for _, item := range strings.Split(getEnv(key, ""), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
