package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Catalog  CatalogConfig
	Webhook  WebhookConfig
	Redis    RedisConfig
	Postgres PostgresConfig
}

type AppConfig struct {
	Env   string
	Debug bool
	Port  string
	Host  string
}

// CatalogConfig controls where and how the medication catalog is bootstrapped.
type CatalogConfig struct {
	BootstrapPath string
	SearchLimit   int
}

// WebhookConfig controls default delivery behavior for registered subscribers.
type WebhookConfig struct {
	DefaultRetryCount   int
	DefaultRetryDelay   time.Duration
	DeliveryTimeout     time.Duration
	RecentCacheCapacity int
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type PostgresConfig struct {
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Env:   getEnv("APP_ENV", "development"),
			Debug: getEnvBool("APP_DEBUG", true),
			Port:  getEnv("APP_PORT", "8080"),
			Host:  getEnv("APP_HOST", "0.0.0.0"),
		},
		Catalog: CatalogConfig{
			BootstrapPath: getEnv("CATALOG_BOOTSTRAP_PATH", ""),
			SearchLimit:   getEnvInt("CATALOG_SEARCH_LIMIT", 20),
		},
		Webhook: WebhookConfig{
			DefaultRetryCount:   getEnvInt("WEBHOOK_RETRY_COUNT", 3),
			DefaultRetryDelay:   getEnvDuration("WEBHOOK_RETRY_DELAY", 60*time.Second),
			DeliveryTimeout:     getEnvDuration("WEBHOOK_DELIVERY_TIMEOUT", 30*time.Second),
			RecentCacheCapacity: getEnvInt("WEBHOOK_RECENT_CACHE_CAPACITY", 50),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "127.0.0.1"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("DB_HOST", "127.0.0.1"),
			Port:            getEnv("DB_PORT", "5432"),
			Name:            getEnv("DB_NAME", "pharmaguard"),
			User:            getEnv("DB_USER", "pharmaguard_app"),
			Password:        getEnv("DB_PASSWORD", ""),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
	}

	return cfg, nil
}

func (c *PostgresConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + c.Port +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" sslmode=" + c.SSLMode
}

func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
