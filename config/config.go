package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the API server's runtime configuration.
type Config struct {
	Port     string
	GinMode  string
	LogLevel string
	LogFmt   string

	DB DBConfig

	Timezone       string
	CapacityPolicy string
	SeedTables     bool

	AuthRequired bool
	JWTSecret    string
	TokenTTL     time.Duration
	CORSOrigin   string

	RateLimitRPS   float64
	RateLimitBurst int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AMQPURL      string
	AMQPExchange string

	MonitorInterval time.Duration
}

type DBConfig struct {
	Driver          string
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Load reads the environment, applying defaults for anything unset.
func Load() (Config, error) {
	cfg := Config{
		Port:     getEnv("PORT", "5000"),
		GinMode:  getEnv("GIN_MODE", "debug"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFmt:   getEnv("LOG_FORMAT", "text"),
		DB: DBConfig{
			Driver:       strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
			Host:         getEnv("DB_HOST", "localhost"),
			User:         getEnv("DB_USER", "restaurant"),
			Password:     getEnv("DB_PASSWORD", ""),
			Name:         getEnv("DB_NAME", "reservations.db"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),
		},
		Timezone:       getEnv("RESTAURANT_TIMEZONE", "Local"),
		CapacityPolicy: strings.ToLower(getEnv("SEATING_CAPACITY_POLICY", "reject")),
		SeedTables:     getEnvBool("SEED_TABLES", true),
		AuthRequired:   getEnvBool("AUTH_REQUIRED", false),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		CORSOrigin:     getEnv("CORS_ORIGIN", "*"),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 40),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		AMQPURL:        getEnv("AMQP_URL", ""),
		AMQPExchange:   getEnv("AMQP_EXCHANGE", "reservations"),
	}

	var err error
	if cfg.DB.ConnMaxLifetime, err = getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.TokenTTL, err = getEnvDuration("TOKEN_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.MonitorInterval, err = getEnvDuration("MONITOR_INTERVAL", 5*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.MonitorInterval <= 0 {
		return Config{}, fmt.Errorf("MONITOR_INTERVAL must be positive")
	}
	if cfg.RateLimitRPS, err = getEnvFloat("RATE_LIMIT_RPS", 20); err != nil {
		return Config{}, err
	}

	defaultPort := 0
	switch cfg.DB.Driver {
	case "sqlite":
	case "mysql":
		defaultPort = 3306
	case "postgres":
		defaultPort = 5432
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}
	cfg.DB.Port = getEnvInt("DB_PORT", defaultPort)

	if cfg.CapacityPolicy != "reject" && cfg.CapacityPolicy != "allow" {
		return Config{}, fmt.Errorf("SEATING_CAPACITY_POLICY must be reject or allow, got %q", cfg.CapacityPolicy)
	}
	if _, err := cfg.Location(); err != nil {
		return Config{}, err
	}
	if cfg.AuthRequired && cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required when AUTH_REQUIRED is set")
	}
	return cfg, nil
}

// Location resolves RESTAURANT_TIMEZONE.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid RESTAURANT_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvFloat(key string, def float64) (float64, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return f, nil
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
