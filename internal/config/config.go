package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Audit    AuditConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Hostname              string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
//
// SigningSecret signs session credentials and AdminKey, when set, enables the
// admin bypass for the Ledger-Api-Key scheme. TokenLifetimeSeconds bounds
// session credentials; TokenExpirationSeconds bounds stored machine tokens
// (zero disables the window). Both secrets are loaded once and read-only
// afterwards.
type AuthConfig struct {
	SigningSecret          string
	AdminKey               string
	TokenLifetimeSeconds   int
	TokenExpirationSeconds int
	BcryptCost             int
}

// AuditConfig controls retention of authentication denial counters.
type AuditConfig struct {
	DenialWindowSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "ledger-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Hostname:              getEnv("APP_HOSTNAME", "http://localhost:8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			SigningSecret:          getEnv("AUTH_SIGNING_SECRET", "dev-secret"),
			AdminKey:               os.Getenv("AUTH_ADMIN_KEY"),
			TokenLifetimeSeconds:   getEnvAsInt("AUTH_TOKEN_LIFETIME_SECONDS", 3600),
			TokenExpirationSeconds: getEnvAsInt("AUTH_TOKEN_EXPIRATION_SECONDS", 0),
			BcryptCost:             getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Audit: AuditConfig{
			DenialWindowSeconds: getEnvAsInt("AUDIT_DENIAL_WINDOW_SECONDS", 900),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// TokenLifetime returns the session credential lifetime, one hour when unset.
func (a AuthConfig) TokenLifetime() time.Duration {
	if a.TokenLifetimeSeconds <= 0 {
		return time.Hour
	}
	return time.Duration(a.TokenLifetimeSeconds) * time.Second
}

// TokenExpiration returns the machine-token expiration window, zero when disabled.
func (a AuthConfig) TokenExpiration() time.Duration {
	if a.TokenExpirationSeconds <= 0 {
		return 0
	}
	return time.Duration(a.TokenExpirationSeconds) * time.Second
}

// DenialWindow returns how long denial counters are retained.
func (a AuditConfig) DenialWindow() time.Duration {
	if a.DenialWindowSeconds <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(a.DenialWindowSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
