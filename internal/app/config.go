package app

import (
	"strings"
	"time"

	"github.com/zerodesign/zerodesign-backend/internal/data/db"
	"github.com/zerodesign/zerodesign-backend/internal/observability"
	"github.com/zerodesign/zerodesign-backend/internal/platform/envutil"
	"github.com/zerodesign/zerodesign-backend/internal/platform/logger"
	"github.com/zerodesign/zerodesign-backend/internal/platform/redis"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultJWTSecret = "defaultsecret"
)

type Config struct {
	Port            string
	LogMode         string
	ShutdownTimeout time.Duration

	DBDriver   string
	Postgres   db.PostgresConfig
	SQLitePath string
	// AutoMigrate creates the schema on boot.
	AutoMigrate bool

	JWTSecretKey     string
	AccessTokenTTL   time.Duration
	ExposeResetToken bool

	Redis            redis.Config
	LoginMaxAttempts int
	LoginLockout     time.Duration

	AllowedOrigins []string
	Otel           observability.OtelConfig
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:            envutil.String("PORT", "8080"),
		LogMode:         envutil.String("LOG_MODE", "development"),
		ShutdownTimeout: envutil.Duration("SHUTDOWN_TIMEOUT", 15*time.Second),

		DBDriver: strings.ToLower(envutil.String("DB_DRIVER", DriverPostgres)),
		Postgres: db.PostgresConfig{
			Host:            envutil.String("POSTGRES_HOST", "localhost"),
			Port:            envutil.String("POSTGRES_PORT", "5432"),
			User:            envutil.String("POSTGRES_USER", "postgres"),
			Password:        envutil.String("POSTGRES_PASSWORD", ""),
			Name:            envutil.String("POSTGRES_NAME", "zerodesign"),
			SSLMode:         envutil.String("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns:    envutil.Int("POSTGRES_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    envutil.Int("POSTGRES_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: envutil.Duration("POSTGRES_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		SQLitePath:  envutil.String("SQLITE_PATH", "zerodesign.db"),
		AutoMigrate: envutil.Bool("DB_AUTO_MIGRATE", true),

		JWTSecretKey:     envutil.String("JWT_SECRET_KEY", defaultJWTSecret),
		AccessTokenTTL:   envutil.Duration("ACCESS_TOKEN_TTL", time.Hour),
		ExposeResetToken: envutil.Bool("AUTH_EXPOSE_RESET_TOKEN", false),

		Redis: redis.Config{
			Addr:     envutil.String("REDIS_ADDR", ""),
			Password: envutil.String("REDIS_PASSWORD", ""),
			DB:       envutil.Int("REDIS_DB", 0),
		},
		LoginMaxAttempts: envutil.Int("LOGIN_MAX_ATTEMPTS", 5),
		LoginLockout:     envutil.Duration("LOGIN_LOCKOUT_SECONDS", 15*time.Minute),

		AllowedOrigins: splitList(envutil.String("CORS_ALLOWED_ORIGINS", "")),
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "zerodesign-backend"),
			Environment: envutil.String("APP_ENV", "development"),
			Version:     envutil.String("APP_VERSION", "dev"),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:     envutil.String("OTEL_EXPORTER_OTLP_HEADERS", ""),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
			SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 0.1),
		},
	}
	if log != nil && cfg.JWTSecretKey == defaultJWTSecret {
		log.Warn("JWT_SECRET_KEY not set, using the built-in development secret")
	}
	return cfg
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
