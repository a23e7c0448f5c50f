package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/zerodesign/zerodesign-backend/internal/data/db"
	apphttp "github.com/zerodesign/zerodesign-backend/internal/http"
	"github.com/zerodesign/zerodesign-backend/internal/observability"
	"github.com/zerodesign/zerodesign-backend/internal/platform/dbctx"
	"github.com/zerodesign/zerodesign-backend/internal/platform/logger"
	"github.com/zerodesign/zerodesign-backend/internal/platform/redis"
)

const maintenanceInterval = time.Hour

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Repos    Repos
	Services Services
	Server   *apphttp.Server

	redis        *goredis.Client
	closeDB      func() error
	otelShutdown func(context.Context) error
	closeOnce    sync.Once
}

// New loads configuration from the environment and wires the application.
func New(ctx context.Context) (*App, error) {
	log, err := logger.New(LoadConfig(nil).LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log.Info("Loading environment variables...")
	return NewWithConfig(ctx, log, LoadConfig(log))
}

func NewWithConfig(ctx context.Context, log *logger.Logger, cfg Config) (*App, error) {
	a := &App{Log: log, Cfg: cfg}
	a.otelShutdown = observability.InitOTel(ctx, log, cfg.Otel)

	if err := a.openDB(); err != nil {
		a.Close(ctx)
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := db.AutoMigrateAll(a.DB); err != nil {
			a.Close(ctx)
			return nil, fmt.Errorf("automigrate: %w", err)
		}
	}

	rdb, err := redis.NewClient(log, cfg.Redis)
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("init redis: %w", err)
	}
	a.redis = rdb

	a.Repos = wireRepos(a.DB, log)
	a.Services, err = wireServices(a.DB, log, cfg, a.Repos, rdb)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	handlerset := wireHandlers(a.DB, cfg, a.Services)

	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	a.Server = apphttp.NewServer(apphttp.RouterConfig{
		Log:              log,
		ServiceName:      serviceName,
		AllowedOrigins:   cfg.AllowedOrigins,
		AuthMiddleware:   wireMiddleware(log, a.Services),
		HealthHandler:    handlerset.Health,
		AuthHandler:      handlerset.Auth,
		UserHandler:      handlerset.User,
		CO2Handler:       handlerset.CO2,
		SettingsHandler:  handlerset.Settings,
		ExportHandler:    handlerset.Export,
		PassportHandler:  handlerset.Passport,
		ReferenceHandler: handlerset.Reference,
	})
	return a, nil
}

func (a *App) openDB() error {
	switch a.Cfg.DBDriver {
	case DriverSQLite:
		gdb, err := db.OpenSQLite(a.Log, a.Cfg.SQLitePath)
		if err != nil {
			return fmt.Errorf("init sqlite: %w", err)
		}
		a.DB = gdb
		a.closeDB = func() error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}
	case DriverPostgres, "":
		pg, err := db.NewPostgresService(a.Log, a.Cfg.Postgres)
		if err != nil {
			return fmt.Errorf("init postgres: %w", err)
		}
		a.DB = pg.DB()
		a.closeDB = pg.Close
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", a.Cfg.DBDriver)
	}
	return nil
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := ":" + a.Cfg.Port
	a.Log.Info("HTTP server listening", "addr", addr)
	return a.Server.Run(ctx, addr, a.Cfg.ShutdownTimeout)
}

// RunMaintenance sweeps expired and used password reset tokens until ctx is
// cancelled.
func (a *App) RunMaintenance(ctx context.Context) error {
	ticker := time.NewTicker(maintenanceInterval)
	defer ticker.Stop()
	for {
		a.sweepResetTokens(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (a *App) sweepResetTokens(ctx context.Context) {
	n, err := a.Repos.PasswordResetToken.DeleteExpired(dbctx.New(ctx), time.Now().UTC())
	if err != nil {
		if ctx.Err() == nil {
			a.Log.Warn("reset token sweep failed", "error", err)
		}
		return
	}
	if n > 0 {
		a.Log.Info("reset tokens swept", "deleted", n)
	}
}

func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	a.closeOnce.Do(func() { a.close(ctx) })
}

func (a *App) close(ctx context.Context) {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Log.Warn("redis close failed", "error", err)
		}
	}
	if a.closeDB != nil {
		if err := a.closeDB(); err != nil {
			a.Log.Warn("database close failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	a.Log.Sync()
}
