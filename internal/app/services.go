package app

import (
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/zerodesign/zerodesign-backend/internal/modules/footprint"
	"github.com/zerodesign/zerodesign-backend/internal/platform/logger"
	"github.com/zerodesign/zerodesign-backend/internal/services"
)

type Services struct {
	Aggregator  *footprint.Aggregator
	Throttle    services.LoginThrottle
	Auth        services.AuthService
	User        services.UserService
	Settings    services.SettingsService
	Calculation services.CalculationService
	Export      services.ExportService
	Passport    services.PassportService
	Reference   services.ReferenceService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, rdb *goredis.Client) (Services, error) {
	log.Info("Wiring services...")

	aggregator := footprint.NewAggregator(footprint.AggregatorDeps{
		Store: reposet.ReferenceStore,
		Log:   log,
	})
	throttle := services.NewLoginThrottle(log, rdb, services.ThrottleConfig{
		MaxAttempts: cfg.LoginMaxAttempts,
		Window:      cfg.LoginLockout,
	})
	settingsService := services.NewSettingsService(log, reposet.Setting)

	chart, err := services.NewChartRenderer()
	if err != nil {
		return Services{}, fmt.Errorf("init chart renderer: %w", err)
	}

	return Services{
		Aggregator:  aggregator,
		Throttle:    throttle,
		Auth:        services.NewAuthService(db, log, reposet.User, reposet.PasswordResetToken, throttle, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		User:        services.NewUserService(log, reposet.User),
		Settings:    settingsService,
		Calculation: services.NewCalculationService(log, aggregator, reposet.Calculation),
		Export:      services.NewExportService(log, reposet.Calculation, settingsService, chart),
		Passport:    services.NewPassportService(log, reposet.Passport, reposet.Calculation),
		Reference:   services.NewReferenceService(log, reposet.Reference),
	}, nil
}
