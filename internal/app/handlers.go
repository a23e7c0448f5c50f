package app

import (
	"context"

	"gorm.io/gorm"

	httpH "github.com/zerodesign/zerodesign-backend/internal/http/handlers"
	httpMW "github.com/zerodesign/zerodesign-backend/internal/http/middleware"
	"github.com/zerodesign/zerodesign-backend/internal/platform/logger"
)

type Handlers struct {
	Health    *httpH.HealthHandler
	Auth      *httpH.AuthHandler
	User      *httpH.UserHandler
	CO2       *httpH.CO2Handler
	Settings  *httpH.SettingsHandler
	Export    *httpH.ExportHandler
	Passport  *httpH.PassportHandler
	Reference *httpH.ReferenceHandler
}

func wireHandlers(db *gorm.DB, cfg Config, s Services) Handlers {
	return Handlers{
		Health:    httpH.NewHealthHandler(pingDB(db)),
		Auth:      httpH.NewAuthHandler(s.Auth, cfg.ExposeResetToken),
		User:      httpH.NewUserHandler(s.User),
		CO2:       httpH.NewCO2Handler(s.Calculation, s.Settings),
		Settings:  httpH.NewSettingsHandler(s.Settings, s.User),
		Export:    httpH.NewExportHandler(s.Export),
		Passport:  httpH.NewPassportHandler(s.Passport),
		Reference: httpH.NewReferenceHandler(s.Reference),
	}
}

func wireMiddleware(log *logger.Logger, s Services) *httpMW.AuthMiddleware {
	return httpMW.NewAuthMiddleware(log, s.Auth, s.User)
}

func pingDB(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
