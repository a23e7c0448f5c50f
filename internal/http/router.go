package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/zerodesign/zerodesign-backend/internal/http/handlers"
	httpMW "github.com/zerodesign/zerodesign-backend/internal/http/middleware"
	"github.com/zerodesign/zerodesign-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler    *httpH.HealthHandler
	AuthHandler      *httpH.AuthHandler
	UserHandler      *httpH.UserHandler
	CO2Handler       *httpH.CO2Handler
	SettingsHandler  *httpH.SettingsHandler
	ExportHandler    *httpH.ExportHandler
	PassportHandler  *httpH.PassportHandler
	ReferenceHandler *httpH.ReferenceHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachRequestContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/health", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/signup", cfg.AuthHandler.Signup)
			api.POST("/signin", cfg.AuthHandler.Signin)
			api.POST("/forgot-password", cfg.AuthHandler.ForgotPassword)
			api.POST("/check-reset-token", cfg.AuthHandler.CheckResetToken)
			api.POST("/reset-password", cfg.AuthHandler.ResetPassword)
		}

		// Reference data (public)
		if cfg.ReferenceHandler != nil {
			api.GET("/fabric-co2", cfg.ReferenceHandler.FabricCO2)
			api.GET("/fabric-types", cfg.ReferenceHandler.FabricTypes)
			api.GET("/compositions", cfg.ReferenceHandler.Compositions)
			api.GET("/fabric-search", cfg.ReferenceHandler.FabricSearch)
			api.GET("/search", cfg.ReferenceHandler.Search)
		}
	}

	protected := api.Group("/")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}

	// User
	if cfg.UserHandler != nil {
		protected.GET("/user/profile", cfg.UserHandler.GetProfile)
		protected.POST("/user/update-profile", cfg.UserHandler.UpdateProfile)
		protected.GET("/user/preferences", cfg.UserHandler.GetPreferences)
		protected.POST("/user/preferences", cfg.UserHandler.SetPreferences)
	}
	if cfg.AuthHandler != nil {
		protected.POST("/user/change-password", cfg.AuthHandler.ChangePassword)
	}

	// CO2
	if cfg.CO2Handler != nil {
		protected.GET("/co2/items", cfg.CO2Handler.Items)
		protected.POST("/co2/calculate", cfg.CO2Handler.Calculate)
		protected.GET("/co2/calculations", cfg.CO2Handler.Calculations)
		protected.POST("/co2/threshold-check", cfg.CO2Handler.ThresholdCheck)
	}

	// Settings
	if cfg.SettingsHandler != nil {
		protected.GET("/settings", cfg.SettingsHandler.List)
		admin := protected.Group("/")
		if cfg.AuthMiddleware != nil {
			admin.Use(cfg.AuthMiddleware.RequireAdmin())
		}
		admin.POST("/settings", cfg.SettingsHandler.Update)
	}

	// Export
	if cfg.ExportHandler != nil {
		protected.POST("/export/csv", cfg.ExportHandler.CSV)
		protected.POST("/export/preview", cfg.ExportHandler.Preview)
		protected.GET("/export/calculations/:id/chart.png", cfg.ExportHandler.Chart)
	}

	// Passports
	if cfg.PassportHandler != nil {
		protected.POST("/passports", cfg.PassportHandler.Create)
		protected.GET("/passports", cfg.PassportHandler.List)
		protected.GET("/passports/:id", cfg.PassportHandler.Get)
	}

	return r
}
