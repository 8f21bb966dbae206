package server

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/cirqle/cirqle-api/internal/handler"
	"github.com/cirqle/cirqle-api/internal/middleware"
	"github.com/cirqle/cirqle-api/internal/service"
	"github.com/cirqle/cirqle-api/pkg/config"
	"github.com/cirqle/cirqle-api/pkg/logger"
	corsmiddleware "github.com/cirqle/cirqle-api/pkg/middleware/cors"
	reqidmiddleware "github.com/cirqle/cirqle-api/pkg/middleware/requestid"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	Host         *handler.HostHandler
	Preferences  *handler.PreferencesHandler
	Agenda       *handler.AgendaHandler
	Availability *handler.AvailabilityHandler
	Booking      *handler.BookingHandler
	Flow         *handler.FlowHandler
	Email        *handler.EmailHandler
	Metrics      *handler.MetricsHandler
}

// Dependencies are the cross-cutting collaborators of the router.
type Dependencies struct {
	Config    *config.Config
	Logger    *zap.Logger
	Metrics   *service.MetricsService
	Tokens    middleware.TokenValidator
	RateLimit *middleware.RateLimiter
}

// NewRouter builds the gin engine with the public, auth and host routes.
func NewRouter(deps Dependencies, h Handlers) *gin.Engine {
	cfg := deps.Config
	logr := deps.Logger
	if logr == nil {
		logr = zap.NewNop()
	}
	limit := deps.RateLimit
	if limit == nil {
		limit = middleware.NewRateLimiter(0, 0, logr)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Metrics))

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	email := r.Group("/api/email", limit.Middleware())
	email.POST("/welcome", h.Email.Welcome)
	email.POST("/contact", h.Email.Contact)

	api := r.Group(cfg.APIPrefix)
	requireAuth := middleware.JWT(deps.Tokens)

	api.GET("/usernames/:username/availability", middleware.OptionalJWT(deps.Tokens), h.Host.CheckUsername)

	hosts := api.Group("/hosts/:username")
	hosts.GET("", h.Host.PublicProfile)
	hosts.GET("/calendar", h.Availability.Calendar)
	hosts.GET("/slots", h.Availability.Slots)
	hosts.POST("/bookings", limit.Middleware(), h.Booking.Create)
	hosts.POST("/sessions", h.Flow.Start)

	sessions := api.Group("/sessions/:id")
	sessions.GET("", h.Flow.Get)
	sessions.PUT("/service", h.Flow.ChooseService)
	sessions.PUT("/date", h.Flow.ChooseDate)
	sessions.PUT("/time", h.Flow.ChooseTime)
	sessions.POST("/back", h.Flow.Back)
	sessions.POST("/confirm", limit.Middleware(), h.Flow.Confirm)

	auth := api.Group("/auth")
	auth.POST("/signup", limit.Middleware(), h.Auth.Signup)
	auth.POST("/login", limit.Middleware(), h.Auth.Login)
	auth.POST("/verify-email/confirm", h.Auth.VerifyEmail)
	auth.POST("/forgot-password", limit.Middleware(), h.Auth.ForgotPassword)
	auth.POST("/reset-password", h.Auth.ResetPassword)
	auth.GET("/me", requireAuth, h.Auth.Me)
	auth.POST("/verify-email", requireAuth, limit.Middleware(), h.Auth.SendVerification)

	me := api.Group("/me", requireAuth)
	me.GET("/calendar-settings", h.Host.CalendarSettings)
	me.PUT("/calendar-settings", middleware.Audit(logr, "calendar_settings.update"), h.Host.UpdateCalendarSettings)
	me.PUT("/username", middleware.Audit(logr, "username.claim"), h.Host.ClaimUsername)
	me.GET("/preferences", h.Preferences.Get)
	me.PUT("/preferences", middleware.Audit(logr, "preferences.update"), h.Preferences.Update)
	me.GET("/bookings", h.Agenda.List)
	me.GET("/bookings/export", h.Agenda.Export)

	return r
}
