package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/profileapp/profile-service/docs"
	"github.com/profileapp/profile-service/internal/api/handler"
	"github.com/profileapp/profile-service/internal/api/middleware"
	"github.com/profileapp/profile-service/internal/core/ports"
	"github.com/profileapp/profile-service/internal/pkg/observability"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Auth     ports.AuthService
	Sessions ports.SessionManager
	Limiter  ports.RateLimiter
	Gate     middleware.Gate
	Health   *handler.HealthHandler

	Session           middleware.SessionConfig
	RateLimitInterval time.Duration

	// Now feeds the rate limiter; nil means time.Now.
	Now func() time.Time
	// Registry receives the HTTP metrics; nil means the default registry.
	Registry *prometheus.Registry

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.RecoverWithConfig(echomiddleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			observability.CapturePanic(err, stack)
			d.Log.Error().Err(err).Str("path", c.Path()).Msg("panic recovered")
			return err
		},
	}))
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(metricsMiddleware(d.Registry))

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth)
	session := middleware.Session(d.Sessions, d.Session)
	limit := middleware.RateLimit(d.Limiter, d.RateLimitInterval, d.Now)
	requireAuth := middleware.RequireAuth(d.Gate)

	e.GET("/", authHandler.Welcome)
	e.GET("/register", authHandler.RegisterForm)
	e.GET("/login", authHandler.LoginForm)

	e.POST("/register", authHandler.Register, session, limit)
	e.POST("/login", authHandler.Login, session, limit)
	e.POST("/logout", authHandler.Logout, session, limit)
	e.GET("/profile", authHandler.Profile, session, limit, requireAuth)

	// --- Health probes (no session required) ---
	if d.Health != nil {
		e.GET("/health", d.Health.Liveness)        // liveness  – is the process alive?
		e.GET("/health/ready", d.Health.Readiness) // readiness – are dependencies up?
	}

	// --- Operational endpoints ---
	e.GET("/metrics", metricsHandler(d.Registry))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

func metricsMiddleware(reg *prometheus.Registry) echo.MiddlewareFunc {
	cfg := echoprometheus.MiddlewareConfig{Subsystem: "http"}
	if reg != nil {
		cfg.Registerer = reg
	}
	return echoprometheus.NewMiddlewareWithConfig(cfg)
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}
