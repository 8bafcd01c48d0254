package http

import (
	"context"
	stdhttp "net/http"

	"proposal-service/internal/access"
	"proposal-service/internal/audit"
	"proposal-service/internal/auth"
	"proposal-service/internal/config"
	"proposal-service/internal/http/handler"
	"proposal-service/internal/http/middleware"
	"proposal-service/pkg/metrics"
	"proposal-service/pkg/profiling"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const (
	jsonKeyStatus = "status"
	statusOK      = "ok"
)

type ServerDependencies struct {
	Config         *config.Config
	Logger         *zap.Logger
	Policy         *access.Policy
	AuthManager    *auth.Manager
	AuthMiddleware *auth.Middleware
	CSRFMiddleware *middleware.CSRFMiddleware
	AuditLogger    *audit.Logger
	Metrics        *metrics.Metrics
}

type Server struct {
	echo *echo.Echo
	deps *ServerDependencies
}

func NewServer(deps *ServerDependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	e.Server.ReadTimeout = deps.Config.Server.ReadTimeout
	e.Server.WriteTimeout = deps.Config.Server.WriteTimeout

	// Request ID first so every log line carries it.
	e.Use(middleware.RequestID())
	e.Use(middleware.SecurityHeaders(deps.Config.IsProduction()))
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.BodyLimit(deps.Config.Server.BodyLimit))
	e.Use(deps.Metrics.Middleware())

	globalRateLimiter := middleware.NewGlobalRateLimiter()
	e.Use(globalRateLimiter.Middleware())

	strictRateLimiter := middleware.NewStrictRateLimiter()
	publicRateLimiter := middleware.NewPublicRateLimiter()

	authHandler := handler.NewAuthHandler(deps.AuthManager, deps.AuthMiddleware, deps.CSRFMiddleware, deps.AuditLogger)
	proposalHandler := handler.NewProposalHandler(deps.Policy, deps.AuditLogger)
	publicHandler := handler.NewPublicHandler(deps.Policy, deps.AuditLogger)

	e.GET("/health", healthCheck)
	e.GET("/metrics", deps.Metrics.Handler())

	if deps.Config.App.EnableProfiling {
		profiling.RegisterRoutes(e, deps.AuthMiddleware.RequireSession())
	}

	api := e.Group("/api")

	authAPI := api.Group("/auth")
	authAPI.POST("/signup", authHandler.Signup, strictRateLimiter.Middleware())
	authAPI.POST("/login", authHandler.Login, strictRateLimiter.Middleware())
	authAPI.POST("/logout", authHandler.Logout)
	authAPI.GET("/me", authHandler.Me)

	admin := api.Group("/proposals")
	admin.Use(deps.AuthMiddleware.RequireSession())
	admin.Use(deps.CSRFMiddleware.Middleware())

	admin.GET("", proposalHandler.List)
	admin.POST("", proposalHandler.Create)
	admin.GET("/:id", proposalHandler.Get)
	admin.PUT("/:id", proposalHandler.Update)
	admin.DELETE("/:id", proposalHandler.Delete)
	admin.POST("/:id/sign", proposalHandler.Sign)
	admin.POST("/:id/reset", proposalHandler.Reset)
	admin.GET("/:id/history", proposalHandler.History)

	public := api.Group("/public/proposals")
	public.Use(publicRateLimiter.Middleware())

	public.GET("/:id", publicHandler.Get)
	public.PUT("/:id", publicHandler.Update)
	public.POST("/:id/sign", publicHandler.Sign)

	return &Server{
		echo: e,
		deps: deps,
	}
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the router for in-process tests.
func (s *Server) Handler() stdhttp.Handler {
	return s.echo
}

func healthCheck(c echo.Context) error {
	return c.JSON(stdhttp.StatusOK, map[string]string{
		jsonKeyStatus: statusOK,
	})
}
