package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/kapu/youtube-dashboard-go/internal/domain"
	dasherr "github.com/kapu/youtube-dashboard-go/pkg/errors"
)

// DashboardService is the application surface the HTTP layer exposes.
type DashboardService interface {
	Sync(ctx context.Context) (*domain.SyncResult, error)
	DashboardData(ctx context.Context) (*domain.DashboardPayload, error)
}

// Authenticator gates the protected routes.
type Authenticator interface {
	Login(password string) (string, error)
	Verify(token string) error
}

// Server is the dashboard's HTTP API.
type Server struct {
	echo    *echo.Echo
	service DashboardService
	auth    Authenticator
	logger  *zap.Logger
}

func New(service DashboardService, auth Authenticator, logger *zap.Logger) *Server {
	s := &Server{
		service: service,
		auth:    auth,
		logger:  logger,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
				logger.Warn("Request failed", fields...)
			} else {
				logger.Info("Request completed", fields...)
			}
			return nil
		},
	}))

	api := e.Group("/api")
	api.POST("/auth", s.handleAuth)
	api.POST("/verify-auth", s.handleVerifyAuth)

	protected := api.Group("", s.requireAuth)
	protected.GET("/dashboard-data", s.handleDashboardData)
	protected.POST("/sync-youtube", s.handleSync)

	s.echo = e
	return s
}

// Start blocks serving on addr until Shutdown or a listener error.
func (s *Server) Start(addr string) error {
	s.logger.Info("HTTP server starting", zap.String("addr", addr))
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the routing tree, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

type authRequest struct {
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
}

type verifyRequest struct {
	Token string `json:"token"`
}

func (s *Server) handleAuth(c echo.Context) error {
	var req authRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, dasherr.NewValidationError("invalid request body", "body", nil))
	}

	token, err := s.auth.Login(req.Password)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, authResponse{Token: token})
}

func (s *Server) handleVerifyAuth(c echo.Context) error {
	// token arrives in the body, or in the bearer header as a fallback
	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		req.Token = ""
	}
	token := req.Token
	if token == "" {
		token = bearerToken(c)
	}

	if err := s.auth.Verify(token); err != nil {
		return c.JSON(dasherr.StatusOf(err), map[string]bool{"valid": false})
	}
	return c.JSON(http.StatusOK, map[string]bool{"valid": true})
}

func (s *Server) handleDashboardData(c echo.Context) error {
	payload, err := s.service.DashboardData(c.Request().Context())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, payload)
}

func (s *Server) handleSync(c echo.Context) error {
	result, err := s.service.Sync(c.Request().Context())
	if err != nil {
		s.logger.Error("Sync failed", zap.Error(err))
		return c.JSON(dasherr.StatusOf(err), map[string]any{
			"success": false,
			"error":   err.Error(),
			"code":    dasherr.CodeOf(err),
		})
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := s.auth.Verify(bearerToken(c)); err != nil {
			return errorJSON(c, err)
		}
		return next(c)
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimPrefix(header, prefix)
}

func errorJSON(c echo.Context, err error) error {
	return c.JSON(dasherr.StatusOf(err), map[string]string{
		"error": err.Error(),
		"code":  dasherr.CodeOf(err),
	})
}
