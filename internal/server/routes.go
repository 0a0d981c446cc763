package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"golang.org/x/time/rate"
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.HTTPErrorHandler = s.httpErrorHandler

	e.Use(middleware.RequestID())
	e.Use(NewEchoLogger(s.logger))
	e.Use(middleware.Recover())
	e.Use(otelecho.Middleware("festival-rumour"))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	e.GET("/api/health", s.healthHandler)

	var notificationGroup = e.Group("/api/v1/notifications")
	notificationGroup.POST("/chat", s.SendChatNotification, middleware.RateLimiter(
		middleware.NewRateLimiterMemoryStore(rate.Limit(20)),
	))

	var accountGroup = e.Group("/api/v1/account")
	accountGroup.POST("/delete", s.DeleteAccountHandler, s.AuthMiddleware)

	return e
}

// httpErrorHandler keeps the error wire format stable: every error body
// is {success:false, error:...}, including echo's own 404/405 errors.
func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := "Internal Server Error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	}
	if code == http.StatusMethodNotAllowed {
		msg = "Method Not Allowed. Use POST."
	}

	if jerr := c.JSON(code, ErrorRes{Error: msg}); jerr != nil {
		s.logger.Error("failed to write error response", "err", jerr)
	}
}
