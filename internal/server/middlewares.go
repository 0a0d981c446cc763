package server

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/DanialAhmed94/festival-rumour/internal/config"
)

// AuthMiddleware verifies the bearer token with the identity provider and
// transforms the request to carry the Firebase uid in downstream context.
func (s *Server) AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {

		auth := c.Request().Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			return c.JSON(401, ErrorRes{
				Error: "Missing or invalid Authorization header",
			})
		}
		token := strings.TrimPrefix(auth, "Bearer ")

		ctx := c.Request().Context()

		uid, err := s.server.VerifyIDToken(ctx, token)
		if err != nil {
			s.logger.Warn("token verification failed", "err", err)
			return c.JSON(401, ErrorRes{Error: err.Error()})
		}

		ctx = context.WithValue(ctx, config.CTX_KEY_USER_UID, uid)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}
