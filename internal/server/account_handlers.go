package server

import (
	"github.com/labstack/echo/v4"
)

// DeleteAccountHandler deletes the authenticated user's auth account.
// AuthMiddleware has already verified the bearer token and put the uid
// into the request context.
func (s *Server) DeleteAccountHandler(ctx echo.Context) error {
	if err := s.server.DeleteAccount(ctx.Request().Context()); err != nil {
		return ctx.JSON(401, ErrorRes{Error: err.Error()})
	}

	return ctx.JSON(200, MessageRes{
		Success: true,
		Message: "User deleted successfully",
	})
}
