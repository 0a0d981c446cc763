package server

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/DanialAhmed94/festival-rumour/internal/usecase"
)

type SendChatNotificationRequest struct {
	UserIDs      []string `json:"userIds" validate:"required,min=1"`
	Message      string   `json:"message" validate:"required"`
	Title        string   `json:"title"`
	ChatRoomID   string   `json:"chatRoomId"`
	ChatRoomName string   `json:"chatRoomName"`
}

// SendChatNotification is the dispatch endpoint: validate, resolve,
// multicast, summarize. Only counts go back to the caller; per-token
// outcomes are logged by the usecase.
func (s *Server) SendChatNotification(ctx echo.Context) error {
	var req SendChatNotificationRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, ErrorRes{Error: bindMessage(err)})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(400, ErrorRes{Error: validationMessage(err)})
	}

	// Tokens and message bodies never reach the request log.
	s.logger.Info("chat notification request",
		"recipients", len(req.UserIDs),
		"message_len", len(req.Message),
		"chat_room_id", req.ChatRoomID,
		"chat_room_name", req.ChatRoomName,
	)

	// A caller disconnect must not abort an in-flight dispatch; only the
	// report to that caller is lost.
	dispatchCtx := context.WithoutCancel(ctx.Request().Context())

	result, err := s.server.SendChatNotification(dispatchCtx, usecase.ChatNotification{
		RecipientIDs: req.UserIDs,
		Title:        req.Title,
		Message:      req.Message,
		ChatRoomID:   req.ChatRoomID,
		ChatRoomName: req.ChatRoomName,
	})
	if err != nil {
		return ctx.JSON(500, ErrorRes{Error: err.Error()})
	}

	if len(result.Outcomes) == 0 {
		return ctx.JSON(200, SendNotificationRes{
			Success:   true,
			Message:   "No valid FCM tokens found",
			SentCount: 0,
		})
	}

	failed := result.FailedCount
	return ctx.JSON(200, SendNotificationRes{
		Success:     true,
		Message:     "Notifications processed",
		SentCount:   result.SentCount,
		FailedCount: &failed,
	})
}

// bindMessage keeps malformed bodies behind the same stable strings as
// struct validation; json internals never reach the caller.
func bindMessage(err error) string {
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) {
		switch ute.Field {
		case "userIds":
			return "userIds array is required"
		case "message":
			return "message is required"
		}
	}
	return "Invalid request body"
}

// validationMessage maps validator errors to the stable strings mobile
// clients match on.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Field() {
		case "UserIDs":
			return "userIds array is required"
		case "Message":
			return "message is required"
		}
	}
	return err.Error()
}
