package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/DanialAhmed94/festival-rumour/internal/usecase"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Health() map[string]string {
	return m.Called().Get(0).(map[string]string)
}

func (m *MockService) Close() error {
	return m.Called().Error(0)
}

func (m *MockService) SendChatNotification(ctx context.Context, n usecase.ChatNotification) (usecase.DispatchResult, error) {
	args := m.Called(ctx, n)
	return args.Get(0).(usecase.DispatchResult), args.Error(1)
}

func (m *MockService) VerifyIDToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func (m *MockService) DeleteAccount(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func newTestServer(svc Service) *Server {
	return &Server{
		server:    svc,
		validator: validator.New(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func doRequest(t *testing.T, s *Server, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.RegisterRoutes().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSendChatNotificationHandler(t *testing.T) {
	const path = "/api/v1/notifications/chat"

	t.Run("missing userIds", func(t *testing.T) {
		svc := new(MockService)
		s := newTestServer(svc)

		rec := doRequest(t, s, http.MethodPost, path, `{"message":"hi"}`, nil)

		assert.Equal(t, 400, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "userIds array is required", body["error"])
		svc.AssertNotCalled(t, "SendChatNotification", mock.Anything, mock.Anything)
	})

	t.Run("empty userIds", func(t *testing.T) {
		svc := new(MockService)
		s := newTestServer(svc)

		rec := doRequest(t, s, http.MethodPost, path, `{"userIds":[],"message":"hi"}`, nil)

		assert.Equal(t, 400, rec.Code)
		assert.Equal(t, "userIds array is required", decodeBody(t, rec)["error"])
	})

	t.Run("userIds not a sequence", func(t *testing.T) {
		svc := new(MockService)
		s := newTestServer(svc)

		rec := doRequest(t, s, http.MethodPost, path, `{"userIds":"u1","message":"hi"}`, nil)

		assert.Equal(t, 400, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "userIds array is required", body["error"])
		svc.AssertNotCalled(t, "SendChatNotification", mock.Anything, mock.Anything)
	})

	t.Run("malformed body stays behind a generic message", func(t *testing.T) {
		svc := new(MockService)
		s := newTestServer(svc)

		rec := doRequest(t, s, http.MethodPost, path, `{"userIds":[`, nil)

		assert.Equal(t, 400, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Invalid request body", body["error"])
		assert.NotContains(t, body["error"], "unmarshal")
	})

	t.Run("missing message", func(t *testing.T) {
		svc := new(MockService)
		s := newTestServer(svc)

		rec := doRequest(t, s, http.MethodPost, path, `{"userIds":["u1"]}`, nil)

		assert.Equal(t, 400, rec.Code)
		assert.Equal(t, "message is required", decodeBody(t, rec)["error"])
	})

	t.Run("non-POST method", func(t *testing.T) {
		svc := new(MockService)
		s := newTestServer(svc)

		rec := doRequest(t, s, http.MethodGet, path, "", nil)

		assert.Equal(t, 405, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Contains(t, body["error"], "Method Not Allowed")
	})

	t.Run("no resolvable tokens", func(t *testing.T) {
		svc := new(MockService)
		s := newTestServer(svc)

		svc.On("SendChatNotification", mock.Anything, mock.Anything).
			Return(usecase.DispatchResult{}, nil)

		rec := doRequest(t, s, http.MethodPost, path, `{"userIds":["u3"],"message":"hi"}`, nil)

		assert.Equal(t, 200, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "No valid FCM tokens found", body["message"])
		assert.Equal(t, float64(0), body["sentCount"])
		_, hasFailed := body["failedCount"]
		assert.False(t, hasFailed)
	})

	t.Run("dispatch completed", func(t *testing.T) {
		svc := new(MockService)
		s := newTestServer(svc)

		svc.On("SendChatNotification", mock.Anything, usecase.ChatNotification{
			RecipientIDs: []string{"u1", "u2"},
			Title:        "Alice",
			Message:      "hi",
			ChatRoomID:   "r1",
			ChatRoomName: "Jazz Fest",
		}).Return(usecase.DispatchResult{
			SentCount:   2,
			FailedCount: 1,
			Outcomes: []usecase.TokenOutcome{
				{Token: "t1", Success: true},
				{Token: "t2", Success: true},
				{Token: "t3", Success: false, Error: "unregistered"},
			},
		}, nil)

		rec := doRequest(t, s, http.MethodPost, path,
			`{"userIds":["u1","u2"],"message":"hi","title":"Alice","chatRoomId":"r1","chatRoomName":"Jazz Fest"}`, nil)

		assert.Equal(t, 200, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "Notifications processed", body["message"])
		assert.Equal(t, float64(2), body["sentCount"])
		assert.Equal(t, float64(1), body["failedCount"])
		svc.AssertExpectations(t)
	})

	t.Run("dispatch outlives caller disconnect", func(t *testing.T) {
		svc := new(MockService)
		s := newTestServer(svc)

		dispatchErr := errors.New("not observed")
		svc.On("SendChatNotification", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				dispatchErr = args.Get(0).(context.Context).Err()
			}).
			Return(usecase.DispatchResult{
				SentCount: 1,
				Outcomes:  []usecase.TokenOutcome{{Token: "t1", Success: true}},
			}, nil)

		req := httptest.NewRequest(http.MethodPost, path,
			strings.NewReader(`{"userIds":["u1"],"message":"hi"}`))
		req.Header.Set("Content-Type", "application/json")
		reqCtx, cancel := context.WithCancel(req.Context())
		cancel()
		req = req.WithContext(reqCtx)

		rec := httptest.NewRecorder()
		s.RegisterRoutes().ServeHTTP(rec, req)

		assert.Equal(t, 200, rec.Code)
		assert.NoError(t, dispatchErr)
	})

	t.Run("provider transport failure", func(t *testing.T) {
		svc := new(MockService)
		s := newTestServer(svc)

		svc.On("SendChatNotification", mock.Anything, mock.Anything).
			Return(usecase.DispatchResult{}, errors.New("send multicast: auth failure"))

		rec := doRequest(t, s, http.MethodPost, path, `{"userIds":["u1"],"message":"hi"}`, nil)

		assert.Equal(t, 500, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Contains(t, body["error"], "send multicast")
	})
}

func TestDeleteAccountHandler(t *testing.T) {
	const path = "/api/v1/account/delete"

	t.Run("missing authorization header", func(t *testing.T) {
		svc := new(MockService)
		s := newTestServer(svc)

		rec := doRequest(t, s, http.MethodPost, path, "", nil)

		assert.Equal(t, 401, rec.Code)
		assert.Contains(t, decodeBody(t, rec)["error"], "Authorization header")
	})

	t.Run("invalid token", func(t *testing.T) {
		svc := new(MockService)
		s := newTestServer(svc)

		svc.On("VerifyIDToken", mock.Anything, "bad-token").
			Return("", errors.New("token expired"))

		rec := doRequest(t, s, http.MethodPost, path, "", map[string]string{
			"Authorization": "Bearer bad-token",
		})

		assert.Equal(t, 401, rec.Code)
		assert.Equal(t, false, decodeBody(t, rec)["success"])
	})

	t.Run("account deleted", func(t *testing.T) {
		svc := new(MockService)
		s := newTestServer(svc)

		svc.On("VerifyIDToken", mock.Anything, "good-token").Return("uid-1", nil)
		svc.On("DeleteAccount", mock.Anything).Return(nil)

		rec := doRequest(t, s, http.MethodPost, path, "", map[string]string{
			"Authorization": "Bearer good-token",
		})

		assert.Equal(t, 200, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "User deleted successfully", body["message"])
		svc.AssertExpectations(t)
	})
}
