package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"

	"github.com/DanialAhmed94/festival-rumour/internal/cache"
	"github.com/DanialAhmed94/festival-rumour/internal/config"
	"github.com/DanialAhmed94/festival-rumour/internal/database"
	"github.com/DanialAhmed94/festival-rumour/internal/firebase"
	"github.com/DanialAhmed94/festival-rumour/internal/queue"
	"github.com/DanialAhmed94/festival-rumour/internal/usecase"
)

// Service is what the HTTP layer needs from the domain layer.
type Service interface {
	// Health returns a map of health status information.
	Health() map[string]string

	// Close terminates the database connection.
	Close() error

	// SendChatNotification resolves recipients to device tokens and
	// multicasts one push notification; the result carries per-token
	// outcomes.
	SendChatNotification(context.Context, usecase.ChatNotification) (usecase.DispatchResult, error)

	VerifyIDToken(ctx context.Context, token string) (string, error)
	DeleteAccount(ctx context.Context) error
}

type Server struct {
	port int

	server    Service
	validator *validator.Validate
	logger    *slog.Logger
}

// App bundles the HTTP server with the process-wide collaborators it
// owns, so main can shut everything down in one place.
type App struct {
	httpServer *http.Server
	service    Service
	queue      *queue.Client
}

// NewApp assembles the API process: profile store (optionally wrapped in
// a redis read-through cache), the Firebase handle, the queue client and
// the echo routes. All handles are created once and shared by every
// request.
func NewApp(logger *slog.Logger) (*App, error) {
	repo := database.New()

	var (
		redisAddr = fmt.Sprintf("%s:%s",
			os.Getenv(config.ENV_KEY_REDIS_HOST),
			os.Getenv(config.ENV_KEY_REDIS_PORT),
		)
		redisPassword = os.Getenv(config.ENV_KEY_REDIS_PASSWORD)
	)

	var store usecase.Repository = repo
	if os.Getenv(config.ENV_KEY_REDIS_HOST) != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: redisPassword,
		})
		ttl := 5 * time.Minute
		if raw := os.Getenv(config.ENV_KEY_USER_CACHE_TTL_SECONDS); raw != "" {
			if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
				ttl = time.Duration(secs) * time.Second
			}
		}
		store = cache.NewUserStore(repo, rdb, ttl)
	}

	fb := firebase.New()
	qc := queue.NewClient(redisAddr, redisPassword)

	appID := os.Getenv(config.ENV_KEY_APP_IDENTIFIER)
	if appID == "" {
		return nil, fmt.Errorf("%s is required", config.ENV_KEY_APP_IDENTIFIER)
	}

	uc := usecase.New(store, fb, fb, qc, appID, logger)

	port, _ := strconv.Atoi(os.Getenv(config.ENV_KEY_PORT))
	s := &Server{
		port:      port,
		server:    uc,
		validator: validator.New(),
		logger:    logger,
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return &App{
		httpServer: httpServer,
		service:    uc,
		queue:      qc,
	}, nil
}

func (a *App) Addr() string {
	return a.httpServer.Addr
}

func (a *App) ListenAndServe() error {
	return a.httpServer.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.httpServer.Shutdown(ctx)
	if qerr := a.queue.Close(); qerr != nil && err == nil {
		err = qerr
	}
	if cerr := a.service.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
