package handlers

import (
	"context"
	"log/slog"
)

// Usecase is the slice of the domain layer the worker needs.
type Usecase interface {
	CleanupTokens(ctx context.Context, tokens []string) error
}

type Handlers struct {
	usecase Usecase
	logger  *slog.Logger
}

func NewHandlers(uc Usecase, logger *slog.Logger) *Handlers {
	return &Handlers{
		usecase: uc,
		logger:  logger,
	}
}
