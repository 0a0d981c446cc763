package usecase

import (
	"context"
	"log/slog"
)

func New(
	repo Repository,
	ip IdentityProvider,
	pp PushProvider,
	qc QueueClient,
	appID string,
	logger *slog.Logger,
) Usecase {
	return Usecase{
		repo:             repo,
		identityProvider: ip,
		pushProvider:     pp,
		queue:            qc,
		appID:            appID,
		logger:           logger,
	}
}

type Repository interface {
	Health() map[string]string
	Close() error

	GetUserByUID(context.Context, string) (User, error)
	RemoveFCMToken(context.Context, string) (int64, error)
}

// IdentityProvider wraps the auth side of Firebase.
type IdentityProvider interface {
	VerifyIDToken(ctx context.Context, token string) (string, error)
	DeleteUser(ctx context.Context, uid string) error
}

// PushProvider issues one batched multicast send and reports a
// per-token outcome in the same order as the input tokens.
type PushProvider interface {
	SendMulticast(ctx context.Context, tokens []string, msg PushMessage) ([]TokenOutcome, error)
}

// QueueClient enqueues background tasks. May be nil in processes
// that never enqueue (e.g. the worker itself).
type QueueClient interface {
	EnqueueTokenCleanup(ctx context.Context, tokens []string) error
}

type Usecase struct {
	repo             Repository
	identityProvider IdentityProvider
	pushProvider     PushProvider
	queue            QueueClient
	appID            string
	logger           *slog.Logger
}

func (u Usecase) Health() map[string]string {
	return u.repo.Health()
}

func (u Usecase) Close() error {
	return u.repo.Close()
}
