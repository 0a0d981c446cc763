package usecase

import (
	"context"
	"fmt"
	"time"
)

// User is the slice of the profile store this service reads: the
// application a user belongs to and their registered device tokens.
type User struct {
	UID       string
	Name      string
	AppID     string
	FCMToken  string
	FCMTokens []string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeleteAt  *time.Time
}

// CleanupTokens removes device tokens the push provider reported as no
// longer registered. Runs in the worker, off the request path.
func (u Usecase) CleanupTokens(ctx context.Context, tokens []string) error {
	for _, token := range tokens {
		affected, err := u.repo.RemoveFCMToken(ctx, token)
		if err != nil {
			return fmt.Errorf("remove fcm token: %w", err)
		}
		u.logger.Info("removed stale fcm token", "users_affected", affected)
	}
	return nil
}
