package usecase

import (
	"context"
	"fmt"

	"github.com/DanialAhmed94/festival-rumour/internal/config"
)

// used by middleware
func (u Usecase) VerifyIDToken(ctx context.Context, token string) (string, error) {
	return u.identityProvider.VerifyIDToken(ctx, token)
}

// DeleteAccount removes the authenticated user's auth account. The uid is
// taken from the request context placed there by the auth middleware.
// The profile row is left untouched; this endpoint only revokes sign-in.
func (u Usecase) DeleteAccount(ctx context.Context) error {
	uid, ok := ctx.Value(config.CTX_KEY_USER_UID).(string)
	if !ok {
		return fmt.Errorf("user uid not found in context")
	}

	u.logger.Info("deleting auth account", "uid", uid)
	return u.identityProvider.DeleteUser(ctx, uid)
}
