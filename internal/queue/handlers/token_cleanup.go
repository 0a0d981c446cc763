package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

type TokenCleanupPayload struct {
	JobID  string   `json:"job_id"`
	Tokens []string `json:"tokens"`
}

// HandleTokenCleanup removes tokens FCM reported as unregistered from the
// profile store.
func (h *Handlers) HandleTokenCleanup(ctx context.Context, task *asynq.Task) error {
	var p TokenCleanupPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal token cleanup payload: %w", err)
	}

	h.logger.Info("Processing token cleanup...", "job_id", p.JobID, "count", len(p.Tokens))

	if err := h.usecase.CleanupTokens(ctx, p.Tokens); err != nil {
		h.logger.Error("Error processing token cleanup", "job_id", p.JobID, "err", err)
		return err
	}

	h.logger.Info("Token cleanup completed successfully", "job_id", p.JobID)
	return nil
}
