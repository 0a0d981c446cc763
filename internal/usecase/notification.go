package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultNotificationTitle is used when the caller supplies no title.
const DefaultNotificationTitle = "New Message"

const (
	notificationType = "custom_message"

	// lookupConcurrency bounds the profile-store fan-out; lookups are
	// the dominant latency cost when recipient lists are large.
	lookupConcurrency = 8
)

var ErrUserNotFound = errors.New("user not found")

// ChatNotification is one logical chat event to be pushed out.
type ChatNotification struct {
	RecipientIDs []string
	Title        string
	Message      string
	ChatRoomID   string
	ChatRoomName string
}

// PushMessage is the provider-agnostic payload of a multicast send.
// It is identical for every recipient of one request.
type PushMessage struct {
	Title string
	Body  string
	Data  map[string]string
}

type TokenOutcome struct {
	Token   string
	Success bool
	Error   string
	// Unregistered marks tokens the provider reports as no longer
	// valid, eligible for cleanup.
	Unregistered bool
}

type DispatchResult struct {
	SentCount   int
	FailedCount int
	Outcomes    []TokenOutcome
}

// SendChatNotification resolves recipients to device tokens and issues a
// single batched multicast. An empty token set is a valid outcome, not an
// error: the provider is never called and the zero result is returned.
func (u Usecase) SendChatNotification(ctx context.Context, n ChatNotification) (DispatchResult, error) {
	recipients, err := u.resolveRecipients(ctx, n.RecipientIDs)
	if err != nil {
		return DispatchResult{}, err
	}

	resolved := selectTokens(recipients)
	if len(resolved) == 0 {
		u.logger.Info("no valid fcm tokens resolved",
			"requested", len(n.RecipientIDs),
			"qualifying", len(recipients),
		)
		return DispatchResult{}, nil
	}

	tokens := make([]string, len(resolved))
	for i, r := range resolved {
		tokens[i] = r.token
	}

	msg := buildPushMessage(n, time.Now())

	outcomes, err := u.pushProvider.SendMulticast(ctx, tokens, msg)
	if err != nil {
		return DispatchResult{}, fmt.Errorf("send multicast: %w", err)
	}

	result := DispatchResult{Outcomes: outcomes}
	var stale []string
	for i, o := range outcomes {
		if o.Success {
			result.SentCount++
			continue
		}
		result.FailedCount++
		// Token values are credentials; log the owning recipient instead.
		uid := ""
		if i < len(resolved) {
			uid = resolved[i].uid
		}
		u.logger.Warn("push delivery failed",
			"uid", uid,
			"unregistered", o.Unregistered,
			"err", o.Error,
		)
		if o.Unregistered {
			stale = append(stale, o.Token)
		}
	}

	// Cleanup is best effort; a full queue never fails the dispatch.
	if len(stale) > 0 && u.queue != nil {
		if err := u.queue.EnqueueTokenCleanup(ctx, stale); err != nil {
			u.logger.Warn("failed to enqueue token cleanup",
				"count", len(stale), "err", err)
		}
	}

	u.logger.Info("chat notification dispatched",
		"tokens", len(tokens),
		"sent", result.SentCount,
		"failed", result.FailedCount,
	)
	return result, nil
}

// resolveRecipients collapses duplicate ids, fetches each unique id from
// the profile store exactly once and keeps only records belonging to the
// configured application. Result order is the first-seen order of ids;
// missing records are skipped silently.
func (u Usecase) resolveRecipients(ctx context.Context, ids []string) ([]User, error) {
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	records := make([]*User, len(unique))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupConcurrency)
	for i, id := range unique {
		g.Go(func() error {
			user, err := u.repo.GetUserByUID(gctx, id)
			if errors.Is(err, ErrUserNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("get user %s: %w", id, err)
			}
			records[i] = &user
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	users := make([]User, 0, len(unique))
	for _, r := range records {
		if r == nil {
			continue
		}
		if r.AppID != u.appID {
			continue
		}
		users = append(users, *r)
	}
	return users, nil
}

// resolvedToken pairs a device token with the recipient it came from.
// The uid is carried for logging only and never sent to the provider.
type resolvedToken struct {
	token string
	uid   string
}

// selectTokens picks at most one token per user (dedicated token field
// wins over the token list) and drops duplicate tokens across users,
// preserving first-occurrence order. A shared token keeps its first owner.
func selectTokens(users []User) []resolvedToken {
	seen := make(map[string]struct{}, len(users))
	resolved := make([]resolvedToken, 0, len(users))
	for _, user := range users {
		token := user.FCMToken
		if token == "" && len(user.FCMTokens) > 0 {
			token = user.FCMTokens[0]
		}
		if token == "" {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		resolved = append(resolved, resolvedToken{token: token, uid: user.UID})
	}
	return resolved
}

func buildPushMessage(n ChatNotification, sentAt time.Time) PushMessage {
	title := n.Title
	if title == "" {
		title = DefaultNotificationTitle
	}
	if room := strings.TrimSpace(n.ChatRoomName); room != "" {
		title = room + " · " + title
	}

	data := map[string]string{
		"type":   notificationType,
		"sentAt": strconv.FormatInt(sentAt.UnixMilli(), 10),
	}
	if n.ChatRoomID != "" {
		data["chatRoomId"] = n.ChatRoomID
	}

	return PushMessage{
		Title: title,
		Body:  n.Message,
		Data:  data,
	}
}
