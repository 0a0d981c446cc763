package firebase

import (
	"context"
	"fmt"
	"log"
	"os"

	fb "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/messaging"
	_ "github.com/joho/godotenv/autoload"
	"google.golang.org/api/option"

	"github.com/DanialAhmed94/festival-rumour/internal/usecase"
)

var path = os.Getenv("FIREBASE_SERVICE_ACCOUNT_KEY_PATH")

// androidChannelID is the notification channel the mobile client
// registers for chat messages.
const androidChannelID = "chat_messages"

// MessagingClient is the subset of the Firebase messaging API we use.
// *messaging.Client satisfies it; tests substitute a mock.
type MessagingClient interface {
	SendEachForMulticast(ctx context.Context, msg *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// New initializes the Firebase app once at process start. The returned
// handle is shared by all requests and never reinitialized.
func New() *Firebase {
	ctx := context.Background()
	sa := option.WithCredentialsFile(path)
	app, err := fb.NewApp(ctx, nil, sa)
	if err != nil {
		log.Fatalf("error initializing app: %v\n", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		log.Fatalf("error getting Auth client: %v\n", err)
	}
	message, err := app.Messaging(ctx)
	if err != nil {
		log.Fatalf("error getting Messaging client: %v\n", err)
	}

	return &Firebase{auth: client, message: message}
}

type Firebase struct {
	auth    *auth.Client
	message MessagingClient
}

// used by middleware
func (f *Firebase) VerifyIDToken(ctx context.Context, token string) (string, error) {
	t, err := f.auth.VerifyIDToken(ctx, token)
	if err != nil {
		return "", err
	}
	return t.UID, nil
}

func (f *Firebase) DeleteUser(ctx context.Context, uid string) error {
	return f.auth.DeleteUser(ctx, uid)
}

// SendMulticast addresses one batched send to all tokens at once and maps
// the provider's batch response to one outcome per token, in input order.
// Only a failure of the batch call itself is returned as an error.
func (f *Firebase) SendMulticast(ctx context.Context, tokens []string, msg usecase.PushMessage) ([]usecase.TokenOutcome, error) {
	badge := 1

	m := &messaging.MulticastMessage{
		Tokens: tokens,
		Data:   msg.Data,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: androidChannelID,
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
					Badge: &badge,
				},
			},
		},
	}

	br, err := f.message.SendEachForMulticast(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("fcm multicast: %w", err)
	}

	outcomes := make([]usecase.TokenOutcome, len(br.Responses))
	for i, resp := range br.Responses {
		o := usecase.TokenOutcome{
			Token:   tokens[i],
			Success: resp.Success,
		}
		if !resp.Success && resp.Error != nil {
			o.Error = resp.Error.Error()
			o.Unregistered = messaging.IsRegistrationTokenNotRegistered(resp.Error) ||
				messaging.IsInvalidArgument(resp.Error)
		}
		outcomes[i] = o
	}

	return outcomes, nil
}
