package firebase

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

var ErrNotConfigured = errors.New("firebase is not configured")

// SetUpFireBase initialises the Firebase app from a service account file.
// An empty path returns (nil, nil) and push delivery stays disabled.
func SetUpFireBase(ctx context.Context, credentialsFile string) (*firebase.App, error) {
	if credentialsFile == "" {
		return nil, nil
	}
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("firebase init: %w", err)
	}
	return app, nil
}

// PushSender delivers notifications through Firebase Cloud Messaging.
type PushSender struct {
	app *firebase.App
}

func NewPushSender(app *firebase.App) *PushSender {
	return &PushSender{app: app}
}

func (p *PushSender) Enabled() bool {
	return p != nil && p.app != nil
}

func (p *PushSender) Send(ctx context.Context, token, title, body string) error {
	if !p.Enabled() {
		return ErrNotConfigured
	}

	client, err := p.app.Messaging(ctx)
	if err != nil {
		return fmt.Errorf("firebase messaging client: %w", err)
	}

	_, err = client.Send(ctx, &messaging.Message{
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Token: token,
	})
	return err
}
