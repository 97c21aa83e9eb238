// File: services/notification/sender.go
package notification

import (
	"context"
	"errors"
	"fmt"

	"firebase.google.com/go/v4/messaging"
)

// ErrTokenGone marks a delivery failure caused by a gone/expired registration
// token. It is the one delivery error that mutates state: the owning
// subscription gets deleted.
var ErrTokenGone = errors.New("push token is gone or expired")

// PushSender delivers one push message to one registration token.
type PushSender interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// FCMPushSender sends through Firebase Cloud Messaging.
type FCMPushSender struct {
	Client *messaging.Client
}

func (s *FCMPushSender) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}
	if _, err := s.Client.Send(ctx, msg); err != nil {
		if messaging.IsUnregistered(err) {
			return fmt.Errorf("send to %s: %w", token, ErrTokenGone)
		}
		return fmt.Errorf("failed to send FCM message: %w", err)
	}
	return nil
}
