package notification

import (
	"context"
	"fmt"

	"chime/models"
	"chime/utils"

	"firebase.google.com/go/v4/messaging"
)

// TokenResolver looks up an owner's registered FCM device token.
type TokenResolver func(ctx context.Context, ownerID string) (string, error)

// FCMChannel delivers reminders as Firebase push messages. Non-push channel
// tags (sms, voice, voicemail) ride along as a category in the data payload
// and are rendered by the device-side companion app.
type FCMChannel struct {
	tokens TokenResolver
}

// NewFCMChannel builds the production push channel.
func NewFCMChannel(tokens TokenResolver) (*FCMChannel, error) {
	if tokens == nil {
		return nil, fmt.Errorf("fcm channel initialization error: token resolver is nil")
	}
	return &FCMChannel{tokens: tokens}, nil
}

// Send pushes the reminder text to the owner's device.
func (c *FCMChannel) Send(ctx context.Context, channel models.ChannelType, ownerID, text string) error {
	token, err := c.tokens(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("Send: could not resolve device token for %s: %w", ownerID, err)
	}
	if token == "" {
		return fmt.Errorf("Send: owner %s has no device token", ownerID)
	}

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: "Reminder",
			Body:  text,
		},
		Data: map[string]string{
			"channel": string(channel),
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}

	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		return fmt.Errorf("Send: failed to send FCM message: %w", err)
	}
	return nil
}
