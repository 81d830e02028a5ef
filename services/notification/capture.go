package notification

import (
	"context"
	"fmt"
	"sync"

	"chime/models"
)

// SentMessage is one delivery recorded by the capture channel.
type SentMessage struct {
	Channel models.ChannelType
	OwnerID string
	Text    string
}

// CaptureChannel records sends in memory. Used in tests and dry runs.
type CaptureChannel struct {
	mu   sync.Mutex
	sent []SentMessage
	fail bool
}

// NewCaptureChannel constructs an empty capture channel.
func NewCaptureChannel() *CaptureChannel {
	return &CaptureChannel{}
}

// FailNext makes subsequent sends return an error.
func (c *CaptureChannel) FailNext(fail bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fail = fail
}

func (c *CaptureChannel) Send(ctx context.Context, channel models.ChannelType, ownerID, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return fmt.Errorf("channel %s unavailable", channel)
	}
	c.sent = append(c.sent, SentMessage{Channel: channel, OwnerID: ownerID, Text: text})
	return nil
}

// Sent returns a copy of everything delivered so far.
func (c *CaptureChannel) Sent() []SentMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]SentMessage(nil), c.sent...)
}
