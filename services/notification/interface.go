package notification

import (
	"context"

	"chime/models"
)

// Channel sends a reminder text to an owner over one delivery channel.
// Failure surfaces as an error; the engine records it on the execution and
// never retries.
type Channel interface {
	Send(ctx context.Context, channel models.ChannelType, ownerID, text string) error
}
