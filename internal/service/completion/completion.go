// Package completion sends an enhanced conversation to a chat-completion provider.
package completion

import (
	"context"

	"github.com/fmckeffi/healthdesk/backend/internal/model/chat"
)

// Sampling parameters used for every consultation reply.
const (
	Temperature = 0.7
	MaxTokens   = 500
	TopP        = 1.0
)

// Result is the assistant reply plus the provider's token accounting, when reported.
type Result struct {
	Content string
	Usage   *chat.Usage
}

// Client produces one assistant reply for a conversation. Implementations make
// a single attempt and do not retry.
type Client interface {
	Complete(ctx context.Context, messages []chat.Message) (*Result, error)
}
