package completion

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/fmckeffi/healthdesk/backend/internal/model/chat"
)

// EinoClient adapts an eino chat model (Ark or an OpenAI-compatible provider
// such as Groq) to Client.
type EinoClient struct {
	model model.BaseChatModel
}

func NewEinoClient(m model.BaseChatModel) (*EinoClient, error) {
	if m == nil {
		return nil, errors.New("chat model is required")
	}
	return &EinoClient{model: m}, nil
}

func (c *EinoClient) Complete(ctx context.Context, messages []chat.Message) (*Result, error) {
	reply, err := c.model.Generate(ctx, toSchemaMessages(messages),
		model.WithTemperature(float32(Temperature)),
		model.WithMaxTokens(MaxTokens),
		model.WithTopP(float32(TopP)),
	)
	if err != nil {
		return nil, providerError(err)
	}
	if reply == nil {
		return nil, ErrInvalidFormat
	}

	result := &Result{Content: reply.Content}
	if reply.ResponseMeta != nil && reply.ResponseMeta.Usage != nil {
		usage := reply.ResponseMeta.Usage
		result.Usage = &chat.Usage{
			PromptTokens:     usage.PromptTokens,
			CompletionTokens: usage.CompletionTokens,
			TotalTokens:      usage.TotalTokens,
		}
	}
	return result, nil
}

// providerError keeps the endpoint's own failure text when the HTTP layer
// reported it, so callers see "HTTP 429 - ..." rather than the SDK's wrapping.
func providerError(err error) error {
	var statusErr *StatusError
	switch {
	case errors.As(err, &statusErr):
		return statusErr
	case errors.Is(err, ErrInvalidJSON):
		return ErrInvalidJSON
	case errors.Is(err, ErrInvalidFormat):
		return ErrInvalidFormat
	default:
		return fmt.Errorf("request failed: %w", err)
	}
}

func toSchemaMessages(messages []chat.Message) []*schema.Message {
	out := make([]*schema.Message, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case chat.RoleSystem:
			out = append(out, schema.SystemMessage(msg.Content))
		case chat.RoleAssistant:
			out = append(out, schema.AssistantMessage(msg.Content, nil))
		default:
			out = append(out, schema.UserMessage(msg.Content))
		}
	}
	return out
}
