package ai

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/voca-ai/voca-backend/internal/config"
	interviewmodel "github.com/voca-ai/voca-backend/internal/model/interview"
)

// retryBackoff is the wait before the single retry on a transient LLM error.
const retryBackoff = 500 * time.Millisecond

// Service opens LLM conversations. One shared chat model serves every
// session; the per-session dialogue history lives on the Conversation.
type Service struct {
	chatModel model.ChatModel
}

// NewService creates the AI service from configuration.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return &Service{chatModel: chatModel}, nil
}

// NewConversation opens a dialogue seeded with a system instruction.
func (s *Service) NewConversation(systemInstruction string) interviewmodel.Conversation {
	return &Conversation{
		model:   s.chatModel,
		history: []*schema.Message{schema.SystemMessage(systemInstruction)},
	}
}

// Conversation is the opaque handle owning the accumulated message history.
// It is driven by a single connection and is not safe for concurrent use.
type Conversation struct {
	model   model.ChatModel
	history []*schema.Message
}

// Send appends the prompt to the history, generates a reply, and records it.
// One retry with a short backoff covers transient network failures; anything
// beyond that is fatal to the session and surfaces to the caller.
func (c *Conversation) Send(ctx context.Context, prompt string) (string, error) {
	c.history = append(c.history, schema.UserMessage(prompt))

	var reply *schema.Message
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		reply, err = c.model.Generate(ctx, c.history)
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			break
		}
		log.Printf("[ai] generate failed (attempt %d): %v", attempt+1, err)
		if attempt == 0 {
			time.Sleep(retryBackoff)
		}
	}
	if err != nil {
		// Drop the unanswered prompt so the history stays consistent.
		c.history = c.history[:len(c.history)-1]
		return "", fmt.Errorf("generate reply: %w", err)
	}

	c.history = append(c.history, schema.AssistantMessage(reply.Content, nil))
	return reply.Content, nil
}
