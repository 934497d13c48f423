package ai

import (
	"context"
	"fmt"

	"github.com/zhouzirui/pirate-chat/internal/model/chat"
)

// EchoGenerator repeats the last user message; it needs no credentials and is
// meant for local development.
type EchoGenerator struct{}

// NewEchoGenerator creates a new echo generator.
func NewEchoGenerator() *EchoGenerator {
	return &EchoGenerator{}
}

// Generate returns the last user message with an "Echo: " prefix.
func (e *EchoGenerator) Generate(ctx context.Context, history []chat.Message, maxNewTokens int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(history) == 0 {
		return "", ErrEmptyHistory
	}

	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == chat.RoleUser {
			return fmt.Sprintf("Echo: %s", history[i].Content), nil
		}
	}
	return "Echo: No user message found", nil
}

// Name returns the provider name.
func (e *EchoGenerator) Name() string {
	return "echo"
}
