package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/zhouzirui/pirate-chat/internal/model/chat"
)

var (
	// ErrNoCandidate is returned when a backend answers without any reply candidate.
	ErrNoCandidate = errors.New("generator returned no candidate")
	// ErrEmptyHistory is returned when there is nothing to generate from.
	ErrEmptyHistory = errors.New("conversation history is empty")
)

// Generator produces the next assistant reply for a conversation history.
// Implementations return exactly one reply per call and may block for as
// long as the backend needs.
type Generator interface {
	Generate(ctx context.Context, history []chat.Message, maxNewTokens int) (string, error)
	Name() string
}

// GenerationError reports a failed attempt to obtain a reply.
type GenerationError struct {
	Backend string
	Err     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Backend, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
