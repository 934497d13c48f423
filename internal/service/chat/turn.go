package chat

import (
	"context"
	"errors"

	"github.com/zhouzirui/pirate-chat/internal/model/chat"
	"github.com/zhouzirui/pirate-chat/internal/service/ai"
)

// Turn runs one exchange: it records the user input, asks the generator for
// a reply over the full history and records the reply. When generation fails
// the user message stays in the session and no assistant message is added.
func Turn(ctx context.Context, gen ai.Generator, session *chat.Session, input string, maxNewTokens int) (string, error) {
	session.Append(chat.UserMessage(input))

	reply, err := gen.Generate(ctx, session.Messages(), maxNewTokens)
	if err != nil {
		var genErr *ai.GenerationError
		if errors.As(err, &genErr) {
			return "", err
		}
		return "", &ai.GenerationError{Backend: gen.Name(), Err: err}
	}

	session.Append(chat.AssistantMessage(reply))
	return reply, nil
}
