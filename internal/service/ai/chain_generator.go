package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/pirate-chat/internal/model/chat"
)

// ChainGenerator runs the conversation through an eino chain ending in a chat model.
type ChainGenerator struct {
	name  string
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewChainGenerator compiles a chain that feeds the full history to chatModel.
func NewChainGenerator(ctx context.Context, name string, chatModel model.BaseChatModel) (*ChainGenerator, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("history", false),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &ChainGenerator{name: name, chain: runnable}, nil
}

// Generate invokes the chain once. The chat model answers with a single
// message whose content is the reply.
func (g *ChainGenerator) Generate(ctx context.Context, history []chat.Message, maxNewTokens int) (string, error) {
	if len(history) == 0 {
		return "", ErrEmptyHistory
	}

	input := map[string]any{
		"history": buildHistoryMessages(history),
	}

	response, err := g.chain.Invoke(ctx, input, compose.WithChatModelOption(model.WithMaxTokens(maxNewTokens)))
	if err != nil {
		return "", fmt.Errorf("failed to run chat chain: %w", err)
	}
	if response == nil {
		return "", ErrNoCandidate
	}

	log.Printf("[ai] generated reply backend=%s, history=%d, length=%d", g.name, len(history), len(response.Content))
	return response.Content, nil
}

// Name returns the backend name.
func (g *ChainGenerator) Name() string {
	return g.name
}

func buildHistoryMessages(messages []chat.Message) []*schema.Message {
	history := make([]*schema.Message, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case chat.RoleSystem:
			history = append(history, schema.SystemMessage(msg.Content))
		case chat.RoleUser:
			history = append(history, schema.UserMessage(msg.Content))
		case chat.RoleAssistant:
			history = append(history, schema.AssistantMessage(msg.Content, nil))
		}
	}
	return history
}
