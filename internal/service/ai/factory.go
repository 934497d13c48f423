package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/zhouzirui/pirate-chat/internal/config"
)

// NewGenerator builds the backend selected by AI_PROVIDER and wraps it with
// metrics instrumentation.
func NewGenerator(ctx context.Context, cfg config.AIConfig) (Generator, error) {
	var gen Generator

	switch cfg.Provider {
	case config.ProviderArk, "":
		chatModel, err := cfg.NewChatModel(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat model: %w", err)
		}
		chainGen, err := NewChainGenerator(ctx, config.ProviderArk, chatModel)
		if err != nil {
			return nil, err
		}
		gen = chainGen
	case config.ProviderGemini:
		if !cfg.GeminiEnabled() {
			return nil, fmt.Errorf("gemini provider selected but GEMINI_API_KEY is not set")
		}
		geminiGen, err := NewGeminiGenerator(ctx, cfg.Gemini)
		if err != nil {
			return nil, err
		}
		gen = geminiGen
	case config.ProviderEcho:
		log.Println("[ai] using echo generator, replies will not come from a model")
		gen = NewEchoGenerator()
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}

	return Instrument(gen), nil
}
