package ai

import (
	"context"
	"fmt"
	"math"
	"strings"

	"google.golang.org/genai"

	"github.com/zhouzirui/pirate-chat/internal/config"
	"github.com/zhouzirui/pirate-chat/internal/model/chat"
)

const emptyTurnText = " "

// contentGenerator is the part of *genai.Models the generator relies on.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator implements Generator using Google's Gemini API.
type GeminiGenerator struct {
	models contentGenerator
	model  string
}

// NewGeminiGenerator creates a Gemini backed generator.
func NewGeminiGenerator(ctx context.Context, cfg config.GeminiConfig) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiGenerator{models: client.Models, model: cfg.Model}, nil
}

// Generate sends the conversation to Gemini and returns the single candidate's text.
func (g *GeminiGenerator) Generate(ctx context.Context, history []chat.Message, maxNewTokens int) (string, error) {
	if maxNewTokens < 1 || maxNewTokens > math.MaxInt32 {
		return "", fmt.Errorf("invalid max new tokens %d", maxNewTokens)
	}

	system, contents := toGeminiContents(history)
	if len(contents) == 0 {
		return "", ErrEmptyHistory
	}

	genCfg := &genai.GenerateContentConfig{
		CandidateCount:  1,
		MaxOutputTokens: int32(maxNewTokens),
	}
	if system != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	result, err := g.models.GenerateContent(ctx, g.model, contents, genCfg)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	return firstCandidateText(result)
}

// Name returns the provider name.
func (g *GeminiGenerator) Name() string {
	return "gemini"
}

// toGeminiContents splits system prompts off into the system instruction and
// maps assistant turns onto Gemini's "model" role.
func toGeminiContents(history []chat.Message) (string, []*genai.Content) {
	var system []string
	contents := make([]*genai.Content, 0, len(history))

	for _, msg := range history {
		switch msg.Role {
		case chat.RoleSystem:
			system = append(system, msg.Content)
		case chat.RoleUser:
			contents = append(contents, genai.NewContentFromText(partText(msg.Content), genai.RoleUser))
		case chat.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(partText(msg.Content), genai.RoleModel))
		}
	}

	return strings.Join(system, "\n"), contents
}

// partText keeps empty turns in the history. Gemini rejects a part without
// data, and an empty text part is serialized as exactly that.
func partText(content string) string {
	if content == "" {
		return emptyTurnText
	}
	return content
}

func firstCandidateText(result *genai.GenerateContentResponse) (string, error) {
	if result == nil || len(result.Candidates) == 0 {
		return "", ErrNoCandidate
	}

	candidate := result.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return "", ErrNoCandidate
	}

	var builder strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		builder.WriteString(part.Text)
	}
	return builder.String(), nil
}
