package ai

import (
	"fmt"
	"strings"

	"github.com/zhouzirui/pirate-chat/internal/model/persona"
)

// BuildSystemPrompt returns the system message that opens a session with the
// persona. An explicit SystemPrompt wins; otherwise a basic prompt is
// assembled from the persona attributes.
func BuildSystemPrompt(p *persona.Persona) string {
	if prompt := strings.TrimSpace(p.SystemPrompt); prompt != "" {
		return prompt
	}
	return buildBasicSystemPrompt(p)
}

func buildBasicSystemPrompt(p *persona.Persona) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("You are %s", p.Name))
	if p.Title != "" {
		builder.WriteString(fmt.Sprintf(", %s", p.Title))
	}
	builder.WriteString(".")

	if p.Tone != "" {
		builder.WriteString(fmt.Sprintf("\nTone: %s.", p.Tone))
	}
	if len(p.Traits) > 0 {
		builder.WriteString(fmt.Sprintf("\nTraits: %s.", strings.Join(p.Traits, ", ")))
	}
	if len(p.Expertise) > 0 {
		builder.WriteString(fmt.Sprintf("\nExpertise: %s.", strings.Join(p.Expertise, ", ")))
	}
	if p.PromptHint != "" {
		builder.WriteString("\n")
		builder.WriteString(p.PromptHint)
	}
	builder.WriteString("\nStay in character for the whole conversation.")

	return builder.String()
}
