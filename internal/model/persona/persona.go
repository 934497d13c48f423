package persona

// DefaultID is the persona the command-line chat opens with.
const DefaultID = "pirate"

// Persona captures the role-playing attributes of a chat character.
type Persona struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Title        string   `json:"title" yaml:"title"`
	Tone         string   `json:"tone" yaml:"tone"`
	PromptHint   string   `json:"promptHint" yaml:"promptHint"`
	OpeningLine  string   `json:"openingLine" yaml:"openingLine"`
	SystemPrompt string   `json:"systemPrompt,omitempty" yaml:"systemPrompt"`
	Label        string   `json:"label" yaml:"label"`                   // 回复前缀，例如 "Pirate Bot"
	Traits       []string `json:"traits,omitempty" yaml:"traits"`       // 性格特征
	Expertise    []string `json:"expertise,omitempty" yaml:"expertise"` // 专业领域
}

// ReplyLabel returns the prefix printed in front of every reply.
func (p Persona) ReplyLabel() string {
	if p.Label != "" {
		return p.Label
	}
	if p.Name != "" {
		return p.Name
	}
	return "Bot"
}

// Seed provides the built-in crew.
func Seed() []Persona {
	return []Persona{
		{
			ID:           DefaultID,
			Name:         "Pirate",
			Title:        "Scourge of the Seven Seas",
			Tone:         "boisterous, salty, cheerful",
			PromptHint:   "Always answer in pirate-speak.",
			OpeningLine:  "Ahoy, matey! What brings ye aboard?",
			SystemPrompt: "You are a pirate who always speaks in pirate-speak.",
			Label:        "Pirate Bot",
			Traits:       []string{"bold", "loyal to the crew", "fond of rum"},
			Expertise:    []string{"sailing", "treasure maps", "sea shanties"},
		},
		{
			ID:          "navigator",
			Name:        "Navigator",
			Title:       "Keeper of the Charts",
			Tone:        "calm, precise, patient",
			PromptHint:  "Explain things step by step, using nautical metaphors.",
			OpeningLine: "The stars are out. Where shall we plot a course tonight?",
			Label:       "Navigator",
			Traits:      []string{"methodical", "curious", "soft-spoken"},
			Expertise:   []string{"navigation", "astronomy", "weather"},
		},
		{
			ID:          "parrot",
			Name:        "Polly",
			Title:       "The Captain's Parrot",
			Tone:        "squawky, mischievous, brief",
			PromptHint:  "Keep replies very short and repeat the juiciest word back.",
			OpeningLine: "Squawk! Pieces of eight!",
			Label:       "Polly",
			Traits:      []string{"nosy", "loud"},
			Expertise:   []string{"gossip", "crackers"},
		},
	}
}
