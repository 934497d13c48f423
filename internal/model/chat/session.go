package chat

import (
	"time"

	"github.com/google/uuid"
)

// Session is the ordered message history of one conversation. Messages are
// only ever appended; insertion order is conversation order.
type Session struct {
	ID        string    `json:"id"`
	PersonaID string    `json:"personaId"`
	CreatedAt time.Time `json:"createdAt"`

	messages []Message
}

// NewSession opens a conversation seeded with the persona's system prompt.
func NewSession(personaID, systemPrompt string) *Session {
	messages := make([]Message, 0, 16)
	messages = append(messages, SystemMessage(systemPrompt))

	return &Session{
		ID:        uuid.NewString(),
		PersonaID: personaID,
		CreatedAt: time.Now().UTC(),
		messages:  messages,
	}
}

// Append records a message at the end of the history.
func (s *Session) Append(msg Message) {
	s.messages = append(s.messages, msg)
}

// Messages returns a copy of the history in conversation order.
func (s *Session) Messages() []Message {
	copied := make([]Message, len(s.messages))
	copy(copied, s.messages)
	return copied
}

// Len reports how many messages the session holds, system prompt included.
func (s *Session) Len() int {
	return len(s.messages)
}

// Last returns the most recent message.
func (s *Session) Last() (Message, bool) {
	if len(s.messages) == 0 {
		return Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}

// Turns counts completed user/assistant exchanges.
func (s *Session) Turns() int {
	turns := 0
	for _, msg := range s.messages {
		if msg.Role == RoleAssistant {
			turns++
		}
	}
	return turns
}
