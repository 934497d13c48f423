package chat

import (
	"context"
	"errors"
	"sync"

	"github.com/zhouzirui/pirate-chat/internal/model/chat"
	"github.com/zhouzirui/pirate-chat/internal/service/ai"
)

var (
	ErrPersonaRequired = errors.New("persona id is required")
	ErrSessionNotFound = errors.New("session not found")
)

type entry struct {
	mu      sync.Mutex // serialises turns within one session
	session *chat.Session
}

// Service keeps conversations in memory for the HTTP surface.
type Service struct {
	gen          ai.Generator
	maxNewTokens int

	mu       sync.RWMutex
	sessions map[string]*entry
}

// NewService bootstraps the in-memory chat service.
func NewService(gen ai.Generator, maxNewTokens int) *Service {
	return &Service{
		gen:          gen,
		maxNewTokens: maxNewTokens,
		sessions:     make(map[string]*entry),
	}
}

// CreateSession opens a session bound to a persona and seeded with its system prompt.
func (s *Service) CreateSession(_ context.Context, personaID, systemPrompt string) (*chat.Session, error) {
	if personaID == "" {
		return nil, ErrPersonaRequired
	}

	session := chat.NewSession(personaID, systemPrompt)

	s.mu.Lock()
	s.sessions[session.ID] = &entry{session: session}
	s.mu.Unlock()

	return session, nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (*chat.Session, error) {
	e, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return e.session, nil
}

// LoadTranscript returns a copy of the session history.
func (s *Service) LoadTranscript(_ context.Context, sessionID string) ([]chat.Message, error) {
	e, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Messages(), nil
}

// Converse runs one turn on the session. Concurrent calls for the same
// session are handled one at a time.
func (s *Service) Converse(ctx context.Context, sessionID, input string) (string, error) {
	e, err := s.lookup(sessionID)
	if err != nil {
		return "", err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return Turn(ctx, s.gen, e.session, input, s.maxNewTokens)
}

func (s *Service) lookup(sessionID string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return e, nil
}
