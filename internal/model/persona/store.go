package persona

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Store exposes persona retrieval for the chat loop and HTTP handlers.
type Store interface {
	List() []Persona
	FindByID(id string) (Persona, bool)
}

// MemoryStore implements Store with an in-memory slice.
type MemoryStore struct {
	items []Persona
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied personas.
func NewMemoryStore(items []Persona) *MemoryStore {
	return &MemoryStore{items: append([]Persona(nil), items...)}
}

// List returns the persona list.
func (s *MemoryStore) List() []Persona {
	return append([]Persona(nil), s.items...)
}

// FindByID looks up a persona by identifier.
func (s *MemoryStore) FindByID(id string) (Persona, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Persona{}, false
}

// Merge replaces personas with a matching ID and appends the rest.
func (s *MemoryStore) Merge(items []Persona) {
	for _, item := range items {
		replaced := false
		for i := range s.items {
			if s.items[i].ID == item.ID {
				s.items[i] = item
				replaced = true
				break
			}
		}
		if !replaced {
			s.items = append(s.items, item)
		}
	}
}

type personaFile struct {
	Personas []Persona `yaml:"personas"`
}

// LoadFile reads additional personas from a YAML document of the form
//
//	personas:
//	  - id: pirate
//	    systemPrompt: ...
func LoadFile(path string) ([]Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc personaFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse persona file %s: %w", path, err)
	}

	for i, p := range doc.Personas {
		if p.ID == "" {
			return nil, fmt.Errorf("persona file %s: entry %d has no id", path, i)
		}
	}
	return doc.Personas, nil
}
