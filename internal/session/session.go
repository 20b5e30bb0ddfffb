package session

import (
	"context"
	"sync"

	"cardbot/internal/domain"
)

const DefaultID = "default"

// Session holds the conversational state of one dialogue session: the account
// of each kind the user last worked with.
type Session struct {
	ID string

	mu       sync.Mutex
	selected map[domain.AccountKind]string
}

func New(id string) *Session {
	if id == "" {
		id = DefaultID
	}
	return &Session{
		ID:       id,
		selected: make(map[domain.AccountKind]string),
	}
}

func (s *Session) Selected(kind domain.AccountKind) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.selected[kind]
	return id, ok
}

func (s *Session) Select(kind domain.AccountKind, accountID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected[kind] = accountID
}

// Snapshot returns a copy of the selected accounts keyed by kind.
func (s *Session) Snapshot() map[domain.AccountKind]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[domain.AccountKind]string, len(s.selected))
	for k, v := range s.selected {
		out[k] = v
	}
	return out
}

type Store interface {
	// Load returns the session with the given id, creating an empty one when absent.
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
}
