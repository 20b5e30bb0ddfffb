package fallback

import (
	"context"
	"fmt"

	"cardbot/internal/domain"
)

// Conversation gives the hook read access to the agent and the session history.
type Conversation interface {
	ReadAgent(ctx context.Context, agentID string) (domain.Agent, error)
	ListEvents(ctx context.Context, sessionID string, kinds []domain.EventKind) ([]domain.Event, error)
}

// SnapshotConversation serves a conversation supplied in full by the caller.
type SnapshotConversation struct {
	Agent   domain.Agent
	History []domain.Event
}

func (s SnapshotConversation) ReadAgent(ctx context.Context, agentID string) (domain.Agent, error) {
	if agentID != "" && s.Agent.ID != "" && agentID != s.Agent.ID {
		return domain.Agent{}, fmt.Errorf("agent %q: %w", agentID, domain.ErrNotFound)
	}
	return s.Agent, nil
}

func (s SnapshotConversation) ListEvents(ctx context.Context, sessionID string, kinds []domain.EventKind) ([]domain.Event, error) {
	wanted := make(map[domain.EventKind]struct{}, len(kinds))
	for _, k := range kinds {
		wanted[k] = struct{}{}
	}

	out := make([]domain.Event, 0, len(s.History))
	for _, e := range s.History {
		if _, ok := wanted[e.Kind]; ok || len(kinds) == 0 {
			out = append(out, e)
		}
	}
	return out, nil
}
