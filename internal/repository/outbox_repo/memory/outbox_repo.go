package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cardbot/internal/domain"
	"cardbot/internal/repository/outbox_repo"
)

type outboxRepository struct {
	mu       sync.Mutex
	messages []*domain.OutboxMessage
	byID     map[string]*domain.OutboxMessage
	now      func() time.Time
}

func NewOutboxRepository() outbox_repo.OutboxRepository {
	return &outboxRepository{
		byID: make(map[string]*domain.OutboxMessage),
		now:  time.Now,
	}
}

func (r *outboxRepository) CreateMessage(ctx context.Context, msg *domain.OutboxMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[msg.ID]; exists {
		return fmt.Errorf("outbox message %s already exists", msg.ID)
	}
	stored := *msg
	stored.Payload = append([]byte(nil), msg.Payload...)
	if stored.Status == "" {
		stored.Status = domain.OutboxStatusPending
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = r.now()
	}
	r.messages = append(r.messages, &stored)
	r.byID[stored.ID] = &stored
	return nil
}

// GetPendingMessages returns up to limit pending messages, oldest first.
func (r *outboxRepository) GetPendingMessages(ctx context.Context, limit int) ([]domain.OutboxMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.OutboxMessage
	for _, msg := range r.messages {
		if limit > 0 && len(out) >= limit {
			break
		}
		if msg.Status == domain.OutboxStatusPending {
			out = append(out, *msg)
		}
	}
	return out, nil
}

func (r *outboxRepository) MarkMessagesAsSent(ctx context.Context, ids []string) error {
	return r.mark(ids, domain.OutboxStatusSent)
}

func (r *outboxRepository) MarkMessagesAsFailed(ctx context.Context, ids []string) error {
	return r.mark(ids, domain.OutboxStatusFailed)
}

func (r *outboxRepository) mark(ids []string, status domain.OutboxMessageStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		if _, ok := r.byID[id]; !ok {
			return fmt.Errorf("outbox message %s: %w", id, domain.ErrNotFound)
		}
	}

	now := r.now()
	for _, id := range ids {
		msg := r.byID[id]
		msg.Status = status
		if status == domain.OutboxStatusSent {
			sentAt := now
			msg.SentAt = &sentAt
		}
	}
	r.compact()
	return nil
}

// compact drops sent and failed messages from the head of the queue.
func (r *outboxRepository) compact() {
	i := 0
	for i < len(r.messages) && r.messages[i].Status != domain.OutboxStatusPending {
		delete(r.byID, r.messages[i].ID)
		i++
	}
	r.messages = r.messages[i:]
}
