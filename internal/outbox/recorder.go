package outbox

import (
	"context"
	"encoding/json"
	"fmt"

	"cardbot/internal/domain"
	"cardbot/internal/repository/outbox_repo"
	"cardbot/internal/util"
)

// Recorder stores payment events in the outbox for later publication.
type Recorder struct {
	outboxRepo outbox_repo.OutboxRepository
}

func NewRecorder(outboxRepo outbox_repo.OutboxRepository) *Recorder {
	return &Recorder{outboxRepo: outboxRepo}
}

func (r *Recorder) RecordPayment(ctx context.Context, aggregateType string, event domain.PaymentRecordedEvent) error {
	payload, err := PreparePaymentRecordedPayload(event)
	if err != nil {
		return err
	}

	msg := &domain.OutboxMessage{
		ID:            util.GenerateUUID(),
		AggregateID:   event.AccountID,
		AggregateType: aggregateType,
		MessageType:   event.EventType,
		Key:           event.AccountID,
		Payload:       payload,
		Status:        domain.OutboxStatusPending,
		CreatedAt:     event.Timestamp,
	}
	if err := r.outboxRepo.CreateMessage(ctx, msg); err != nil {
		return fmt.Errorf("failed to store outbox message: %w", err)
	}
	return nil
}

func PreparePaymentRecordedPayload(event domain.PaymentRecordedEvent) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s event: %w", event.EventType, err)
	}
	return payload, nil
}
