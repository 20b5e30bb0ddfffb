package outbox

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	kafkaInfra "cardbot/internal/infrastructure/kafka"
	"cardbot/internal/repository/outbox_repo"
)

const (
	batchSize          = 10
	defaultMaxAttempts = 5
)

// Processor publishes pending outbox messages to the configured topic.
type Processor struct {
	outboxRepo     outbox_repo.OutboxRepository
	producer       kafkaInfra.Producer
	topic          string
	pollInterval   time.Duration
	pollTimeout    time.Duration
	maxAttempts    int
	attempts       map[string]int
	logger         *zap.Logger
	shutdownSignal chan struct{}
	shutdownOnce   sync.Once
	done           chan struct{}
}

func NewProcessor(
	outboxRepo outbox_repo.OutboxRepository,
	producer kafkaInfra.Producer,
	topic string,
	pollInterval time.Duration,
	pollTimeout time.Duration,
	maxAttempts int,
	logger *zap.Logger,
) *Processor {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &Processor{
		outboxRepo:     outboxRepo,
		producer:       producer,
		topic:          topic,
		pollInterval:   pollInterval,
		pollTimeout:    pollTimeout,
		maxAttempts:    maxAttempts,
		attempts:       make(map[string]int),
		logger:         logger,
		shutdownSignal: make(chan struct{}),
		done:           make(chan struct{}),
	}
}

// Start polls until ctx is cancelled or Stop is called. It blocks.
func (p *Processor) Start(ctx context.Context) {
	p.logger.Info("Starting outbox processor...")
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()
	defer close(p.done)

	for {
		select {
		case <-ctx.Done():
			p.flush()
			p.logger.Info("Outbox processor stopped: context done.")
			return
		case <-p.shutdownSignal:
			p.flush()
			p.logger.Info("Outbox processor stopped.")
			return
		case <-ticker.C:
			p.processOutboxMessages(ctx)
		}
	}
}

func (p *Processor) Stop() {
	p.shutdownOnce.Do(func() {
		p.logger.Info("Signaling outbox processor to stop...")
		close(p.shutdownSignal)
	})
}

// Done is closed once Start has returned.
func (p *Processor) Done() <-chan struct{} {
	return p.done
}

// flush makes a last attempt to publish pending messages on shutdown.
func (p *Processor) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), p.pollTimeout)
	defer cancel()
	p.processOutboxMessages(ctx)
}

func (p *Processor) processOutboxMessages(ctx context.Context) {
	queryCtx, cancel := context.WithTimeout(ctx, p.pollTimeout)
	messages, err := p.outboxRepo.GetPendingMessages(queryCtx, batchSize)
	cancel()
	if err != nil {
		p.logger.Error("Failed to get pending outbox messages", zap.Error(err))
		return
	}
	if len(messages) == 0 {
		return
	}

	p.logger.Debug("Found pending outbox messages", zap.Int("count", len(messages)))

	sent := make([]string, 0, len(messages))
	var failed []string
	for _, msg := range messages {
		if err := p.producer.Produce(ctx, msg.Key, p.topic, msg.Payload); err != nil {
			p.attempts[msg.ID]++
			p.logger.Error("Failed to publish outbox message",
				zap.String("message_id", msg.ID),
				zap.String("topic", p.topic),
				zap.Int("attempt", p.attempts[msg.ID]),
				zap.Error(err))
			if p.attempts[msg.ID] >= p.maxAttempts {
				failed = append(failed, msg.ID)
			}
			continue
		}
		delete(p.attempts, msg.ID)
		sent = append(sent, msg.ID)
	}

	p.markFailed(ctx, failed)

	if len(sent) == 0 {
		return
	}
	if err := p.outboxRepo.MarkMessagesAsSent(ctx, sent); err != nil {
		p.logger.Error("Failed to mark outbox messages as SENT", zap.Strings("message_ids", sent), zap.Error(err))
		return
	}
	p.logger.Info("Outbox messages published", zap.Int("count", len(sent)), zap.String("topic", p.topic))
}

// markFailed parks messages that ran out of attempts so they stop blocking the batch.
func (p *Processor) markFailed(ctx context.Context, ids []string) {
	if len(ids) == 0 {
		return
	}
	if err := p.outboxRepo.MarkMessagesAsFailed(ctx, ids); err != nil {
		p.logger.Error("Failed to mark outbox messages as FAILED", zap.Strings("message_ids", ids), zap.Error(err))
		return
	}
	for _, id := range ids {
		delete(p.attempts, id)
	}
	p.logger.Warn("Outbox messages marked as FAILED",
		zap.Strings("message_ids", ids),
		zap.Int("max_attempts", p.maxAttempts))
}
