package fallback

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"cardbot/internal/domain"
)

const (
	RefusalMessage = "Sorry, I can't help you with this action. You may want to try phone support."
	QnAToolID      = "corner-case-qna"
	NoAnswer       = "No answer found"
)

var ErrClassificationFailed = errors.New("fallback classification failed")

// Signal tells the dialogue engine how to proceed with the turn.
type Signal string

const (
	SignalContinue Signal = "continue"
	SignalStop     Signal = "stop"
)

type Classifier interface {
	Classify(ctx context.Context, agent domain.Agent, history []domain.Event) (domain.Classification, error)
}

type Answerer interface {
	Answer(ctx context.Context, query string) (string, bool, error)
}

type Turn struct {
	AgentID           string
	SessionID         string
	CorrelationID     string
	MatchedGuidelines []domain.Guideline
	Conversation      Conversation
}

var historyKinds = []domain.EventKind{domain.EventKindMessage, domain.EventKindTool}

// Hook handles turns for which no guideline matched.
type Hook struct {
	classifier Classifier
	answerer   Answerer
	logger     *zap.Logger
}

func NewHook(classifier Classifier, answerer Answerer, logger *zap.Logger) *Hook {
	return &Hook{
		classifier: classifier,
		answerer:   answerer,
		logger:     logger,
	}
}

// BeforeGenerate runs before the engine generates a reply. When guidelines
// matched it does nothing. Otherwise it refuses action requests and answers
// information requests from the QnA service.
func (h *Hook) BeforeGenerate(ctx context.Context, turn Turn, emitter Emitter, emitted *[]EmittedEvent) (Signal, error) {
	if len(turn.MatchedGuidelines) > 0 {
		return SignalContinue, nil
	}

	log := h.logger.With(zap.String("session_id", turn.SessionID), zap.String("correlation_id", turn.CorrelationID))
	log.Warn("No guideline matched, classifying interaction")

	agent, classification, err := h.classify(ctx, turn)
	if err != nil {
		log.Error("Fallback classification failed", zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrClassificationFailed, err)
	}
	log.Info("Interaction classified",
		zap.String("verdict", string(classification.WhichIsItMore)),
		zap.String("inquiry", classification.CustomerInquiry))

	switch classification.WhichIsItMore {
	case domain.VerdictAction, domain.VerdictIndeterminate:
		log.Warn("Unsupported action requested, refusing")
		_, err := emitter.EmitMessageEvent(ctx, turn.CorrelationID, MessageData{
			Message:     RefusalMessage,
			Participant: Participant{DisplayName: agent.Name},
		})
		if err != nil {
			return SignalStop, fmt.Errorf("failed to emit refusal message: %w", err)
		}
		return SignalStop, nil

	case domain.VerdictInformation:
		answer := h.ask(ctx, log, classification.CustomerInquiry)
		event, err := emitter.EmitToolEvent(ctx, turn.CorrelationID, ToolEventData{
			ToolCalls: []ToolCall{{
				ToolID:    QnAToolID,
				Arguments: map[string]any{"query": classification.CustomerInquiry},
				Result: ToolResult{
					Data:     answer,
					Metadata: map[string]any{},
					Control:  map[string]any{},
				},
			}},
		})
		if err != nil {
			return SignalContinue, fmt.Errorf("failed to emit qna tool event: %w", err)
		}
		if emitted != nil {
			*emitted = append(*emitted, event)
		}
		return SignalContinue, nil
	}

	return "", fmt.Errorf("%w: unknown verdict %q", ErrClassificationFailed, classification.WhichIsItMore)
}

func (h *Hook) classify(ctx context.Context, turn Turn) (domain.Agent, domain.Classification, error) {
	if turn.Conversation == nil {
		return domain.Agent{}, domain.Classification{}, errors.New("no conversation to classify")
	}
	agent, err := turn.Conversation.ReadAgent(ctx, turn.AgentID)
	if err != nil {
		return domain.Agent{}, domain.Classification{}, fmt.Errorf("read agent: %w", err)
	}
	history, err := turn.Conversation.ListEvents(ctx, turn.SessionID, historyKinds)
	if err != nil {
		return domain.Agent{}, domain.Classification{}, fmt.Errorf("list events: %w", err)
	}
	classification, err := h.classifier.Classify(ctx, agent, history)
	if err != nil {
		return domain.Agent{}, domain.Classification{}, err
	}
	return agent, classification, nil
}

// ask returns the QnA answer for query, or NoAnswer. Failures are logged and
// do not abort the turn.
func (h *Hook) ask(ctx context.Context, log *zap.Logger, query string) string {
	answer, found, err := h.answerer.Answer(ctx, query)
	if err != nil {
		log.Error("QnA request failed", zap.String("query", query), zap.NamedError("class", domain.ErrTransientFailure), zap.Error(err))
		return NoAnswer
	}
	if !found {
		log.Warn("No answer found for inquiry", zap.String("query", query))
		return NoAnswer
	}
	return answer
}
