package fallback

import (
	"context"
	"sync"

	"cardbot/internal/domain"
)

type Participant struct {
	DisplayName string `json:"display_name"`
}

type MessageData struct {
	Message     string      `json:"message"`
	Participant Participant `json:"participant"`
}

type ToolResult struct {
	Data     any            `json:"data"`
	Metadata map[string]any `json:"metadata"`
	Control  map[string]any `json:"control"`
}

type ToolCall struct {
	ToolID    string         `json:"tool_id"`
	Arguments map[string]any `json:"arguments"`
	Result    ToolResult     `json:"result"`
}

type ToolEventData struct {
	ToolCalls []ToolCall `json:"tool_calls"`
}

// EmittedEvent is an event produced by the hook during a turn.
type EmittedEvent struct {
	Kind          domain.EventKind `json:"kind"`
	CorrelationID string           `json:"correlation_id"`
	Data          any              `json:"data"`
}

type Emitter interface {
	EmitMessageEvent(ctx context.Context, correlationID string, data MessageData) (EmittedEvent, error)
	EmitToolEvent(ctx context.Context, correlationID string, data ToolEventData) (EmittedEvent, error)
}

// RecordingEmitter keeps emitted events in memory so they can be returned to
// the caller of the hook.
type RecordingEmitter struct {
	mu     sync.Mutex
	events []EmittedEvent
}

func NewRecordingEmitter() *RecordingEmitter {
	return &RecordingEmitter{}
}

func (r *RecordingEmitter) EmitMessageEvent(ctx context.Context, correlationID string, data MessageData) (EmittedEvent, error) {
	return r.emit(EmittedEvent{Kind: domain.EventKindMessage, CorrelationID: correlationID, Data: data}), nil
}

func (r *RecordingEmitter) EmitToolEvent(ctx context.Context, correlationID string, data ToolEventData) (EmittedEvent, error) {
	return r.emit(EmittedEvent{Kind: domain.EventKindTool, CorrelationID: correlationID, Data: data}), nil
}

func (r *RecordingEmitter) Events() []EmittedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]EmittedEvent(nil), r.events...)
}

func (r *RecordingEmitter) emit(e EmittedEvent) EmittedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return e
}
