package fallback_http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"cardbot/internal/app/fallback"
	"cardbot/internal/domain"
	"cardbot/internal/util"
)

type FallbackHook interface {
	BeforeGenerate(ctx context.Context, turn fallback.Turn, emitter fallback.Emitter, emitted *[]fallback.EmittedEvent) (fallback.Signal, error)
}

type FallbackHandler struct {
	hook   FallbackHook
	logger *zap.Logger
}

func NewFallbackHandler(h FallbackHook, l *zap.Logger) *FallbackHandler {
	return &FallbackHandler{hook: h, logger: l}
}

type turnContext struct {
	AgentID       string `json:"agent_id"`
	SessionID     string `json:"session_id"`
	CorrelationID string `json:"correlation_id"`
}

type FallbackRequest struct {
	Context           turnContext        `json:"context"`
	Agent             domain.Agent       `json:"agent"`
	History           []domain.Event     `json:"history"`
	MatchedGuidelines []domain.Guideline `json:"matched_guidelines"`
}

type FallbackResponse struct {
	Signal fallback.Signal         `json:"signal"`
	Events []fallback.EmittedEvent `json:"events"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *FallbackHandler) BeforeGenerateHandler(w http.ResponseWriter, r *http.Request) {
	var req FallbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid fallback hook request body", zap.Error(err))
		writeJSON(w, h.logger, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Context.CorrelationID == "" {
		req.Context.CorrelationID = util.GenerateUUID()
	}
	if req.Context.AgentID == "" {
		req.Context.AgentID = req.Agent.ID
	}

	emitter := fallback.NewRecordingEmitter()
	turn := fallback.Turn{
		AgentID:           req.Context.AgentID,
		SessionID:         req.Context.SessionID,
		CorrelationID:     req.Context.CorrelationID,
		MatchedGuidelines: req.MatchedGuidelines,
		Conversation:      fallback.SnapshotConversation{Agent: req.Agent, History: req.History},
	}

	signal, err := h.hook.BeforeGenerate(r.Context(), turn, emitter, nil)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, fallback.ErrClassificationFailed) {
			status = http.StatusBadGateway
		}
		h.logger.Error("Fallback hook failed",
			zap.String("session_id", turn.SessionID),
			zap.String("correlation_id", turn.CorrelationID),
			zap.Error(err))
		writeJSON(w, h.logger, status, errorResponse{Error: err.Error()})
		return
	}

	events := emitter.Events()
	if events == nil {
		events = []fallback.EmittedEvent{}
	}
	writeJSON(w, h.logger, http.StatusOK, FallbackResponse{Signal: signal, Events: events})
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to write JSON response", zap.Error(err))
	}
}
