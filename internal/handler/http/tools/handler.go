package tools_http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"cardbot/internal/app/tools"
	"cardbot/internal/domain"
	"cardbot/internal/session"
	"cardbot/internal/util"
)

const (
	HeaderSessionID     = "X-Session-ID"
	HeaderCorrelationID = "X-Correlation-ID"
)

var errUnknownTool = errors.New("unknown tool")

type ToolService interface {
	ListCards(ctx context.Context, sess *session.Session, accountID string) tools.Result[tools.CardList]
	ListTransactions(ctx context.Context, sess *session.Session, accountID string) tools.Result[tools.TransactionList]
	GetBalance(ctx context.Context, sess *session.Session, accountID string) tools.Result[tools.Balance]
	PayCard(ctx context.Context, sess *session.Session, req domain.CardPayment) tools.Result[tools.CardPaymentResult]
	PayBeneficiary(ctx context.Context, sess *session.Session, req domain.BeneficiaryPayment) tools.Result[tools.BeneficiaryPaymentResult]
}

type ToolHandler struct {
	service  ToolService
	sessions session.Store
	logger   *zap.Logger
}

func NewToolHandler(s ToolService, sessions session.Store, l *zap.Logger) *ToolHandler {
	return &ToolHandler{service: s, sessions: sessions, logger: l}
}

type accountArgs struct {
	AccountID string `json:"account_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *ToolHandler) ListToolsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, tools.Descriptors())
}

func (h *ToolHandler) CallToolHandler(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	sessionID := strings.TrimSpace(r.Header.Get(HeaderSessionID))
	correlationID := strings.TrimSpace(r.Header.Get(HeaderCorrelationID))
	if correlationID == "" {
		correlationID = util.GenerateUUID()
	}
	w.Header().Set(HeaderCorrelationID, correlationID)
	ctx := session.WithCorrelationID(r.Context(), correlationID)

	log := h.logger.With(
		zap.String("tool", name),
		zap.String("session_id", sessionID),
		zap.String("correlation_id", correlationID),
	)

	sess, err := h.sessions.Load(ctx, sessionID)
	if err != nil {
		log.Error("Failed to load session", zap.Error(err))
		writeJSON(w, log, http.StatusServiceUnavailable, errorResponse{Error: "session store unavailable"})
		return
	}

	result, err := h.dispatch(ctx, name, sess, r.Body)
	switch {
	case errors.Is(err, errUnknownTool):
		writeJSON(w, log, http.StatusNotFound, errorResponse{Error: "unknown tool " + name})
		return
	case err != nil:
		log.Warn("Invalid tool arguments", zap.Error(err))
		writeJSON(w, log, http.StatusBadRequest, errorResponse{Error: "invalid arguments: " + err.Error()})
		return
	}

	if err := h.sessions.Save(ctx, sess); err != nil {
		log.Error("Failed to save session", zap.Error(err))
	}

	log.Debug("Tool call completed")
	writeJSON(w, log, http.StatusOK, result)
}

func (h *ToolHandler) dispatch(ctx context.Context, name string, sess *session.Session, body io.Reader) (any, error) {
	switch name {
	case tools.ToolListCards, tools.ToolListTransactions, tools.ToolGetBalance:
		var args accountArgs
		if err := decodeArgs(body, &args); err != nil {
			return nil, err
		}
		switch name {
		case tools.ToolListCards:
			return h.service.ListCards(ctx, sess, args.AccountID), nil
		case tools.ToolListTransactions:
			return h.service.ListTransactions(ctx, sess, args.AccountID), nil
		default:
			return h.service.GetBalance(ctx, sess, args.AccountID), nil
		}

	case tools.ToolPayCard:
		var args domain.CardPayment
		if err := decodeArgs(body, &args); err != nil {
			return nil, err
		}
		return h.service.PayCard(ctx, sess, args), nil

	case tools.ToolPayBeneficiary:
		var args domain.BeneficiaryPayment
		if err := decodeArgs(body, &args); err != nil {
			return nil, err
		}
		return h.service.PayBeneficiary(ctx, sess, args), nil
	}
	return nil, errUnknownTool
}

// decodeArgs accepts an empty body as "no arguments".
func decodeArgs(body io.Reader, dst any) error {
	if body == nil {
		return nil
	}
	err := json.NewDecoder(body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to write JSON response", zap.Error(err))
	}
}
