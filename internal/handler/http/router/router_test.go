package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cardbot/internal/app/fallback"
	"cardbot/internal/app/tools"
	"cardbot/internal/domain"
	"cardbot/internal/repository/accounts_repo"
	"cardbot/internal/repository/accounts_repo/memory"
	"cardbot/internal/session"
	"cardbot/internal/util"
	"cardbot/internal/validation"
)

type stubClassifier struct {
	result domain.Classification
	err    error
}

func (s stubClassifier) Classify(ctx context.Context, agent domain.Agent, history []domain.Event) (domain.Classification, error) {
	return s.result, s.err
}

type stubAnswerer struct{}

func (stubAnswerer) Answer(ctx context.Context, query string) (string, bool, error) {
	return "Your APR is 19.99%", true, nil
}

func newTestServer(t *testing.T, classifier fallback.Classifier) *httptest.Server {
	t.Helper()
	logger := zap.NewNop()
	repo := memory.NewAccountRepository(accounts_repo.DefaultSeed())
	svc := tools.NewService(repo, nil, util.NewTokenIssuer(), tools.Config{
		DefaultCardAccount:     "CC_ACC234",
		DefaultCheckingAccount: "CHECKING_ACC234",
		Policy:                 validation.DefaultPolicy(),
	}, logger)

	handler := NewRouter(Dependencies{
		Tools:          svc,
		Sessions:       session.NewMemoryStore(),
		Fallback:       fallback.NewHook(classifier, stubAnswerer{}, logger),
		RequestTimeout: 5 * time.Second,
	}, logger)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func post(t *testing.T, server *httptest.Server, path, sessionID string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	case nil:
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req, err := http.NewRequest(http.MethodPost, server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func TestRouter_Health(t *testing.T) {
	server := newTestServer(t, stubClassifier{})
	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_ListTools(t *testing.T) {
	server := newTestServer(t, stubClassifier{})
	resp, err := http.Get(server.URL + "/tools")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var descriptors []tools.Descriptor
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&descriptors))
	assert.Len(t, descriptors, 5)
}

func TestRouter_ToolCallsShareSessionState(t *testing.T) {
	server := newTestServer(t, stubClassifier{})

	resp, body := post(t, server, "/tools/list_cards", "s1", map[string]string{"account_id": "CC_ACC123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Correlation-ID"))
	success := body["success"].(map[string]any)
	assert.Equal(t, "CC_ACC123", success["account_id"])

	date := time.Now().AddDate(0, 0, 5).Format(domain.DateLayout)
	_, body = post(t, server, "/tools/pay_card", "s1", map[string]any{"card_id": "3", "amount": 100, "source": "checking", "date": date})
	require.Contains(t, body, "success", body)

	_, body = post(t, server, "/tools/pay_card", "s2", map[string]any{"card_id": "3", "amount": 100, "source": "checking", "date": date})
	assert.Equal(t, "card does not belong to user", body["error"])
}

func TestRouter_PayBeneficiary(t *testing.T) {
	server := newTestServer(t, stubClassifier{})

	resp, body := post(t, server, "/tools/pay_beneficiary", "s1", map[string]any{"beneficiary": "yam marcovitz", "amount": 500})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	success := body["success"].(map[string]any)
	assert.Equal(t, "2500", success["final_balance"])

	resp, body = post(t, server, "/tools/pay_beneficiary", "s1", map[string]any{"beneficiary": "yam marcovitz", "amount": 3000})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "insufficient balance", body["error"])

	_, body = post(t, server, "/tools/get_balance", "s1", nil)
	assert.Equal(t, "2500", body["success"].(map[string]any)["balance"])
}

func TestRouter_ToolErrors(t *testing.T) {
	server := newTestServer(t, stubClassifier{})

	resp, _ := post(t, server, "/tools/transfer_everything", "s1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = post(t, server, "/tools/pay_card", "s1", "{not json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func fallbackRequest(matched ...domain.Guideline) map[string]any {
	return map[string]any{
		"context": map[string]string{"agent_id": "a1", "session_id": "s1", "correlation_id": "c1"},
		"agent":   domain.Agent{ID: "a1", Name: "CardBot"},
		"history": []domain.Event{{Kind: domain.EventKindMessage, Source: "customer", Data: map[string]any{"message": "close my account"}}},
		"matched_guidelines": matched,
	}
}

func TestRouter_FallbackRefusesAction(t *testing.T) {
	server := newTestServer(t, stubClassifier{result: domain.Classification{CustomerInquiry: "close my account", WhichIsItMore: domain.VerdictAction}})

	resp, body := post(t, server, "/hooks/fallback", "", fallbackRequest())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "stop", body["signal"])
	events := body["events"].([]any)
	require.Len(t, events, 1)
	data := events[0].(map[string]any)["data"].(map[string]any)
	assert.Equal(t, fallback.RefusalMessage, data["message"])
}

func TestRouter_FallbackAnswersInformation(t *testing.T) {
	server := newTestServer(t, stubClassifier{result: domain.Classification{CustomerInquiry: "what is my APR", WhichIsItMore: domain.VerdictInformation}})

	_, body := post(t, server, "/hooks/fallback", "", fallbackRequest())
	assert.Equal(t, "continue", body["signal"])
	events := body["events"].([]any)
	require.Len(t, events, 1)
	assert.Equal(t, "tool", events[0].(map[string]any)["kind"])
}

func TestRouter_FallbackWithMatchedGuidelines(t *testing.T) {
	server := newTestServer(t, stubClassifier{err: errors.New("should not be called")})

	_, body := post(t, server, "/hooks/fallback", "", fallbackRequest(domain.Guideline{ID: "g1"}))
	assert.Equal(t, "continue", body["signal"])
	assert.Empty(t, body["events"])
}

func TestRouter_FallbackClassifierFailure(t *testing.T) {
	server := newTestServer(t, stubClassifier{err: errors.New("model unavailable")})

	resp, body := post(t, server, "/hooks/fallback", "", fallbackRequest())
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, body["error"], "model unavailable")
}

func TestRouter_CORSOnlyForConfiguredOrigins(t *testing.T) {
	logger := zap.NewNop()
	deps := Dependencies{Sessions: session.NewMemoryStore()}

	request := func(handler http.Handler, origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", origin)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	closed := NewRouter(deps, logger)
	rec := request(closed, "http://localhost:5173")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	deps.AllowedOrigins = []string{"https://bank.example"}
	open := NewRouter(deps, logger)
	rec = request(open, "https://bank.example")
	assert.Equal(t, "https://bank.example", rec.Header().Get("Access-Control-Allow-Origin"))
	rec = request(open, "http://localhost:5173")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
