package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cardbot/internal/domain"
)

const (
	schemaName  = "FallbackClassification"
	Temperature = 0.2
)

var ErrInvalidVerdict = errors.New("classifier returned an unknown verdict")

// Client asks a schematic text generation service to classify a conversation.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type generateHints struct {
	Temperature float64 `json:"temperature"`
}

type generateRequest struct {
	Prompt string        `json:"prompt"`
	Schema string        `json:"schema"`
	Hints  generateHints `json:"hints"`
}

type generateResponse struct {
	Content domain.Classification `json:"content"`
}

func (c *Client) Classify(ctx context.Context, agent domain.Agent, history []domain.Event) (domain.Classification, error) {
	if c.baseURL == "" {
		return domain.Classification{}, errors.New("classifier base url is empty")
	}

	body, err := json.Marshal(generateRequest{
		Prompt: BuildPrompt(agent, history),
		Schema: schemaName,
		Hints:  generateHints{Temperature: Temperature},
	})
	if err != nil {
		return domain.Classification{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return domain.Classification{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Classification{}, fmt.Errorf("failed to execute request to classifier: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return domain.Classification{}, fmt.Errorf("classifier returned error status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.Classification{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if !out.Content.WhichIsItMore.Valid() {
		return domain.Classification{}, fmt.Errorf("%w: %q", ErrInvalidVerdict, out.Content.WhichIsItMore)
	}
	return out.Content, nil
}
