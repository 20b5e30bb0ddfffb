package qna

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const DefaultBaseURL = "http://localhost:8807"

var ErrStatus = errors.New("qna service returned error status")

// Client talks to the question-answering service that holds the FAQ corpus.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type answerRequest struct {
	Query string `json:"query"`
}

type answerResponse struct {
	Answer *string `json:"answer"`
}

type QuestionRequest struct {
	Variants []string `json:"variants"`
	Answer   string   `json:"answer"`
}

// Answer returns the stored answer for query. found is false when the service
// has no answer for it.
func (c *Client) Answer(ctx context.Context, query string) (answer string, found bool, err error) {
	var resp answerResponse
	if err := c.post(ctx, "/answers", answerRequest{Query: query}, &resp); err != nil {
		return "", false, err
	}
	if resp.Answer == nil || *resp.Answer == "" {
		return "", false, nil
	}
	return *resp.Answer, true, nil
}

func (c *Client) AddQuestion(ctx context.Context, q QuestionRequest) error {
	return c.post(ctx, "/questions", q, nil)
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request to qna service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: %d on %s", ErrStatus, resp.StatusCode, path)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
