package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/clipscore/api/internal/config"
)

// MusicGenerator defines the interface for driving an asynchronous music
// generation task: submit it, read its status, or poll it to completion.
type MusicGenerator interface {
	GenerateMusic(ctx context.Context, req *GenerateMusicRequest) (string, error)
	GetRecordInfo(ctx context.Context, taskID string) (*NormalizedStatus, error)
	PollForTracks(ctx context.Context, taskID string, opts PollOptions) ([]Track, error)
}

// SunoClient implements MusicGenerator against a Suno-style generation API.
type SunoClient struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	model       string
	callbackURL string
}

// GenerateMusicRequest represents a music generation submission. Prompt is
// passed through unfiltered; content validation is the caller's concern.
type GenerateMusicRequest struct {
	Prompt       string
	Style        string
	Title        string
	Instrumental bool
}

// generatePayload is the wire form of a submission. The API requires a
// callback URL even when the caller polls instead of consuming callbacks.
type generatePayload struct {
	Prompt       string `json:"prompt"`
	Style        string `json:"style,omitempty"`
	Title        string `json:"title,omitempty"`
	Instrumental bool   `json:"instrumental"`
	Model        string `json:"model,omitempty"`
	CallBackURL  string `json:"callBackUrl"`
}

// apiEnvelope is the {code, msg, data} wrapper every endpoint responds with.
// Code is a pointer so a missing business code can be told apart from 0.
type apiEnvelope struct {
	Code *int            `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// NewSunoClient creates a new Suno API client
func NewSunoClient(cfg *config.SunoConfig) *SunoClient {
	return &SunoClient{
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		callbackURL: cfg.CallbackURL,
	}
}

// GenerateMusic submits a generation request and returns the opaque task id.
func (c *SunoClient) GenerateMusic(ctx context.Context, req *GenerateMusicRequest) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	payload := generatePayload{
		Prompt:       req.Prompt,
		Style:        req.Style,
		Title:        req.Title,
		Instrumental: req.Instrumental,
		Model:        c.model,
		CallBackURL:  c.callbackURL,
	}

	env, err := c.post(ctx, "/api/v1/generate", payload)
	if err != nil {
		return "", err
	}

	taskID := extractTaskID(env.Data)
	if taskID == "" {
		return "", &MalformedResponseError{Reason: "no task id in submission response", Body: string(env.Data)}
	}
	return taskID, nil
}

// GetRecordInfo retrieves and normalizes the current status of a task.
func (c *SunoClient) GetRecordInfo(ctx context.Context, taskID string) (*NormalizedStatus, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	endpoint := "/api/v1/generate/record-info?taskId=" + url.QueryEscape(taskID)
	env, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	return normalizeRecordInfo(env.Data)
}

// IsConfigured returns true if the client has valid configuration
func (c *SunoClient) IsConfigured() bool {
	return c.apiKey != ""
}

// extractTaskID resolves the task identifier across the accepted field-name
// variants of the submission response.
func extractTaskID(data json.RawMessage) string {
	if len(data) == 0 {
		return ""
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return ""
	}
	return firstString(m, "taskId", "task_id", "id")
}

// post sends a POST request with JSON body and unwraps the envelope
func (c *SunoClient) post(ctx context.Context, endpoint string, body interface{}) (*apiEnvelope, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return c.doRequest(req)
}

// get sends a GET request and unwraps the envelope
func (c *SunoClient) get(ctx context.Context, endpoint string) (*apiEnvelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return c.doRequest(req)
}

// doRequest executes an HTTP request, checks the transport status and the
// business code, and returns the decoded envelope.
func (c *SunoClient) doRequest(req *http.Request) (*apiEnvelope, error) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	log.Printf("[Suno API] → %s %s", req.Method, req.URL.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[Suno API] ✗ %s %s — request failed: %v", req.Method, req.URL.String(), err)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[Suno API] ✗ %s %s — failed to read response: %v", req.Method, req.URL.String(), err)
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	log.Printf("[Suno API] ← %d %s %s", resp.StatusCode, req.Method, req.URL.String())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var env apiEnvelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		log.Printf("[Suno API] ✗ unmarshal error for %s %s: %v", req.Method, req.URL.String(), err)
		return nil, &MalformedResponseError{Reason: "response is not valid JSON", Body: string(respBody)}
	}

	if env.Code != nil && *env.Code != 200 {
		return nil, &BusinessError{Code: *env.Code, Message: env.Msg}
	}

	return &env, nil
}
