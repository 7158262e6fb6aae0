// Package gateway implements the typed REST contract to the Agent Hub
// backend. Every operation is a single HTTP round trip with no retries; the
// fallback package owns what happens when a call fails. The session
// credential is attached as an X-Session-ID header whenever one is stored;
// an empty store is legal and means the call goes out anonymous.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"agenthub/internal/types"
)

// sessionHeader carries the stored session id on authenticated calls.
const sessionHeader = "X-Session-ID"

// maxErrorBody bounds how much of an error response body is kept for logs.
const maxErrorBody = 512

// LoginResult is the payload of a successful authenticate call.
type LoginResult struct {
	User      types.User
	Profile   types.UserProfile
	SessionID string
}

// API is the remote gateway contract consumed by the fallback resolver and,
// through it, the session orchestrator.
type API interface {
	Login(ctx context.Context, email string) (*LoginResult, error)
	ListSuggestions(ctx context.Context) ([]types.AgentTemplate, error)
	CreateInstance(ctx context.Context, templateID string) (*types.AgentInstance, error)
	ListInstances(ctx context.Context) ([]types.AgentInstance, error)
	FetchHistory(ctx context.Context, instanceID string) ([]types.Message, error)
	SendMessage(ctx context.Context, instanceID, text string) (*types.Message, error)
	SubmitFeedback(ctx context.Context, fb types.Feedback) (*types.UserProfile, error)
	TriggerSelfImprove(ctx context.Context) error
	Logout(ctx context.Context) error
}

// Client is the HTTP implementation of API.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	credentials CredentialStore
	logger      *zap.Logger
}

// NewClient creates a gateway client. The credential store must not be nil;
// pass NewMemoryCredentialStore() when persistence is not wanted.
func NewClient(baseURL string, timeout time.Duration, creds CredentialStore, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{Timeout: timeout},
		credentials: creds,
		logger:      logger,
	}
}

// do performs one round trip and returns the response body for 2xx statuses.
// The session credential is read synchronously before the request is issued.
func (c *Client) do(ctx context.Context, operation, method, path string, query url.Values, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("gateway: %s failed to encode request: %w", operation, err)
		}
		body = bytes.NewReader(data)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("gateway: %s failed to build request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if sessionID := c.credentials.Get(); sessionID != "" {
		req.Header.Set(sessionHeader, sessionID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(operation, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(operation, err)
	}

	c.logger.Debug("gateway call completed",
		zap.String("operation", operation),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(data)
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return nil, &StatusError{Operation: operation, StatusCode: resp.StatusCode, Body: snippet}
	}
	return data, nil
}

// Login authenticates by email. On success the returned session id is
// persisted to the credential store before the result is handed back.
func (c *Client) Login(ctx context.Context, email string) (*LoginResult, error) {
	const op = "login"

	data, err := c.do(ctx, op, http.MethodPost, "/login", nil, map[string]string{"email": email})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Success   bool              `json:"success"`
		User      types.User        `json:"user"`
		Profile   types.UserProfile `json:"profile"`
		SessionID string            `json:"session_id"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, malformed(op, err.Error())
	}
	if !resp.Success {
		return nil, malformed(op, "success=false")
	}
	if resp.User.Email == "" {
		return nil, malformed(op, "missing user.email")
	}

	if resp.SessionID != "" {
		if err := c.credentials.Set(resp.SessionID); err != nil {
			// The session still works for this process; persistence is best-effort.
			c.logger.Warn("failed to persist session credential", zap.Error(err))
		}
	}

	return &LoginResult{User: resp.User, Profile: resp.Profile, SessionID: resp.SessionID}, nil
}

// ListSuggestions fetches the ranked template catalog for the current user.
func (c *Client) ListSuggestions(ctx context.Context) ([]types.AgentTemplate, error) {
	const op = "list_suggestions"

	data, err := c.do(ctx, op, http.MethodGet, "/agents/suggestions", nil, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Success     bool                  `json:"success"`
		Suggestions []types.AgentTemplate `json:"suggestions"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, malformed(op, err.Error())
	}
	if !resp.Success {
		return nil, malformed(op, "success=false")
	}
	if resp.Suggestions == nil {
		return nil, malformed(op, "missing suggestions")
	}
	return resp.Suggestions, nil
}

// CreateInstance materializes a template into a new instance.
func (c *Client) CreateInstance(ctx context.Context, templateID string) (*types.AgentInstance, error) {
	const op = "create_instance"

	data, err := c.do(ctx, op, http.MethodPost, "/agents/instances", nil,
		map[string]string{"template_id": templateID})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Success  bool                `json:"success"`
		Instance types.AgentInstance `json:"instance"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, malformed(op, err.Error())
	}
	if !resp.Success {
		return nil, malformed(op, "success=false")
	}
	if resp.Instance.ID == "" {
		return nil, malformed(op, "missing instance.id")
	}
	return &resp.Instance, nil
}

// ListInstances fetches the instances the backend knows for this user.
func (c *Client) ListInstances(ctx context.Context) ([]types.AgentInstance, error) {
	const op = "list_instances"

	data, err := c.do(ctx, op, http.MethodGet, "/agents/instances", nil, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Success   bool                  `json:"success"`
		Instances []types.AgentInstance `json:"instances"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, malformed(op, err.Error())
	}
	if !resp.Success {
		return nil, malformed(op, "success=false")
	}
	return resp.Instances, nil
}

// FetchHistory returns the full message log for an instance, oldest first.
func (c *Client) FetchHistory(ctx context.Context, instanceID string) ([]types.Message, error) {
	const op = "fetch_history"

	query := url.Values{"agent_instance_id": []string{instanceID}}
	data, err := c.do(ctx, op, http.MethodGet, "/chat/history", query, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Success  bool            `json:"success"`
		Messages []types.Message `json:"messages"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, malformed(op, err.Error())
	}
	if !resp.Success {
		return nil, malformed(op, "success=false")
	}
	return resp.Messages, nil
}

// SendMessage submits the user's text and returns the assistant's reply.
// The caller owns appending the user's own message before issuing this call.
func (c *Client) SendMessage(ctx context.Context, instanceID, text string) (*types.Message, error) {
	const op = "send_message"

	data, err := c.do(ctx, op, http.MethodPost, "/chat/send", nil, map[string]string{
		"agent_instance_id": instanceID,
		"text":              text,
	})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Success bool          `json:"success"`
		Message types.Message `json:"message"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, malformed(op, err.Error())
	}
	if !resp.Success {
		return nil, malformed(op, "success=false")
	}
	if resp.Message.ID == "" || resp.Message.Role == "" {
		return nil, malformed(op, "missing message fields")
	}
	return &resp.Message, nil
}

// SubmitFeedback records a vote on a message. The returned profile is nil
// when the backend did not recompute one.
func (c *Client) SubmitFeedback(ctx context.Context, fb types.Feedback) (*types.UserProfile, error) {
	const op = "submit_feedback"

	data, err := c.do(ctx, op, http.MethodPost, "/feedback", nil, fb)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Success        bool               `json:"success"`
		UpdatedProfile *types.UserProfile `json:"updated_profile"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, malformed(op, err.Error())
	}
	if !resp.Success {
		return nil, malformed(op, "success=false")
	}
	return resp.UpdatedProfile, nil
}

// TriggerSelfImprove asks the backend to run its self-improvement pass.
func (c *Client) TriggerSelfImprove(ctx context.Context) error {
	const op = "self_improve"

	data, err := c.do(ctx, op, http.MethodPost, "/self_improve", nil, nil)
	if err != nil {
		return err
	}

	var resp struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return malformed(op, err.Error())
	}
	if !resp.Success {
		return malformed(op, "success=false")
	}
	return nil
}

// Logout clears the persisted session credential. It is a purely local
// operation and never contacts the backend.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.credentials.Clear(); err != nil {
		return fmt.Errorf("gateway: logout failed to clear credential: %w", err)
	}
	return nil
}
