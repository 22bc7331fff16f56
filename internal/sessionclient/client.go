// Package sessionclient talks to the Session Store on behalf of the kiosk and
// the room displays.
package sessionclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/saunasuites/suites/internal/models"
)

// Sessions is the Session Store contract consumed by the check-in flow and
// the room display.
type Sessions interface {
	CreateSession(ctx context.Context, roomID string, circuit models.SpaCircuit) (string, error)
	// ActiveSession returns (nil, nil) when the room has no active session.
	ActiveSession(ctx context.Context, roomID string) (*models.SessionRecord, error)
	UpdateStatus(ctx context.Context, sessionID string, status models.SessionStatus) error
}

// StatusError is returned for any non-2xx answer from the Session Store.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("session store: status %d: %s", e.Code, e.Body)
}

// Client implements Sessions over the Session Store HTTP API.
type Client struct {
	baseURL       string
	apiKey        string
	sessionLength time.Duration
	httpClient    *http.Client
	now           func() time.Time
}

func NewClient(baseURL, apiKey string, sessionLength time.Duration) *Client {
	return &Client{
		baseURL:       baseURL,
		apiKey:        apiKey,
		sessionLength: sessionLength,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		now: time.Now,
	}
}

// CreateSession posts a pending session spanning one session length from now.
func (c *Client) CreateSession(ctx context.Context, roomID string, circuit models.SpaCircuit) (string, error) {
	start := c.now().UTC()
	end := start.Add(c.sessionLength)
	reqBody := models.CreateSessionRequest{
		RoomID:          roomID,
		SelectedCircuit: &circuit,
		StartTime:       &start,
		EndTime:         &end,
		Status:          models.SessionStatusPending,
	}

	var out models.CreateSessionResponse
	if err := c.do(ctx, http.MethodPost, "/sessions", reqBody, &out); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	if out.SessionID == "" {
		return "", fmt.Errorf("create session: empty session id in response")
	}
	return out.SessionID, nil
}

func (c *Client) ActiveSession(ctx context.Context, roomID string) (*models.SessionRecord, error) {
	var rec models.SessionRecord
	err := c.do(ctx, http.MethodGet, "/sessions/active?roomId="+url.QueryEscape(roomID), nil, &rec)
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch active session: %w", err)
	}
	return &rec, nil
}

func (c *Client) UpdateStatus(ctx context.Context, sessionID string, status models.SessionStatus) error {
	body := models.UpdateSessionRequest{Status: status}
	if err := c.do(ctx, http.MethodPatch, "/sessions/"+url.PathEscape(sessionID), body, nil); err != nil {
		return fmt.Errorf("update session status: %w", err)
	}
	return nil
}

// HealthCheck verifies the Session Store is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Body: string(bytes.TrimSpace(data))}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
