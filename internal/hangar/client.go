package hangar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
)

// Session statuses reported by the hangar service.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// SessionState is the alarm-session record served by the hangar API.
type SessionState struct {
	SessionID    string `json:"sessionId"`
	FlightID     string `json:"flightId,omitempty"`
	Status       string `json:"status"`
	AlarmSubtype string `json:"alarmSubtype,omitempty"`
	UpdatedAt    string `json:"updatedAt,omitempty"`
}

// HangarState is the hangar hardware snapshot served by the hangar API.
type HangarState struct {
	HangarID   string `json:"hangarId"`
	DoorsOpen  bool   `json:"doorsOpen"`
	DroneReady bool   `json:"droneReady"`
	ChargePct  int    `json:"chargePct"`
	LastUpdate string `json:"lastUpdate,omitempty"`
}

// Client talks to the remote hangar/alarm-session service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for the given hangar service base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the configured service base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ActiveSession fetches the current alarm-session state.
func (c *Client) ActiveSession(ctx context.Context) (*SessionState, error) {
	var session SessionState
	if err := c.getJSON(ctx, "/api/v1/session", &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// HangarStatus fetches the hangar hardware snapshot.
func (c *Client) HangarStatus(ctx context.Context) (*HangarState, error) {
	var state HangarState
	if err := c.getJSON(ctx, "/api/v1/hangar", &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching hangar state: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, c.baseURL+path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if err := sonic.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding hangar response: %w", err)
	}
	return nil
}
