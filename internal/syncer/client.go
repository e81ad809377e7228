package syncer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/abhisek/quizbank/internal/bookmarks"
	"github.com/abhisek/quizbank/internal/mastery"
	"github.com/abhisek/quizbank/internal/retryqueue"
)

// progressPath is the remote progress resource.
const progressPath = "/api/quiz/progress"

// Payload is the full progress document exchanged with the remote service.
type Payload struct {
	MasteryData *mastery.Ledger      `json:"mastery_data"`
	StreakData  mastery.StreakState  `json:"streak_data"`
	RetryQueue  retryqueue.Queues    `json:"retry_queue"`
	Bookmarks   []bookmarks.Bookmark `json:"bookmarks"`
	DeviceID    string               `json:"device_id,omitempty"`
}

// RemoteSnapshot is a remote progress document plus its server timestamp.
// An empty UpdatedAt means the server has no snapshot yet.
type RemoteSnapshot struct {
	Payload
	UpdatedAt string `json:"updated_at"`
}

// Client is the wire contract the engine depends on. The remote's storage
// and versioning scheme behind it are opaque.
type Client interface {
	// Fetch returns the remote snapshot, or nil when none exists yet.
	Fetch(ctx context.Context) (*RemoteSnapshot, error)

	// Upload replaces the remote snapshot and returns the server's
	// updated_at acknowledgement.
	Upload(ctx context.Context, p Payload) (string, error)
}

// TokenFunc supplies the current access token; empty means unauthenticated.
type TokenFunc func() string

// HTTPClient talks to the progress service over HTTP with bearer auth.
type HTTPClient struct {
	baseURL string
	token   TokenFunc
	httpc   *http.Client
}

// NewHTTPClient creates a client for the service at baseURL.
func NewHTTPClient(baseURL string, token TokenFunc) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *HTTPClient) Fetch(ctx context.Context) (*RemoteSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+progressPath, nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch progress: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch progress: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read progress response: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var snap RemoteSnapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("decode progress response: %w", err)
	}
	if snap.UpdatedAt == "" {
		// The server answered but holds no snapshot yet.
		return nil, nil
	}
	return &snap, nil
}

func (c *HTTPClient) Upload(ctx context.Context, p Payload) (string, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal progress payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+progressPath, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload progress: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("upload progress: unexpected status %d", resp.StatusCode)
	}

	var ack struct {
		UpdatedAt string `json:"updated_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return "", fmt.Errorf("decode upload acknowledgement: %w", err)
	}
	return ack.UpdatedAt, nil
}

func (c *HTTPClient) authorize(req *http.Request) {
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
}
