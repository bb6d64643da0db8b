package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ummeeayz/edusafe-app/internal/models"
)

// SimulatedBackend accepts every entry. It stands in for the remote
// service in local and test runs.
type SimulatedBackend struct{}

// Deliver always succeeds.
func (SimulatedBackend) Deliver(ctx context.Context, entry *models.SyncQueueEntry) error {
	return nil
}

// HTTPBackend delivers queue entries to a remote endpoint as JSON.
type HTTPBackend struct {
	baseURL string
	client  *http.Client
}

// NewHTTPBackend creates an HTTPBackend posting to baseURL/sync.
func NewHTTPBackend(baseURL string) *HTTPBackend {
	return &HTTPBackend{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type syncEnvelope struct {
	Seq     int64           `json:"seq"`
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

// Deliver posts the entry and treats any non-2xx response as failure.
func (b *HTTPBackend) Deliver(ctx context.Context, entry *models.SyncQueueEntry) error {
	body, err := json.Marshal(syncEnvelope{
		Seq:     entry.Seq,
		Action:  entry.Action,
		Payload: entry.Payload,
	})
	if err != nil {
		return fmt.Errorf("failed to encode sync entry: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/sync", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build sync request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("sync request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sync rejected: HTTP %d", resp.StatusCode)
	}
	return nil
}
