// Package sync drains the durable sync queue to a remote backend.
package sync

import (
	"context"
	"sync/atomic"

	"github.com/ummeeayz/edusafe-app/internal/db"
	"github.com/ummeeayz/edusafe-app/internal/logging"
	"github.com/ummeeayz/edusafe-app/internal/models"
	"github.com/ummeeayz/edusafe-app/internal/notify"
)

// Result reasons reported when a queue drain does not run.
const (
	ReasonOffline        = "offline"
	ReasonSyncInProgress = "sync_in_progress"
)

// Result describes the outcome of a queue drain.
type Result struct {
	Success     bool   `json:"success"`
	Reason      string `json:"reason,omitempty"`
	SyncedCount int    `json:"synced_count"`
	FailedCount int    `json:"failed_count"`
}

// RemoteBackend delivers a single queue entry to the remote side.
type RemoteBackend interface {
	Deliver(ctx context.Context, entry *models.SyncQueueEntry) error
}

// BackgroundSyncRegistrar registers a named background sync task with
// the host environment. Registration failures are logged, not fatal.
type BackgroundSyncRegistrar interface {
	Register(tag string) error
}

// Engine drains the sync queue in FIFO order. Entries that deliver are
// removed; entries that fail stay queued with their attempt counter
// bumped, and the drain continues past them.
type Engine struct {
	repo     *db.Repository
	backend  RemoteBackend
	notifier notify.Notifier

	online   atomic.Bool
	draining atomic.Bool
}

// NewEngine creates an Engine. The engine starts online. A nil notifier
// disables change notifications.
func NewEngine(repo *db.Repository, backend RemoteBackend, notifier notify.Notifier) *Engine {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	e := &Engine{
		repo:     repo,
		backend:  backend,
		notifier: notifier,
	}
	e.online.Store(true)
	return e
}

// SetOnline changes the connectivity state used by the offline guard.
func (e *Engine) SetOnline(online bool) {
	was := e.online.Swap(online)
	if was != online {
		logging.Info("connectivity changed", map[string]interface{}{
			"online": online,
		})
	}
}

// IsOnline reports the current connectivity state.
func (e *Engine) IsOnline() bool {
	return e.online.Load()
}

// PendingCount returns the number of queued entries.
func (e *Engine) PendingCount() (int, error) {
	return e.repo.CountSyncQueue()
}

// ProcessQueue drains the queue once. It refuses to run while offline
// and while another drain is in flight; both cases return a Result with
// Success false and the reason set. A drain that runs always reports
// Success true, even when some entries failed to deliver.
func (e *Engine) ProcessQueue(ctx context.Context) (*Result, error) {
	if !e.online.Load() {
		return &Result{Success: false, Reason: ReasonOffline}, nil
	}

	if !e.draining.CompareAndSwap(false, true) {
		return &Result{Success: false, Reason: ReasonSyncInProgress}, nil
	}
	defer e.draining.Store(false)

	entries, err := e.repo.ListSyncQueue()
	if err != nil {
		return nil, err
	}

	result := &Result{Success: true}

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			e.finish(result)
			return result, ctx.Err()
		default:
		}

		if err := e.backend.Deliver(ctx, entry); err != nil {
			logging.Warn("sync delivery failed", map[string]interface{}{
				"seq":      entry.Seq,
				"action":   entry.Action,
				"attempts": entry.Attempts + 1,
				"error":    err.Error(),
			})
			if ierr := e.repo.IncrementSyncQueueAttempts(entry.Seq); ierr != nil {
				logging.Error("failed to record sync attempt", ierr, map[string]interface{}{
					"seq": entry.Seq,
				})
			}
			result.FailedCount++
			continue
		}

		if err := e.repo.DeleteSyncQueueEntry(entry.Seq); err != nil {
			logging.Error("failed to remove synced entry", err, map[string]interface{}{
				"seq": entry.Seq,
			})
			result.FailedCount++
			continue
		}
		result.SyncedCount++
	}

	e.finish(result)
	return result, nil
}

func (e *Engine) finish(result *Result) {
	if result.SyncedCount == 0 {
		return
	}
	logging.Info("sync queue drained", map[string]interface{}{
		"synced": result.SyncedCount,
		"failed": result.FailedCount,
	})
	e.notifier.SyncCompleted(result.SyncedCount)
	e.notifier.DocumentsChanged()
}

// RegisterBackgroundSync registers the periodic document sync task with
// the given registrar.
func RegisterBackgroundSync(registrar BackgroundSyncRegistrar) {
	const tag = "document-sync"
	if err := registrar.Register(tag); err != nil {
		logging.Warn("background sync registration failed", map[string]interface{}{
			"tag":   tag,
			"error": err.Error(),
		})
		return
	}
	logging.Info("background sync registered", map[string]interface{}{"tag": tag})
}
