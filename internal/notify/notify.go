// Package notify defines the invalidation signals the core emits to the
// UI layer. The UI owns all rendering; the core only tells it what went
// stale.
package notify

// Notifier receives the three invalidation signals. Implementations must
// be safe for concurrent use; signals are dispatched only after the
// triggering store mutation has committed.
type Notifier interface {
	// DocumentsChanged fires when the document list is stale.
	DocumentsChanged()

	// SyncCompleted fires after a queue drain that delivered at least one
	// entry.
	SyncCompleted(syncedCount int)

	// StorageChanged fires when storage analytics are stale.
	StorageChanged()
}

// Noop discards all signals. Used where no UI is attached.
type Noop struct{}

func (Noop) DocumentsChanged()       {}
func (Noop) SyncCompleted(int)       {}
func (Noop) StorageChanged()         {}
