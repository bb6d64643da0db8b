package services

import (
	"database/sql"
	"testing"

	"github.com/ummeeayz/edusafe-app/internal/db"
	_ "modernc.org/sqlite"
)

// setupTestRepo creates an in-memory store with the full schema.
func setupTestRepo(t *testing.T) *db.Repository {
	t.Helper()

	testDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	testDB.SetMaxOpenConns(1)
	t.Cleanup(func() { testDB.Close() })

	if _, err := testDB.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	migrator := db.NewMigrator(testDB)
	if err := migrator.Initialize(); err != nil {
		t.Fatalf("failed to initialize migrator: %v", err)
	}
	if err := migrator.Up(); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}

	repo := db.NewRepository(testDB)
	t.Cleanup(func() { repo.Close() })
	return repo
}

// recordingNotifier counts emitted UI signals.
type recordingNotifier struct {
	documentsChanged int
	syncCompleted    int
	lastSyncedCount  int
	storageChanged   int
}

func (n *recordingNotifier) DocumentsChanged() { n.documentsChanged++ }
func (n *recordingNotifier) SyncCompleted(count int) {
	n.syncCompleted++
	n.lastSyncedCount = count
}
func (n *recordingNotifier) StorageChanged() { n.storageChanged++ }
