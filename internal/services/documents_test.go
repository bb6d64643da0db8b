package services

import (
	"encoding/json"
	"sort"
	"testing"

	"github.com/ummeeayz/edusafe-app/internal/apperrors"
	"github.com/ummeeayz/edusafe-app/internal/models"
)

func TestCreateDocumentDefaults(t *testing.T) {
	repo := setupTestRepo(t)
	svc := NewDocumentService(repo, nil)

	id, err := svc.CreateDocument(CreateDocumentInput{
		Title:   "Biology Notes",
		Content: "cell biology",
	})
	if err != nil {
		t.Fatalf("failed to create document: %v", err)
	}

	doc, err := svc.GetDocument(id)
	if err != nil {
		t.Fatalf("failed to get document: %v", err)
	}
	if doc.Status != models.DocumentStatusAvailable {
		t.Errorf("expected status available, got %q", doc.Status)
	}
	if !doc.IsOfflineAvailable {
		t.Error("new documents must be offline-available")
	}
	if doc.VersionCount != 1 {
		t.Errorf("expected version_count 1, got %d", doc.VersionCount)
	}
	if doc.Size != int64(len("cell biology")) {
		t.Errorf("expected size to default to content length, got %d", doc.Size)
	}
}

func TestCreateDocumentEnqueues(t *testing.T) {
	repo := setupTestRepo(t)
	svc := NewDocumentService(repo, nil)

	id, err := svc.CreateDocument(CreateDocumentInput{Title: "Notes"})
	if err != nil {
		t.Fatalf("failed to create document: %v", err)
	}

	entries, err := repo.ListSyncQueue()
	if err != nil {
		t.Fatalf("failed to list queue: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 queue entry, got %d", len(entries))
	}
	if entries[0].Action != models.ActionCreate {
		t.Errorf("expected action create, got %q", entries[0].Action)
	}

	var payload struct {
		DocumentID string `json:"document_id"`
	}
	if err := json.Unmarshal(entries[0].Payload, &payload); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if payload.DocumentID != id {
		t.Errorf("payload document_id %q does not match created id %q", payload.DocumentID, id)
	}
}

func TestUpdateDocumentContentCreatesVersion(t *testing.T) {
	repo := setupTestRepo(t)
	svc := NewDocumentService(repo, nil)

	id, err := svc.CreateDocument(CreateDocumentInput{Title: "Essay", Content: "draft 1"})
	if err != nil {
		t.Fatalf("failed to create document: %v", err)
	}

	content := "draft 2"
	if err := svc.UpdateDocument(id, UpdateDocumentInput{Content: &content}); err != nil {
		t.Fatalf("failed to update document: %v", err)
	}

	doc, err := svc.GetDocument(id)
	if err != nil {
		t.Fatalf("failed to get document: %v", err)
	}
	if doc.VersionCount != 2 {
		t.Errorf("expected version_count 2, got %d", doc.VersionCount)
	}

	versions, err := svc.GetDocumentVersions(id)
	if err != nil {
		t.Fatalf("failed to list versions: %v", err)
	}
	if len(versions) != 2 {
		t.Fatalf("expected 2 versions, got %d", len(versions))
	}
}

func TestUpdateDocumentTitleOnlyKeepsVersions(t *testing.T) {
	repo := setupTestRepo(t)
	svc := NewDocumentService(repo, nil)

	id, err := svc.CreateDocument(CreateDocumentInput{Title: "Essay", Content: "draft"})
	if err != nil {
		t.Fatalf("failed to create document: %v", err)
	}

	title := "Final Essay"
	if err := svc.UpdateDocument(id, UpdateDocumentInput{Title: &title}); err != nil {
		t.Fatalf("failed to update document: %v", err)
	}

	versions, err := svc.GetDocumentVersions(id)
	if err != nil {
		t.Fatalf("failed to list versions: %v", err)
	}
	if len(versions) != 1 {
		t.Errorf("title-only update must not add a version, got %d", len(versions))
	}
}

// Version numbering derives from the live row count, so after pruning
// opens gaps the next update reuses a number already seen.
func TestUpdateDocument_NumberingAfterPruneReusesNumbers(t *testing.T) {
	repo := setupTestRepo(t)
	svc := NewDocumentService(repo, nil)

	id, err := svc.CreateDocument(CreateDocumentInput{Title: "Essay", Content: "v1"})
	if err != nil {
		t.Fatalf("failed to create document: %v", err)
	}

	for _, content := range []string{"v2", "v3"} {
		c := content
		if err := svc.UpdateDocument(id, UpdateDocumentInput{Content: &c}); err != nil {
			t.Fatalf("failed to update document: %v", err)
		}
	}

	// Prune version 1, leaving numbers {2, 3}.
	versions, err := svc.GetDocumentVersions(id)
	if err != nil {
		t.Fatalf("failed to list versions: %v", err)
	}
	for _, v := range versions {
		if v.VersionNumber == 1 {
			if err := repo.DeleteVersion(v.ID.String()); err != nil {
				t.Fatalf("failed to delete version: %v", err)
			}
		}
	}

	c := "v4"
	if err := svc.UpdateDocument(id, UpdateDocumentInput{Content: &c}); err != nil {
		t.Fatalf("failed to update document: %v", err)
	}

	versions, err = svc.GetDocumentVersions(id)
	if err != nil {
		t.Fatalf("failed to list versions: %v", err)
	}
	var numbers []int
	for _, v := range versions {
		numbers = append(numbers, v.VersionNumber)
	}
	sort.Ints(numbers)

	// Live count was 2, so the new version gets number 3 again.
	want := []int{2, 3, 3}
	if len(numbers) != len(want) {
		t.Fatalf("expected %d versions, got %d", len(want), len(numbers))
	}
	for i := range want {
		if numbers[i] != want[i] {
			t.Fatalf("expected version numbers %v, got %v", want, numbers)
		}
	}
}

func TestUpdateDocumentNotFound(t *testing.T) {
	repo := setupTestRepo(t)
	svc := NewDocumentService(repo, nil)

	title := "x"
	err := svc.UpdateDocument("00000000-0000-4000-8000-000000000000", UpdateDocumentInput{Title: &title})
	if !apperrors.HasCode(err, apperrors.ErrDocumentNotFound) {
		t.Errorf("expected document-not-found error, got %v", err)
	}
}

func TestDeleteDocumentIsSoft(t *testing.T) {
	repo := setupTestRepo(t)
	svc := NewDocumentService(repo, nil)

	id, err := svc.CreateDocument(CreateDocumentInput{Title: "Scratch", Content: "temp"})
	if err != nil {
		t.Fatalf("failed to create document: %v", err)
	}

	if err := svc.DeleteDocument(id); err != nil {
		t.Fatalf("failed to delete document: %v", err)
	}

	doc, err := svc.GetDocument(id)
	if err != nil {
		t.Fatalf("soft-deleted document must remain readable: %v", err)
	}
	if doc.Status != models.DocumentStatusDeleted {
		t.Errorf("expected status deleted, got %q", doc.Status)
	}

	versions, err := svc.GetDocumentVersions(id)
	if err != nil {
		t.Fatalf("failed to list versions: %v", err)
	}
	if len(versions) != 1 {
		t.Errorf("versions must survive a soft delete, got %d", len(versions))
	}

	entries, err := repo.ListSyncQueue()
	if err != nil {
		t.Fatalf("failed to list queue: %v", err)
	}
	if len(entries) != 2 || entries[1].Action != models.ActionDelete {
		t.Errorf("expected create then delete in queue, got %d entries", len(entries))
	}
}

func TestDocumentMutationsNotify(t *testing.T) {
	repo := setupTestRepo(t)
	notifier := &recordingNotifier{}
	svc := NewDocumentService(repo, notifier)

	id, err := svc.CreateDocument(CreateDocumentInput{Title: "Notes"})
	if err != nil {
		t.Fatalf("failed to create document: %v", err)
	}
	title := "Notes v2"
	if err := svc.UpdateDocument(id, UpdateDocumentInput{Title: &title}); err != nil {
		t.Fatalf("failed to update document: %v", err)
	}
	if err := svc.DeleteDocument(id); err != nil {
		t.Fatalf("failed to delete document: %v", err)
	}

	if notifier.documentsChanged != 3 {
		t.Errorf("expected 3 documents-changed signals, got %d", notifier.documentsChanged)
	}
	if notifier.storageChanged != 3 {
		t.Errorf("expected 3 storage-changed signals, got %d", notifier.storageChanged)
	}
	if notifier.syncCompleted != 0 {
		t.Errorf("mutations must not emit sync-completed, got %d", notifier.syncCompleted)
	}
}
