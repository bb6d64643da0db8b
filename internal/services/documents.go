// Package services provides the document and assignment operations that
// sit between the UI layer and the persistent store. Every mutating call
// writes the store first and appends a sync-queue entry second; services
// hold no cached state between calls.
package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/ummeeayz/edusafe-app/internal/apperrors"
	"github.com/ummeeayz/edusafe-app/internal/db"
	"github.com/ummeeayz/edusafe-app/internal/logging"
	"github.com/ummeeayz/edusafe-app/internal/models"
	"github.com/ummeeayz/edusafe-app/internal/notify"
)

// DocumentService provides CRUD operations over documents and their
// version history.
type DocumentService struct {
	repo     *db.Repository
	notifier notify.Notifier
}

// NewDocumentService creates a DocumentService. A nil notifier disables
// UI signals.
func NewDocumentService(repo *db.Repository, notifier notify.Notifier) *DocumentService {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &DocumentService{repo: repo, notifier: notifier}
}

// CreateDocumentInput holds the fields for a new document.
type CreateDocumentInput struct {
	Title    string
	Category string
	Content  string
	Size     int64
}

// documentPayload is the sync-queue payload for document mutations.
type documentPayload struct {
	DocumentID string                 `json:"document_id"`
	Updates    map[string]interface{} `json:"updates,omitempty"`
}

// CreateDocument creates a document with its initial version (number 1)
// in one transaction and enqueues a "create" sync entry. Returns the new
// document id.
func (s *DocumentService) CreateDocument(in CreateDocumentInput) (string, error) {
	size := in.Size
	if size == 0 {
		size = int64(len(in.Content))
	}

	// New documents are always offline-available; the flag only changes
	// through explicit updates.
	doc := &models.Document{
		Title:              in.Title,
		Category:           in.Category,
		Content:            in.Content,
		Size:               size,
		LastModified:       time.Now().Unix(),
		IsOfflineAvailable: true,
		Status:             models.DocumentStatusAvailable,
	}

	if err := s.repo.CreateDocumentWithVersion(doc); err != nil {
		return "", apperrors.Wrap(apperrors.ErrDatabase, "failed to create document", err)
	}

	if err := s.enqueue(models.ActionCreate, documentPayload{DocumentID: doc.ID.String()}); err != nil {
		return "", err
	}

	logging.Info("document created", map[string]interface{}{
		"document_id": doc.ID.String(),
		"category":    doc.CategoryOrDefault(),
		"size":        doc.Size,
	})

	s.notifier.DocumentsChanged()
	s.notifier.StorageChanged()
	return doc.ID.String(), nil
}

// UpdateDocumentInput describes a partial document update. Nil fields are
// left unchanged. A non-nil Content produces a new version.
type UpdateDocumentInput struct {
	Title              *string
	Category           *string
	Content            *string
	Size               *int64
	IsOfflineAvailable *bool
	Status             *string
}

// UpdateDocument applies a partial update, bumps the modification
// timestamp, snapshots a new version when content changed, and enqueues an
// "update" sync entry carrying the changed fields.
//
// The new version number is the live version row count plus one, not the
// maximum seen so far. After pruning opens gaps, numbering restarts from
// the live count, so numbers can repeat across the document's lifetime.
func (s *DocumentService) UpdateDocument(id string, in UpdateDocumentInput) error {
	update := db.DocumentUpdate{
		Title:              in.Title,
		Category:           in.Category,
		Content:            in.Content,
		Size:               in.Size,
		IsOfflineAvailable: in.IsOfflineAvailable,
		Status:             in.Status,
	}

	if err := s.repo.UpdateDocument(id, update); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.New(apperrors.ErrDocumentNotFound, "document not found: "+id)
		}
		return apperrors.Wrap(apperrors.ErrDatabase, "failed to update document", err)
	}

	if in.Content != nil {
		count, err := s.repo.CountVersions(id)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrDatabase, "failed to count versions", err)
		}

		version := &models.Version{
			DocumentID:    models.UUID(id),
			VersionNumber: count + 1,
			Content:       *in.Content,
		}
		if err := s.repo.CreateVersion(version); err != nil {
			return apperrors.Wrap(apperrors.ErrDatabase, "failed to create version", err)
		}
		if err := s.repo.SetDocumentVersionCount(id, count+1); err != nil {
			return apperrors.Wrap(apperrors.ErrDatabase, "failed to update version count", err)
		}
	}

	payload := documentPayload{DocumentID: id, Updates: changedDocumentFields(in)}
	if err := s.enqueue(models.ActionUpdate, payload); err != nil {
		return err
	}

	s.notifier.DocumentsChanged()
	s.notifier.StorageChanged()
	return nil
}

// DeleteDocument soft-deletes a document: the status transitions to
// "deleted" and the timestamp is bumped, but the row and its versions
// stay, keeping queued sync entries referentially valid.
func (s *DocumentService) DeleteDocument(id string) error {
	status := models.DocumentStatusDeleted
	if err := s.repo.UpdateDocument(id, db.DocumentUpdate{Status: &status}); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.New(apperrors.ErrDocumentNotFound, "document not found: "+id)
		}
		return apperrors.Wrap(apperrors.ErrDatabase, "failed to delete document", err)
	}

	if err := s.enqueue(models.ActionDelete, documentPayload{DocumentID: id}); err != nil {
		return err
	}

	logging.Info("document soft-deleted", map[string]interface{}{"document_id": id})

	s.notifier.DocumentsChanged()
	s.notifier.StorageChanged()
	return nil
}

// GetDocument retrieves a document by id.
func (s *DocumentService) GetDocument(id string) (*models.Document, error) {
	doc, err := s.repo.GetDocument(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.New(apperrors.ErrDocumentNotFound, "document not found: "+id)
		}
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "failed to get document", err)
	}
	return doc, nil
}

// GetAllDocuments returns every document, including archived and
// soft-deleted rows.
func (s *DocumentService) GetAllDocuments() ([]*models.Document, error) {
	docs, err := s.repo.ListDocuments()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "failed to list documents", err)
	}
	return docs, nil
}

// GetDocumentVersions returns all version rows for a document, in no
// guaranteed order.
func (s *DocumentService) GetDocumentVersions(id string) ([]*models.Version, error) {
	versions, err := s.repo.ListVersionsByDocument(id)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "failed to list versions", err)
	}
	return versions, nil
}

// enqueue appends a sync-queue entry for a mutation.
func (s *DocumentService) enqueue(action string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, "failed to marshal sync payload", err)
	}
	if _, err := s.repo.EnqueueSync(action, raw); err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, "failed to enqueue sync entry", err)
	}
	return nil
}

// changedDocumentFields converts a partial update into the field map sent
// to the remote side.
func changedDocumentFields(in UpdateDocumentInput) map[string]interface{} {
	updates := make(map[string]interface{})
	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.Category != nil {
		updates["category"] = *in.Category
	}
	if in.Content != nil {
		updates["content"] = *in.Content
	}
	if in.Size != nil {
		updates["size"] = *in.Size
	}
	if in.IsOfflineAvailable != nil {
		updates["is_offline_available"] = *in.IsOfflineAvailable
	}
	if in.Status != nil {
		updates["status"] = *in.Status
	}
	return updates
}
