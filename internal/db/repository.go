// Package db provides CRUD repository operations for EduSafe data models.
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ummeeayz/edusafe-app/internal/models"
	"github.com/ummeeayz/edusafe-app/internal/uuid"
)

// Repository provides CRUD operations for all record families. A missing
// id surfaces as sql.ErrNoRows; callers translate that into their own
// NotFound shapes.
type Repository struct {
	db *sql.DB

	// Prepared statement cache for frequently used queries.
	// Statements are prepared on first use and reused.
	stmtCache sync.Map // map[string]*sql.Stmt
}

// NewRepository creates a new Repository instance.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// PrepareStmt gets or creates a prepared statement from the cache.
func (r *Repository) PrepareStmt(query string) (*sql.Stmt, error) {
	if stmt, ok := r.stmtCache.Load(query); ok {
		return stmt.(*sql.Stmt), nil
	}

	stmt, err := r.db.Prepare(query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}

	actual, loaded := r.stmtCache.LoadOrStore(query, stmt)
	if loaded {
		// Another goroutine already prepared this, close our duplicate
		stmt.Close()
		return actual.(*sql.Stmt), nil
	}

	return stmt, nil
}

// Close closes all cached prepared statements.
func (r *Repository) Close() error {
	var firstErr error
	r.stmtCache.Range(func(key, value interface{}) bool {
		stmt := value.(*sql.Stmt)
		if err := stmt.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		return true
	})
	return firstErr
}

// =====================================================
// Document Operations
// =====================================================

const documentColumns = `id, title, category, content, size, last_modified,
	   is_offline_available, status, version_count`

// scanDocument scans one documents row.
func scanDocument(scan func(dest ...interface{}) error) (*models.Document, error) {
	var doc models.Document
	err := scan(
		&doc.ID, &doc.Title, &doc.Category, &doc.Content, &doc.Size,
		&doc.LastModified, &doc.IsOfflineAvailable, &doc.Status, &doc.VersionCount,
	)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// CreateDocumentWithVersion inserts a document and its initial version as
// a single transaction: both become visible together or not at all, so a
// document can never be observed with zero versions.
func (r *Repository) CreateDocumentWithVersion(doc *models.Document) error {
	now := time.Now().Unix()
	doc.ID = models.UUID(uuid.New())
	if doc.LastModified == 0 {
		doc.LastModified = now
	}
	if doc.Status == "" {
		doc.Status = models.DocumentStatusAvailable
	}
	doc.VersionCount = 1

	version := &models.Version{
		ID:            models.UUID(uuid.New()),
		DocumentID:    doc.ID,
		VersionNumber: 1,
		Content:       doc.Content,
		CreatedAt:     now,
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	docQuery := `
	INSERT INTO documents (` + documentColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := tx.Exec(docQuery, doc.ID, doc.Title, doc.Category, doc.Content,
		doc.Size, doc.LastModified, doc.IsOfflineAvailable, doc.Status, doc.VersionCount); err != nil {
		return err
	}

	versionQuery := `
	INSERT INTO versions (id, document_id, version_number, content, created_at)
	VALUES (?, ?, ?, ?, ?)
	`
	if _, err := tx.Exec(versionQuery, version.ID, version.DocumentID,
		version.VersionNumber, version.Content, version.CreatedAt); err != nil {
		return err
	}

	return tx.Commit()
}

// GetDocument retrieves a document by ID.
func (r *Repository) GetDocument(id string) (*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = ?`
	stmt, err := r.PrepareStmt(query)
	if err != nil {
		return nil, err
	}
	return scanDocument(stmt.QueryRow(id).Scan)
}

// ListDocuments returns all documents, including archived and soft-deleted
// rows.
func (r *Repository) ListDocuments() ([]*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents`
	return r.queryDocuments(query)
}

// ListDocumentsModifiedBefore returns documents with last_modified strictly
// before cutoff.
func (r *Repository) ListDocumentsModifiedBefore(cutoff int64) ([]*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE last_modified < ?`
	return r.queryDocuments(query, cutoff)
}

// ListDocumentsWithVersionCountAbove returns documents whose version_count
// exceeds n.
func (r *Repository) ListDocumentsWithVersionCountAbove(n int) ([]*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE version_count > ?`
	return r.queryDocuments(query, n)
}

func (r *Repository) queryDocuments(query string, args ...interface{}) ([]*models.Document, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// DocumentUpdate describes a partial document update. Nil fields are left
// unchanged.
type DocumentUpdate struct {
	Title              *string
	Category           *string
	Content            *string
	Size               *int64
	IsOfflineAvailable *bool
	Status             *string
}

// UpdateDocument applies a partial field merge and bumps last_modified.
// Returns sql.ErrNoRows if the id does not exist.
func (r *Repository) UpdateDocument(id string, update DocumentUpdate) error {
	set := []string{"last_modified = ?"}
	args := []interface{}{time.Now().Unix()}

	if update.Title != nil {
		set = append(set, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Category != nil {
		set = append(set, "category = ?")
		args = append(args, *update.Category)
	}
	if update.Content != nil {
		set = append(set, "content = ?")
		args = append(args, *update.Content)
	}
	if update.Size != nil {
		set = append(set, "size = ?")
		args = append(args, *update.Size)
	}
	if update.IsOfflineAvailable != nil {
		set = append(set, "is_offline_available = ?")
		args = append(args, *update.IsOfflineAvailable)
	}
	if update.Status != nil {
		set = append(set, "status = ?")
		args = append(args, *update.Status)
	}

	args = append(args, id)
	query := "UPDATE documents SET " + strings.Join(set, ", ") + " WHERE id = ?"

	result, err := r.db.Exec(query, args...)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetDocumentVersionCount sets the version_count field without touching
// last_modified. Used when version rows are added or pruned.
func (r *Repository) SetDocumentVersionCount(id string, count int) error {
	result, err := r.db.Exec(`UPDATE documents SET version_count = ? WHERE id = ?`, count, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetDocumentStatus transitions a document's lifecycle status. The
// archival policy uses this without bumping last_modified so an archived
// document does not look freshly edited.
func (r *Repository) SetDocumentStatus(id string, status string) error {
	result, err := r.db.Exec(`UPDATE documents SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// =====================================================
// Version Operations
// =====================================================

// CreateVersion inserts a content snapshot for a document.
func (r *Repository) CreateVersion(v *models.Version) error {
	v.ID = models.UUID(uuid.New())
	if v.CreatedAt == 0 {
		v.CreatedAt = time.Now().Unix()
	}

	query := `
	INSERT INTO versions (id, document_id, version_number, content, created_at)
	VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, v.ID, v.DocumentID, v.VersionNumber, v.Content, v.CreatedAt)
	return err
}

// ListVersionsByDocument returns all version rows for a document. No
// ordering is guaranteed; callers sort by version number when it matters.
func (r *Repository) ListVersionsByDocument(documentID string) ([]*models.Version, error) {
	query := `SELECT id, document_id, version_number, content, created_at
			  FROM versions WHERE document_id = ?`
	rows, err := r.db.Query(query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []*models.Version
	for rows.Next() {
		var v models.Version
		if err := rows.Scan(&v.ID, &v.DocumentID, &v.VersionNumber, &v.Content, &v.CreatedAt); err != nil {
			return nil, err
		}
		versions = append(versions, &v)
	}
	return versions, rows.Err()
}

// CountVersions returns the number of live version rows for a document.
func (r *Repository) CountVersions(documentID string) (int, error) {
	query := `SELECT COUNT(*) FROM versions WHERE document_id = ?`
	stmt, err := r.PrepareStmt(query)
	if err != nil {
		return 0, err
	}
	var count int
	err = stmt.QueryRow(documentID).Scan(&count)
	return count, err
}

// DeleteVersion hard-deletes a version row. Only the pruning policy calls
// this; documents themselves are never physically removed.
func (r *Repository) DeleteVersion(id string) error {
	result, err := r.db.Exec(`DELETE FROM versions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// =====================================================
// Assignment Operations
// =====================================================

// CreateAssignment creates a new assignment.
func (r *Repository) CreateAssignment(a *models.Assignment) error {
	a.ID = models.UUID(uuid.New())
	a.CreatedAt = time.Now().Unix()
	if a.Status == "" {
		a.Status = models.AssignmentStatusPending
	}

	query := `
	INSERT INTO assignments (id, title, due_date, priority, status, subject, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, a.ID, a.Title, a.DueDate, a.Priority, a.Status, a.Subject, a.CreatedAt)
	return err
}

// GetAssignment retrieves an assignment by ID.
func (r *Repository) GetAssignment(id string) (*models.Assignment, error) {
	query := `SELECT id, title, due_date, priority, status, subject, created_at
			  FROM assignments WHERE id = ?`
	var a models.Assignment
	err := r.db.QueryRow(query, id).Scan(&a.ID, &a.Title, &a.DueDate, &a.Priority,
		&a.Status, &a.Subject, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAssignments returns all assignments.
func (r *Repository) ListAssignments() ([]*models.Assignment, error) {
	query := `SELECT id, title, due_date, priority, status, subject, created_at FROM assignments`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []*models.Assignment
	for rows.Next() {
		var a models.Assignment
		if err := rows.Scan(&a.ID, &a.Title, &a.DueDate, &a.Priority,
			&a.Status, &a.Subject, &a.CreatedAt); err != nil {
			return nil, err
		}
		assignments = append(assignments, &a)
	}
	return assignments, rows.Err()
}

// AssignmentUpdate describes a partial assignment update. Nil fields are
// left unchanged.
type AssignmentUpdate struct {
	Title    *string
	DueDate  *int64
	Priority *string
	Status   *string
	Subject  *string
}

// UpdateAssignment applies a partial field merge. Returns sql.ErrNoRows if
// the id does not exist.
func (r *Repository) UpdateAssignment(id string, update AssignmentUpdate) error {
	var set []string
	var args []interface{}

	if update.Title != nil {
		set = append(set, "title = ?")
		args = append(args, *update.Title)
	}
	if update.DueDate != nil {
		set = append(set, "due_date = ?")
		args = append(args, *update.DueDate)
	}
	if update.Priority != nil {
		set = append(set, "priority = ?")
		args = append(args, *update.Priority)
	}
	if update.Status != nil {
		set = append(set, "status = ?")
		args = append(args, *update.Status)
	}
	if update.Subject != nil {
		set = append(set, "subject = ?")
		args = append(args, *update.Subject)
	}

	if len(set) == 0 {
		// Nothing to change; still report NotFound for a missing id.
		_, err := r.GetAssignment(id)
		return err
	}

	args = append(args, id)
	query := "UPDATE assignments SET " + strings.Join(set, ", ") + " WHERE id = ?"

	result, err := r.db.Exec(query, args...)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteAssignment hard-deletes an assignment.
func (r *Repository) DeleteAssignment(id string) error {
	result, err := r.db.Exec(`DELETE FROM assignments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// =====================================================
// SyncQueue Operations
// =====================================================

// EnqueueSync appends an entry to the sync queue and returns it with its
// assigned seq.
func (r *Repository) EnqueueSync(action string, payload json.RawMessage) (*models.SyncQueueEntry, error) {
	if payload == nil {
		payload = json.RawMessage("{}")
	}
	entry := &models.SyncQueueEntry{
		Action:    action,
		Payload:   payload,
		CreatedAt: time.Now().Unix(),
	}

	query := `INSERT INTO sync_queue (action, payload, attempts, created_at) VALUES (?, ?, 0, ?)`
	result, err := r.db.Exec(query, entry.Action, string(entry.Payload), entry.CreatedAt)
	if err != nil {
		return nil, err
	}
	seq, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	entry.Seq = seq
	return entry, nil
}

// ListSyncQueue returns all pending entries in insertion (FIFO) order.
func (r *Repository) ListSyncQueue() ([]*models.SyncQueueEntry, error) {
	query := `SELECT seq, action, payload, attempts, created_at FROM sync_queue ORDER BY seq`
	stmt, err := r.PrepareStmt(query)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.SyncQueueEntry
	for rows.Next() {
		var e models.SyncQueueEntry
		var payload string
		if err := rows.Scan(&e.Seq, &e.Action, &payload, &e.Attempts, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Payload = json.RawMessage(payload)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// CountSyncQueue returns the number of pending entries.
func (r *Repository) CountSyncQueue() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM sync_queue`).Scan(&count)
	return count, err
}

// DeleteSyncQueueEntry removes an acknowledged entry.
func (r *Repository) DeleteSyncQueueEntry(seq int64) error {
	result, err := r.db.Exec(`DELETE FROM sync_queue WHERE seq = ?`, seq)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// IncrementSyncQueueAttempts bumps the attempt counter on a failed entry.
// This is the only in-place mutation the queue permits.
func (r *Repository) IncrementSyncQueueAttempts(seq int64) error {
	result, err := r.db.Exec(`UPDATE sync_queue SET attempts = attempts + 1 WHERE seq = ?`, seq)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// =====================================================
// Setting Operations
// =====================================================

// GetSetting retrieves a setting value by key.
func (r *Repository) GetSetting(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}

// SetSetting stores a setting value, last write wins.
func (r *Repository) SetSetting(key, value string) error {
	query := `INSERT INTO settings (key, value) VALUES (?, ?)
			  ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	_, err := r.db.Exec(query, key, value)
	return err
}

// ListSettings returns all settings ordered by key.
func (r *Repository) ListSettings() ([]*models.Setting, error) {
	rows, err := r.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []*models.Setting
	for rows.Next() {
		s := &models.Setting{}
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}
