// Package storage reports space usage and applies optimization policies
// to the document store.
package storage

import (
	"sort"
	"time"

	"github.com/ummeeayz/edusafe-app/internal/apperrors"
	"github.com/ummeeayz/edusafe-app/internal/db"
	"github.com/ummeeayz/edusafe-app/internal/logging"
	"github.com/ummeeayz/edusafe-app/internal/models"
)

// Policy constants. The credits are estimates reported to the user, not
// measured byte counts.
const (
	ArchiveAge          = 90 * 24 * time.Hour
	VersionsToKeep      = 5
	VersionPruneCredit  = 50000
	CompressImageCredit = 800000
	ClearCacheCredit    = 300000
)

// CategoryUsage aggregates size and count for one category.
type CategoryUsage struct {
	Count     int   `json:"count"`
	TotalSize int64 `json:"total_size"`
}

// Analytics summarizes store usage across all documents, whatever their
// status.
type Analytics struct {
	DocumentCount int                      `json:"document_count"`
	TotalSize     int64                    `json:"total_size"`
	ByCategory    map[string]CategoryUsage `json:"by_category"`
}

// OptimizeOptions selects which optimization policies to run.
type OptimizeOptions struct {
	ArchiveOld     bool `json:"archive_old"`
	ReduceVersions bool `json:"reduce_versions"`
	CompressImages bool `json:"compress_images"`
	ClearCache     bool `json:"clear_cache"`
}

// OptimizeAction reports the effect of one policy.
type OptimizeAction struct {
	Action    string `json:"action"`
	Count     int    `json:"count"`
	SizeFreed int64  `json:"size_freed"`
}

// OptimizeResult is the combined outcome of an Optimize run.
type OptimizeResult struct {
	SpaceFreed int64            `json:"space_freed"`
	Actions    []OptimizeAction `json:"actions"`
}

// Manager runs analytics and optimization over the repository.
type Manager struct {
	repo *db.Repository
	now  func() time.Time
}

// NewManager creates a Manager.
func NewManager(repo *db.Repository) *Manager {
	return &Manager{repo: repo, now: time.Now}
}

// Analyze computes store usage. Deleted and archived documents are
// included so the numbers match what is actually on disk.
func (m *Manager) Analyze() (*Analytics, error) {
	docs, err := m.repo.ListDocuments()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "failed to list documents", err)
	}

	a := &Analytics{
		DocumentCount: len(docs),
		ByCategory:    make(map[string]CategoryUsage),
	}

	for _, doc := range docs {
		a.TotalSize += doc.Size

		category := doc.CategoryOrDefault()
		usage := a.ByCategory[category]
		usage.Count++
		usage.TotalSize += doc.Size
		a.ByCategory[category] = usage
	}

	return a, nil
}

// Optimize applies the selected policies and reports the space freed.
// Policies run independently; the result aggregates all of them.
func (m *Manager) Optimize(opts OptimizeOptions) (*OptimizeResult, error) {
	result := &OptimizeResult{Actions: []OptimizeAction{}}

	if opts.ArchiveOld {
		action, err := m.archiveOld()
		if err != nil {
			return nil, err
		}
		result.Actions = append(result.Actions, *action)
	}

	if opts.ReduceVersions {
		action, err := m.reduceVersions()
		if err != nil {
			return nil, err
		}
		result.Actions = append(result.Actions, *action)
	}

	if opts.CompressImages {
		result.Actions = append(result.Actions, OptimizeAction{
			Action:    "compress_images",
			SizeFreed: CompressImageCredit,
		})
	}

	if opts.ClearCache {
		result.Actions = append(result.Actions, OptimizeAction{
			Action:    "clear_cache",
			SizeFreed: ClearCacheCredit,
		})
	}

	for _, action := range result.Actions {
		result.SpaceFreed += action.SizeFreed
	}

	logging.Info("storage optimization completed", map[string]interface{}{
		"space_freed": result.SpaceFreed,
		"actions":     len(result.Actions),
	})

	return result, nil
}

// archiveOld marks documents not modified within ArchiveAge as archived.
// The freed size is an accounting figure; nothing is removed.
func (m *Manager) archiveOld() (*OptimizeAction, error) {
	cutoff := m.now().Add(-ArchiveAge).Unix()

	docs, err := m.repo.ListDocumentsModifiedBefore(cutoff)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "failed to find old documents", err)
	}

	action := &OptimizeAction{Action: "archive_old"}

	for _, doc := range docs {
		if doc.Status == models.DocumentStatusArchived || doc.Status == models.DocumentStatusDeleted {
			continue
		}
		// Archival must not bump last_modified or the document would
		// immediately leave the cutoff window.
		if err := m.repo.SetDocumentStatus(doc.ID.String(), models.DocumentStatusArchived); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrDatabase, "failed to archive document", err)
		}
		action.Count++
		action.SizeFreed += doc.Size
	}

	return action, nil
}

// reduceVersions prunes each document's history down to the
// VersionsToKeep highest version numbers.
func (m *Manager) reduceVersions() (*OptimizeAction, error) {
	docs, err := m.repo.ListDocumentsWithVersionCountAbove(VersionsToKeep)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "failed to find versioned documents", err)
	}

	action := &OptimizeAction{Action: "reduce_versions"}

	for _, doc := range docs {
		versions, err := m.repo.ListVersionsByDocument(doc.ID.String())
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrDatabase, "failed to list versions", err)
		}
		if len(versions) <= VersionsToKeep {
			continue
		}

		sort.Slice(versions, func(i, j int) bool {
			return versions[i].VersionNumber > versions[j].VersionNumber
		})

		for _, v := range versions[VersionsToKeep:] {
			if err := m.repo.DeleteVersion(v.ID.String()); err != nil {
				return nil, apperrors.Wrap(apperrors.ErrDatabase, "failed to prune version", err)
			}
		}

		if err := m.repo.SetDocumentVersionCount(doc.ID.String(), VersionsToKeep); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrDatabase, "failed to update version count", err)
		}

		action.Count++
		action.SizeFreed += VersionPruneCredit
	}

	return action, nil
}
