package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/ummeeayz/edusafe-app/internal/apperrors"
	"github.com/ummeeayz/edusafe-app/internal/db"
	"github.com/ummeeayz/edusafe-app/internal/models"
)

// AssignmentService provides CRUD operations over assignments. It follows
// the document service's create/update/delete/enqueue pattern without
// versioning; deletion is physical.
type AssignmentService struct {
	repo *db.Repository
}

// NewAssignmentService creates an AssignmentService.
func NewAssignmentService(repo *db.Repository) *AssignmentService {
	return &AssignmentService{repo: repo}
}

// CreateAssignmentInput holds the fields for a new assignment.
type CreateAssignmentInput struct {
	Title    string
	DueDate  time.Time
	Priority string
	Subject  string
}

// assignmentPayload is the sync-queue payload for assignment mutations.
type assignmentPayload struct {
	AssignmentID string                 `json:"assignment_id"`
	Updates      map[string]interface{} `json:"updates,omitempty"`
}

// CreateAssignment creates a pending assignment and enqueues a
// "create_assignment" sync entry. Returns the new id.
func (s *AssignmentService) CreateAssignment(in CreateAssignmentInput) (string, error) {
	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	a := &models.Assignment{
		Title:    in.Title,
		DueDate:  in.DueDate.Unix(),
		Priority: priority,
		Status:   models.AssignmentStatusPending,
		Subject:  in.Subject,
	}

	if err := s.repo.CreateAssignment(a); err != nil {
		return "", apperrors.Wrap(apperrors.ErrDatabase, "failed to create assignment", err)
	}

	if err := s.enqueue(models.ActionCreateAssignment, assignmentPayload{AssignmentID: a.ID.String()}); err != nil {
		return "", err
	}

	return a.ID.String(), nil
}

// UpdateAssignmentInput describes a partial assignment update. Nil fields
// are left unchanged.
type UpdateAssignmentInput struct {
	Title    *string
	DueDate  *time.Time
	Priority *string
	Status   *string
	Subject  *string
}

// UpdateAssignment applies a partial update and enqueues an
// "update_assignment" sync entry carrying the changed fields.
func (s *AssignmentService) UpdateAssignment(id string, in UpdateAssignmentInput) error {
	update := db.AssignmentUpdate{
		Title:    in.Title,
		Priority: in.Priority,
		Status:   in.Status,
		Subject:  in.Subject,
	}
	if in.DueDate != nil {
		due := in.DueDate.Unix()
		update.DueDate = &due
	}

	if err := s.repo.UpdateAssignment(id, update); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.New(apperrors.ErrAssignmentNotFound, "assignment not found: "+id)
		}
		return apperrors.Wrap(apperrors.ErrDatabase, "failed to update assignment", err)
	}

	payload := assignmentPayload{AssignmentID: id, Updates: changedAssignmentFields(in)}
	return s.enqueue(models.ActionUpdateAssignment, payload)
}

// DeleteAssignment removes an assignment and enqueues a
// "delete_assignment" sync entry. Unlike documents, assignments are
// deleted physically.
func (s *AssignmentService) DeleteAssignment(id string) error {
	if err := s.repo.DeleteAssignment(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.New(apperrors.ErrAssignmentNotFound, "assignment not found: "+id)
		}
		return apperrors.Wrap(apperrors.ErrDatabase, "failed to delete assignment", err)
	}

	return s.enqueue(models.ActionDeleteAssignment, assignmentPayload{AssignmentID: id})
}

// GetAllAssignments returns all assignments.
func (s *AssignmentService) GetAllAssignments() ([]*models.Assignment, error) {
	assignments, err := s.repo.ListAssignments()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "failed to list assignments", err)
	}
	return assignments, nil
}

func (s *AssignmentService) enqueue(action string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, "failed to marshal sync payload", err)
	}
	if _, err := s.repo.EnqueueSync(action, raw); err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, "failed to enqueue sync entry", err)
	}
	return nil
}

func changedAssignmentFields(in UpdateAssignmentInput) map[string]interface{} {
	updates := make(map[string]interface{})
	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.DueDate != nil {
		updates["due_date"] = in.DueDate.Unix()
	}
	if in.Priority != nil {
		updates["priority"] = *in.Priority
	}
	if in.Status != nil {
		updates["status"] = *in.Status
	}
	if in.Subject != nil {
		updates["subject"] = *in.Subject
	}
	return updates
}
