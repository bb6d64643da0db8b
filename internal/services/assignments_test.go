package services

import (
	"testing"
	"time"

	"github.com/ummeeayz/edusafe-app/internal/apperrors"
	"github.com/ummeeayz/edusafe-app/internal/models"
)

func TestCreateAssignmentDefaults(t *testing.T) {
	repo := setupTestRepo(t)
	svc := NewAssignmentService(repo)

	due := time.Now().Add(24 * time.Hour)
	id, err := svc.CreateAssignment(CreateAssignmentInput{
		Title:    "Chemistry Lab Report",
		DueDate:  due,
		Priority: models.PriorityHigh,
		Subject:  "Chemistry",
	})
	if err != nil {
		t.Fatalf("failed to create assignment: %v", err)
	}

	assignments, err := svc.GetAllAssignments()
	if err != nil {
		t.Fatalf("failed to list assignments: %v", err)
	}
	if len(assignments) != 1 {
		t.Fatalf("expected 1 assignment, got %d", len(assignments))
	}

	a := assignments[0]
	if a.ID.String() != id {
		t.Errorf("listed id %q does not match created id %q", a.ID.String(), id)
	}
	if a.Status != models.AssignmentStatusPending {
		t.Errorf("expected default status pending, got %q", a.Status)
	}
	if a.DueDate != due.Unix() {
		t.Errorf("expected due date %d, got %d", due.Unix(), a.DueDate)
	}

	id2, err := svc.CreateAssignment(CreateAssignmentInput{
		Title:   "History Reading",
		DueDate: due,
		Subject: "History",
	})
	if err != nil {
		t.Fatalf("failed to create assignment: %v", err)
	}
	got, err := repo.GetAssignment(id2)
	if err != nil {
		t.Fatalf("failed to get assignment: %v", err)
	}
	if got.Priority != models.PriorityMedium {
		t.Errorf("expected default priority medium, got %q", got.Priority)
	}
}

func TestAssignmentMutationsEnqueue(t *testing.T) {
	repo := setupTestRepo(t)
	svc := NewAssignmentService(repo)

	id, err := svc.CreateAssignment(CreateAssignmentInput{
		Title:   "English Essay",
		DueDate: time.Now().Add(48 * time.Hour),
		Subject: "English",
	})
	if err != nil {
		t.Fatalf("failed to create assignment: %v", err)
	}

	status := "completed"
	if err := svc.UpdateAssignment(id, UpdateAssignmentInput{Status: &status}); err != nil {
		t.Fatalf("failed to update assignment: %v", err)
	}
	if err := svc.DeleteAssignment(id); err != nil {
		t.Fatalf("failed to delete assignment: %v", err)
	}

	entries, err := repo.ListSyncQueue()
	if err != nil {
		t.Fatalf("failed to list queue: %v", err)
	}
	want := []string{
		models.ActionCreateAssignment,
		models.ActionUpdateAssignment,
		models.ActionDeleteAssignment,
	}
	if len(entries) != len(want) {
		t.Fatalf("expected %d queue entries, got %d", len(want), len(entries))
	}
	for i, entry := range entries {
		if entry.Action != want[i] {
			t.Errorf("entry %d: expected action %q, got %q", i, want[i], entry.Action)
		}
	}
}

func TestDeleteAssignmentIsHard(t *testing.T) {
	repo := setupTestRepo(t)
	svc := NewAssignmentService(repo)

	id, err := svc.CreateAssignment(CreateAssignmentInput{
		Title:   "Math Quiz Preparation",
		DueDate: time.Now().Add(7 * 24 * time.Hour),
		Subject: "Math",
	})
	if err != nil {
		t.Fatalf("failed to create assignment: %v", err)
	}

	if err := svc.DeleteAssignment(id); err != nil {
		t.Fatalf("failed to delete assignment: %v", err)
	}

	assignments, err := svc.GetAllAssignments()
	if err != nil {
		t.Fatalf("failed to list assignments: %v", err)
	}
	if len(assignments) != 0 {
		t.Errorf("expected hard delete to remove the row, got %d assignments", len(assignments))
	}

	if err := svc.DeleteAssignment(id); !apperrors.HasCode(err, apperrors.ErrAssignmentNotFound) {
		t.Errorf("expected assignment-not-found on second delete, got %v", err)
	}
}

func TestUpdateAssignmentNotFound(t *testing.T) {
	repo := setupTestRepo(t)
	svc := NewAssignmentService(repo)

	status := "completed"
	err := svc.UpdateAssignment("00000000-0000-4000-8000-000000000000", UpdateAssignmentInput{Status: &status})
	if !apperrors.HasCode(err, apperrors.ErrAssignmentNotFound) {
		t.Errorf("expected assignment-not-found error, got %v", err)
	}
}
