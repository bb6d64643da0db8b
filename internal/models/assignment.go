// Package models provides data model definitions for the EduSafe core.
package models

import "time"

// Assignment priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// AssignmentStatusPending is the initial status of every assignment.
const AssignmentStatusPending = "pending"

// Assignment represents a dated task tied to a subject.
type Assignment struct {
	ID        UUID   `db:"id" json:"id"`
	Title     string `db:"title" json:"title"`
	DueDate   int64  `db:"due_date" json:"due_date"`
	Priority  string `db:"priority" json:"priority"`
	Status    string `db:"status" json:"status"`
	Subject   string `db:"subject" json:"subject"`
	CreatedAt int64  `db:"created_at" json:"created_at"`
}

// TableName returns the table name for Assignment.
func (Assignment) TableName() string {
	return "assignments"
}

// DueDateTime returns DueDate as time.Time.
func (a *Assignment) DueDateTime() time.Time {
	return time.Unix(a.DueDate, 0)
}

// CreatedAtTime returns CreatedAt as time.Time.
func (a *Assignment) CreatedAtTime() time.Time {
	return time.Unix(a.CreatedAt, 0)
}
