// Package models provides data model definitions for the EduSafe core.
package models

import (
	"encoding/json"
	"time"
)

// Sync queue action tags. One entry is appended for every mutating
// document or assignment operation.
const (
	ActionCreate           = "create"
	ActionUpdate           = "update"
	ActionDelete           = "delete"
	ActionCreateAssignment = "create_assignment"
	ActionUpdateAssignment = "update_assignment"
	ActionDeleteAssignment = "delete_assignment"
)

// SyncQueueEntry is a pending local mutation awaiting remote delivery.
// Seq is assigned by the store (AUTOINCREMENT) and defines the FIFO
// processing order; it never repeats, even after entries are removed.
type SyncQueueEntry struct {
	Seq       int64           `db:"seq" json:"seq"`
	Action    string          `db:"action" json:"action"`
	Payload   json.RawMessage `db:"payload" json:"payload"`
	Attempts  int             `db:"attempts" json:"attempts"`
	CreatedAt int64           `db:"created_at" json:"created_at"`
}

// TableName returns the table name for SyncQueueEntry.
func (SyncQueueEntry) TableName() string {
	return "sync_queue"
}

// CreatedAtTime returns CreatedAt as time.Time.
func (e *SyncQueueEntry) CreatedAtTime() time.Time {
	return time.Unix(e.CreatedAt, 0)
}
