// Package models provides data model definitions for the EduSafe core.
package models

import "time"

// Version is an immutable content snapshot tied to one document.
// Version numbers are assigned sequentially at creation time; the pruning
// policy may later open gaps.
type Version struct {
	ID            UUID   `db:"id" json:"id"`
	DocumentID    UUID   `db:"document_id" json:"document_id"`
	VersionNumber int    `db:"version_number" json:"version_number"`
	Content       string `db:"content" json:"content"`
	CreatedAt     int64  `db:"created_at" json:"created_at"`
}

// TableName returns the table name for Version.
func (Version) TableName() string {
	return "versions"
}

// CreatedAtTime returns CreatedAt as time.Time.
func (v *Version) CreatedAtTime() time.Time {
	return time.Unix(v.CreatedAt, 0)
}
