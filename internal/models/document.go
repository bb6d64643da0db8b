// Package models provides data model definitions for the EduSafe core.
package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// UUID is a wrapper around string for UUID v4 type safety.
type UUID string

// Value implements driver.Valuer for UUID.
func (u UUID) Value() (driver.Value, error) {
	return string(u), nil
}

// Scan implements sql.Scanner for UUID.
func (u *UUID) Scan(value interface{}) error {
	if value == nil {
		*u = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*u = UUID(v)
	case []byte:
		*u = UUID(v)
	default:
		return fmt.Errorf("cannot scan %T into UUID", value)
	}
	return nil
}

// String returns the string representation of the UUID.
func (u UUID) String() string {
	return string(u)
}

// Document lifecycle statuses.
const (
	DocumentStatusAvailable = "available"
	DocumentStatusSyncing   = "syncing"
	DocumentStatusArchived  = "archived"
	DocumentStatusDeleted   = "deleted"
)

// CategoryOther is the default category when none is set.
const CategoryOther = "Other"

// Document represents a student's academic artifact with versioned content.
// Deletion is a status transition, never a row removal, so queued sync
// entries always reference a live row.
type Document struct {
	ID                 UUID   `db:"id" json:"id"`
	Title              string `db:"title" json:"title"`
	Category           string `db:"category" json:"category"`
	Content            string `db:"content" json:"content"`
	Size               int64  `db:"size" json:"size"`
	LastModified       int64  `db:"last_modified" json:"last_modified"`
	IsOfflineAvailable bool   `db:"is_offline_available" json:"is_offline_available"`
	Status             string `db:"status" json:"status"`
	VersionCount       int    `db:"version_count" json:"version_count"`
}

// TableName returns the table name for Document.
func (Document) TableName() string {
	return "documents"
}

// LastModifiedTime returns LastModified as time.Time.
func (d *Document) LastModifiedTime() time.Time {
	return time.Unix(d.LastModified, 0)
}

// Touch updates the LastModified timestamp.
func (d *Document) Touch() {
	d.LastModified = time.Now().Unix()
}

// CategoryOrDefault returns the category, falling back to "Other".
func (d *Document) CategoryOrDefault() string {
	if d.Category == "" {
		return CategoryOther
	}
	return d.Category
}
