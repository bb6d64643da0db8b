// Package models provides data model definitions for the EduSafe core.
package models

// Setting is a simple key/value pair, last write wins, no history.
type Setting struct {
	Key   string `db:"key" json:"key"`
	Value string `db:"value" json:"value"`
}

// TableName returns the table name for Setting.
func (Setting) TableName() string {
	return "settings"
}
