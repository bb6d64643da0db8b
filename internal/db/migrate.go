// Package db provides database schema migration management.
package db

import (
	"crypto/sha256"
	"database/sql"
	"embed"
	"encoding/hex"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"time"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migration represents an applied database schema migration.
type Migration struct {
	Version     int
	AppliedAt   time.Time
	Description string
	Checksum    string
}

// Migrator applies versioned schema migrations from an fs.FS. Migration
// files follow the V<n>__<description>.up.sql / .down.sql naming scheme.
type Migrator struct {
	db   *sql.DB
	fsys fs.FS
	dir  string
}

// NewMigrator creates a Migrator over the embedded migrations.
func NewMigrator(db *sql.DB) *Migrator {
	return &Migrator{db: db, fsys: migrationsFS, dir: "migrations"}
}

// NewMigratorFS creates a Migrator over an arbitrary filesystem, used by
// tests to exercise failure paths.
func NewMigratorFS(db *sql.DB, fsys fs.FS, dir string) *Migrator {
	return &Migrator{db: db, fsys: fsys, dir: dir}
}

// Initialize creates the schema_migrations table if it doesn't exist.
func (m *Migrator) Initialize() error {
	query := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY CHECK(version > 0),
		applied_at INTEGER NOT NULL CHECK(applied_at > 0),
		description TEXT NOT NULL CHECK(length(description) > 0),
		checksum TEXT NOT NULL CHECK(length(checksum) = 64)
	);`
	_, err := m.db.Exec(query)
	return err
}

// CurrentVersion returns the current schema version.
func (m *Migrator) CurrentVersion() (int, error) {
	var version int
	err := m.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	return version, err
}

// GetAppliedMigrations returns all applied migrations.
func (m *Migrator) GetAppliedMigrations() ([]Migration, error) {
	rows, err := m.db.Query("SELECT version, applied_at, description, checksum FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var migrations []Migration
	for rows.Next() {
		var mig Migration
		var appliedAt int64
		if err := rows.Scan(&mig.Version, &appliedAt, &mig.Description, &mig.Checksum); err != nil {
			return nil, err
		}
		mig.AppliedAt = time.Unix(appliedAt, 0)
		migrations = append(migrations, mig)
	}
	return migrations, rows.Err()
}

// Up applies all pending migrations in version order.
func (m *Migrator) Up() error {
	applied, err := m.GetAppliedMigrations()
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}
	appliedVersions := make(map[int]bool)
	for _, mig := range applied {
		appliedVersions[mig.Version] = true
	}

	entries, err := fs.ReadDir(m.fsys, m.dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	var pending []struct {
		version int
		name    string
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		version, ok := parseMigrationVersion(name, ".up.sql")
		if !ok {
			continue
		}
		pending = append(pending, struct {
			version int
			name    string
		}{version, name})
	}

	sort.Slice(pending, func(i, j int) bool {
		return pending[i].version < pending[j].version
	})

	for _, mig := range pending {
		if appliedVersions[mig.version] {
			continue
		}
		if err := m.applyMigration(mig.version, mig.name); err != nil {
			return fmt.Errorf("failed to apply migration V%d: %w", mig.version, err)
		}
	}

	return nil
}

// parseMigrationVersion extracts the version from a V<n>__<desc><suffix>
// filename. Returns false for files that don't match.
func parseMigrationVersion(name, suffix string) (int, bool) {
	if !strings.HasSuffix(name, suffix) {
		return 0, false
	}
	parts := strings.Split(strings.TrimSuffix(name, suffix), "__")
	if len(parts) < 2 {
		return 0, false
	}
	version, err := strconv.Atoi(strings.TrimPrefix(parts[0], "V"))
	if err != nil {
		return 0, false
	}
	return version, true
}

// applyMigration runs a single migration inside a transaction and records
// it with a SHA-256 checksum of its SQL.
func (m *Migrator) applyMigration(version int, filename string) error {
	content, err := fs.ReadFile(m.fsys, m.dir+"/"+filename)
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}

	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(string(content)); err != nil {
		return fmt.Errorf("failed to execute migration SQL: %w", err)
	}

	description := strings.TrimSuffix(filename, ".up.sql")
	description = strings.TrimPrefix(description, fmt.Sprintf("V%d__", version))
	hash := sha256.Sum256(content)
	checksum := hex.EncodeToString(hash[:])
	query := `INSERT INTO schema_migrations (version, applied_at, description, checksum)
			  VALUES (?, ?, ?, ?)`
	if _, err := tx.Exec(query, version, time.Now().Unix(), description, checksum); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	return tx.Commit()
}

// Down rolls back the most recent migration.
func (m *Migrator) Down() error {
	current, err := m.CurrentVersion()
	if err != nil {
		return err
	}
	if current == 0 {
		return fmt.Errorf("no migrations to rollback")
	}

	entries, err := fs.ReadDir(m.fsys, m.dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	var downFile string
	for _, entry := range entries {
		if version, ok := parseMigrationVersion(entry.Name(), ".down.sql"); ok && version == current {
			downFile = entry.Name()
			break
		}
	}
	if downFile == "" {
		return fmt.Errorf("no rollback migration found for version %d", current)
	}

	content, err := fs.ReadFile(m.fsys, m.dir+"/"+downFile)
	if err != nil {
		return fmt.Errorf("failed to read rollback migration: %w", err)
	}

	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(string(content)); err != nil {
		return fmt.Errorf("failed to execute rollback SQL: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM schema_migrations WHERE version = ?", current); err != nil {
		return fmt.Errorf("failed to remove migration record: %w", err)
	}

	return tx.Commit()
}
