package migration

import (
	"database/sql"
	"fmt"
	"time"
)

// RegistrySQL renders version-registry statements for one backend. The
// registry table is (version VARCHAR(14) NOT NULL, created <timestamp>);
// the created column's type and literal differ per backend.
type RegistrySQL interface {
	EnsureVersionTable(table string) []string
	InsertVersion(table, version string, now time.Time) string
	DeleteVersion(table, version string) string
}

// Registry reads and mutates the version-registry table of one target
// database.
type Registry struct {
	DB    *sql.DB
	SQL   RegistrySQL
	Table string
}

// Ensure creates the version table when missing.
func (r *Registry) Ensure() error {
	for _, stmt := range r.SQL.EnsureVersionTable(r.Table) {
		if _, err := r.DB.Exec(stmt); err != nil {
			return fmt.Errorf("ensure version table: %w", err)
		}
	}
	return nil
}

// CurrentVersion returns the highest recorded version, or "" when none.
func (r *Registry) CurrentVersion() (string, error) {
	row := r.DB.QueryRow(fmt.Sprintf("SELECT MAX(version) FROM %s", r.Table))
	var v sql.NullString
	if err := row.Scan(&v); err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", err
	}
	return v.String, nil
}

// Versions returns every recorded version in ascending order.
func (r *Registry) Versions() ([]string, error) {
	rows, err := r.DB.Query(fmt.Sprintf("SELECT version FROM %s ORDER BY version", r.Table))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Insert appends a version row after a successful migration.
func (r *Registry) Insert(version string) error {
	_, err := r.DB.Exec(r.SQL.InsertVersion(r.Table, version, time.Now().UTC()))
	return err
}

// Delete removes a version row after a successful rollback.
func (r *Registry) Delete(version string) error {
	_, err := r.DB.Exec(r.SQL.DeleteVersion(r.Table, version))
	return err
}
