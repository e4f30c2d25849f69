package h2

import (
	"fmt"
	"time"

	"github.com/loykin/ternmigrate/internal/dialect"
	"github.com/loykin/ternmigrate/internal/sqlname"
)

// Registry renders version-registry SQL for H2. Older H2 stores created as
// epoch milliseconds in a BIGINT; 2.x uses a TIMESTAMP defaulting to
// CURRENT_TIMESTAMP.
type Registry struct {
	Version Version
}

func (r Registry) tableName(table string) string {
	if r.Version >= V2 {
		return sqlname.H2v2Name(table)
	}
	return sqlname.ToSQLName(table)
}

func (r Registry) EnsureVersionTable(table string) []string {
	if r.Version >= V2 {
		return []string{fmt.Sprintf(
			"CREATE TABLE IF NOT EXISTS %s (VERSION VARCHAR(14) NOT NULL, CREATED TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP)",
			r.tableName(table))}
	}
	return []string{fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (version VARCHAR(14) NOT NULL, created BIGINT NOT NULL)",
		r.tableName(table))}
}

func (r Registry) InsertVersion(table, version string, now time.Time) string {
	if r.Version >= V2 {
		return fmt.Sprintf("INSERT INTO %s (VERSION, CREATED) VALUES (%s, CURRENT_TIMESTAMP)",
			r.tableName(table), dialect.SingleQuoted(version))
	}
	return fmt.Sprintf("INSERT INTO %s (version, created) VALUES (%s, %d)",
		r.tableName(table), dialect.SingleQuoted(version), now.UnixMilli())
}

func (r Registry) DeleteVersion(table, version string) string {
	return fmt.Sprintf("DELETE FROM %s WHERE version = %s",
		r.tableName(table), dialect.SingleQuoted(version))
}
