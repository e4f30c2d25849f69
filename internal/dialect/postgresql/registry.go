package postgresql

import (
	"fmt"
	"time"

	"github.com/loykin/ternmigrate/internal/dialect"
	"github.com/loykin/ternmigrate/internal/sqlname"
)

// Registry renders version-registry SQL for PostgreSQL.
type Registry struct{}

func (Registry) EnsureVersionTable(table string) []string {
	return []string{fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (version VARCHAR(14) NOT NULL, created TIMESTAMP NOT NULL)",
		sqlname.ToSQLName(table))}
}

func (Registry) InsertVersion(table, version string, _ time.Time) string {
	return fmt.Sprintf("INSERT INTO %s (version, created) VALUES (%s, NOW())",
		sqlname.ToSQLName(table), dialect.SingleQuoted(version))
}

func (Registry) DeleteVersion(table, version string) string {
	return fmt.Sprintf("DELETE FROM %s WHERE version = %s",
		sqlname.ToSQLName(table), dialect.SingleQuoted(version))
}
