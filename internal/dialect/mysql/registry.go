package mysql

import (
	"fmt"
	"time"

	"github.com/loykin/ternmigrate/internal/dialect"
	"github.com/loykin/ternmigrate/internal/sqlname"
)

// Registry renders version-registry SQL for MySQL. The created column is a
// BIGINT holding epoch milliseconds.
type Registry struct{}

func (Registry) EnsureVersionTable(table string) []string {
	return []string{fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (version VARCHAR(14) NOT NULL, created BIGINT NOT NULL)",
		sqlname.ToSQLName(table))}
}

func (Registry) InsertVersion(table, version string, now time.Time) string {
	return fmt.Sprintf("INSERT INTO %s (version, created) VALUES (%s, %d)",
		sqlname.ToSQLName(table), dialect.SingleQuoted(version), now.UnixMilli())
}

func (Registry) DeleteVersion(table, version string) string {
	return fmt.Sprintf("DELETE FROM %s WHERE version = %s",
		sqlname.ToSQLName(table), dialect.SingleQuoted(version))
}
