package sqlserver

import (
	"fmt"
	"time"

	"github.com/loykin/ternmigrate/internal/dialect"
	"github.com/loykin/ternmigrate/internal/sqlname"
)

// Registry renders version-registry SQL for SQL Server. CREATE TABLE has no
// IF NOT EXISTS, so creation is guarded by an information_schema probe.
type Registry struct{}

func (Registry) EnsureVersionTable(table string) []string {
	bare := sqlname.SQLServerName(table, false)
	return []string{fmt.Sprintf(
		"IF NOT EXISTS (SELECT * FROM information_schema.tables WHERE table_name = '%s') "+
			"CREATE TABLE %s (version VARCHAR(14) NOT NULL, created DATETIME NOT NULL)",
		bare, sqlname.SQLServerName(table, true))}
}

func (Registry) InsertVersion(table, version string, _ time.Time) string {
	return fmt.Sprintf("INSERT INTO %s (version, created) VALUES (%s, GETDATE())",
		sqlname.SQLServerName(table, true), dialect.SingleQuoted(version))
}

func (Registry) DeleteVersion(table, version string) string {
	return fmt.Sprintf("DELETE FROM %s WHERE version = %s",
		sqlname.SQLServerName(table, true), dialect.SingleQuoted(version))
}
