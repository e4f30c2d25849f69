// Package introspect answers existence questions against a live database's
// system catalogs. Compilers use it for idempotency decisions; a nil
// Introspector means "assume empty schema", which every check answers false.
package introspect

// Introspector is a read-only view of the target database's schema.
type Introspector interface {
	TableExists(table string) (bool, error)
	ColumnExists(table, column string) (bool, error)
	// ColumnType returns the declared data type of a column, or "" when the
	// column does not exist.
	ColumnType(table, column string) (string, error)
	PrimaryKeyExists(table string) (bool, error)
	// PrimaryKeyName returns the name of the table's primary-key constraint,
	// or "" when the table has none.
	PrimaryKeyName(table string) (string, error)
	ForeignKeyExists(table, name string) (bool, error)
	IndexExists(table, index string) (bool, error)
}

// ForeignKeyMatcher is an optional capability: listing foreign keys that
// cover a given (fktable, fkcolumn, pktable, pkcolumn) tuple. The H2
// compilers use it to auto-drop duplicate constraints.
type ForeignKeyMatcher interface {
	MatchingForeignKeys(fkTable, fkColumn, pkTable, pkColumn string) ([]string, error)
}
