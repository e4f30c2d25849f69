package introspect

// Fake is an in-memory Introspector for tests and dry runs that want a
// non-empty schema. Zero value answers false everywhere, like a nil
// Introspector.
type Fake struct {
	Tables      map[string]bool
	Columns     map[string]bool   // "table.column"
	ColumnTypes map[string]string // "table.column" -> declared type
	PrimaryKeys map[string]string // table -> constraint name
	ForeignKeys map[string]bool   // "table.name"
	Indexes     map[string]bool   // "table.index"
	Matching    map[string][]string
}

func (f *Fake) TableExists(table string) (bool, error) {
	return f.Tables[table], nil
}

func (f *Fake) ColumnExists(table, column string) (bool, error) {
	return f.Columns[table+"."+column], nil
}

func (f *Fake) ColumnType(table, column string) (string, error) {
	return f.ColumnTypes[table+"."+column], nil
}

func (f *Fake) PrimaryKeyExists(table string) (bool, error) {
	_, ok := f.PrimaryKeys[table]
	return ok, nil
}

func (f *Fake) PrimaryKeyName(table string) (string, error) {
	return f.PrimaryKeys[table], nil
}

func (f *Fake) ForeignKeyExists(table, name string) (bool, error) {
	return f.ForeignKeys[table+"."+name], nil
}

func (f *Fake) IndexExists(table, index string) (bool, error) {
	return f.Indexes[table+"."+index], nil
}

// MatchingForeignKeys implements ForeignKeyMatcher; the key is
// "fktable.fkcolumn.pktable.pkcolumn".
func (f *Fake) MatchingForeignKeys(fkTable, fkColumn, pkTable, pkColumn string) ([]string, error) {
	return f.Matching[fkTable+"."+fkColumn+"."+pkTable+"."+pkColumn], nil
}
