package introspect

import "database/sql"

// MySQL introspects a MySQL database through information_schema, scoped to
// the connection's current database.
type MySQL struct {
	DB *sql.DB
}

func NewMySQL(db *sql.DB) *MySQL {
	return &MySQL{DB: db}
}

func (m *MySQL) exists(query string, args ...interface{}) (bool, error) {
	var n int
	if err := m.DB.QueryRow(query, args...).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (m *MySQL) TableExists(table string) (bool, error) {
	return m.exists(`SELECT COUNT(*) FROM information_schema.tables
		WHERE table_schema = DATABASE() AND table_name = ?`, table)
}

func (m *MySQL) ColumnExists(table, column string) (bool, error) {
	return m.exists(`SELECT COUNT(*) FROM information_schema.columns
		WHERE table_schema = DATABASE() AND table_name = ? AND column_name = ?`, table, column)
}

func (m *MySQL) ColumnType(table, column string) (string, error) {
	var t string
	err := m.DB.QueryRow(`SELECT data_type FROM information_schema.columns
		WHERE table_schema = DATABASE() AND table_name = ? AND column_name = ?`, table, column).Scan(&t)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return t, err
}

func (m *MySQL) PrimaryKeyExists(table string) (bool, error) {
	return m.exists(`SELECT COUNT(*) FROM information_schema.table_constraints
		WHERE table_schema = DATABASE() AND table_name = ? AND constraint_type = 'PRIMARY KEY'`, table)
}

func (m *MySQL) PrimaryKeyName(table string) (string, error) {
	var n string
	err := m.DB.QueryRow(`SELECT constraint_name FROM information_schema.table_constraints
		WHERE table_schema = DATABASE() AND table_name = ? AND constraint_type = 'PRIMARY KEY'`, table).Scan(&n)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return n, err
}

func (m *MySQL) ForeignKeyExists(table, name string) (bool, error) {
	return m.exists(`SELECT COUNT(*) FROM information_schema.table_constraints
		WHERE table_schema = DATABASE() AND table_name = ? AND constraint_name = ?
		AND constraint_type = 'FOREIGN KEY'`, table, name)
}

func (m *MySQL) IndexExists(table, index string) (bool, error) {
	return m.exists(`SELECT COUNT(*) FROM information_schema.statistics
		WHERE table_schema = DATABASE() AND table_name = ? AND index_name = ?`, table, index)
}
