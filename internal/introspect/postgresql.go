package introspect

import "database/sql"

// PostgreSQL introspects a PostgreSQL database through information_schema
// and pg_catalog views, scoped to the connection's current schema.
type PostgreSQL struct {
	DB *sql.DB
}

func NewPostgreSQL(db *sql.DB) *PostgreSQL {
	return &PostgreSQL{DB: db}
}

func (p *PostgreSQL) exists(query string, args ...interface{}) (bool, error) {
	var n int
	if err := p.DB.QueryRow(query, args...).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (p *PostgreSQL) TableExists(table string) (bool, error) {
	return p.exists(`SELECT COUNT(*) FROM information_schema.tables
		WHERE table_schema = current_schema() AND table_name = $1`, table)
}

func (p *PostgreSQL) ColumnExists(table, column string) (bool, error) {
	return p.exists(`SELECT COUNT(*) FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1 AND column_name = $2`, table, column)
}

func (p *PostgreSQL) ColumnType(table, column string) (string, error) {
	var t string
	err := p.DB.QueryRow(`SELECT data_type FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1 AND column_name = $2`, table, column).Scan(&t)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return t, err
}

func (p *PostgreSQL) PrimaryKeyExists(table string) (bool, error) {
	return p.exists(`SELECT COUNT(*) FROM information_schema.table_constraints
		WHERE table_schema = current_schema() AND table_name = $1 AND constraint_type = 'PRIMARY KEY'`, table)
}

func (p *PostgreSQL) PrimaryKeyName(table string) (string, error) {
	var n string
	err := p.DB.QueryRow(`SELECT constraint_name FROM information_schema.table_constraints
		WHERE table_schema = current_schema() AND table_name = $1 AND constraint_type = 'PRIMARY KEY'`, table).Scan(&n)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return n, err
}

func (p *PostgreSQL) ForeignKeyExists(table, name string) (bool, error) {
	return p.exists(`SELECT COUNT(*) FROM information_schema.table_constraints
		WHERE table_schema = current_schema() AND table_name = $1 AND constraint_name = $2
		AND constraint_type = 'FOREIGN KEY'`, table, name)
}

func (p *PostgreSQL) IndexExists(table, index string) (bool, error) {
	return p.exists(`SELECT COUNT(*) FROM pg_indexes
		WHERE schemaname = current_schema() AND tablename = $1 AND indexname = $2`, table, index)
}
