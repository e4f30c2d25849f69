package introspect

import "database/sql"

// SQLServer introspects a SQL Server database through information_schema,
// scoped by table_catalog to the configured database. Identifier quoting is
// suppressed here: the catalogs store bare names.
type SQLServer struct {
	DB       *sql.DB
	Database string
}

func NewSQLServer(db *sql.DB, database string) *SQLServer {
	return &SQLServer{DB: db, Database: database}
}

func (s *SQLServer) exists(query string, args ...interface{}) (bool, error) {
	var n int
	if err := s.DB.QueryRow(query, args...).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// DatabaseExists checks sys.databases for the configured database.
func (s *SQLServer) DatabaseExists() (bool, error) {
	return s.exists(`SELECT COUNT(*) FROM sys.databases WHERE name = @p1`, s.Database)
}

func (s *SQLServer) TableExists(table string) (bool, error) {
	return s.exists(`SELECT COUNT(*) FROM information_schema.tables
		WHERE table_catalog = @p1 AND table_name = @p2`, s.Database, table)
}

func (s *SQLServer) ColumnExists(table, column string) (bool, error) {
	return s.exists(`SELECT COUNT(*) FROM information_schema.columns
		WHERE table_catalog = @p1 AND table_name = @p2 AND column_name = @p3`, s.Database, table, column)
}

func (s *SQLServer) ColumnType(table, column string) (string, error) {
	var t string
	err := s.DB.QueryRow(`SELECT data_type FROM information_schema.columns
		WHERE table_catalog = @p1 AND table_name = @p2 AND column_name = @p3`, s.Database, table, column).Scan(&t)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return t, err
}

func (s *SQLServer) PrimaryKeyExists(table string) (bool, error) {
	return s.exists(`SELECT COUNT(*) FROM information_schema.table_constraints
		WHERE table_catalog = @p1 AND table_name = @p2 AND constraint_type = 'PRIMARY KEY'`, s.Database, table)
}

func (s *SQLServer) PrimaryKeyName(table string) (string, error) {
	var n string
	err := s.DB.QueryRow(`SELECT constraint_name FROM information_schema.table_constraints
		WHERE table_catalog = @p1 AND table_name = @p2 AND constraint_type = 'PRIMARY KEY'`, s.Database, table).Scan(&n)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return n, err
}

func (s *SQLServer) ForeignKeyExists(table, name string) (bool, error) {
	return s.exists(`SELECT COUNT(*) FROM information_schema.table_constraints
		WHERE table_catalog = @p1 AND table_name = @p2 AND constraint_name = @p3
		AND constraint_type = 'FOREIGN KEY'`, s.Database, table, name)
}

func (s *SQLServer) IndexExists(table, index string) (bool, error) {
	return s.exists(`SELECT COUNT(*) FROM sys.indexes i
		JOIN sys.tables t ON t.object_id = i.object_id
		WHERE t.name = @p1 AND i.name = @p2`, table, index)
}
