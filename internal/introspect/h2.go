package introspect

import (
	"database/sql"
	"strings"
)

// H2 introspects an H2 database through its uppercase INFORMATION_SCHEMA,
// scoped to the connection's current schema via SCHEMA(). The catalog
// layout changed between H2 1.x and 2.x, so the major version steers the
// foreign-key and column-type queries.
type H2 struct {
	DB      *sql.DB
	Version int // H2 major version: 1 or 2
}

func NewH2(db *sql.DB, version int) *H2 {
	return &H2{DB: db, Version: version}
}

// up matches H2's habit of storing identifiers upper-cased.
func up(s string) string {
	return strings.ToUpper(s)
}

func (h *H2) exists(query string, args ...interface{}) (bool, error) {
	var n int
	if err := h.DB.QueryRow(query, args...).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (h *H2) TableExists(table string) (bool, error) {
	return h.exists(`SELECT COUNT(*) FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_SCHEMA = SCHEMA() AND TABLE_NAME = ?`, up(table))
}

func (h *H2) ColumnExists(table, column string) (bool, error) {
	return h.exists(`SELECT COUNT(*) FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_SCHEMA = SCHEMA() AND TABLE_NAME = ? AND COLUMN_NAME = ?`, up(table), up(column))
}

func (h *H2) ColumnType(table, column string) (string, error) {
	col := "TYPE_NAME"
	if h.Version >= 2 {
		col = "DATA_TYPE"
	}
	var t string
	err := h.DB.QueryRow(`SELECT `+col+` FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_SCHEMA = SCHEMA() AND TABLE_NAME = ? AND COLUMN_NAME = ?`, up(table), up(column)).Scan(&t)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return t, err
}

func (h *H2) PrimaryKeyExists(table string) (bool, error) {
	return h.exists(`SELECT COUNT(*) FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS
		WHERE TABLE_SCHEMA = SCHEMA() AND TABLE_NAME = ? AND CONSTRAINT_TYPE = 'PRIMARY KEY'`, up(table))
}

func (h *H2) PrimaryKeyName(table string) (string, error) {
	var n string
	err := h.DB.QueryRow(`SELECT CONSTRAINT_NAME FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS
		WHERE TABLE_SCHEMA = SCHEMA() AND TABLE_NAME = ? AND CONSTRAINT_TYPE = 'PRIMARY KEY'`, up(table)).Scan(&n)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return n, err
}

func (h *H2) ForeignKeyExists(table, name string) (bool, error) {
	return h.exists(`SELECT COUNT(*) FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS
		WHERE TABLE_SCHEMA = SCHEMA() AND TABLE_NAME = ? AND CONSTRAINT_NAME = ?
		AND CONSTRAINT_TYPE = 'FOREIGN KEY'`, up(table), up(name))
}

func (h *H2) IndexExists(table, index string) (bool, error) {
	return h.exists(`SELECT COUNT(*) FROM INFORMATION_SCHEMA.INDEXES
		WHERE TABLE_SCHEMA = SCHEMA() AND TABLE_NAME = ? AND INDEX_NAME = ?`, up(table), up(index))
}

// MatchingForeignKeys lists foreign keys covering the given
// (fktable, fkcolumn, pktable, pkcolumn) tuple. H2 1.x exposes the mapping
// directly in CROSS_REFERENCES; 2.x derives it from the standard
// constraint views.
func (h *H2) MatchingForeignKeys(fkTable, fkColumn, pkTable, pkColumn string) ([]string, error) {
	var query string
	if h.Version >= 2 {
		query = `SELECT tc.CONSTRAINT_NAME
			FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
			JOIN INFORMATION_SCHEMA.REFERENTIAL_CONSTRAINTS rc
				ON rc.CONSTRAINT_NAME = tc.CONSTRAINT_NAME
			JOIN INFORMATION_SCHEMA.CONSTRAINT_COLUMN_USAGE fkc
				ON fkc.CONSTRAINT_NAME = tc.CONSTRAINT_NAME
			JOIN INFORMATION_SCHEMA.CONSTRAINT_COLUMN_USAGE pkc
				ON pkc.CONSTRAINT_NAME = rc.UNIQUE_CONSTRAINT_NAME
			WHERE tc.CONSTRAINT_TYPE = 'FOREIGN KEY'
			AND fkc.TABLE_NAME = ? AND fkc.COLUMN_NAME = ?
			AND pkc.TABLE_NAME = ? AND pkc.COLUMN_NAME = ?`
	} else {
		query = `SELECT FK_NAME FROM INFORMATION_SCHEMA.CROSS_REFERENCES
			WHERE FKTABLE_NAME = ? AND FKCOLUMN_NAME = ?
			AND PKTABLE_NAME = ? AND PKCOLUMN_NAME = ?`
	}
	rows, err := h.DB.Query(query, up(fkTable), up(fkColumn), up(pkTable), up(pkColumn))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
