// Package backend maps subprotocol strings to the compiler, introspector,
// and registry dialect serving that backend. The mapping is populated at
// startup and read-mostly afterwards; Register exists for extensions.
package backend

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/loykin/ternmigrate/internal/dialect"
	"github.com/loykin/ternmigrate/internal/dialect/h2"
	"github.com/loykin/ternmigrate/internal/dialect/mysql"
	"github.com/loykin/ternmigrate/internal/dialect/postgresql"
	"github.com/loykin/ternmigrate/internal/dialect/sqlserver"
	"github.com/loykin/ternmigrate/internal/introspect"
	"github.com/loykin/ternmigrate/internal/migration"
)

// Backend bundles everything the runner needs for one target database.
type Backend struct {
	Subprotocol  string
	Compiler     dialect.Compiler
	Introspector introspect.Introspector
	Registry     migration.RegistrySQL
}

// Factory builds a Backend for an open connection. The database name is
// the configured target database (SQL Server scopes its introspection
// queries by it).
type Factory func(db *sql.DB, database string) (*Backend, error)

// UnsupportedBackendError reports a subprotocol outside the registry.
type UnsupportedBackendError struct {
	Subprotocol string
}

func (e *UnsupportedBackendError) Error() string {
	return fmt.Sprintf("unsupported backend %q", e.Subprotocol)
}

var factories = map[string]Factory{}

// Register installs a factory for a subprotocol. Registration is a
// startup-time operation; it is not synchronized.
func Register(subprotocol string, f Factory) {
	factories[subprotocol] = f
}

func init() {
	Register(mysql.Subprotocol, func(db *sql.DB, _ string) (*Backend, error) {
		return &Backend{
			Subprotocol:  mysql.Subprotocol,
			Compiler:     mysql.New(),
			Introspector: introspect.NewMySQL(db),
			Registry:     mysql.Registry{},
		}, nil
	})
	Register(postgresql.Subprotocol, func(db *sql.DB, _ string) (*Backend, error) {
		return &Backend{
			Subprotocol:  postgresql.Subprotocol,
			Compiler:     postgresql.New(),
			Introspector: introspect.NewPostgreSQL(db),
			Registry:     postgresql.Registry{},
		}, nil
	})
	Register(sqlserver.Subprotocol, func(db *sql.DB, database string) (*Backend, error) {
		return &Backend{
			Subprotocol:  sqlserver.Subprotocol,
			Compiler:     sqlserver.New(),
			Introspector: introspect.NewSQLServer(db, database),
			Registry:     sqlserver.Registry{},
		}, nil
	})
	Register(h2.Subprotocol, newH2Backend)
}

// New resolves the factory for a subprotocol and builds the backend.
func New(subprotocol string, db *sql.DB, database string) (*Backend, error) {
	f, ok := factories[subprotocol]
	if !ok {
		return nil, &UnsupportedBackendError{Subprotocol: subprotocol}
	}
	return f(db, database)
}

// newH2Backend resolves the live server's major version once and delegates
// every subsequent operation to the matching compiler and introspector.
func newH2Backend(db *sql.DB, _ string) (*Backend, error) {
	var raw string
	if err := db.QueryRow("SELECT h2version()").Scan(&raw); err != nil {
		return nil, fmt.Errorf("h2: resolve version: %w", err)
	}
	major, err := ParseH2Major(raw)
	if err != nil {
		return nil, err
	}

	compiler := h2.NewV1()
	version := h2.V1
	if major >= 2 {
		compiler = h2.NewV2()
		version = h2.V2
	}
	return &Backend{
		Subprotocol:  h2.Subprotocol,
		Compiler:     compiler,
		Introspector: introspect.NewH2(db, major),
		Registry:     h2.Registry{Version: version},
	}, nil
}

// ParseH2Major extracts the major version from an h2version() result such
// as "2.2.224".
func ParseH2Major(raw string) (int, error) {
	head, _, _ := strings.Cut(strings.TrimSpace(raw), ".")
	major, err := strconv.Atoi(head)
	if err != nil {
		return 0, fmt.Errorf("h2: unparsable version %q", raw)
	}
	return major, nil
}
