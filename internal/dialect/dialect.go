// Package dialect defines the contract every backend compiler implements:
// translate one declarative command into zero or more SQL statements, given
// a view of the live database and the commands already compiled in the
// current migration. An empty statement list means the command was skipped
// because the live state already satisfies it; that is not an error.
package dialect

import (
	"errors"
	"log/slog"

	"github.com/loykin/ternmigrate/internal/command"
	"github.com/loykin/ternmigrate/internal/common"
	"github.com/loykin/ternmigrate/internal/introspect"
	"github.com/loykin/ternmigrate/internal/plan"
)

// ErrEmptyInsert is returned for an insert-into with neither values nor query.
var ErrEmptyInsert = errors.New("insert-into requires values or query")

// ErrEmptyUpdate is returned for an update with no query text.
var ErrEmptyUpdate = errors.New("update requires a query")

// Compiler translates one command into backend-specific SQL statements.
type Compiler interface {
	Compile(c command.Command, ctx *Context) ([]string, error)
}

// Context carries the ambient inputs of compilation: the live-DB
// introspector (nil means "assume empty schema") and the plan of commands
// already compiled in this migration.
type Context struct {
	DB     introspect.Introspector
	Plan   *plan.Plan
	Logger *slog.Logger
}

// NewContext binds an introspector and a fresh plan for one migration.
func NewContext(db introspect.Introspector) *Context {
	return &Context{DB: db, Plan: plan.New(), Logger: common.GetLogger().Logger}
}

func (c *Context) log() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return common.GetLogger().Logger
}

// Skip logs an idempotency decision that emitted no statements.
func (c *Context) Skip(kind command.Kind, object, reason string) {
	c.log().Info("skipping command", "command", string(kind), "object", object, "reason", reason)
}

// Warn logs a non-fatal compilation note.
func (c *Context) Warn(msg string, attrs ...any) {
	c.log().Warn(msg, attrs...)
}

// Error logs a non-fatal compilation problem, such as an unparsable
// foreign-key ref spec.
func (c *Context) Error(msg string, attrs ...any) {
	c.log().Error(msg, attrs...)
}

// TableExists answers false on a nil introspector.
func (c *Context) TableExists(table string) (bool, error) {
	if c.DB == nil {
		return false, nil
	}
	return c.DB.TableExists(table)
}

// ColumnExists answers false on a nil introspector.
func (c *Context) ColumnExists(table, column string) (bool, error) {
	if c.DB == nil {
		return false, nil
	}
	return c.DB.ColumnExists(table, column)
}

// ColumnType answers "" on a nil introspector.
func (c *Context) ColumnType(table, column string) (string, error) {
	if c.DB == nil {
		return "", nil
	}
	return c.DB.ColumnType(table, column)
}

// PrimaryKeyExists answers false on a nil introspector.
func (c *Context) PrimaryKeyExists(table string) (bool, error) {
	if c.DB == nil {
		return false, nil
	}
	return c.DB.PrimaryKeyExists(table)
}

// PrimaryKeyName answers "" on a nil introspector.
func (c *Context) PrimaryKeyName(table string) (string, error) {
	if c.DB == nil {
		return "", nil
	}
	return c.DB.PrimaryKeyName(table)
}

// ForeignKeyExists answers false on a nil introspector.
func (c *Context) ForeignKeyExists(table, name string) (bool, error) {
	if c.DB == nil {
		return false, nil
	}
	return c.DB.ForeignKeyExists(table, name)
}

// IndexExists answers false on a nil introspector.
func (c *Context) IndexExists(table, index string) (bool, error) {
	if c.DB == nil {
		return false, nil
	}
	return c.DB.IndexExists(table, index)
}

// MatchingForeignKeys answers nil unless the introspector implements
// ForeignKeyMatcher.
func (c *Context) MatchingForeignKeys(fkTable, fkColumn, pkTable, pkColumn string) ([]string, error) {
	m, ok := c.DB.(introspect.ForeignKeyMatcher)
	if !ok || c.DB == nil {
		return nil, nil
	}
	return m.MatchingForeignKeys(fkTable, fkColumn, pkTable, pkColumn)
}
