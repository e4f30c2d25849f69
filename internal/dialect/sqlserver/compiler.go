// Package sqlserver compiles declarative commands into SQL Server
// statements. Column specs written in the MySQL idiom are remapped token by
// token; alter fragments are grouped into DROP and ADD statements.
package sqlserver

import (
	"fmt"
	"strings"

	"github.com/loykin/ternmigrate/internal/command"
	"github.com/loykin/ternmigrate/internal/dialect"
	"github.com/loykin/ternmigrate/internal/sqlname"
)

// Subprotocol is the registry key for this backend.
const Subprotocol = "sqlserver"

// Table options with no SQL Server rendition.
var ignoreOptions = map[string]struct{}{
	"row_format": {},
}

type Compiler struct{}

func New() *Compiler {
	return &Compiler{}
}

func name(s string) string {
	return sqlname.SQLServerName(s, true)
}

func (c *Compiler) Compile(cmd command.Command, ctx *dialect.Context) ([]string, error) {
	switch v := cmd.(type) {
	case *command.CreateTable:
		return dialect.CompileCreateTable(v, ctx, dialect.CreateTableHooks{
			Name:         name,
			Sanitize:     sanitizeColumn,
			CompileAlter: c.alterTable,
		})
	case *command.DropTable:
		return []string{"DROP TABLE " + name(v.Table)}, nil
	case *command.AlterTable:
		return c.alterTable(v, ctx)
	case *command.CreateIndex:
		return dialect.CompileCreateIndex(v, ctx, name)
	case *command.DropIndex:
		return c.dropIndex(v, ctx)
	case *command.InsertInto:
		return dialect.CompileInsertInto(v, name, dialect.SingleQuoted)
	case *command.Update:
		return dialect.CompileUpdate(v, Subprotocol)
	default:
		return nil, fmt.Errorf("sqlserver: unsupported command kind %q", cmd.Kind())
	}
}

// alterTable groups fragments: one DROP statement covering constraints and
// columns, one ADD statement covering columns and constraints, then table
// options, primary key, and per-column modifications as dedicated
// statements.
func (c *Compiler) alterTable(a *command.AlterTable, ctx *dialect.Context) ([]string, error) {
	prefix := "ALTER TABLE " + name(a.Table) + " "
	var stmts []string

	var dropItems []string
	for _, n := range a.DropConstraints {
		skip, err := dialect.SkipDropConstraint(ctx, a.Table, n)
		if err != nil {
			return nil, err
		}
		if skip {
			ctx.Skip(command.KindAlterTable, n, "constraint does not exist")
			continue
		}
		if n == command.PrimaryKeySentinel {
			pkName, err := ctx.PrimaryKeyName(a.Table)
			if err != nil {
				return nil, err
			}
			if pkName == "" {
				ctx.Skip(command.KindAlterTable, n, "primary key does not exist")
				continue
			}
			dropItems = append(dropItems, "CONSTRAINT "+pkName)
		} else {
			dropItems = append(dropItems, "CONSTRAINT "+name(n))
		}
	}
	for _, col := range a.DropColumns {
		skip, err := dialect.SkipDropColumn(ctx, a.Table, col)
		if err != nil {
			return nil, err
		}
		if skip {
			ctx.Skip(command.KindAlterTable, col, "column does not exist")
			continue
		}
		dropItems = append(dropItems, "COLUMN "+name(col))
	}
	if len(dropItems) > 0 {
		stmts = append(stmts, prefix+"DROP "+strings.Join(dropItems, ", "))
	}

	var addItems []string
	for _, col := range a.AddColumns {
		skip, err := dialect.SkipAddColumn(ctx, a.Table, col.Name)
		if err != nil {
			return nil, err
		}
		if skip {
			ctx.Skip(command.KindAlterTable, col.Name, "column exists")
			continue
		}
		addItems = append(addItems, dialect.ColumnDef(sanitizeColumn(col), name))
	}
	for _, con := range a.AddConstraints {
		skip, err := dialect.SkipAddConstraint(ctx, a.Table, con.Name)
		if err != nil {
			return nil, err
		}
		if skip {
			ctx.Skip(command.KindAlterTable, con.Name, "constraint exists")
			continue
		}
		addItems = append(addItems, dialect.ConstraintFragment(con, name))
	}
	if len(addItems) > 0 {
		stmts = append(stmts, prefix+"ADD "+strings.Join(addItems, ", "))
	}

	if frag := dialect.OptionsFragment(a.Options, ignoreOptions); frag != "" {
		stmts = append(stmts, prefix+frag)
	}

	// Character-set overrides have no SQL Server rendition.

	if len(a.PrimaryKey) > 0 {
		stmts = append(stmts, prefix+"ADD "+dialect.PrimaryKeyFragment(a.PrimaryKey, name))
	}

	for _, col := range a.ModifyColumns {
		stmts = append(stmts, prefix+"ALTER COLUMN "+dialect.ColumnDef(sanitizeColumn(col), name))
	}

	return stmts, nil
}

func (c *Compiler) dropIndex(d *command.DropIndex, ctx *dialect.Context) ([]string, error) {
	skip, err := dialect.SkipDropIndex(ctx, d.On, d.Index)
	if err != nil {
		return nil, err
	}
	if skip {
		ctx.Skip(command.KindDropIndex, d.Index, "index does not exist")
		return nil, nil
	}
	return []string{"DROP INDEX " + name(d.Index) + " ON " + name(d.On)}, nil
}
