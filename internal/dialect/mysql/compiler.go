// Package mysql compiles declarative commands into MySQL statements.
// Column specs flow through verbatim; insert values keep the double-quoted
// string form the tool has always emitted.
package mysql

import (
	"fmt"

	"github.com/loykin/ternmigrate/internal/command"
	"github.com/loykin/ternmigrate/internal/dialect"
	"github.com/loykin/ternmigrate/internal/sqlname"
)

// Subprotocol is the registry key for this backend.
const Subprotocol = "mysql"

type Compiler struct{}

func New() *Compiler {
	return &Compiler{}
}

func name(s string) string {
	return sqlname.ToSQLName(s)
}

func (c *Compiler) Compile(cmd command.Command, ctx *dialect.Context) ([]string, error) {
	switch v := cmd.(type) {
	case *command.CreateTable:
		return dialect.CompileCreateTable(v, ctx, dialect.CreateTableHooks{
			Name:         name,
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
		return dialect.CompileInsertInto(v, name, dialect.DoubleQuoted)
	case *command.Update:
		return dialect.CompileUpdate(v, Subprotocol)
	default:
		return nil, fmt.Errorf("mysql: unsupported command kind %q", cmd.Kind())
	}
}

// alterTable emits one statement per fragment, with table options coalesced
// into one. Fragment order: options, charset, dropped constraints, dropped
// columns, added columns, modified columns, primary key, added constraints.
func (c *Compiler) alterTable(a *command.AlterTable, ctx *dialect.Context) ([]string, error) {
	prefix := "ALTER TABLE " + name(a.Table) + " "
	var stmts []string

	if frag := dialect.OptionsFragment(a.Options, nil); frag != "" {
		stmts = append(stmts, prefix+frag)
	}

	if cs := a.CharacterSet; cs != nil {
		s := prefix + "CONVERT TO CHARACTER SET " + cs.Name
		if cs.Collation != "" {
			s += " COLLATE " + cs.Collation
		}
		stmts = append(stmts, s)
	}

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
			stmts = append(stmts, prefix+"DROP PRIMARY KEY")
		} else {
			stmts = append(stmts, prefix+"DROP FOREIGN KEY "+name(n))
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
		stmts = append(stmts, prefix+"DROP COLUMN "+name(col))
	}

	for _, col := range a.AddColumns {
		skip, err := dialect.SkipAddColumn(ctx, a.Table, col.Name)
		if err != nil {
			return nil, err
		}
		if skip {
			ctx.Skip(command.KindAlterTable, col.Name, "column exists")
			continue
		}
		stmts = append(stmts, prefix+"ADD COLUMN "+dialect.ColumnDef(col, name))
	}

	for _, col := range a.ModifyColumns {
		stmts = append(stmts, prefix+"MODIFY COLUMN "+dialect.ColumnDef(col, name))
	}

	if len(a.PrimaryKey) > 0 {
		stmts = append(stmts, prefix+"ADD "+dialect.PrimaryKeyFragment(a.PrimaryKey, name))
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
		stmts = append(stmts, prefix+"ADD "+dialect.ConstraintFragment(con, name))
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
