// Package postgresql compiles declarative commands into PostgreSQL
// statements. Column specs flow through verbatim; every alter fragment is
// its own statement. Character-set overrides and table options have no
// PostgreSQL form and compile to nothing.
package postgresql

import (
	"fmt"
	"strings"

	"github.com/loykin/ternmigrate/internal/command"
	"github.com/loykin/ternmigrate/internal/dialect"
	"github.com/loykin/ternmigrate/internal/sqlname"
)

// Subprotocol is the registry key for this backend.
const Subprotocol = "postgresql"

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
		return dialect.CompileInsertInto(v, name, dialect.SingleQuoted)
	case *command.Update:
		return dialect.CompileUpdate(v, Subprotocol)
	default:
		return nil, fmt.Errorf("postgresql: unsupported command kind %q", cmd.Kind())
	}
}

func (c *Compiler) alterTable(a *command.AlterTable, ctx *dialect.Context) ([]string, error) {
	prefix := "ALTER TABLE " + name(a.Table) + " "
	var stmts []string

	// Table options and character sets have no PostgreSQL rendition.

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
			stmts = append(stmts, prefix+"DROP CONSTRAINT "+pkName)
		} else {
			stmts = append(stmts, prefix+"DROP CONSTRAINT "+name(n))
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
		stmts = append(stmts, c.modifyColumn(prefix, col)...)
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

// modifyColumn splits a modify spec into PostgreSQL ALTER COLUMN variants:
// the leading type tokens become TYPE, NOT NULL becomes SET NOT NULL, and
// DEFAULT becomes SET DEFAULT.
func (c *Compiler) modifyColumn(prefix string, col command.Column) []string {
	colName := name(col.Name)
	var typeTokens []string
	var stmts []string

	for i := 0; i < len(col.Spec); i++ {
		tok := col.Spec[i]
		upper := strings.ToUpper(strings.TrimSpace(tok))
		switch {
		case upper == "NOT NULL":
			stmts = append(stmts, prefix+"ALTER COLUMN "+colName+" SET NOT NULL")
		case upper == "NULL":
			stmts = append(stmts, prefix+"ALTER COLUMN "+colName+" DROP NOT NULL")
		case strings.HasPrefix(upper, "DEFAULT"):
			stmts = append(stmts, prefix+"ALTER COLUMN "+colName+" SET "+tok)
		default:
			typeTokens = append(typeTokens, tok)
		}
	}

	if len(typeTokens) > 0 {
		head := prefix + "ALTER COLUMN " + colName + " TYPE " + strings.Join(typeTokens, " ")
		stmts = append([]string{head}, stmts...)
	}
	return stmts
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
	return []string{"DROP INDEX " + name(d.Index)}, nil
}
