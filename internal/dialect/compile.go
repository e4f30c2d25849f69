package dialect

import (
	"strings"

	"github.com/loykin/ternmigrate/internal/command"
)

// CreateTableHooks parameterizes the uniform create-table algorithm with a
// backend's naming, column sanitizing, and alter-table compilation (the
// latter re-entered for the placeholder expansion).
type CreateTableHooks struct {
	Name         NameFunc
	Sanitize     Sanitizer
	CompileAlter func(*command.AlterTable, *Context) ([]string, error)
}

// CompileCreateTable implements the uniform create-table algorithm: skip
// when the table pre-exists, route table-options through the four-statement
// placeholder expansion, and otherwise emit a single CREATE TABLE with
// columns, primary key, and constraint lines.
func CompileCreateTable(cmd *command.CreateTable, ctx *Context, h CreateTableHooks) ([]string, error) {
	skip, err := SkipCreateTable(ctx, cmd.Table)
	if err != nil {
		return nil, err
	}
	if skip {
		ctx.Skip(command.KindCreateTable, cmd.Table, "table exists")
		return nil, nil
	}

	table := h.Name(cmd.Table)

	if len(cmd.Options) > 0 {
		// Placeholder expansion: some backends accept table options only on
		// standalone ALTER, so the column adds are routed through ALTER on a
		// table created with a single throwaway column.
		stmts := []string{"CREATE TABLE " + table + " (" + h.Name(PlaceholderColumn) + " " + PlaceholderSpec + ")"}

		alter := &command.AlterTable{
			Table:          cmd.Table,
			AddColumns:     cmd.Columns,
			Options:        cmd.Options,
			AddConstraints: cmd.Constraints,
		}
		more, err := h.CompileAlter(alter, ctx)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, more...)

		if len(cmd.PrimaryKey) > 0 {
			pk, err := h.CompileAlter(&command.AlterTable{Table: cmd.Table, PrimaryKey: cmd.PrimaryKey}, ctx)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, pk...)
		}

		stmts = append(stmts, "ALTER TABLE "+table+" DROP COLUMN "+h.Name(PlaceholderColumn))
		return stmts, nil
	}

	parts := make([]string, 0, len(cmd.Columns)+1+len(cmd.Constraints))
	for _, col := range cmd.Columns {
		if h.Sanitize != nil {
			col = h.Sanitize(col)
		}
		parts = append(parts, ColumnDef(col, h.Name))
	}
	if len(cmd.PrimaryKey) > 0 {
		parts = append(parts, PrimaryKeyFragment(cmd.PrimaryKey, h.Name))
	}
	for _, con := range cmd.Constraints {
		parts = append(parts, ConstraintFragment(con, h.Name))
	}
	return []string{"CREATE TABLE " + table + " (" + strings.Join(parts, ", ") + ")"}, nil
}

// CompileCreateIndex implements the shared create-index path.
func CompileCreateIndex(ci *command.CreateIndex, ctx *Context, name NameFunc) ([]string, error) {
	skip, err := SkipCreateIndex(ctx, ci.On, ci.Index)
	if err != nil {
		return nil, err
	}
	if skip {
		ctx.Skip(command.KindCreateIndex, ci.Index, "index exists")
		return nil, nil
	}
	kw := "INDEX"
	if ci.Unique {
		kw = "UNIQUE INDEX"
	}
	return []string{"CREATE " + kw + " " + name(ci.Index) + " ON " + name(ci.On) +
		" (" + IndexColumns(ci.Columns, name) + ")"}, nil
}

// CompileInsertInto implements the shared insert-into path; only the value
// literalizer and naming differ per backend.
func CompileInsertInto(ins *command.InsertInto, name NameFunc, lit Literal) ([]string, error) {
	table := name(ins.Table)
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	if len(ins.Columns) > 0 {
		cols := make([]string, len(ins.Columns))
		for i, c := range ins.Columns {
			cols[i] = name(c)
		}
		b.WriteString(" (")
		b.WriteString(strings.Join(cols, ", "))
		b.WriteString(")")
	}
	switch {
	case len(ins.Values) > 0:
		b.WriteString(" VALUES ")
		b.WriteString(ValuesClause(ins.Values, lit))
	case strings.TrimSpace(ins.Query) != "":
		b.WriteString(" ")
		b.WriteString(ins.Query)
	default:
		return nil, ErrEmptyInsert
	}
	return []string{b.String()}, nil
}

// CompileUpdate emits the subprotocol override when present, the generic
// text otherwise.
func CompileUpdate(u *command.Update, subprotocol string) ([]string, error) {
	s := u.For(subprotocol)
	if strings.TrimSpace(s) == "" {
		return nil, ErrEmptyUpdate
	}
	return []string{s}, nil
}
