// Package plan records the commands already compiled within the current
// migration. Compilers consult it for intra-migration awareness: whether an
// earlier command dropped a table, column, constraint, or index that a later
// command is about to recreate.
package plan

import (
	"strings"

	"github.com/loykin/ternmigrate/internal/command"
)

// Plan is an ordered buffer of compiled commands, scoped to one migration's
// execution. It is not safe for concurrent use and is not expected to be.
type Plan struct {
	cmds []command.Command
}

func New() *Plan {
	return &Plan{}
}

// Add appends a command after its compilation succeeded.
func (p *Plan) Add(c command.Command) {
	p.cmds = append(p.cmds, c)
}

// Len returns the number of recorded commands.
func (p *Plan) Len() int {
	if p == nil {
		return 0
	}
	return len(p.cmds)
}

// Commands returns the recorded commands in submission order.
func (p *Plan) Commands() []command.Command {
	if p == nil {
		return nil
	}
	return p.cmds
}

// DroppedTable reports whether a prior drop-table targeted the table.
func (p *Plan) DroppedTable(table string) bool {
	if p == nil {
		return false
	}
	for _, c := range p.cmds {
		if d, ok := c.(*command.DropTable); ok && d.Table == table {
			return true
		}
	}
	return false
}

// DroppedColumn reports whether a prior alter-table dropped the column on
// the table.
func (p *Plan) DroppedColumn(table, column string) bool {
	if p == nil {
		return false
	}
	for _, c := range p.cmds {
		a, ok := c.(*command.AlterTable)
		if !ok || a.Table != table {
			continue
		}
		for _, dc := range a.DropColumns {
			if dc == column {
				return true
			}
		}
	}
	return false
}

// DroppedConstraint reports whether a prior alter-table dropped the named
// constraint on the table.
func (p *Plan) DroppedConstraint(table, name string) bool {
	if p == nil {
		return false
	}
	for _, c := range p.cmds {
		a, ok := c.(*command.AlterTable)
		if !ok || a.Table != table {
			continue
		}
		if a.DropsConstraint(name) {
			return true
		}
	}
	return false
}

// DroppedPrimaryKey reports whether a prior alter-table dropped the table's
// primary key via the sentinel.
func (p *Plan) DroppedPrimaryKey(table string) bool {
	return p.DroppedConstraint(table, command.PrimaryKeySentinel)
}

// DroppedIndex reports whether a prior drop-index targeted the same
// (table, index) pair.
func (p *Plan) DroppedIndex(table, index string) bool {
	if p == nil {
		return false
	}
	for _, c := range p.cmds {
		if d, ok := c.(*command.DropIndex); ok && d.On == table && d.Index == index {
			return true
		}
	}
	return false
}

// ColumnType returns the declared type token of a column from a prior
// create-table or alter-table add-columns entry, or "" when the plan never
// declared the column. The first spec token is taken as the type.
func (p *Plan) ColumnType(table, column string) string {
	if p == nil {
		return ""
	}
	typeOf := func(cols []command.Column) string {
		for _, col := range cols {
			if strings.EqualFold(col.Name, column) && len(col.Spec) > 0 {
				return col.Spec[0]
			}
		}
		return ""
	}
	// Later declarations win, so scan in reverse.
	for i := len(p.cmds) - 1; i >= 0; i-- {
		switch c := p.cmds[i].(type) {
		case *command.CreateTable:
			if c.Table == table {
				if t := typeOf(c.Columns); t != "" {
					return t
				}
			}
		case *command.AlterTable:
			if c.Table == table {
				if t := typeOf(c.AddColumns); t != "" {
					return t
				}
			}
		}
	}
	return ""
}
