package dialect

import (
	"fmt"
	"strings"

	"github.com/loykin/ternmigrate/internal/command"
)

// PlaceholderColumn is the throwaway column used when create-table options
// force the column adds through ALTER statements.
const PlaceholderColumn = "__placeholder"

// PlaceholderSpec is the placeholder column's type token.
const PlaceholderSpec = "int"

// NameFunc converts an identifier-like value into a dialect identifier.
type NameFunc func(string) string

// Sanitizer rewrites a column spec for a dialect; the column name is
// available for rewrites that need it.
type Sanitizer func(command.Column) command.Column

// Literal renders one insert value as a SQL literal.
type Literal func(interface{}) string

// ColumnDef renders "name tok1 tok2 ..." for a sanitized column.
func ColumnDef(col command.Column, name NameFunc) string {
	parts := append([]string{name(col.Name)}, col.Spec...)
	return strings.Join(parts, " ")
}

// ColumnDefs renders sanitized column definitions joined with ", ".
func ColumnDefs(cols []command.Column, name NameFunc, sanitize Sanitizer) string {
	defs := make([]string, 0, len(cols))
	for _, col := range cols {
		if sanitize != nil {
			col = sanitize(col)
		}
		defs = append(defs, ColumnDef(col, name))
	}
	return strings.Join(defs, ", ")
}

// PrimaryKeyFragment renders "PRIMARY KEY (a, b)".
func PrimaryKeyFragment(cols []string, name NameFunc) string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = name(c)
	}
	return "PRIMARY KEY (" + strings.Join(out, ", ") + ")"
}

// ConstraintFragment renders "CONSTRAINT n FOREIGN KEY <refs...>".
func ConstraintFragment(c command.Constraint, name NameFunc) string {
	return "CONSTRAINT " + name(c.Name) + " FOREIGN KEY " + strings.Join(c.Refs, " ")
}

// OptionsFragment renders table options as "NAME=Value, NAME=Value",
// dropping options whose lower-cased name is in ignore.
func OptionsFragment(opts []command.TableOption, ignore map[string]struct{}) string {
	parts := make([]string, 0, len(opts))
	for _, o := range opts {
		if ignore != nil {
			if _, skip := ignore[strings.ToLower(o.Name)]; skip {
				continue
			}
		}
		parts = append(parts, o.Name+"="+o.Value)
	}
	return strings.Join(parts, ", ")
}

// ValuesClause renders "(v11,v12),(v21,v22)" for insert-into rows, in order.
func ValuesClause(rows [][]interface{}, lit Literal) string {
	groups := make([]string, 0, len(rows))
	for _, row := range rows {
		vals := make([]string, 0, len(row))
		for _, v := range row {
			vals = append(vals, lit(v))
		}
		groups = append(groups, "("+strings.Join(vals, ",")+")")
	}
	return strings.Join(groups, ",")
}

// DoubleQuoted renders strings with double quotes and everything else via
// its printable representation. This is MySQL's non-standard habit,
// preserved verbatim.
func DoubleQuoted(v interface{}) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", v)
}

// SingleQuoted renders strings as standard single-quoted SQL literals and
// everything else via its printable representation.
func SingleQuoted(v interface{}) string {
	if s, ok := v.(string); ok {
		return "'" + strings.ReplaceAll(s, "'", "''") + "'"
	}
	return fmt.Sprintf("%v", v)
}

// IndexColumns renders an index column list joined with ", ".
func IndexColumns(cols []string, name NameFunc) string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = name(c)
	}
	return strings.Join(out, ", ")
}
