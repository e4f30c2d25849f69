// Package h2 compiles declarative commands into H2 statements. One compiler
// serves both major versions; the differences (identifier casing, reserved
// words, constraint-drop syntax, catalog layout) hang off the version
// resolved once at migrator construction.
package h2

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/loykin/ternmigrate/internal/command"
	"github.com/loykin/ternmigrate/internal/dialect"
	"github.com/loykin/ternmigrate/internal/sqlname"
)

// Subprotocol is the registry key for this backend.
const Subprotocol = "h2"

// Version is the H2 major version steering compilation.
type Version int

const (
	V1 Version = 1
	V2 Version = 2
)

// refSpec matches the head of a constraint ref spec:
// "(col) REFERENCES other(col)".
var refSpec = regexp.MustCompile(`\((\w+)\)\s+REFERENCES\s+(\w+)\((\w+)\)`)

// Column types H2 refuses to index.
var nonIndexable = map[string]struct{}{
	"CLOB":       {},
	"NCLOB":      {},
	"BLOB":       {},
	"TINYBLOB":   {},
	"MEDIUMBLOB": {},
	"LONGBLOB":   {},
	"IMAGE":      {},
	"OID":        {},
	"TINYTEXT":   {},
	"TEXT":       {},
	"MEDIUMTEXT": {},
	"LONGTEXT":   {},
	"NTEXT":      {},
}

var (
	charsetToken = regexp.MustCompile(`(?i)^character\s+set\b`)
	collateToken = regexp.MustCompile(`(?i)^collate\b`)
)

type Compiler struct {
	version Version
}

func NewV1() *Compiler {
	return &Compiler{version: V1}
}

func NewV2() *Compiler {
	return &Compiler{version: V2}
}

func (c *Compiler) Version() Version {
	return c.version
}

func (c *Compiler) name(s string) string {
	if c.version >= V2 {
		return sqlname.H2v2Name(s)
	}
	return sqlname.ToSQLName(s)
}

// sanitizeColumn strips tokens H2 does not support and normalizes the
// column name. H2 1.x additionally maps DEFAULT NULL to NULL.
func (c *Compiler) sanitizeColumn(col command.Column) command.Column {
	out := command.Column{Name: sqlname.StripLengthSuffix(col.Name)}
	for _, tok := range col.Spec {
		trimmed := strings.TrimSpace(tok)
		if charsetToken.MatchString(trimmed) || collateToken.MatchString(trimmed) {
			continue
		}
		if c.version == V1 && strings.EqualFold(trimmed, "DEFAULT NULL") {
			out.Spec = append(out.Spec, "NULL")
			continue
		}
		out.Spec = append(out.Spec, tok)
	}
	return out
}

func (c *Compiler) Compile(cmd command.Command, ctx *dialect.Context) ([]string, error) {
	switch v := cmd.(type) {
	case *command.CreateTable:
		return dialect.CompileCreateTable(v, ctx, dialect.CreateTableHooks{
			Name:         c.name,
			Sanitize:     c.sanitizeColumn,
			CompileAlter: c.alterTable,
		})
	case *command.DropTable:
		return []string{"DROP TABLE " + c.name(v.Table)}, nil
	case *command.AlterTable:
		return c.alterTable(v, ctx)
	case *command.CreateIndex:
		return c.createIndex(v, ctx)
	case *command.DropIndex:
		return c.dropIndex(v, ctx)
	case *command.InsertInto:
		return dialect.CompileInsertInto(v, c.name, dialect.SingleQuoted)
	case *command.Update:
		return dialect.CompileUpdate(v, Subprotocol)
	default:
		return nil, fmt.Errorf("h2: unsupported command kind %q", cmd.Kind())
	}
}

// alterTable emits multiple statements: column adds and drops are each
// grouped into one statement, constraints and modifications get their own.
// Table options and character sets have no H2 rendition.
func (c *Compiler) alterTable(a *command.AlterTable, ctx *dialect.Context) ([]string, error) {
	prefix := "ALTER TABLE " + c.name(a.Table) + " "
	var stmts []string

	for _, n := range a.DropConstraints {
		skip, err := dialect.SkipDropConstraint(ctx, a.Table, n)
		if err != nil {
			return nil, err
		}
		if skip {
			ctx.Skip(command.KindAlterTable, n, "constraint does not exist")
			continue
		}
		stmts = append(stmts, prefix+c.dropConstraintFragment(n))
	}

	var dropCols []string
	for _, col := range a.DropColumns {
		skip, err := dialect.SkipDropColumn(ctx, a.Table, col)
		if err != nil {
			return nil, err
		}
		if skip {
			ctx.Skip(command.KindAlterTable, col, "column does not exist")
			continue
		}
		dropCols = append(dropCols, c.name(col))
	}
	if len(dropCols) > 0 {
		stmts = append(stmts, prefix+"DROP COLUMN "+strings.Join(dropCols, ", "))
	}

	var addDefs []string
	for _, col := range a.AddColumns {
		skip, err := dialect.SkipAddColumn(ctx, a.Table, col.Name)
		if err != nil {
			return nil, err
		}
		if skip {
			ctx.Skip(command.KindAlterTable, col.Name, "column exists")
			continue
		}
		addDefs = append(addDefs, dialect.ColumnDef(c.sanitizeColumn(col), c.name))
	}
	if len(addDefs) > 0 {
		stmts = append(stmts, prefix+"ADD COLUMN ("+strings.Join(addDefs, ", ")+")")
	}

	for _, col := range a.ModifyColumns {
		stmts = append(stmts, prefix+"ALTER COLUMN "+dialect.ColumnDef(c.sanitizeColumn(col), c.name))
	}

	if len(a.PrimaryKey) > 0 {
		add, err := c.shouldAddPrimaryKey(a, ctx)
		if err != nil {
			return nil, err
		}
		if add {
			stmts = append(stmts, prefix+"ADD "+dialect.PrimaryKeyFragment(a.PrimaryKey, c.name))
		} else {
			ctx.Skip(command.KindAlterTable, a.Table, "primary key exists")
		}
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
		drops, err := c.duplicateConstraintDrops(a, con, ctx)
		if err != nil {
			return nil, err
		}
		for _, d := range drops {
			stmts = append(stmts, prefix+d)
		}
		stmts = append(stmts, prefix+"ADD "+dialect.ConstraintFragment(con, c.name))
	}

	return stmts, nil
}

func (c *Compiler) dropConstraintFragment(n string) string {
	if n == command.PrimaryKeySentinel {
		return "DROP PRIMARY KEY"
	}
	if c.version >= V2 {
		return "DROP CONSTRAINT IF EXISTS " + c.name(n)
	}
	return "DROP FOREIGN KEY " + c.name(n)
}

// shouldAddPrimaryKey adds the primary key unless it already exists and is
// not being dropped in this migration.
func (c *Compiler) shouldAddPrimaryKey(a *command.AlterTable, ctx *dialect.Context) (bool, error) {
	exists, err := ctx.PrimaryKeyExists(a.Table)
	if err != nil {
		return false, err
	}
	if !exists {
		return true, nil
	}
	return a.DropsPrimaryKey() || ctx.Plan.DroppedPrimaryKey(a.Table), nil
}

// duplicateConstraintDrops parses the new constraint's ref spec and drops
// any pre-existing distinct-named foreign key covering the same
// (fktable, fkcolumn, pktable, pkcolumn) tuple, unless that key is already
// scheduled for drop. An unparsable spec is logged and skipped.
func (c *Compiler) duplicateConstraintDrops(a *command.AlterTable, con command.Constraint, ctx *dialect.Context) ([]string, error) {
	spec := strings.Join(con.Refs, " ")
	m := refSpec.FindStringSubmatch(spec)
	if m == nil {
		ctx.Error("failed to parse foreign key ref spec", "constraint", con.Name, "spec", spec)
		return nil, nil
	}
	fkColumn, pkTable, pkColumn := m[1], m[2], m[3]

	existing, err := ctx.MatchingForeignKeys(a.Table, fkColumn, pkTable, pkColumn)
	if err != nil {
		return nil, err
	}
	var drops []string
	for _, fk := range existing {
		if strings.EqualFold(fk, con.Name) || strings.EqualFold(fk, sqlname.ToSQLName(con.Name)) {
			continue
		}
		if a.DropsConstraint(fk) || ctx.Plan.DroppedConstraint(a.Table, fk) {
			continue
		}
		drops = append(drops, c.dropConstraintFragment(fk))
	}
	return drops, nil
}

// createIndex strips columns whose type H2 cannot index; the type comes
// from introspection or, failing that, from a declaration earlier in the
// plan. When nothing indexable remains, the command compiles to nothing.
func (c *Compiler) createIndex(ci *command.CreateIndex, ctx *dialect.Context) ([]string, error) {
	var cols []string
	for _, col := range ci.Columns {
		typ, err := ctx.ColumnType(ci.On, col)
		if err != nil {
			return nil, err
		}
		if typ == "" {
			typ = ctx.Plan.ColumnType(ci.On, col)
		}
		if c.indexable(typ) {
			cols = append(cols, col)
		} else {
			ctx.Warn("skipping non-indexable column", "index", ci.Index, "column", col, "type", typ)
		}
	}
	if len(cols) == 0 {
		ctx.Warn("no indexable columns remain, skipping index", "index", ci.Index, "table", ci.On)
		return nil, nil
	}
	filtered := *ci
	filtered.Columns = cols
	return dialect.CompileCreateIndex(&filtered, ctx, c.name)
}

func (c *Compiler) indexable(typ string) bool {
	if typ == "" {
		return true
	}
	t := strings.ToUpper(strings.TrimSpace(typ))
	t = sqlname.StripLengthSuffix(t)
	if _, bad := nonIndexable[t]; bad {
		return false
	}
	if c.version >= V2 && t == "CHARACTER LARGE OBJECT" {
		return false
	}
	return true
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
	return []string{"DROP INDEX " + c.name(d.Index)}, nil
}
