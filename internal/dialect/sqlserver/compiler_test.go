package sqlserver

import (
	"reflect"
	"testing"

	"github.com/loykin/ternmigrate/internal/command"
	"github.com/loykin/ternmigrate/internal/dialect"
	"github.com/loykin/ternmigrate/internal/introspect"
)

func compile(t *testing.T, cmd command.Command, ctx *dialect.Context) []string {
	t.Helper()
	got, err := New().Compile(cmd, ctx)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return got
}

func TestRewriteToken(t *testing.T) {
	tests := []struct {
		name string
		tok  string
		want string
		keep bool
	}{
		{"auto_increment", "auto_increment", "identity", true},
		{"blob", "BLOB", "varbinary(max)", true},
		{"longblob", "longblob", "varbinary(max)", true},
		{"boolean", "boolean", "bit", true},
		{"tinyint(1)", "tinyint(1)", "bit", true},
		{"text", "text", "varchar(max)", true},
		{"longtext", "LONGTEXT", "varchar(max)", true},
		{"timestamp", "timestamp", "datetime", true},
		{"double", "double", "float", true},
		{"sized int", "int(11)", "int", true},
		{"sized tinyint", "tinyint(4)", "tinyint", true},
		{"charset dropped", "CHARACTER SET utf8", "", false},
		{"collate dropped", "COLLATE utf8_general_ci", "", false},
		{"huge varbinary", "VARBINARY(9000)", "varbinary(max)", true},
		{"small varbinary kept", "VARBINARY(100)", "VARBINARY(100)", true},
		{"plain passes", "NOT NULL", "NOT NULL", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, keep := rewriteToken(tt.tok, "c")
			if keep != tt.keep {
				t.Fatalf("rewriteToken(%q) keep = %v, want %v", tt.tok, keep, tt.keep)
			}
			if keep && got != tt.want {
				t.Errorf("rewriteToken(%q) = %q, want %q", tt.tok, got, tt.want)
			}
		})
	}
}

func TestCompile_CreateTableEnumExpansion(t *testing.T) {
	cmd := &command.CreateTable{Table: "foo", Columns: []command.Column{
		{Name: "a", Spec: []string{"ENUM('Hello','Goodbye')"}},
	}}
	got := compile(t, cmd, dialect.NewContext(nil))
	want := []string{"CREATE TABLE foo (a VARCHAR(7) CHECK (a IN('Hello','Goodbye')))"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Compile() = %#v, want %#v", got, want)
	}
}

func TestCompile_AlterTableGroupsAddAndFiltersOptions(t *testing.T) {
	cmd := &command.AlterTable{
		Table:   "foo",
		Options: []command.TableOption{{Name: "ROW_FORMAT", Value: "Compressed"}},
		AddConstraints: []command.Constraint{
			{Name: "fk_foo_bar", Refs: []string{"(bar_id) REFERENCES bar(id)"}},
		},
	}
	got := compile(t, cmd, dialect.NewContext(nil))
	// row_format is in the backend's ignore set, so only the ADD remains.
	want := []string{"ALTER TABLE foo ADD CONSTRAINT fk_foo_bar FOREIGN KEY (bar_id) REFERENCES bar(id)"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Compile() = %#v, want %#v", got, want)
	}
}

func TestCompile_AlterTableGroupedDrop(t *testing.T) {
	db := &introspect.Fake{
		Columns:     map[string]bool{"foo.a": true},
		ForeignKeys: map[string]bool{"foo.fk_x": true},
	}
	cmd := &command.AlterTable{
		Table:           "foo",
		DropColumns:     []string{"a"},
		DropConstraints: []string{"fk_x"},
	}
	got := compile(t, cmd, dialect.NewContext(db))
	want := []string{"ALTER TABLE foo DROP CONSTRAINT fk_x, COLUMN a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Compile() = %#v, want %#v", got, want)
	}
}

func TestCompile_AlterTableDropPrimaryKeyDiscoversName(t *testing.T) {
	db := &introspect.Fake{PrimaryKeys: map[string]string{"foo": "PK__foo__123"}}
	cmd := &command.AlterTable{Table: "foo", DropConstraints: []string{command.PrimaryKeySentinel}}
	got := compile(t, cmd, dialect.NewContext(db))
	want := []string{"ALTER TABLE foo DROP CONSTRAINT PK__foo__123"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Compile() = %#v, want %#v", got, want)
	}
}

func TestCompile_AlterTableModifyDedicatedStatement(t *testing.T) {
	cmd := &command.AlterTable{Table: "foo", ModifyColumns: []command.Column{
		{Name: "a", Spec: []string{"text", "NOT NULL"}},
	}}
	got := compile(t, cmd, dialect.NewContext(nil))
	want := []string{"ALTER TABLE foo ALTER COLUMN a varchar(max) NOT NULL"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Compile() = %#v, want %#v", got, want)
	}
}

func TestCompile_ReservedNamesBracketed(t *testing.T) {
	cmd := &command.CreateTable{Table: "user", Columns: []command.Column{
		{Name: "a", Spec: []string{"INT"}},
	}}
	got := compile(t, cmd, dialect.NewContext(nil))
	want := []string{"CREATE TABLE [user] (a INT)"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Compile() = %#v, want %#v", got, want)
	}
}

func TestCompile_InsertIntoSingleQuotes(t *testing.T) {
	cmd := &command.InsertInto{
		Table:   "foo",
		Columns: []string{"a", "b"},
		Values:  [][]interface{}{{1, "x"}, {2, "it's"}},
	}
	got := compile(t, cmd, dialect.NewContext(nil))
	want := []string{"INSERT INTO foo (a, b) VALUES (1,'x'),(2,'it''s')"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Compile() = %#v, want %#v", got, want)
	}
}

func TestCompile_UpdateOverride(t *testing.T) {
	u := &command.Update{
		SQL:       "UPDATE foo SET a = 1",
		Overrides: map[string]string{"sqlserver": "UPDATE foo SET a = 1 WHERE 1 = 1"},
	}
	got := compile(t, u, dialect.NewContext(nil))
	want := []string{"UPDATE foo SET a = 1 WHERE 1 = 1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Compile() = %#v, want %#v", got, want)
	}
}
