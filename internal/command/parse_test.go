package command

import (
	"errors"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func mustYAML(t *testing.T, doc string) interface{} {
	t.Helper()
	var v interface{}
	if err := yaml.Unmarshal([]byte(doc), &v); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	return v
}

func TestParse_CreateTable(t *testing.T) {
	v := mustYAML(t, `
- create-table: foo
  columns:
    - [a, INT, NOT NULL]
    - [b, "VARCHAR(32)"]
  primary-key: [a]
  constraints:
    - [fk_a, "(a) REFERENCES foo(a)"]
  table-options:
    - name: ROW_FORMAT
      value: Compressed
`)
	cmds, err := ParseList(v)
	if err != nil {
		t.Fatalf("ParseList: %v", err)
	}
	if len(cmds) != 1 {
		t.Fatalf("expected 1 command, got %d", len(cmds))
	}
	ct, ok := cmds[0].(*CreateTable)
	if !ok {
		t.Fatalf("expected *CreateTable, got %T", cmds[0])
	}
	if ct.Table != "foo" {
		t.Errorf("table = %q", ct.Table)
	}
	wantCols := []Column{
		{Name: "a", Spec: []string{"INT", "NOT NULL"}},
		{Name: "b", Spec: []string{"VARCHAR(32)"}},
	}
	if !reflect.DeepEqual(ct.Columns, wantCols) {
		t.Errorf("columns = %#v", ct.Columns)
	}
	if !reflect.DeepEqual(ct.PrimaryKey, []string{"a"}) {
		t.Errorf("primary key = %#v", ct.PrimaryKey)
	}
	if len(ct.Constraints) != 1 || ct.Constraints[0].Name != "fk_a" {
		t.Errorf("constraints = %#v", ct.Constraints)
	}
	if len(ct.Options) != 1 || ct.Options[0].Name != "ROW_FORMAT" || ct.Options[0].Value != "Compressed" {
		t.Errorf("options = %#v", ct.Options)
	}
}

func TestParse_SingleMapTreatedAsSingleton(t *testing.T) {
	v := mustYAML(t, `
drop-table: foo
`)
	cmds, err := ParseList(v)
	if err != nil {
		t.Fatalf("ParseList: %v", err)
	}
	if len(cmds) != 1 {
		t.Fatalf("expected singleton list, got %d", len(cmds))
	}
	if dt, ok := cmds[0].(*DropTable); !ok || dt.Table != "foo" {
		t.Fatalf("got %#v", cmds[0])
	}
}

func TestParse_AlterTable(t *testing.T) {
	v := mustYAML(t, `
- alter-table: foo
  add-columns:
    - [c, INT]
  drop-columns: [old]
  drop-constraints: [fk_x, primary-key]
  character-set: [utf8mb4, utf8mb4_general_ci]
`)
	cmds, err := ParseList(v)
	if err != nil {
		t.Fatalf("ParseList: %v", err)
	}
	a := cmds[0].(*AlterTable)
	if a.Table != "foo" {
		t.Errorf("table = %q", a.Table)
	}
	if !a.DropsPrimaryKey() {
		t.Error("expected primary-key sentinel in drop-constraints")
	}
	if !a.DropsConstraint("fk_x") {
		t.Error("expected fk_x in drop-constraints")
	}
	if a.CharacterSet == nil || a.CharacterSet.Name != "utf8mb4" || a.CharacterSet.Collation != "utf8mb4_general_ci" {
		t.Errorf("character set = %#v", a.CharacterSet)
	}
}

func TestParse_UpdateOverrides(t *testing.T) {
	v := mustYAML(t, `
- update: "UPDATE foo SET a = 1"
  h2: "UPDATE FOO SET A = 1"
`)
	cmds, err := ParseList(v)
	if err != nil {
		t.Fatalf("ParseList: %v", err)
	}
	u := cmds[0].(*Update)
	if got := u.For("h2"); got != "UPDATE FOO SET A = 1" {
		t.Errorf("For(h2) = %q", got)
	}
	if got := u.For("mysql"); got != "UPDATE foo SET a = 1" {
		t.Errorf("For(mysql) = %q", got)
	}
}

func TestParse_UnknownDispatchKey(t *testing.T) {
	v := mustYAML(t, `
- truncate-table: foo
`)
	_, err := ParseList(v)
	var unknown *UnknownCommandError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownCommandError, got %v", err)
	}
}

func TestParse_TwoDispatchKeys(t *testing.T) {
	v := mustYAML(t, `
- create-table: foo
  drop-table: bar
`)
	_, err := ParseList(v)
	var unknown *UnknownCommandError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownCommandError for two dispatch keys, got %v", err)
	}
}

func TestParseList_NotMap(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"scalar", `"just a string"`},
		{"list of scalars", "- one\n- two\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseList(mustYAML(t, tt.doc))
			if !errors.Is(err, ErrNotMap) {
				t.Fatalf("expected ErrNotMap, got %v", err)
			}
		})
	}
}

func TestParse_InsertInto(t *testing.T) {
	v := mustYAML(t, `
- insert-into: foo
  columns: [a, b]
  values:
    - [1, "x"]
    - [2, "y"]
`)
	cmds, err := ParseList(v)
	if err != nil {
		t.Fatalf("ParseList: %v", err)
	}
	ins := cmds[0].(*InsertInto)
	if len(ins.Values) != 2 || len(ins.Columns) != 2 {
		t.Fatalf("insert = %#v", ins)
	}
}
