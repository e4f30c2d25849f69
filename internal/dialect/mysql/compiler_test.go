package mysql

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

func TestCompile_CreateTable(t *testing.T) {
	tests := []struct {
		name string
		cmd  *command.CreateTable
		want []string
	}{
		{
			name: "bare column",
			cmd: &command.CreateTable{Table: "foo", Columns: []command.Column{
				{Name: "a", Spec: []string{"INT"}},
			}},
			want: []string{"CREATE TABLE foo (a INT)"},
		},
		{
			name: "with primary key",
			cmd: &command.CreateTable{
				Table:      "foo",
				Columns:    []command.Column{{Name: "a", Spec: []string{"INT"}}},
				PrimaryKey: []string{"a"},
			},
			want: []string{"CREATE TABLE foo (a INT, PRIMARY KEY (a))"},
		},
		{
			name: "with constraint",
			cmd: &command.CreateTable{
				Table:   "foo",
				Columns: []command.Column{{Name: "a", Spec: []string{"INT"}}},
				Constraints: []command.Constraint{
					{Name: "fk_a", Refs: []string{"(a) REFERENCES foo(a)"}},
				},
			},
			want: []string{"CREATE TABLE foo (a INT, CONSTRAINT fk_a FOREIGN KEY (a) REFERENCES foo(a))"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := compile(t, tt.cmd, dialect.NewContext(nil))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Compile() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestCompile_CreateTableExistingSkips(t *testing.T) {
	db := &introspect.Fake{Tables: map[string]bool{"foo": true}}
	cmd := &command.CreateTable{Table: "foo", Columns: []command.Column{{Name: "a", Spec: []string{"INT"}}}}

	got := compile(t, cmd, dialect.NewContext(db))
	if len(got) != 0 {
		t.Fatalf("expected skip, got %#v", got)
	}
}

func TestCompile_CreateTableAfterPlanDrop(t *testing.T) {
	db := &introspect.Fake{Tables: map[string]bool{"foo": true}}
	ctx := dialect.NewContext(db)
	ctx.Plan.Add(&command.DropTable{Table: "foo"})
	cmd := &command.CreateTable{Table: "foo", Columns: []command.Column{{Name: "a", Spec: []string{"INT"}}}}

	got := compile(t, cmd, ctx)
	want := []string{"CREATE TABLE foo (a INT)"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Compile() = %#v, want %#v", got, want)
	}
}

func TestCompile_InsertInto(t *testing.T) {
	cmd := &command.InsertInto{
		Table:  "foo",
		Values: [][]interface{}{{1, 2, "foo"}, {3, 4, "bar"}},
	}
	got := compile(t, cmd, dialect.NewContext(nil))
	want := []string{`INSERT INTO foo VALUES (1,2,"foo"),(3,4,"bar")`}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Compile() = %#v, want %#v", got, want)
	}
}

func TestCompile_InsertIntoEmptyFails(t *testing.T) {
	_, err := New().Compile(&command.InsertInto{Table: "foo"}, dialect.NewContext(nil))
	if err != dialect.ErrEmptyInsert {
		t.Fatalf("expected ErrEmptyInsert, got %v", err)
	}
}

func TestCompile_AlterTableOptionsAndConstraint(t *testing.T) {
	cmd := &command.AlterTable{
		Table:   "foo",
		Options: []command.TableOption{{Name: "ROW_FORMAT", Value: "Compressed"}},
		AddConstraints: []command.Constraint{
			{Name: "fk_foo_bar", Refs: []string{"(bar_id) REFERENCES bar(id)"}},
		},
	}
	got := compile(t, cmd, dialect.NewContext(nil))
	want := []string{
		"ALTER TABLE foo ROW_FORMAT=Compressed",
		"ALTER TABLE foo ADD CONSTRAINT fk_foo_bar FOREIGN KEY (bar_id) REFERENCES bar(id)",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Compile() = %#v, want %#v", got, want)
	}
}

func TestCompile_CreateTableWithOptionsExpands(t *testing.T) {
	cmd := &command.CreateTable{
		Table:      "foo",
		PrimaryKey: []string{"a"},
		Options:    []command.TableOption{{Name: "ROW_FORMAT", Value: "Compressed"}},
		Columns: []command.Column{
			{Name: "a", Spec: []string{"INT"}},
			{Name: "b", Spec: []string{"INT"}},
		},
	}
	got := compile(t, cmd, dialect.NewContext(nil))
	want := []string{
		"CREATE TABLE foo (__placeholder int)",
		"ALTER TABLE foo ROW_FORMAT=Compressed",
		"ALTER TABLE foo ADD COLUMN a INT",
		"ALTER TABLE foo ADD COLUMN b INT",
		"ALTER TABLE foo ADD PRIMARY KEY (a)",
		"ALTER TABLE foo DROP COLUMN __placeholder",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Compile() = %#v, want %#v", got, want)
	}
}

func TestCompile_AlterTableIdempotency(t *testing.T) {
	db := &introspect.Fake{
		Columns:     map[string]bool{"foo.a": true, "foo.gone": false},
		ForeignKeys: map[string]bool{"foo.fk_a": true},
	}

	t.Run("add existing column skips", func(t *testing.T) {
		cmd := &command.AlterTable{Table: "foo", AddColumns: []command.Column{{Name: "a", Spec: []string{"INT"}}}}
		got := compile(t, cmd, dialect.NewContext(db))
		if len(got) != 0 {
			t.Fatalf("expected skip, got %#v", got)
		}
	})

	t.Run("add column dropped earlier in plan re-adds", func(t *testing.T) {
		ctx := dialect.NewContext(db)
		ctx.Plan.Add(&command.AlterTable{Table: "foo", DropColumns: []string{"a"}})
		cmd := &command.AlterTable{Table: "foo", AddColumns: []command.Column{{Name: "a", Spec: []string{"INT"}}}}
		got := compile(t, cmd, ctx)
		want := []string{"ALTER TABLE foo ADD COLUMN a INT"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Compile() = %#v, want %#v", got, want)
		}
	})

	t.Run("drop missing column skips", func(t *testing.T) {
		cmd := &command.AlterTable{Table: "foo", DropColumns: []string{"gone"}}
		got := compile(t, cmd, dialect.NewContext(db))
		if len(got) != 0 {
			t.Fatalf("expected skip, got %#v", got)
		}
	})

	t.Run("add existing constraint skips", func(t *testing.T) {
		cmd := &command.AlterTable{Table: "foo", AddConstraints: []command.Constraint{
			{Name: "fk_a", Refs: []string{"(a) REFERENCES bar(id)"}},
		}}
		got := compile(t, cmd, dialect.NewContext(db))
		if len(got) != 0 {
			t.Fatalf("expected skip, got %#v", got)
		}
	})

	t.Run("drop existing constraint emits", func(t *testing.T) {
		cmd := &command.AlterTable{Table: "foo", DropConstraints: []string{"fk_a"}}
		got := compile(t, cmd, dialect.NewContext(db))
		want := []string{"ALTER TABLE foo DROP FOREIGN KEY fk_a"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Compile() = %#v, want %#v", got, want)
		}
	})
}

func TestCompile_AlterTableCharsetAndPK(t *testing.T) {
	db := &introspect.Fake{PrimaryKeys: map[string]string{"foo": "PRIMARY"}}
	cmd := &command.AlterTable{
		Table:           "foo",
		CharacterSet:    &command.CharacterSet{Name: "utf8mb4", Collation: "utf8mb4_general_ci"},
		DropConstraints: []string{command.PrimaryKeySentinel},
		PrimaryKey:      []string{"b"},
	}
	got := compile(t, cmd, dialect.NewContext(db))
	want := []string{
		"ALTER TABLE foo CONVERT TO CHARACTER SET utf8mb4 COLLATE utf8mb4_general_ci",
		"ALTER TABLE foo DROP PRIMARY KEY",
		"ALTER TABLE foo ADD PRIMARY KEY (b)",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Compile() = %#v, want %#v", got, want)
	}
}

func TestCompile_Indexes(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		cmd := &command.CreateIndex{Index: "idx_foo", On: "foo", Columns: []string{"a", "b"}, Unique: true}
		got := compile(t, cmd, dialect.NewContext(nil))
		want := []string{"CREATE UNIQUE INDEX idx_foo ON foo (a, b)"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Compile() = %#v, want %#v", got, want)
		}
	})

	t.Run("create existing skips", func(t *testing.T) {
		db := &introspect.Fake{Indexes: map[string]bool{"foo.idx_foo": true}}
		cmd := &command.CreateIndex{Index: "idx_foo", On: "foo", Columns: []string{"a"}}
		got := compile(t, cmd, dialect.NewContext(db))
		if len(got) != 0 {
			t.Fatalf("expected skip, got %#v", got)
		}
	})

	t.Run("drop missing skips", func(t *testing.T) {
		cmd := &command.DropIndex{Index: "idx_foo", On: "foo"}
		got := compile(t, cmd, dialect.NewContext(nil))
		if len(got) != 0 {
			t.Fatalf("expected skip, got %#v", got)
		}
	})

	t.Run("drop existing emits", func(t *testing.T) {
		db := &introspect.Fake{Indexes: map[string]bool{"foo.idx_foo": true}}
		cmd := &command.DropIndex{Index: "idx_foo", On: "foo"}
		got := compile(t, cmd, dialect.NewContext(db))
		want := []string{"DROP INDEX idx_foo ON foo"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Compile() = %#v, want %#v", got, want)
		}
	})
}

func TestCompile_Update(t *testing.T) {
	u := &command.Update{SQL: "UPDATE foo SET a = 1", Overrides: map[string]string{"h2": "ignored here"}}
	got := compile(t, u, dialect.NewContext(nil))
	want := []string{"UPDATE foo SET a = 1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Compile() = %#v, want %#v", got, want)
	}

	if _, err := New().Compile(&command.Update{}, dialect.NewContext(nil)); err != dialect.ErrEmptyUpdate {
		t.Fatalf("expected ErrEmptyUpdate, got %v", err)
	}
}

func TestCompile_DropTable(t *testing.T) {
	got := compile(t, &command.DropTable{Table: "old-stuff"}, dialect.NewContext(nil))
	want := []string{"DROP TABLE old_stuff"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Compile() = %#v, want %#v", got, want)
	}
}
