package plan

import (
	"testing"

	"github.com/loykin/ternmigrate/internal/command"
)

func TestPlan_OrderAndLength(t *testing.T) {
	p := New()
	cmds := []command.Command{
		&command.CreateTable{Table: "a"},
		&command.DropTable{Table: "b"},
		&command.CreateIndex{Index: "i", On: "a"},
	}
	for _, c := range cmds {
		p.Add(c)
	}
	if p.Len() != len(cmds) {
		t.Fatalf("Len() = %d, want %d", p.Len(), len(cmds))
	}
	for i, c := range p.Commands() {
		if c != cmds[i] {
			t.Errorf("command %d out of order", i)
		}
	}
}

func TestPlan_DroppedTable(t *testing.T) {
	p := New()
	p.Add(&command.DropTable{Table: "foo"})
	if !p.DroppedTable("foo") {
		t.Error("expected foo dropped")
	}
	if p.DroppedTable("bar") {
		t.Error("bar was not dropped")
	}
}

func TestPlan_DroppedColumnAndConstraint(t *testing.T) {
	p := New()
	p.Add(&command.AlterTable{
		Table:           "foo",
		DropColumns:     []string{"a"},
		DropConstraints: []string{"fk_x", command.PrimaryKeySentinel},
	})

	if !p.DroppedColumn("foo", "a") {
		t.Error("expected column a dropped")
	}
	if p.DroppedColumn("foo", "b") {
		t.Error("column b was not dropped")
	}
	if p.DroppedColumn("other", "a") {
		t.Error("wrong table matched")
	}
	if !p.DroppedConstraint("foo", "fk_x") {
		t.Error("expected fk_x dropped")
	}
	if !p.DroppedPrimaryKey("foo") {
		t.Error("expected primary key dropped")
	}
}

func TestPlan_DroppedIndex(t *testing.T) {
	p := New()
	p.Add(&command.DropIndex{Index: "idx", On: "foo"})
	if !p.DroppedIndex("foo", "idx") {
		t.Error("expected idx dropped")
	}
	if p.DroppedIndex("bar", "idx") {
		t.Error("index on different table matched")
	}
}

func TestPlan_ColumnType(t *testing.T) {
	p := New()
	p.Add(&command.CreateTable{Table: "foo", Columns: []command.Column{
		{Name: "a", Spec: []string{"TEXT", "NOT NULL"}},
	}})
	p.Add(&command.AlterTable{Table: "foo", AddColumns: []command.Column{
		{Name: "b", Spec: []string{"INT"}},
	}})

	if got := p.ColumnType("foo", "a"); got != "TEXT" {
		t.Errorf("ColumnType(foo, a) = %q", got)
	}
	if got := p.ColumnType("foo", "b"); got != "INT" {
		t.Errorf("ColumnType(foo, b) = %q", got)
	}
	if got := p.ColumnType("foo", "c"); got != "" {
		t.Errorf("ColumnType(foo, c) = %q, want empty", got)
	}
}

func TestPlan_NilSafe(t *testing.T) {
	var p *Plan
	if p.Len() != 0 || p.DroppedTable("x") || p.DroppedColumn("x", "y") {
		t.Error("nil plan should answer empty")
	}
}
