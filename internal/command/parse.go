package command

import (
	"errors"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// ErrNotMap is returned when an up/down entry is not a mapping.
var ErrNotMap = errors.New("up/down must be a map or list of maps")

// UnknownCommandError reports a command whose dispatch key matches none of
// the supported set.
type UnknownCommandError struct {
	Keys []string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("don't know how to process command with keys %v", e.Keys)
}

var dispatchKeys = map[string]Kind{
	"create-table": KindCreateTable,
	"drop-table":   KindDropTable,
	"alter-table":  KindAlterTable,
	"create-index": KindCreateIndex,
	"drop-index":   KindDropIndex,
	"insert-into":  KindInsertInto,
	"update":       KindUpdate,
}

// subprotocol keys accepted as update overrides.
var overrideKeys = []string{"mysql", "postgresql", "h2", "sqlserver"}

// ParseList parses the decoded YAML value of an up or down section. The
// value must be a mapping or a list of mappings; a single mapping is
// treated as a singleton list.
func ParseList(v interface{}) ([]Command, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case map[string]interface{}:
		c, err := Parse(t)
		if err != nil {
			return nil, err
		}
		return []Command{c}, nil
	case []interface{}:
		out := make([]Command, 0, len(t))
		for _, e := range t {
			m, ok := e.(map[string]interface{})
			if !ok {
				return nil, ErrNotMap
			}
			c, err := Parse(m)
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
		return out, nil
	default:
		return nil, ErrNotMap
	}
}

// Parse converts one command mapping into its typed variant. The mapping
// must carry exactly one dispatch key.
func Parse(m map[string]interface{}) (Command, error) {
	var kind Kind
	found := 0
	for k := range m {
		if dk, ok := dispatchKeys[k]; ok {
			kind = dk
			found++
		}
	}
	if found != 1 {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		return nil, &UnknownCommandError{Keys: keys}
	}

	switch kind {
	case KindCreateTable:
		return parseCreateTable(m)
	case KindDropTable:
		return &DropTable{Table: asString(m["drop-table"])}, nil
	case KindAlterTable:
		return parseAlterTable(m)
	case KindCreateIndex:
		return parseCreateIndex(m)
	case KindDropIndex:
		return &DropIndex{Index: asString(m["drop-index"]), On: asString(m["on"])}, nil
	case KindInsertInto:
		return parseInsertInto(m)
	case KindUpdate:
		return parseUpdate(m)
	}
	return nil, &UnknownCommandError{Keys: []string{string(kind)}}
}

type rawCreateTable struct {
	Table       string                   `mapstructure:"create-table"`
	Columns     []interface{}            `mapstructure:"columns"`
	PrimaryKey  interface{}              `mapstructure:"primary-key"`
	Constraints []interface{}            `mapstructure:"constraints"`
	Options     []map[string]interface{} `mapstructure:"table-options"`
}

func parseCreateTable(m map[string]interface{}) (Command, error) {
	var raw rawCreateTable
	if err := decode(m, &raw); err != nil {
		return nil, err
	}
	cols, err := parseColumns(raw.Columns)
	if err != nil {
		return nil, err
	}
	cons, err := parseConstraints(raw.Constraints)
	if err != nil {
		return nil, err
	}
	opts, err := parseOptions(raw.Options)
	if err != nil {
		return nil, err
	}
	return &CreateTable{
		Table:       raw.Table,
		Columns:     cols,
		PrimaryKey:  asStringList(raw.PrimaryKey),
		Constraints: cons,
		Options:     opts,
	}, nil
}

type rawAlterTable struct {
	Table           string                   `mapstructure:"alter-table"`
	AddColumns      []interface{}            `mapstructure:"add-columns"`
	DropColumns     interface{}              `mapstructure:"drop-columns"`
	ModifyColumns   []interface{}            `mapstructure:"modify-columns"`
	AddConstraints  []interface{}            `mapstructure:"add-constraints"`
	DropConstraints interface{}              `mapstructure:"drop-constraints"`
	PrimaryKey      interface{}              `mapstructure:"primary-key"`
	Options         []map[string]interface{} `mapstructure:"table-options"`
	CharacterSet    interface{}              `mapstructure:"character-set"`
}

func parseAlterTable(m map[string]interface{}) (Command, error) {
	var raw rawAlterTable
	if err := decode(m, &raw); err != nil {
		return nil, err
	}
	add, err := parseColumns(raw.AddColumns)
	if err != nil {
		return nil, err
	}
	mod, err := parseColumns(raw.ModifyColumns)
	if err != nil {
		return nil, err
	}
	cons, err := parseConstraints(raw.AddConstraints)
	if err != nil {
		return nil, err
	}
	opts, err := parseOptions(raw.Options)
	if err != nil {
		return nil, err
	}
	return &AlterTable{
		Table:           raw.Table,
		AddColumns:      add,
		DropColumns:     asStringList(raw.DropColumns),
		ModifyColumns:   mod,
		AddConstraints:  cons,
		DropConstraints: asStringList(raw.DropConstraints),
		PrimaryKey:      asStringList(raw.PrimaryKey),
		Options:         opts,
		CharacterSet:    parseCharacterSet(raw.CharacterSet),
	}, nil
}

type rawCreateIndex struct {
	Index   string      `mapstructure:"create-index"`
	On      string      `mapstructure:"on"`
	Columns interface{} `mapstructure:"columns"`
	Unique  bool        `mapstructure:"unique"`
}

func parseCreateIndex(m map[string]interface{}) (Command, error) {
	var raw rawCreateIndex
	if err := decode(m, &raw); err != nil {
		return nil, err
	}
	return &CreateIndex{
		Index:   raw.Index,
		On:      raw.On,
		Columns: asStringList(raw.Columns),
		Unique:  raw.Unique,
	}, nil
}

type rawInsertInto struct {
	Table   string          `mapstructure:"insert-into"`
	Columns interface{}     `mapstructure:"columns"`
	Values  [][]interface{} `mapstructure:"values"`
	Query   string          `mapstructure:"query"`
}

func parseInsertInto(m map[string]interface{}) (Command, error) {
	var raw rawInsertInto
	if err := decode(m, &raw); err != nil {
		return nil, err
	}
	return &InsertInto{
		Table:   raw.Table,
		Columns: asStringList(raw.Columns),
		Values:  raw.Values,
		Query:   raw.Query,
	}, nil
}

func parseUpdate(m map[string]interface{}) (Command, error) {
	u := &Update{SQL: asString(m["update"]), Overrides: map[string]string{}}
	for _, k := range overrideKeys {
		if v, ok := m[k]; ok {
			u.Overrides[k] = asString(v)
		}
	}
	return u, nil
}

// parseColumns converts a list of [name, token...] lists into column specs.
func parseColumns(in []interface{}) ([]Column, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]Column, 0, len(in))
	for _, e := range in {
		parts, ok := e.([]interface{})
		if !ok || len(parts) == 0 {
			return nil, fmt.Errorf("column spec must be a non-empty list, got %v", e)
		}
		col := Column{Name: asString(parts[0])}
		for _, tok := range parts[1:] {
			col.Spec = append(col.Spec, asString(tok))
		}
		out = append(out, col)
	}
	return out, nil
}

// parseConstraints converts a list of [name, ref...] lists into constraints.
func parseConstraints(in []interface{}) ([]Constraint, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]Constraint, 0, len(in))
	for _, e := range in {
		parts, ok := e.([]interface{})
		if !ok || len(parts) < 2 {
			return nil, fmt.Errorf("constraint spec must be [name, refs...], got %v", e)
		}
		c := Constraint{Name: asString(parts[0])}
		for _, r := range parts[1:] {
			c.Refs = append(c.Refs, asString(r))
		}
		out = append(out, c)
	}
	return out, nil
}

func parseOptions(in []map[string]interface{}) ([]TableOption, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]TableOption, 0, len(in))
	for _, m := range in {
		var o TableOption
		if err := decode(m, &o); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// parseCharacterSet accepts either a scalar charset name or a
// [charset, collation] pair.
func parseCharacterSet(v interface{}) *CharacterSet {
	switch t := v.(type) {
	case nil:
		return nil
	case []interface{}:
		cs := &CharacterSet{}
		if len(t) > 0 {
			cs.Name = asString(t[0])
		}
		if len(t) > 1 {
			cs.Collation = asString(t[1])
		}
		if cs.Name == "" {
			return nil
		}
		return cs
	default:
		s := asString(v)
		if s == "" {
			return nil
		}
		return &CharacterSet{Name: s}
	}
}

func decode(in interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

func asString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}

// asStringList accepts a scalar or a list and normalizes to a string slice.
func asStringList(v interface{}) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, e := range t {
			out = append(out, asString(e))
		}
		return out
	case []string:
		return t
	default:
		return []string{asString(v)}
	}
}
