package schema

import (
	"fmt"
	"strings"
)

type ColumnType string

const (
	String ColumnType = "string"
	Int    ColumnType = "int"
	Float  ColumnType = "float"
)

func (t ColumnType) Valid() bool {
	return t == String || t == Int || t == Float
}

func (t ColumnType) Numeric() bool {
	return t == Int || t == Float
}

type Column struct {
	Name string     `yaml:"name" json:"name" validate:"required"`
	Type ColumnType `yaml:"type" json:"type" validate:"required,oneof=string int float"`
}

// Schema is the ordered, positional layout of a headerless result file.
type Schema struct {
	Name    string
	Columns []Column
	index   map[string]int
}

func New(name string, columns []Column) (*Schema, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("schema %q has no columns", name)
	}
	s := &Schema{
		Name:    name,
		Columns: make([]Column, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		if c.Name == "" {
			return nil, fmt.Errorf("schema %q: column at index %d has no name", name, i)
		}
		if !c.Type.Valid() {
			return nil, fmt.Errorf("schema %q: column %q has invalid type %q", name, c.Name, c.Type)
		}
		if _, dup := s.index[c.Name]; dup {
			return nil, fmt.Errorf("schema %q: duplicate column %q", name, c.Name)
		}
		s.Columns[i] = c
		s.index[c.Name] = i
	}
	return s, nil
}

func MustNew(name string, columns []Column) *Schema {
	s, err := New(name, columns)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) Len() int { return len(s.Columns) }

func (s *Schema) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

func (s *Schema) Column(name string) (Column, bool) {
	i, ok := s.index[name]
	if !ok {
		return Column{}, false
	}
	return s.Columns[i], true
}

func (s *Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Extend returns a copy of the schema with extra columns appended.
func (s *Schema) Extend(columns ...Column) (*Schema, error) {
	all := make([]Column, 0, len(s.Columns)+len(columns))
	all = append(all, s.Columns...)
	all = append(all, columns...)
	return New(s.Name, all)
}

func (s *Schema) String() string {
	parts := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		parts[i] = c.Name + ":" + string(c.Type)
	}
	return s.Name + "(" + strings.Join(parts, ",") + ")"
}
