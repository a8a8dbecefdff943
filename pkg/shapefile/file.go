package shapefile

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is a shape definition: a named record and its fields.
type File struct {
	Name   string     `yaml:"name" json:"name"`
	Fields []FieldDef `yaml:"fields" json:"fields"`
}

// FieldDef is one record field.
type FieldDef struct {
	Name string  `yaml:"name" json:"name"`
	Type TypeDef `yaml:"type" json:"type"`
}

// TypeDef describes a field type. Scalars may be written as a plain string,
// e.g. `type: int64`; composite types use the mapping form with a kind.
type TypeDef struct {
	Kind    string      `yaml:"kind" json:"kind"`
	Name    string      `yaml:"name,omitempty" json:"name,omitempty"`
	Fields  []FieldDef  `yaml:"fields,omitempty" json:"fields,omitempty"`
	Elem    *TypeDef    `yaml:"elem,omitempty" json:"elem,omitempty"`
	Members []MemberDef `yaml:"members,omitempty" json:"members,omitempty"`
}

func (t *TypeDef) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		t.Kind = n.Value
		return nil
	}
	type plain TypeDef
	return n.Decode((*plain)(t))
}

// MemberDef is one enum member. Members written as plain strings are
// numbered by position.
type MemberDef struct {
	Name  string `yaml:"name" json:"name"`
	Value *int64 `yaml:"value,omitempty" json:"value,omitempty"`
}

func (m *MemberDef) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		m.Name = n.Value
		return nil
	}
	type plain MemberDef
	return n.Decode((*plain)(m))
}

// Parse decodes a shape definition. Unknown keys at the top level of the
// file and of its direct fields are rejected.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode shape file: %w", err)
	}
	if f.Name == "" {
		return nil, fmt.Errorf("shape file: %w", ErrEmptyName)
	}
	return &f, nil
}

// Load reads and parses the shape definition at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read shape file: %w", err)
	}
	return Parse(data)
}
