package modelbind

import (
	"slices"
	"strings"
)

// FieldValues is a submitted field with all of its raw values.
type FieldValues struct {
	Name   string
	Values []string
}

// ValueSource exposes submitted request fields to the binders.
//
// Get returns every raw value submitted under the exact name; the last one is
// the primary scalar value. Find returns all fields whose name starts with
// prefix, in no particular order.
type ValueSource interface {
	Get(name string) ([]string, bool)
	Find(prefix string) []FieldValues
}

// Values is a ValueSource over decoded form fields. url.Values converts to it
// directly: modelbind.Values(r.Form).
type Values map[string][]string

func (v Values) Get(name string) ([]string, bool) {
	vals, ok := v[name]
	return vals, ok
}

// Find returns matching fields sorted by name so repeated binds of the same
// input visit fields in the same order.
func (v Values) Find(prefix string) []FieldValues {
	var out []FieldValues
	for name, vals := range v {
		if strings.HasPrefix(name, prefix) {
			out = append(out, FieldValues{Name: name, Values: vals})
		}
	}
	slices.SortFunc(out, func(a, b FieldValues) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// List is an ordered ValueSource preserving submission order. When a name
// occurs more than once, Get returns the first entry.
type List []FieldValues

// Add appends values to the field name, creating it when absent.
func (l *List) Add(name string, values ...string) {
	for i := range *l {
		if (*l)[i].Name == name {
			(*l)[i].Values = append((*l)[i].Values, values...)
			return
		}
	}
	*l = append(*l, FieldValues{Name: name, Values: values})
}

func (l List) Get(name string) ([]string, bool) {
	for _, f := range l {
		if f.Name == name {
			return f.Values, true
		}
	}
	return nil, false
}

func (l List) Find(prefix string) []FieldValues {
	var out []FieldValues
	for _, f := range l {
		if strings.HasPrefix(f.Name, prefix) {
			out = append(out, f)
		}
	}
	return out
}

// Chain combines sources. Get answers from the first source holding the name;
// Find merges all sources, earlier sources shadowing later ones by name.
type Chain []ValueSource

func (c Chain) Get(name string) ([]string, bool) {
	for _, src := range c {
		if src == nil {
			continue
		}
		if vals, ok := src.Get(name); ok {
			return vals, true
		}
	}
	return nil, false
}

func (c Chain) Find(prefix string) []FieldValues {
	var out []FieldValues
	seen := make(map[string]struct{})
	for _, src := range c {
		if src == nil {
			continue
		}
		for _, f := range src.Find(prefix) {
			if _, dup := seen[f.Name]; dup {
				continue
			}
			seen[f.Name] = struct{}{}
			out = append(out, f)
		}
	}
	return out
}
