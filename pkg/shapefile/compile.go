package shapefile

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrymomot/webkit/pkg/modelbind"
)

var scalars = map[string]func() *modelbind.Shape{
	"string":  modelbind.String,
	"int":     modelbind.Int,
	"int8":    modelbind.Int8,
	"int16":   modelbind.Int16,
	"int32":   modelbind.Int32,
	"int64":   modelbind.Int64,
	"uint":    modelbind.Uint,
	"uint8":   modelbind.Uint8,
	"uint16":  modelbind.Uint16,
	"uint32":  modelbind.Uint32,
	"uint64":  modelbind.Uint64,
	"float32": modelbind.Float32,
	"float64": modelbind.Float64,
	"bool":    modelbind.Bool,
}

// Shape compiles the definition. Records bind into map[string]any holding
// only the submitted fields, arrays into []any, maps into map[string]any and
// enums into the member name.
func (f *File) Shape() (*modelbind.Shape, error) {
	return compileRecord(f.Name, f.Fields, f.Name)
}

// Bind compiles the definition and binds src under name.
func (f *File) Bind(m *modelbind.Mapper, src modelbind.ValueSource, name string) (map[string]any, error) {
	return f.BindContext(context.Background(), m, src, name)
}

// BindContext is Bind with a context.Context passed on to the mapper.
func (f *File) BindContext(ctx context.Context, m *modelbind.Mapper, src modelbind.ValueSource, name string) (map[string]any, error) {
	shape, err := f.Shape()
	if err != nil {
		return nil, err
	}
	v, err := m.BindContext(ctx, src, shape, name)
	if err != nil {
		return nil, err
	}
	out, _ := v.(map[string]any)
	return out, nil
}

func compile(t TypeDef, path string) (*modelbind.Shape, error) {
	kind := strings.ToLower(strings.TrimSpace(t.Kind))
	if mk, ok := scalars[kind]; ok {
		return mk(), nil
	}

	switch kind {
	case "record":
		name := t.Name
		if name == "" {
			name = path
		}
		return compileRecord(name, t.Fields, path)
	case "array", "map":
		if t.Elem == nil {
			return nil, fmt.Errorf("%s: %w", path, ErrMissingElem)
		}
		elem, err := compile(*t.Elem, path+"[]")
		if err != nil {
			return nil, err
		}
		if kind == "array" {
			return modelbind.Slice[any](elem), nil
		}
		return modelbind.Map[any](elem), nil
	case "enum":
		return compileEnum(t, path)
	default:
		return nil, fmt.Errorf("%s: %w %q", path, ErrUnknownKind, t.Kind)
	}
}

func compileRecord(name string, fields []FieldDef, path string) (*modelbind.Shape, error) {
	specs := make([]*modelbind.FieldSpec, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, fd := range fields {
		if fd.Name == "" {
			return nil, fmt.Errorf("%s: field %w", path, ErrEmptyName)
		}
		if _, dup := seen[fd.Name]; dup {
			return nil, fmt.Errorf("%s: %w %q", path, ErrDuplicateField, fd.Name)
		}
		seen[fd.Name] = struct{}{}

		shape, err := compile(fd.Type, path+"."+fd.Name)
		if err != nil {
			return nil, err
		}
		key := fd.Name
		specs = append(specs, modelbind.NewField(key, shape, func(inst any, v any) bool {
			inst.(map[string]any)[key] = v
			return true
		}))
	}

	return modelbind.Record(name, func() any { return map[string]any{} }, nil, specs...), nil
}

func compileEnum(t TypeDef, path string) (*modelbind.Shape, error) {
	if len(t.Members) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoMembers)
	}

	members := make([]modelbind.EnumMember, 0, len(t.Members))
	names := make(map[int64]string, len(t.Members))
	for i, md := range t.Members {
		if md.Name == "" {
			return nil, fmt.Errorf("%s: enum member %w", path, ErrEmptyName)
		}
		value := int64(i)
		if md.Value != nil {
			value = *md.Value
		}
		if prev, dup := names[value]; dup {
			return nil, fmt.Errorf("%s: %w: %s and %s share value %d", path, ErrDuplicateValue, prev, md.Name, value)
		}
		names[value] = md.Name
		members = append(members, modelbind.Member(md.Name, value))
	}

	name := t.Name
	if name == "" {
		name = path
	}
	return modelbind.EnumOf(name, func(v int64) any { return names[v] }, members...), nil
}
