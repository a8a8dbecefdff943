package modelbind

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// TagName is the struct tag read by Describe. `form:"Name"` renames the path
// segment of a field, `form:"-"` skips it. Untagged exported fields use the Go
// field name.
const TagName = "form"

var enumeratorType = reflect.TypeFor[Enumerator]()

// descriptors caches shapes by Go type. Lookups are lock-free; building takes
// the mutex so a type is described once even under concurrent first use.
var descriptors = &registry{}

type registry struct {
	mu sync.Mutex
	m  sync.Map // map[reflect.Type]*Shape
}

// Describe returns the shape of T, building and caching its field descriptor
// table on first use.
func Describe[T any]() (*Shape, error) {
	return DescribeType(reflect.TypeFor[T]())
}

// MustDescribe is like Describe but panics on unsupported types. It is meant
// for package-level shape variables.
func MustDescribe[T any]() *Shape {
	s, err := Describe[T]()
	if err != nil {
		panic(err)
	}
	return s
}

// DescribeType returns the cached shape of t, describing it on first use.
//
// Supported: strings, integers, floats, booleans, enums (named integer types
// implementing Enumerator), slices, string-keyed maps, structs, and pointers
// to structs or scalars. Anything else fails with ErrUnsupportedType.
func DescribeType(t reflect.Type) (*Shape, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil type", ErrUnsupportedType)
	}
	if s, ok := descriptors.m.Load(t); ok {
		return s.(*Shape), nil
	}

	descriptors.mu.Lock()
	defer descriptors.mu.Unlock()

	if s, ok := descriptors.m.Load(t); ok {
		return s.(*Shape), nil
	}
	building := make(map[reflect.Type]*Shape)
	s, err := describe(t, building)
	if err != nil {
		return nil, err
	}
	for bt, bs := range building {
		descriptors.m.LoadOrStore(bt, bs)
	}
	descriptors.m.Store(t, s)
	return s, nil
}

// Register associates a hand-written shape with t, for types Describe cannot
// derive (e.g. enums declared without Enumerator). It fails if t already has
// a different shape.
func Register(t reflect.Type, shape *Shape) error {
	if t == nil {
		return fmt.Errorf("%w: nil type", ErrUnsupportedType)
	}
	if shape == nil {
		return ErrNilShape
	}
	descriptors.mu.Lock()
	defer descriptors.mu.Unlock()

	if old, ok := descriptors.m.Load(t); ok && old.(*Shape) != shape {
		return fmt.Errorf("%w: %s", ErrAlreadyDescribed, t)
	}
	descriptors.m.Store(t, shape)
	return nil
}

func lookup(t reflect.Type, building map[reflect.Type]*Shape) (*Shape, bool) {
	if s, ok := building[t]; ok {
		return s, true
	}
	if s, ok := descriptors.m.Load(t); ok {
		return s.(*Shape), true
	}
	return nil, false
}

func describe(t reflect.Type, building map[reflect.Type]*Shape) (*Shape, error) {
	if s, ok := lookup(t, building); ok {
		return s, nil
	}

	if t.Implements(enumeratorType) && isInteger(t.Kind()) {
		members := reflect.Zero(t).Interface().(Enumerator).EnumMembers()
		s := EnumOf(t.String(), func(n int64) any {
			return reflect.ValueOf(n).Convert(t).Interface()
		}, members...)
		building[t] = s
		return s, nil
	}

	var s *Shape
	switch t.Kind() {
	case reflect.String:
		s = retype(String(), t)
	case reflect.Bool:
		s = retype(Bool(), t)
	case reflect.Int:
		s = retype(Int(), t)
	case reflect.Int8:
		s = retype(Int8(), t)
	case reflect.Int16:
		s = retype(Int16(), t)
	case reflect.Int32:
		s = retype(Int32(), t)
	case reflect.Int64:
		s = retype(Int64(), t)
	case reflect.Uint:
		s = retype(Uint(), t)
	case reflect.Uint8:
		s = retype(Uint8(), t)
	case reflect.Uint16:
		s = retype(Uint16(), t)
	case reflect.Uint32:
		s = retype(Uint32(), t)
	case reflect.Uint64:
		s = retype(Uint64(), t)
	case reflect.Float32:
		s = retype(Float32(), t)
	case reflect.Float64:
		s = retype(Float64(), t)
	case reflect.Slice:
		return describeSlice(t, building)
	case reflect.Map:
		return describeMap(t, building)
	case reflect.Struct:
		return describeStruct(t, building)
	case reflect.Pointer:
		return describePointer(t, building)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
	building[t] = s
	return s, nil
}

// retype makes a scalar shape produce values of the named type t.
func retype(base *Shape, t reflect.Type) *Shape {
	if reflect.TypeOf(base.Zero()) == t {
		return base
	}
	s := *base
	s.name = t.String()
	s.zero = func() any { return reflect.Zero(t).Interface() }
	parse := base.parse
	s.parse = func(raw string) (any, error) {
		v, err := parse(raw)
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(v).Convert(t).Interface(), nil
	}
	return &s
}

func describeSlice(t reflect.Type, building map[reflect.Type]*Shape) (*Shape, error) {
	elem, err := describe(t.Elem(), building)
	if err != nil {
		return nil, err
	}
	s := &Shape{
		kind: KindArray,
		name: t.String(),
		elem: elem,
		zero: func() any { return reflect.Zero(t).Interface() },
		seq: &seqSpec{
			make: func(n int) any { return reflect.MakeSlice(t, n, n).Interface() },
			set: func(seq any, i int, v any) bool {
				return setValue(reflect.ValueOf(seq).Index(i), v)
			},
		},
	}
	building[t] = s
	return s, nil
}

func describeMap(t reflect.Type, building map[reflect.Type]*Shape) (*Shape, error) {
	if t.Key().Kind() != reflect.String {
		return nil, fmt.Errorf("%w: %s has non-string keys", ErrUnsupportedType, t)
	}
	value, err := describe(t.Elem(), building)
	if err != nil {
		return nil, err
	}
	s := &Shape{
		kind: KindMap,
		name: t.String(),
		elem: value,
		zero: func() any { return reflect.Zero(t).Interface() },
		dict: &dictSpec{
			make: func(n int) any { return reflect.MakeMapWithSize(t, n).Interface() },
			set: func(dict any, key string, v any) bool {
				val := reflect.New(t.Elem()).Elem()
				if !setValue(val, v) {
					return false
				}
				reflect.ValueOf(dict).SetMapIndex(reflect.ValueOf(key).Convert(t.Key()), val)
				return true
			},
		},
	}
	building[t] = s
	return s, nil
}

// describeStruct registers the value and pointer shapes of t before walking
// its fields, so self-referential types resolve to the shapes being built.
func describeStruct(t reflect.Type, building map[reflect.Type]*Shape) (*Shape, error) {
	value := &Shape{
		kind: KindClass,
		name: t.String(),
		zero: func() any { return reflect.Zero(t).Interface() },
		class: &classSpec{
			construct: func() any { return reflect.New(t).Interface() },
			finish:    func(inst any) any { return reflect.ValueOf(inst).Elem().Interface() },
		},
	}
	pt := reflect.PointerTo(t)
	ptr := &Shape{
		kind: KindClass,
		name: pt.String(),
		zero: func() any { return reflect.Zero(pt).Interface() },
		class: &classSpec{
			construct: func() any { return reflect.New(t).Interface() },
			finish:    func(inst any) any { return inst },
			optional:  true,
		},
	}
	building[t] = value
	building[pt] = ptr

	fields, err := structFields(t, nil, building)
	if err != nil {
		delete(building, t)
		delete(building, pt)
		return nil, err
	}
	value.class.fields = fields
	ptr.class.fields = fields
	return value, nil
}

func structFields(t reflect.Type, index []int, building map[reflect.Type]*Shape) ([]*FieldSpec, error) {
	var out []*FieldSpec
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, tagged := f.Name, false
		if tag := f.Tag.Get(TagName); tag != "" {
			name, _, _ = strings.Cut(tag, ",")
			if name == "-" {
				continue
			}
			tagged = name != ""
			if name == "" {
				name = f.Name
			}
		}
		idx := append(append([]int(nil), index...), i)

		// embedded structs contribute their fields at the same level
		if f.Anonymous && !tagged && f.Type.Kind() == reflect.Struct {
			inner, err := structFields(f.Type, idx, building)
			if err != nil {
				return nil, err
			}
			out = append(out, inner...)
			continue
		}

		shape, err := describe(f.Type, building)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", t, f.Name, err)
		}
		out = append(out, &FieldSpec{
			name:  name,
			shape: shape,
			set: func(inst any, v any) bool {
				return setValue(reflect.ValueOf(inst).Elem().FieldByIndex(idx), v)
			},
		})
	}
	return out, nil
}

// describePointer handles pointers to scalars; pointers to structs are
// registered by describeStruct.
func describePointer(t reflect.Type, building map[reflect.Type]*Shape) (*Shape, error) {
	if t.Elem().Kind() == reflect.Struct {
		if _, err := describe(t.Elem(), building); err != nil {
			return nil, err
		}
		s, ok := lookup(t, building)
		if !ok {
			return nil, fmt.Errorf("%w: %s (element shape was registered by hand)", ErrUnsupportedType, t)
		}
		return s, nil
	}

	elem, err := describe(t.Elem(), building)
	if err != nil {
		return nil, err
	}
	wrap := func(v any) any {
		p := reflect.New(t.Elem())
		p.Elem().Set(reflect.ValueOf(v))
		return p.Interface()
	}

	s := *elem
	s.name = t.String()
	s.zero = func() any { return reflect.Zero(t).Interface() }
	switch elem.kind {
	case KindPrimitive, KindString:
		parse := elem.parse
		s.parse = func(raw string) (any, error) {
			v, err := parse(raw)
			if err != nil {
				return nil, err
			}
			return wrap(v), nil
		}
	case KindEnum:
		spec := *elem.enum
		from := spec.from
		spec.from = func(n int64) any { return wrap(from(n)) }
		s.enum = &spec
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
	building[t] = &s
	return &s, nil
}

// setValue stores v in dst, converting between types of the same kind.
func setValue(dst reflect.Value, v any) bool {
	if v == nil {
		dst.SetZero()
		return true
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.Type().AssignableTo(dst.Type()):
		dst.Set(rv)
	case rv.Kind() == dst.Kind() && rv.Type().ConvertibleTo(dst.Type()):
		dst.Set(rv.Convert(dst.Type()))
	default:
		return false
	}
	return true
}

func isInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}
