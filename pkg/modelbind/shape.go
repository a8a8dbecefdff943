package modelbind

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Kind classifies a shape. Binders claim shapes by kind.
type Kind int

const (
	KindInvalid Kind = iota
	KindPrimitive
	KindString
	KindEnum
	KindArray
	KindMap
	KindClass
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindString:
		return "string"
	case KindEnum:
		return "enum"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindClass:
		return "class"
	default:
		return "invalid"
	}
}

// PrimitiveKind identifies the numeric or boolean type of a KindPrimitive shape.
type PrimitiveKind int

const (
	_ PrimitiveKind = iota // zero is not a valid primitive

	PrimInt
	PrimInt8
	PrimInt16
	PrimInt32
	PrimInt64
	PrimUint
	PrimUint8
	PrimUint16
	PrimUint32
	PrimUint64
	PrimFloat32
	PrimFloat64
	PrimBool
)

// Shape describes the structure of a bind target. Shapes are built once,
// usually at package init or through Describe, and are safe to share between
// goroutines.
type Shape struct {
	kind  Kind
	name  string
	prim  PrimitiveKind
	zero  func() any
	parse func(raw string) (any, error)
	elem  *Shape
	enum  *enumSpec
	seq   *seqSpec
	dict  *dictSpec
	class *classSpec
}

// Kind returns the structural kind of the shape.
func (s *Shape) Kind() Kind { return s.kind }

// Name returns the type name used in diagnostics.
func (s *Shape) Name() string { return s.name }

// Primitive returns the primitive kind; zero for non-primitive shapes.
func (s *Shape) Primitive() PrimitiveKind { return s.prim }

// Elem returns the element shape of an array or the value shape of a map.
func (s *Shape) Elem() *Shape { return s.elem }

// Zero returns the zero value of the type the shape produces.
func (s *Shape) Zero() any {
	if s.zero == nil {
		return nil
	}
	return s.zero()
}

// Fields returns the settable fields of a class shape in declaration order.
func (s *Shape) Fields() []*FieldSpec {
	if s.class == nil {
		return nil
	}
	out := make([]*FieldSpec, len(s.class.fields))
	copy(out, s.class.fields)
	return out
}

// Members returns the members of an enum shape.
func (s *Shape) Members() []EnumMember {
	if s.enum == nil {
		return nil
	}
	out := make([]EnumMember, len(s.enum.members))
	copy(out, s.enum.members)
	return out
}

// Scalar reports whether values of the shape convert directly from a raw string.
func (s *Shape) Scalar() bool {
	return s.kind == KindPrimitive || s.kind == KindString || s.kind == KindEnum
}

func (s *Shape) String() string {
	return fmt.Sprintf("%s(%s)", s.kind, s.name)
}

// Primitives

// String returns the shape for string values.
func String() *Shape {
	return StringOf[string]("string")
}

// StringOf returns a string shape producing values of a named string type.
func StringOf[T ~string](name string) *Shape {
	return &Shape{
		kind:  KindString,
		name:  name,
		zero:  func() any { var z T; return z },
		parse: func(raw string) (any, error) { return T(raw), nil },
	}
}

func Int() *Shape   { return IntOf[int]("int", PrimInt, strconv.IntSize) }
func Int8() *Shape  { return IntOf[int8]("int8", PrimInt8, 8) }
func Int16() *Shape { return IntOf[int16]("int16", PrimInt16, 16) }
func Int32() *Shape { return IntOf[int32]("int32", PrimInt32, 32) }
func Int64() *Shape { return IntOf[int64]("int64", PrimInt64, 64) }

func Uint() *Shape   { return UintOf[uint]("uint", PrimUint, strconv.IntSize) }
func Uint8() *Shape  { return UintOf[uint8]("uint8", PrimUint8, 8) }
func Uint16() *Shape { return UintOf[uint16]("uint16", PrimUint16, 16) }
func Uint32() *Shape { return UintOf[uint32]("uint32", PrimUint32, 32) }
func Uint64() *Shape { return UintOf[uint64]("uint64", PrimUint64, 64) }

func Float32() *Shape { return FloatOf[float32]("float32", PrimFloat32, 32) }
func Float64() *Shape { return FloatOf[float64]("float64", PrimFloat64, 64) }

// Bool returns the shape for booleans. Besides strconv.ParseBool syntax it
// accepts on/off and yes/no as submitted by HTML checkboxes.
func Bool() *Shape { return BoolOf[bool]("bool") }

// IntOf returns a signed integer shape producing values of type T.
func IntOf[T ~int | ~int8 | ~int16 | ~int32 | ~int64](name string, kind PrimitiveKind, bits int) *Shape {
	return &Shape{
		kind: KindPrimitive,
		name: name,
		prim: kind,
		zero: func() any { var z T; return z },
		parse: func(raw string) (any, error) {
			n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, bits)
			if err != nil {
				return nil, err
			}
			return T(n), nil
		},
	}
}

// UintOf returns an unsigned integer shape producing values of type T.
func UintOf[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](name string, kind PrimitiveKind, bits int) *Shape {
	return &Shape{
		kind: KindPrimitive,
		name: name,
		prim: kind,
		zero: func() any { var z T; return z },
		parse: func(raw string) (any, error) {
			n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, bits)
			if err != nil {
				return nil, err
			}
			return T(n), nil
		},
	}
}

// FloatOf returns a floating point shape producing values of type T.
// Parsing is locale invariant: '.' is the only decimal separator.
func FloatOf[T ~float32 | ~float64](name string, kind PrimitiveKind, bits int) *Shape {
	return &Shape{
		kind: KindPrimitive,
		name: name,
		prim: kind,
		zero: func() any { var z T; return z },
		parse: func(raw string) (any, error) {
			n, err := strconv.ParseFloat(strings.TrimSpace(raw), bits)
			if err != nil {
				return nil, err
			}
			return T(n), nil
		},
	}
}

// BoolOf returns a boolean shape producing values of type T.
func BoolOf[T ~bool](name string) *Shape {
	return &Shape{
		kind: KindPrimitive,
		name: name,
		prim: PrimBool,
		zero: func() any { var z T; return z },
		parse: func(raw string) (any, error) {
			raw = strings.TrimSpace(raw)
			b, err := strconv.ParseBool(raw)
			if err != nil {
				switch strings.ToLower(raw) {
				case "on", "yes":
					b = true
				case "off", "no":
					b = false
				default:
					return nil, err
				}
			}
			return T(b), nil
		},
	}
}

// Enums

// EnumMember is one named value of an enumeration.
type EnumMember struct {
	Name  string
	Value int64
}

// Member is shorthand for EnumMember{Name: name, Value: value}.
func Member(name string, value int64) EnumMember {
	return EnumMember{Name: name, Value: value}
}

// Enumerator is implemented by named integer types that bind as enums when
// described with Describe.
type Enumerator interface {
	EnumMembers() []EnumMember
}

type enumSpec struct {
	members []EnumMember
	folded  map[string]int64
	values  map[int64]struct{}
	from    func(int64) any
}

// Enum returns an enum shape over the integer type T.
func Enum[T ~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](name string, members ...EnumMember) *Shape {
	return EnumOf(name, func(v int64) any { return T(v) }, members...)
}

// EnumOf returns an enum shape whose values are produced by from. It is the
// building block for enums whose Go representation is not an integer.
func EnumOf(name string, from func(int64) any, members ...EnumMember) *Shape {
	spec := &enumSpec{
		members: append([]EnumMember(nil), members...),
		folded:  make(map[string]int64, len(members)),
		values:  make(map[int64]struct{}, len(members)),
		from:    from,
	}
	fold := cases.Fold()
	for _, m := range members {
		key := fold.String(m.Name)
		if _, dup := spec.folded[key]; !dup {
			spec.folded[key] = m.Value
		}
		spec.values[m.Value] = struct{}{}
	}
	return &Shape{
		kind: KindEnum,
		name: name,
		zero: func() any { return from(0) },
		enum: spec,
	}
}

// lookup resolves a raw enum value: decimal values by number, anything else
// by case-insensitive member name.
func (e *enumSpec) lookup(raw string) (any, error) {
	if raw[0] >= '0' && raw[0] <= '9' {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		if _, ok := e.values[n]; !ok {
			return nil, fmt.Errorf("%d is not a declared member", n)
		}
		return e.from(n), nil
	}
	n, ok := e.folded[cases.Fold().String(raw)]
	if !ok {
		return nil, fmt.Errorf("%q is not a declared member", raw)
	}
	return e.from(n), nil
}

// Arrays and maps

type seqSpec struct {
	make func(n int) any
	set  func(seq any, i int, v any) bool
}

// Slice returns an array shape producing []E.
func Slice[E any](elem *Shape) *Shape {
	return &Shape{
		kind: KindArray,
		name: "[]" + elem.name,
		elem: elem,
		zero: func() any { return []E(nil) },
		seq: &seqSpec{
			make: func(n int) any { return make([]E, n) },
			set: func(seq any, i int, v any) bool {
				e, ok := v.(E)
				if ok {
					seq.([]E)[i] = e
				}
				return ok
			},
		},
	}
}

type dictSpec struct {
	make func(n int) any
	set  func(dict any, key string, v any) bool
}

// Map returns a string-keyed map shape producing map[string]V.
func Map[V any](value *Shape) *Shape {
	return &Shape{
		kind: KindMap,
		name: "map[string]" + value.name,
		elem: value,
		zero: func() any { return map[string]V(nil) },
		dict: &dictSpec{
			make: func(n int) any { return make(map[string]V, n) },
			set: func(dict any, key string, v any) bool {
				val, ok := v.(V)
				if ok {
					dict.(map[string]V)[key] = val
				}
				return ok
			},
		},
	}
}

// Classes

type classSpec struct {
	construct func() any
	finish    func(inst any) any
	fields    []*FieldSpec
	optional  bool
}

// FieldSpec is one settable field of a class shape.
type FieldSpec struct {
	name  string
	shape *Shape
	set   func(inst any, v any) bool
}

// Name returns the field name used as the path segment.
func (f *FieldSpec) Name() string { return f.name }

// Shape returns the field's shape.
func (f *FieldSpec) Shape() *Shape { return f.shape }

// NewField returns an untyped field descriptor for use with Record. set must
// report false when v is not of the expected type.
func NewField(name string, shape *Shape, set func(inst any, v any) bool) *FieldSpec {
	return &FieldSpec{name: name, shape: shape, set: set}
}

// FieldDescriptor is a typed field descriptor for Struct and StructPtr.
type FieldDescriptor[T any] struct {
	spec *FieldSpec
}

// Field describes a settable field of struct T. The setter receives the
// bound value; V must be the type the field shape produces.
//
//	modelbind.Field("Age", modelbind.Int(), func(u *User, v int) { u.Age = v })
func Field[T, V any](name string, shape *Shape, set func(*T, V)) FieldDescriptor[T] {
	return FieldDescriptor[T]{spec: &FieldSpec{
		name:  name,
		shape: shape,
		set: func(inst any, v any) bool {
			val, ok := v.(V)
			if ok {
				set(inst.(*T), val)
			}
			return ok
		},
	}}
}

// Struct returns a class shape producing values of type T.
func Struct[T any](name string, fields ...FieldDescriptor[T]) *Shape {
	return &Shape{
		kind: KindClass,
		name: name,
		zero: func() any { var z T; return z },
		class: &classSpec{
			construct: func() any { return new(T) },
			finish:    func(inst any) any { return *inst.(*T) },
			fields:    specs(fields),
		},
	}
}

// StructPtr returns a class shape producing *T. The record is optional: when
// nothing was submitted under its path it is left nil.
func StructPtr[T any](name string, fields ...FieldDescriptor[T]) *Shape {
	return &Shape{
		kind: KindClass,
		name: "*" + name,
		zero: func() any { return (*T)(nil) },
		class: &classSpec{
			construct: func() any { return new(T) },
			finish:    func(inst any) any { return inst.(*T) },
			fields:    specs(fields),
			optional:  true,
		},
	}
}

// Record returns a class shape built from untyped parts. construct creates a
// settable instance and finish turns it into the bound value; a nil construct
// describes a type without a default constructor, which always fails to bind
// with ErrMissingConstructor.
func Record(name string, construct func() any, finish func(inst any) any, fields ...*FieldSpec) *Shape {
	if finish == nil {
		finish = func(inst any) any { return inst }
	}
	return &Shape{
		kind: KindClass,
		name: name,
		zero: func() any { return nil },
		class: &classSpec{
			construct: construct,
			finish:    finish,
			fields:    append([]*FieldSpec(nil), fields...),
		},
	}
}

func specs[T any](fields []FieldDescriptor[T]) []*FieldSpec {
	out := make([]*FieldSpec, 0, len(fields))
	for _, f := range fields {
		if f.spec != nil {
			out = append(out, f.spec)
		}
	}
	return out
}
