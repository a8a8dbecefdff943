package modelbind

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/dmitrymomot/webkit/pkg/logger"
)

// Mapper binds value sources into shapes using an ordered list of binders.
//
// Binder selection is first match: for every value the first binder whose
// CanBind returns true is used, even if a later binder would also claim it.
// Callers control precedence through registration order.
//
// A Mapper is read-only after New and safe for concurrent use.
type Mapper struct {
	binders   []Binder
	maxDepth  int
	maxFields int
	log       *slog.Logger
}

// New creates a mapper with the default binders and limits.
func New(opts ...Option) *Mapper {
	cfg := DefaultConfig()
	m := &Mapper{
		binders:   DefaultBinders(),
		maxDepth:  cfg.MaxDepth,
		maxFields: cfg.MaxFields,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Binders returns a copy of the mapper's binders in selection order.
func (m *Mapper) Binders() []Binder {
	out := make([]Binder, len(m.binders))
	copy(out, m.binders)
	return out
}

// MaxFields is the largest number of submitted fields request adapters should
// accept before binding.
func (m *Mapper) MaxFields() int { return m.maxFields }

// Bind produces a value of the given shape from src.
//
// With a non-empty name the value is looked up under that name. With an empty
// name only class shapes are accepted: their fields are bound directly at the
// root, which binds a whole request into a view model. If nothing was
// submitted, the shape's zero value is returned.
func (m *Mapper) Bind(src ValueSource, shape *Shape, name string) (any, error) {
	return m.BindContext(context.Background(), src, shape, name)
}

// BindContext is Bind with a context.Context that is passed to the logger.
func (m *Mapper) BindContext(c context.Context, src ValueSource, shape *Shape, name string) (any, error) {
	if shape == nil {
		return nil, ErrNilShape
	}
	if src == nil {
		return nil, ErrNilSource
	}

	ctx := NewContext(src, m, shape, "", name).WithContext(c)
	var (
		v   any
		ok  bool
		err error
	)
	switch {
	case name != "":
		v, ok, err = m.Resolve(ctx)
	case shape.Kind() == KindClass:
		v, ok, err = bindRecord(ctx)
	default:
		return nil, bindErr(shape.name, nil, ErrUnnamedRoot, fmt.Errorf("cannot bind %s without a name", shape.kind))
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return shape.Zero(), nil
	}
	return v, nil
}

// Resolve binds the context's shape with the first claiming binder. Shapes no
// binder claims resolve to their zero value.
func (m *Mapper) Resolve(ctx *Context) (any, bool, error) {
	if ctx.Shape() == nil {
		return nil, false, bindErr(ctx.Path(), nil, ErrNilShape, nil)
	}
	if m.maxDepth > 0 && ctx.Depth() > m.maxDepth {
		return nil, false, bindErr(ctx.Path(), nil, ErrDepthExceeded, fmt.Errorf("limit is %d", m.maxDepth))
	}

	for _, b := range m.binders {
		if !b.CanBind(ctx) {
			continue
		}
		if m.log != nil {
			m.log.LogAttrs(ctx.Context(), slog.LevelDebug, "binding field",
				logger.Field(ctx.Path()),
				logger.Shape(ctx.Shape().String()),
				logger.Binder(fmt.Sprintf("%T", b)),
			)
		}
		return b.Bind(ctx)
	}

	zero := ctx.Shape().Zero()
	if zero == nil {
		return nil, false, nil
	}
	return zero, true, nil
}

// AsBinder returns the mapper as a Binder claiming every shape, so a mapper
// can be nested inside another mapper's binder list.
func (m *Mapper) AsBinder() Binder { return mapperBinder{m} }

type mapperBinder struct{ m *Mapper }

func (b mapperBinder) CanBind(*Context) bool { return true }

func (b mapperBinder) Bind(ctx *Context) (any, bool, error) { return b.m.Resolve(ctx) }

// BindTo binds into the value pointed to by target, describing its type with
// DescribeType. Only values present in src are written: struct targets are
// filled in place field by field, so several sources can be bound into the
// same target one after another. Nested records are replaced as a whole.
func (m *Mapper) BindTo(src ValueSource, name string, target any) error {
	return m.BindToContext(context.Background(), src, name, target)
}

// BindToContext is BindTo with a context.Context that is passed to the logger.
func (m *Mapper) BindToContext(c context.Context, src ValueSource, name string, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrInvalidTarget
	}
	if src == nil {
		return ErrNilSource
	}
	shape, err := DescribeType(rv.Elem().Type())
	if err != nil {
		return err
	}

	ctx := NewContext(src, m, shape, "", name).WithContext(c)
	if rv.Elem().Kind() == reflect.Struct {
		if err := checkTarget(shape, name, rv.Type()); err != nil {
			return err
		}
		prefix := ""
		if name != "" {
			prefix = name + "."
		}
		return bindFields(ctx, shape, target, prefix, true)
	}
	if name == "" {
		return bindErr(shape.name, nil, ErrUnnamedRoot, fmt.Errorf("cannot bind %s without a name", shape.kind))
	}
	if !submitted(src, name) {
		return nil
	}

	v, ok, err := m.Resolve(ctx)
	if err != nil || !ok {
		return err
	}
	if !setValue(rv.Elem(), v) {
		return mismatch(name, shape, v)
	}
	return nil
}

// checkTarget makes sure a class shape can fill the target in place: it must
// have a constructor, and the constructor must produce the target's pointer
// type, since the field setters are written for that instance.
func checkTarget(shape *Shape, name string, target reflect.Type) error {
	field := name
	if field == "" {
		field = shape.name
	}
	if shape.class == nil {
		return bindErr(field, nil, ErrShapeMismatch, fmt.Errorf("%s is not a record", shape.name))
	}
	if shape.class.construct == nil {
		return bindErr(field, nil, ErrMissingConstructor,
			fmt.Errorf("type %s bound as %q cannot be instantiated", shape.name, name))
	}
	if got := reflect.TypeOf(shape.class.construct()); got != target {
		return bindErr(field, nil, ErrShapeMismatch, fmt.Errorf("%s constructs %v, target is %v", shape.name, got, target))
	}
	return nil
}

// Bind is the typed form of Mapper.Bind.
func Bind[T any](m *Mapper, src ValueSource, shape *Shape, name string) (T, error) {
	var zero T
	v, err := m.Bind(src, shape, name)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	out, ok := v.(T)
	if !ok {
		return zero, mismatch(name, shape, v)
	}
	return out, nil
}

// BindAs binds into T using the shape produced by Describe.
func BindAs[T any](m *Mapper, src ValueSource, name string) (T, error) {
	shape, err := Describe[T]()
	if err != nil {
		var zero T
		return zero, err
	}
	return Bind[T](m, src, shape, name)
}
