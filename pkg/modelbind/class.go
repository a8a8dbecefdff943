package modelbind

import "fmt"

// ClassBinder binds records field by field. Fields are looked up under
// prefix+name+"."; a root context (empty name) keeps the prefix unchanged.
// Missing fields keep their zero value, the first field error aborts.
type ClassBinder struct{}

func (ClassBinder) CanBind(ctx *Context) bool {
	return ctx.Shape().Kind() == KindClass
}

func (ClassBinder) Bind(ctx *Context) (any, bool, error) {
	return bindRecord(ctx)
}

func bindRecord(ctx *Context) (any, bool, error) {
	shape := ctx.Shape()
	spec := shape.class
	if spec.construct == nil {
		field := ctx.Path()
		if field == "" {
			field = shape.name
		}
		return nil, false, bindErr(field, nil, ErrMissingConstructor,
			fmt.Errorf("type %s bound as %q cannot be instantiated", shape.name, ctx.Name()))
	}

	prefix := ctx.Prefix()
	if ctx.Name() != "" {
		prefix = ctx.Path() + "."
		if spec.optional && len(ctx.Source().Find(prefix)) == 0 {
			return nil, false, nil
		}
	}

	inst := spec.construct()
	if err := bindFields(ctx, shape, inst, prefix, false); err != nil {
		return nil, false, err
	}
	return spec.finish(inst), true, nil
}

// bindFields resolves every field of a class shape under prefix and stores
// the bound values in inst. With merge set, fields without submitted values
// are not resolved at all, so values already present in inst survive.
func bindFields(ctx *Context, shape *Shape, inst any, prefix string, merge bool) error {
	for _, f := range shape.class.fields {
		if merge && !submitted(ctx.Source(), prefix+f.name) {
			continue
		}
		v, ok, err := ctx.Resolve(f.shape, prefix, f.name)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if !f.set(inst, v) {
			return mismatch(prefix+f.name, f.shape, v)
		}
	}
	return nil
}

// submitted reports whether src holds the field itself or anything nested
// under it.
func submitted(src ValueSource, path string) bool {
	if _, ok := src.Get(path); ok {
		return true
	}
	return len(src.Find(path+".")) > 0 || len(src.Find(path+"[")) > 0
}
