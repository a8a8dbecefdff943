package modelbind

// Binder converts submitted values into one kind of shape.
//
// CanBind reports whether the binder claims the context's shape. Bind returns
// the bound value, or ok == false when nothing was submitted for it; absent
// values are not errors. Binders are shared by all requests and must not keep
// per-call state.
type Binder interface {
	CanBind(ctx *Context) bool
	Bind(ctx *Context) (value any, ok bool, err error)
}

// KindBinder adapts a bind function into a Binder claiming a fixed set of
// shape kinds.
type KindBinder struct {
	Kinds []Kind
	Func  func(ctx *Context) (any, bool, error)
}

func (b KindBinder) CanBind(ctx *Context) bool {
	for _, k := range b.Kinds {
		if ctx.Shape().Kind() == k {
			return true
		}
	}
	return false
}

func (b KindBinder) Bind(ctx *Context) (any, bool, error) {
	return b.Func(ctx)
}

// DefaultBinders returns the default strategy order: primitive, enum, array,
// map, class.
func DefaultBinders() []Binder {
	return []Binder{
		PrimitiveBinder{},
		EnumBinder{},
		ArrayBinder{},
		MapBinder{},
		ClassBinder{},
	}
}
