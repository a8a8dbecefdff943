package modelbind

// PrimitiveBinder binds numbers, booleans and strings from the last value
// submitted under prefix+name.
type PrimitiveBinder struct{}

func (PrimitiveBinder) CanBind(ctx *Context) bool {
	k := ctx.Shape().Kind()
	return k == KindPrimitive || k == KindString
}

func (PrimitiveBinder) Bind(ctx *Context) (any, bool, error) {
	key := ctx.Path()
	raw, ok := primary(ctx.Source(), key)
	if !ok {
		return nil, false, nil
	}
	v, err := ctx.Shape().parse(raw)
	if err != nil {
		return nil, false, bindErr(key, raw, ErrConversion, err)
	}
	return v, true, nil
}

// primary returns the last value submitted under name.
func primary(src ValueSource, name string) (string, bool) {
	vals, ok := src.Get(name)
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[len(vals)-1], true
}

// convertScalar converts a raw value for a primitive, string or enum shape.
func convertScalar(shape *Shape, raw string) (any, error) {
	if shape.kind == KindEnum {
		if raw == "" {
			return shape.Zero(), nil
		}
		return shape.enum.lookup(raw)
	}
	return shape.parse(raw)
}
