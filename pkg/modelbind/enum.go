package modelbind

// EnumBinder binds enumerations. Values starting with a decimal digit are
// matched by number, all others by case-insensitive member name. A missing or
// empty value yields the enum's zero value.
type EnumBinder struct{}

func (EnumBinder) CanBind(ctx *Context) bool {
	return ctx.Shape().Kind() == KindEnum
}

func (EnumBinder) Bind(ctx *Context) (any, bool, error) {
	key := ctx.Path()
	raw, ok := primary(ctx.Source(), key)
	if !ok || raw == "" {
		return ctx.Shape().Zero(), true, nil
	}
	v, err := ctx.Shape().enum.lookup(raw)
	if err != nil {
		return nil, false, bindErr(key, raw, ErrConversion, err)
	}
	return v, true, nil
}
