package modelbind

// MapBinder binds string-keyed maps from fields of the form "name[key]...".
// The key is the bracket token; surrounding single quotes are stripped so
// numeric-looking keys can be written as ['1']. Each distinct segment is
// bound through the resolver and becomes one entry.
type MapBinder struct{}

func (MapBinder) CanBind(ctx *Context) bool {
	return ctx.Shape().Kind() == KindMap
}

func (MapBinder) Bind(ctx *Context) (any, bool, error) {
	shape := ctx.Shape()
	segs, err := collectSegments(ctx.Source(), ctx.Path()+"[")
	if err != nil {
		return nil, false, err
	}
	if len(segs) == 0 {
		return nil, false, nil
	}

	dict := shape.dict.make(len(segs))
	for _, seg := range segs {
		v, ok, err := ctx.Resolve(shape.elem, "", seg.name)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			continue
		}
		if !shape.dict.set(dict, unquote(seg.token), v) {
			return nil, false, mismatch(seg.name, shape.elem, v)
		}
	}
	return dict, true, nil
}

func unquote(token string) string {
	if len(token) >= 2 && token[0] == '\'' && token[len(token)-1] == '\'' {
		return token[1 : len(token)-1]
	}
	return token
}
