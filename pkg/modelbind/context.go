package modelbind

import "context"

// Resolver binds a nested value for a context. Mapper is the standard
// implementation; binders reach it only through Context.Resolve.
type Resolver interface {
	Resolve(ctx *Context) (any, bool, error)
}

// Context is the state of a single binding attempt: what to produce, where
// its fields live, and how to bind nested values. A Context is never mutated;
// nested values get a fresh child context.
type Context struct {
	ctx      context.Context
	source   ValueSource
	resolver Resolver
	shape    *Shape
	prefix   string
	name     string
	depth    int
}

// NewContext creates a root context. prefix is the path up to the field and,
// when non-empty, ends with '.'.
func NewContext(src ValueSource, resolver Resolver, shape *Shape, prefix, name string) *Context {
	return &Context{
		source:   src,
		resolver: resolver,
		shape:    shape,
		prefix:   prefix,
		name:     name,
	}
}

// WithContext returns a copy of c carrying ctx. Child contexts inherit it, so
// request-scoped values reach the mapper's logger.
func (c *Context) WithContext(ctx context.Context) *Context {
	cp := *c
	cp.ctx = ctx
	return &cp
}

// Context returns the context.Context of the bind, or context.Background.
func (c *Context) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

func (c *Context) Source() ValueSource { return c.source }
func (c *Context) Shape() *Shape       { return c.shape }
func (c *Context) Prefix() string      { return c.prefix }
func (c *Context) Name() string        { return c.name }

// Depth is the number of Resolve calls between the root and this context.
func (c *Context) Depth() int { return c.depth }

// Path returns the lookup key of the field: prefix followed by name.
func (c *Context) Path() string { return c.prefix + c.name }

// Resolve binds a nested value of the given shape through the context's
// resolver. It returns false when nothing was submitted for the value.
func (c *Context) Resolve(shape *Shape, prefix, name string) (any, bool, error) {
	if c.resolver == nil {
		return nil, false, bindErr(prefix+name, nil, ErrNoResolver, nil)
	}
	child := &Context{
		ctx:      c.ctx,
		source:   c.source,
		resolver: c.resolver,
		shape:    shape,
		prefix:   prefix,
		name:     name,
		depth:    c.depth + 1,
	}
	return c.resolver.Resolve(child)
}
