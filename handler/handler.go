package handler

import (
	"net/http"

	"github.com/dmitrymomot/webkit/pkg/binder"
	"github.com/dmitrymomot/webkit/pkg/modelbind"
)

// HandlerFunc handles a request whose fields were already bound into R.
//
//	type createOrder struct {
//		Title string      `form:"title"`
//		Lines []orderLine `form:"lines"`
//	}
//
//	h := handler.HandlerFunc[handler.Context, createOrder](
//		func(ctx handler.Context, req createOrder) handler.Response {
//			return handler.JSON(req, handler.WithJSONStatus(http.StatusCreated))
//		},
//	)
type HandlerFunc[C Context, R any] func(ctx C, req R) Response

// Response renders itself to an http.ResponseWriter.
// Render errors are passed to the ErrorHandler.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// Bind fills v from the request. The binder package provides Form, Query,
// Path and Request.
type Bind func(r *http.Request, v any) error

// ErrorHandler handles errors from binding or rendering.
type ErrorHandler[C Context] func(ctx C, err error)

// Decorator wraps a HandlerFunc. The first decorator in a list is the
// outermost wrapper.
type Decorator[C Context, R any] func(HandlerFunc[C, R]) HandlerFunc[C, R]

// WrapOption configures the Wrap function.
type WrapOption[C Context, R any] func(*wrapConfig[C, R])

// wrapConfig holds configuration for Wrap.
type wrapConfig[C Context, R any] struct {
	binders        []Bind
	mapper         *modelbind.Mapper
	errorHandler   ErrorHandler[C]
	contextFactory func(http.ResponseWriter, *http.Request) C
	decorators     []Decorator[C, R]
}

// WithBinder replaces the binders with b.
func WithBinder[C Context, R any](b Bind) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		if b != nil {
			c.binders = []Bind{b}
		}
	}
}

// WithBinders appends binders applied in order. Each binder merges only the
// fields its source submitted, so later binders fill what earlier ones left.
//
//	r.Post("/orders/{id}", handler.Wrap(h,
//		handler.WithBinders[handler.Context, createOrder](
//			binder.Path(m, ""),
//			binder.Form(m, ""),
//		),
//	))
func WithBinders[C Context, R any](binders ...Bind) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		c.binders = append(c.binders, binders...)
	}
}

// WithMapper sets the mapper used by the default binder. It has no effect
// once binders are configured explicitly.
func WithMapper[C Context, R any](m *modelbind.Mapper) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		c.mapper = m
	}
}

// WithErrorHandler sets a custom error handler.
func WithErrorHandler[C Context, R any](h ErrorHandler[C]) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// WithContextFactory sets a custom context factory.
func WithContextFactory[C Context, R any](f func(http.ResponseWriter, *http.Request) C) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		if f != nil {
			c.contextFactory = f
		}
	}
}

// WithDecorators adds decorators; the first one is the outermost.
func WithDecorators[C Context, R any](decorators ...Decorator[C, R]) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		c.decorators = append(c.decorators, decorators...)
	}
}

// defaultErrorHandler writes the classified error as plain text.
func defaultErrorHandler[C Context](ctx C, err error) {
	info := classifyError(err).public()
	http.Error(ctx.ResponseWriter(), info.Message, info.StatusCode)
}

// defaultContextFactory panics when C is a custom context type.
func defaultContextFactory[C Context](w http.ResponseWriter, r *http.Request) C {
	if c, ok := any(NewContext(w, r)).(C); ok {
		return c
	}
	panic("handler: custom context type requires WithContextFactory")
}

// Wrap converts a typed HandlerFunc to http.HandlerFunc.
//
// Without explicit binders the request is bound with binder.Request, which
// reads path parameters, the form body and the query string in that order of
// precedence. Binding failures never reach the handler; they go to the
// ErrorHandler with the *modelbind.BindingError still reachable via
// errors.As.
//
//	r.Post("/orders", handler.Wrap(h,
//		handler.WithErrorHandler[handler.Context, createOrder](handler.NewErrorHandler(log)),
//	))
func Wrap[C Context, R any](h HandlerFunc[C, R], opts ...WrapOption[C, R]) http.HandlerFunc {
	cfg := &wrapConfig[C, R]{
		errorHandler:   defaultErrorHandler[C],
		contextFactory: defaultContextFactory[C],
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if len(cfg.binders) == 0 {
		cfg.binders = []Bind{binder.Request(cfg.mapper, "")}
	}

	// reverse order so the first decorator is outermost
	finalHandler := h
	for i := len(cfg.decorators) - 1; i >= 0; i-- {
		finalHandler = cfg.decorators[i](finalHandler)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := cfg.contextFactory(w, r)

		var req R

		for _, bind := range cfg.binders {
			if bind == nil {
				continue
			}
			if err := bind(r, &req); err != nil {
				cfg.errorHandler(ctx, err)
				return
			}
		}

		response := finalHandler(ctx, req)
		if response == nil {
			cfg.errorHandler(ctx, ErrNilResponse)
			return
		}
		if err := response.Render(w, r); err != nil {
			cfg.errorHandler(ctx, err)
		}
	}
}
