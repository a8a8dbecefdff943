package binder

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/webkit/pkg/modelbind"
)

var defaultMapper = modelbind.New()

// Request creates a binder reading path, form body and query fields in one
// pass. Path parameters win over body fields, body fields over the query.
func Request(m *modelbind.Mapper, name string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		src, err := RequestSource(r)
		if err != nil {
			return err
		}
		return bind(r.Context(), m, src, name, v, ErrInvalidForm)
	}
}

// bind runs the mapper against src with the request context, so mapper logs
// carry request-scoped attributes. Failures wrap kind and keep the underlying
// *modelbind.BindingError reachable with errors.As.
func bind(ctx context.Context, m *modelbind.Mapper, src modelbind.ValueSource, name string, v any, kind error) error {
	if m == nil {
		m = defaultMapper
	}
	if n, limit := countValues(src), m.MaxFields(); n > limit {
		return fmt.Errorf("%w: %w: %d values, limit is %d", kind, ErrTooManyFields, n, limit)
	}
	if err := m.BindToContext(ctx, src, name, v); err != nil {
		return fmt.Errorf("%w: %w", kind, err)
	}
	return nil
}
