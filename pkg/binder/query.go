package binder

import (
	"net/http"

	"github.com/dmitrymomot/webkit/pkg/modelbind"
)

// Query creates a query parameter binder.
//
// Example:
//
//	type SearchRequest struct {
//		Query  string   `form:"q"`
//		Page   int      `form:"page"`
//		Tags   []string `form:"tags"`   // ?tags[]=go&tags[]=web
//		Active *bool    `form:"active"` // Optional
//	}
//
//	http.HandleFunc("/search", handler.Wrap(search,
//		handler.WithBinder(binder.Query(nil, "")),
//	))
func Query(m *modelbind.Mapper, name string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		return bind(r.Context(), m, QuerySource(r), name, v, ErrInvalidQuery)
	}
}
