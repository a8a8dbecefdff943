package binder

import (
	"net/http"

	"github.com/dmitrymomot/webkit/pkg/modelbind"
)

// Path creates a binder for chi route parameters.
//
// Example:
//
//	type ProfileRequest struct {
//		UserID string `form:"id"`
//		Tab    string `form:"tab"`
//	}
//
//	r := chi.NewRouter()
//	r.Get("/users/{id}/{tab}", handler.Wrap(profile,
//		handler.WithBinders(
//			binder.Path(nil, ""),
//			binder.Query(nil, ""),
//		),
//	))
func Path(m *modelbind.Mapper, name string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		return bind(r.Context(), m, PathSource(r), name, v, ErrInvalidPath)
	}
}
