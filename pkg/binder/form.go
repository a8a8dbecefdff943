package binder

import (
	"net/http"

	"github.com/dmitrymomot/webkit/pkg/modelbind"
)

// Form creates a binder for application/x-www-form-urlencoded and
// multipart/form-data request bodies.
//
// Field names follow the modelbind path syntax, so nested records, indexed
// and flat slices and string-keyed maps bind from a single form:
//
//	Title=Launch&Owner.Email=a@b.c&Tags[]=go&Tags[]=web&Lines[0].Qty=2
//
// A nil mapper uses modelbind defaults. name is the root path of the target;
// leave it empty to bind the fields of a struct directly.
//
// Example:
//
//	type CreateOrder struct {
//		Title string   `form:"Title"`
//		Owner Contact  `form:"Owner"`
//		Tags  []string `form:"Tags"`
//		Lines []Line   `form:"Lines"`
//	}
//
//	http.HandleFunc("/orders", handler.Wrap(createOrder,
//		handler.WithBinder(binder.Form(nil, "")),
//	))
func Form(m *modelbind.Mapper, name string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		src, err := FormSource(r)
		if err != nil {
			return err
		}
		return bind(r.Context(), m, src, name, v, ErrInvalidForm)
	}
}
