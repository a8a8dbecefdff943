// Package binder adapts HTTP requests to the modelbind engine.
//
// It turns request data into modelbind value sources and provides binder
// functions for the handler pipeline. Field names use the modelbind path
// syntax (dotted records, bracketed indexes and map keys), and targets are
// described from their `form` struct tags.
//
// # Sources
//
//   - FormSource: urlencoded or multipart body fields (files excluded)
//   - QuerySource: URL query parameters
//   - PathSource: chi route parameters
//   - RequestSource: path, body and query combined, in that precedence
//
// # Binders
//
// Form, Query, Path and Request return func(*http.Request, any) error values
// usable with handler.WithBinder:
//
//	type UpdateUser struct {
//		ID      string            `form:"id"`      // route parameter
//		Name    string            `form:"name"`    // body
//		Emails  []string          `form:"emails"`  // emails[]=a&emails[]=b
//		Address Address           `form:"address"` // address.city=Oslo
//		Labels  map[string]string `form:"labels"`  // labels[team]=core
//	}
//
//	r.Post("/users/{id}", handler.Wrap(updateUser,
//		handler.WithBinder(binder.Request(nil, "")),
//	))
//
// # Error Handling
//
// Request-level failures wrap ErrMissingContentType, ErrUnsupportedMediaType
// or ErrInvalidForm. Binding failures wrap ErrInvalidForm, ErrInvalidQuery or
// ErrInvalidPath together with the *modelbind.BindingError that caused them,
// so callers can report the offending field. Requests carrying more values
// than the mapper's MaxFields fail with ErrTooManyFields before binding.
package binder
