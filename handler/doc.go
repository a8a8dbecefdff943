// Package handler turns typed request handlers into http.HandlerFunc values.
//
// Wrap binds the incoming request into the handler's request type before the
// handler runs. By default it uses binder.Request, which reads chi path
// parameters, the urlencoded or multipart form body and the query string, so
// a handler receives nested records, arrays, dictionaries and enums already
// converted:
//
//	type createOrder struct {
//		ID     string            `form:"id"`
//		Title  string            `form:"title"`
//		Lines  []orderLine       `form:"lines"`
//		Labels map[string]string `form:"labels"`
//	}
//
//	func create(ctx handler.Context, req createOrder) handler.Response {
//		if req.Title == "" {
//			v := handler.NewValidationError()
//			v.Add("title", "is required")
//			return handler.JSONError(v)
//		}
//		return handler.JSON(req, handler.WithJSONStatus(http.StatusCreated))
//	}
//
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware)
//	r.Post("/orders/{id}", handler.Wrap(create,
//		handler.WithErrorHandler[handler.Context, createOrder](handler.NewErrorHandler(log)),
//	))
//
// # Errors
//
// Binding never panics on bad input. Failures are classified as follows:
//
//   - *modelbind.BindingError caused by submitted data: 400 "binding_failed",
//     with Details keyed by the failed field path such as "lines[2]".
//   - binder.ErrTooManyFields: 413.
//   - Missing or non-form content type: 415.
//   - ValidationError: 422 with its field messages.
//   - HTTPError: its own status and key.
//   - Anything else, including an invalid bind target: 500.
//
// NewErrorHandler logs every failure with the request ID and field path and
// renders the JSON envelope; without it, Wrap writes a plain-text error.
// With an ErrorHandlerConfig it renders templ components instead: a full
// error page for browsers and, for DataStar form posts, a fragment patched
// into the form:
//
//	handler.NewErrorHandler(log, handler.ErrorHandlerConfig{
//		ErrorPage:      views.ErrorPage,
//		ErrorFragment:  views.FormErrors,
//		FragmentTarget: "#order-errors",
//	})
package handler
