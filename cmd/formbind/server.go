package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/webkit/handler"
	"github.com/dmitrymomot/webkit/pkg/binder"
	"github.com/dmitrymomot/webkit/pkg/httpserver"
	"github.com/dmitrymomot/webkit/pkg/modelbind"
	"github.com/dmitrymomot/webkit/pkg/requestid"
	"github.com/dmitrymomot/webkit/pkg/shapefile"
)

type bound struct {
	Value map[string]any
}

type bindHandler = handler.HandlerFunc[handler.Context, bound]

// bindShape binds path, form and query fields of the request against the
// shape file.
func bindShape(m *modelbind.Mapper, f *shapefile.File, name string) handler.Bind {
	return func(r *http.Request, v any) error {
		src, err := binder.RequestSource(r)
		if err != nil {
			return err
		}
		out, err := f.BindContext(r.Context(), m, src, name)
		if err != nil {
			return fmt.Errorf("%w: %w", binder.ErrInvalidForm, err)
		}
		v.(*bound).Value = out
		return nil
	}
}

// newRouter serves the playground:
//
//	POST /bind   bind the submitted form, respond with the JSON value
//	GET  /bind   same, from the query string
//	GET  /shape  the loaded shape definition
//	GET  /healthz
func newRouter(log *slog.Logger, m *modelbind.Mapper, f *shapefile.File, name string) http.Handler {
	h := handler.Wrap(
		bindHandler(func(_ handler.Context, req bound) handler.Response {
			return handler.JSON(req.Value)
		}),
		handler.WithBinder[handler.Context, bound](bindShape(m, f, name)),
		handler.WithErrorHandler[handler.Context, bound](handler.NewErrorHandler(log)),
	)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Post("/bind", h)
	r.Get("/bind", h)
	r.Get("/shape", func(w http.ResponseWriter, r *http.Request) {
		_ = handler.JSON(f).Render(w, r)
	})
	r.Get("/healthz", httpserver.HealthCheckHandler(log, httpserver.Check{
		Name: "shape",
		Fn: func(context.Context) error {
			_, err := f.Shape()
			return err
		},
	}))
	return r
}

func serve(ctx context.Context, cfg httpserver.Config, log *slog.Logger, router http.Handler) error {
	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
	return srv.Run(ctx, router)
}
