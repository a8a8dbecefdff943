package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webkit/handler"
	"github.com/dmitrymomot/webkit/pkg/binder"
	"github.com/dmitrymomot/webkit/pkg/logger"
	"github.com/dmitrymomot/webkit/pkg/modelbind"
	"github.com/dmitrymomot/webkit/pkg/requestid"
)

type orderLine struct {
	SKU string `form:"sku" json:"sku"`
	Qty int    `form:"qty" json:"qty"`
}

type createOrder struct {
	ID     string            `form:"id" json:"id"`
	Title  string            `form:"title" json:"title"`
	Lines  []orderLine       `form:"lines" json:"lines"`
	Labels map[string]string `form:"labels" json:"labels,omitempty"`
}

type orderHandler = handler.HandlerFunc[handler.Context, createOrder]

var echoOrder = orderHandler(func(ctx handler.Context, req createOrder) handler.Response {
	return handler.JSON(req, handler.WithJSONStatus(http.StatusCreated))
})

func postForm(target, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func decodeEnvelope(t *testing.T, body []byte) handler.JSONResponse {
	t.Helper()
	var got handler.JSONResponse
	require.NoError(t, json.Unmarshal(body, &got))
	return got
}

func TestWrap_ChiRouter(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.New(
		logger.WithOutput(buf),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Post("/orders/{id}", handler.Wrap(echoOrder,
		handler.WithErrorHandler[handler.Context, createOrder](handler.NewErrorHandler(log)),
	))

	t.Run("binds path, body and query", func(t *testing.T) {
		req := postForm("/orders/ord_1?title=ignored&labels%5Bchannel%5D=web",
			"title=Launch&lines[0].sku=A-1&lines[0].qty=2&lines[1].sku=B-2")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var got struct {
			Data createOrder `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, createOrder{
			ID:     "ord_1",
			Title:  "Launch",
			Lines:  []orderLine{{SKU: "A-1", Qty: 2}, {SKU: "B-2"}},
			Labels: map[string]string{"channel": "web"},
		}, got.Data)
	})

	t.Run("binding failure", func(t *testing.T) {
		req := postForm("/orders/ord_1", "lines[0].qty=many")
		req.Header.Set(requestid.Header, "req-42")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		got := decodeEnvelope(t, rec.Body.Bytes())
		require.NotNil(t, got.Error)
		assert.Equal(t, "binding_failed", got.Error.Code)
		assert.Contains(t, got.Error.Details, "lines[0].qty")
		assert.Equal(t, "req-42", got.Meta["request_id"])

		assert.Contains(t, buf.String(), `"field":"lines[0].qty"`)
		assert.Contains(t, buf.String(), `"request_id":"req-42"`)
	})
}

func TestWrap_Binders(t *testing.T) {
	t.Parallel()

	t.Run("explicit binders run in order", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(echoOrder,
			handler.WithBinders[handler.Context, createOrder](
				binder.Query(nil, ""),
				nil,
				binder.Form(nil, ""),
			),
		)

		rec := httptest.NewRecorder()
		h(rec, postForm("/?title=query&id=q1", "title=body"))

		require.Equal(t, http.StatusCreated, rec.Code)
		var got struct {
			Data createOrder `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "body", got.Data.Title)
		assert.Equal(t, "q1", got.Data.ID)
	})

	t.Run("WithBinder replaces the list", func(t *testing.T) {
		t.Parallel()
		called := false
		h := handler.Wrap(echoOrder,
			handler.WithBinders[handler.Context, createOrder](binder.Form(nil, "")),
			handler.WithBinder[handler.Context, createOrder](func(r *http.Request, v any) error {
				called = true
				v.(*createOrder).Title = "custom"
				return nil
			}),
		)

		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.True(t, called)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("mapper limits apply to the default binder", func(t *testing.T) {
		t.Parallel()
		m := modelbind.New(modelbind.WithMaxFields(2))
		h := handler.Wrap(echoOrder, handler.WithMapper[handler.Context, createOrder](m))

		rec := httptest.NewRecorder()
		h(rec, postForm("/", "lines[0].sku=a&lines[1].sku=b&lines[2].sku=c"))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("binder error stops the handler", func(t *testing.T) {
		t.Parallel()
		reached := false
		h := handler.Wrap(orderHandler(func(ctx handler.Context, req createOrder) handler.Response {
			reached = true
			return handler.Empty()
		}))

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"x"}`))
		req.Header.Set("Content-Type", "multipart/form-data")
		rec := httptest.NewRecorder()
		h(rec, req)

		assert.False(t, reached)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestWrap_Responses(t *testing.T) {
	t.Parallel()

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(orderHandler(func(ctx handler.Context, req createOrder) handler.Response {
			return nil
		}))
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), handler.ErrNilResponse.Error())
	})

	t.Run("handler returns http error", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(orderHandler(func(ctx handler.Context, req createOrder) handler.Response {
			return handler.JSONError(handler.ErrNotFound)
		}))
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		got := decodeEnvelope(t, rec.Body.Bytes())
		require.NotNil(t, got.Error)
		assert.Equal(t, "not_found", got.Error.Code)
	})
}

func TestWrap_Decorators(t *testing.T) {
	t.Parallel()

	var order []string
	trace := func(name string) handler.Decorator[handler.Context, createOrder] {
		return func(next handler.HandlerFunc[handler.Context, createOrder]) handler.HandlerFunc[handler.Context, createOrder] {
			return func(ctx handler.Context, req createOrder) handler.Response {
				order = append(order, name)
				return next(ctx, req)
			}
		}
	}

	h := handler.Wrap(orderHandler(func(ctx handler.Context, req createOrder) handler.Response {
		order = append(order, "handler:"+req.Title)
		return handler.Empty()
	}), handler.WithDecorators(trace("outer"), trace("inner")))

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/?title=x", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"outer", "inner", "handler:x"}, order)
}

type appContext struct {
	handler.Context
	tenant string
}

func TestWrap_ContextFactory(t *testing.T) {
	t.Parallel()

	h := handler.Wrap(
		handler.HandlerFunc[appContext, createOrder](func(ctx appContext, req createOrder) handler.Response {
			return handler.JSON(ctx.tenant)
		}),
		handler.WithContextFactory[appContext, createOrder](func(w http.ResponseWriter, r *http.Request) appContext {
			return appContext{Context: handler.NewContext(w, r), tenant: r.Header.Get("X-Tenant")}
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Tenant", "acme")
	rec := httptest.NewRecorder()
	h(rec, req)

	got := decodeEnvelope(t, rec.Body.Bytes())
	assert.Equal(t, "acme", got.Data)

	t.Run("missing factory panics", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(handler.HandlerFunc[appContext, createOrder](func(ctx appContext, req createOrder) handler.Response {
			return handler.Empty()
		}))
		assert.Panics(t, func() {
			h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		})
	})
}

func TestWrap_ErrorHandler(t *testing.T) {
	t.Parallel()

	var got error
	h := handler.Wrap(echoOrder,
		handler.WithBinder[handler.Context, createOrder](func(r *http.Request, v any) error {
			return errors.New("custom failure")
		}),
		handler.WithErrorHandler[handler.Context, createOrder](func(ctx handler.Context, err error) {
			got = err
			ctx.ResponseWriter().WriteHeader(http.StatusTeapot)
		}),
	)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.EqualError(t, got, "custom failure")
}
