package handler

import (
	"errors"
	"log/slog"
	"maps"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/dmitrymomot/webkit/pkg/binder"
	"github.com/dmitrymomot/webkit/pkg/logger"
	"github.com/dmitrymomot/webkit/pkg/modelbind"
	"github.com/dmitrymomot/webkit/pkg/requestid"
)

// ErrorHandlerConfig configures HTML rendering of errors. JSON is used for
// any request the configured components do not cover.
type ErrorHandlerConfig struct {
	// ErrorPage renders a full error page for browsers asking for text/html.
	ErrorPage func(ErrorPageParams) templ.Component

	// ErrorFragment renders form errors for DataStar requests.
	ErrorFragment func(ErrorPageParams) templ.Component

	// FragmentTarget is the element patched with the fragment (default: "#form-errors").
	FragmentTarget string

	// FragmentMode is how the fragment is merged (default: PatchInner).
	FragmentMode datastar.ElementPatchMode
}

// ErrorPageParams is passed to error components. Server errors carry the
// generic status text only.
type ErrorPageParams struct {
	StatusCode int
	Code       string
	Message    string
	Field      string
	Details    map[string][]string
	RequestID  string
}

func setConfigDefaults(cfg ErrorHandlerConfig) ErrorHandlerConfig {
	if cfg.FragmentTarget == "" {
		cfg.FragmentTarget = "#form-errors"
	}
	if cfg.FragmentMode == "" {
		cfg.FragmentMode = PatchInner
	}
	return cfg
}

// ErrorInfo is the classified form of an error returned by a binder,
// a handler or a response. Field is set for binding errors only.
type ErrorInfo struct {
	StatusCode int
	Code       string
	Message    string
	Field      string
	Details    map[string][]string
	LogLevel   slog.Level
}

func isClientError(statusCode int) bool {
	return statusCode >= http.StatusBadRequest && statusCode < http.StatusInternalServerError
}

// determineLogLevel: client errors are warnings, everything else is an error.
func determineLogLevel(statusCode int) slog.Level {
	if isClientError(statusCode) {
		return slog.LevelWarn
	}
	return slog.LevelError
}

// classifyError maps err to a status code and response body. The first
// match wins, checked in this order: ValidationError, field limit, media
// type, *modelbind.BindingError, other request errors, HTTPError.
func classifyError(err error) ErrorInfo {
	info := ErrorInfo{
		StatusCode: http.StatusInternalServerError,
		Code:       "internal_error",
		Message:    err.Error(),
	}

	var (
		validationErr ValidationError
		bindingErr    *modelbind.BindingError
		httpErr       HTTPError
	)
	switch {
	case errors.As(err, &validationErr):
		info.StatusCode = http.StatusUnprocessableEntity
		info.Code = "validation_error"
		if len(validationErr) > 0 {
			info.Details = make(map[string][]string, len(validationErr))
			maps.Copy(info.Details, validationErr)
		}
	case errors.Is(err, binder.ErrTooManyFields):
		info.StatusCode = http.StatusRequestEntityTooLarge
		info.Code = ErrRequestEntityTooLarge.Key
	case errors.Is(err, binder.ErrUnsupportedMediaType), errors.Is(err, binder.ErrMissingContentType):
		info.StatusCode = http.StatusUnsupportedMediaType
		info.Code = ErrUnsupportedMediaType.Key
	case errors.As(err, &bindingErr) && isRequestBindingError(bindingErr):
		info.StatusCode = http.StatusBadRequest
		info.Code = "binding_failed"
		info.Field = bindingErr.Field
		info.Message = bindingErr.Error()
		if bindingErr.Field != "" {
			info.Details = map[string][]string{bindingErr.Field: {bindingReason(bindingErr)}}
		}
	case errors.Is(err, binder.ErrInvalidForm), errors.Is(err, binder.ErrInvalidQuery), errors.Is(err, binder.ErrInvalidPath):
		if !isProgrammerError(err) {
			info.StatusCode = http.StatusBadRequest
			info.Code = ErrBadRequest.Key
		}
	case errors.As(err, &httpErr):
		info.StatusCode = httpErr.Code
		info.Code = httpErr.Key
		info.Message = http.StatusText(httpErr.Code)
	}

	info.LogLevel = determineLogLevel(info.StatusCode)
	return info
}

// isRequestBindingError reports whether the submitted data caused the
// failure rather than a broken shape or target.
func isRequestBindingError(err *modelbind.BindingError) bool {
	return !isProgrammerError(err)
}

func isProgrammerError(err error) bool {
	for _, target := range programmerErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

var programmerErrors = []error{
	modelbind.ErrInvalidTarget,
	modelbind.ErrUnsupportedType,
	modelbind.ErrMissingConstructor,
	modelbind.ErrShapeMismatch,
	modelbind.ErrNilShape,
	modelbind.ErrNilSource,
	modelbind.ErrNoResolver,
}

func bindingReason(err *modelbind.BindingError) string {
	if err.Cause == nil {
		return err.Err.Error()
	}
	return err.Err.Error() + ": " + err.Cause.Error()
}

// public hides internal error text from clients.
func (i ErrorInfo) public() ErrorInfo {
	if i.StatusCode >= http.StatusInternalServerError {
		i.Code = ErrInternalServerError.Key
		i.Message = http.StatusText(i.StatusCode)
		i.Details = nil
	}
	return i
}

func logError(log *slog.Logger, ctx Context, err error, info ErrorInfo) {
	r := ctx.Request()
	log.LogAttrs(r.Context(), info.LogLevel, "request error",
		logger.RequestID(requestid.FromContext(r.Context())),
		logger.Error(err),
		logger.StatusCode(info.StatusCode),
		logger.Field(info.Field),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		logger.Component("error_handler"),
	)
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

// errorResponse picks the DataStar fragment, the HTML page or JSON, in that
// order, depending on the request and the configured components.
func errorResponse(r *http.Request, cfg ErrorHandlerConfig, info ErrorInfo, requestID string) Response {
	params := ErrorPageParams{
		StatusCode: info.StatusCode,
		Code:       info.Code,
		Message:    info.Message,
		Field:      info.Field,
		Details:    info.Details,
		RequestID:  requestID,
	}

	switch {
	case IsDataStar(r) && cfg.ErrorFragment != nil:
		return Templ(cfg.ErrorFragment(params), WithTarget(cfg.FragmentTarget), WithPatchMode(cfg.FragmentMode))
	case wantsHTML(r) && cfg.ErrorPage != nil:
		page := cfg.ErrorPage(params)
		return templWithStatus(info.StatusCode, page, page)
	}

	opts := []JSONOption{WithJSONStatus(info.StatusCode)}
	if requestID != "" {
		opts = append(opts, WithJSONMeta(map[string]any{"request_id": requestID}))
	}
	return JSONError(&ErrorDetail{Code: info.Code, Message: info.Message, Details: info.Details}, opts...)
}

// NewErrorHandler returns an ErrorHandler that logs the failure and renders
// it. DataStar requests get cfg.ErrorFragment patched into the page, browsers
// get cfg.ErrorPage, and everything else a JSON error body with the request
// ID in meta. Server errors are rendered without internal details.
//
//	h := handler.NewErrorHandler(log, handler.ErrorHandlerConfig{
//		ErrorPage:     views.ErrorPage,
//		ErrorFragment: views.FormErrors,
//	})
func NewErrorHandler(log *slog.Logger, cfgs ...ErrorHandlerConfig) ErrorHandler[Context] {
	if log == nil {
		log = slog.Default()
	}
	var cfg ErrorHandlerConfig
	if len(cfgs) > 0 {
		cfg = cfgs[0]
	}
	cfg = setConfigDefaults(cfg)

	return func(ctx Context, err error) {
		info := classifyError(err)
		logError(log, ctx, err, info)

		requestID := requestid.FromContext(ctx.Request().Context())
		resp := errorResponse(ctx.Request(), cfg, info.public(), requestID)

		if renderErr := resp.Render(ctx.ResponseWriter(), ctx.Request()); renderErr != nil {
			log.LogAttrs(ctx.Request().Context(), slog.LevelError, "failed to render error response",
				logger.RequestID(requestID),
				logger.Error(renderErr),
				logger.Event("render_error_response"),
			)
		}
	}
}
