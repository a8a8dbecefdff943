package binder

import (
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/webkit/pkg/modelbind"
)

// DefaultMaxMemory is the default maximum memory used for parsing multipart forms (10MB).
const DefaultMaxMemory = 10 << 20 // 10 MB

// FormSource parses the request body and returns its fields. It accepts
// application/x-www-form-urlencoded and multipart/form-data; file parts of a
// multipart body are not included. Query string values are not part of the
// result, use QuerySource or RequestSource for those.
func FormSource(r *http.Request) (modelbind.Values, error) {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return nil, fmt.Errorf("%w: expected application/x-www-form-urlencoded or multipart/form-data", ErrMissingContentType)
	}

	// Extract media type without parameters
	mediaType := contentType
	if idx := strings.Index(contentType, ";"); idx != -1 {
		mediaType = strings.TrimSpace(contentType[:idx])
	}

	switch {
	case mediaType == "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidForm, err)
		}
		return modelbind.Values(r.PostForm), nil

	case mediaType == "multipart/form-data":
		_, params, err := mime.ParseMediaType(contentType)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed content type with boundary", ErrInvalidForm)
		}
		boundary, ok := params["boundary"]
		if !ok || boundary == "" {
			return nil, fmt.Errorf("%w: missing boundary in content type", ErrInvalidForm)
		}
		if !validateBoundary(boundary) {
			return nil, fmt.Errorf("%w: invalid boundary parameter", ErrInvalidForm)
		}

		// Note: Request size limits should be handled at server/middleware level
		if err := r.ParseMultipartForm(DefaultMaxMemory); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidForm, err)
		}
		if r.MultipartForm == nil {
			return modelbind.Values{}, nil
		}
		return modelbind.Values(r.MultipartForm.Value), nil

	default:
		return nil, fmt.Errorf("%w: got %s, expected application/x-www-form-urlencoded or multipart/form-data", ErrUnsupportedMediaType, mediaType)
	}
}

// QuerySource returns the URL query parameters of r.
func QuerySource(r *http.Request) modelbind.Values {
	return modelbind.Values(r.URL.Query())
}

// PathSource returns the route parameters chi matched for r. Empty
// parameters are left out so they bind as absent.
func PathSource(r *http.Request) modelbind.Values {
	out := modelbind.Values{}
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return out
	}
	for i, key := range rctx.URLParams.Keys {
		if i >= len(rctx.URLParams.Values) {
			break
		}
		if v := rctx.URLParams.Values[i]; v != "" {
			// nested routers may repeat a key; the innermost match is last
			out[key] = []string{v}
		}
	}
	return out
}

// RequestSource combines path, body and query fields, in that order of
// precedence. The body is only read when the request declares a form content
// type.
func RequestSource(r *http.Request) (modelbind.Chain, error) {
	src := modelbind.Chain{PathSource(r)}
	if hasFormBody(r) {
		form, err := FormSource(r)
		if err != nil {
			return nil, err
		}
		src = append(src, form)
	}
	return append(src, QuerySource(r)), nil
}

func hasFormBody(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data"
}

// validateBoundary checks a multipart boundary against RFC 2046: 1 to 70
// characters from the bchars set, not ending in a space.
func validateBoundary(boundary string) bool {
	if len(boundary) == 0 || len(boundary) > 70 || boundary[len(boundary)-1] == ' ' {
		return false
	}
	for _, c := range boundary {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case strings.ContainsRune("'()+_,-./:=? ", c):
		default:
			return false
		}
	}
	return true
}

// countValues returns the number of submitted values across all fields.
func countValues(src modelbind.ValueSource) int {
	n := 0
	for _, f := range src.Find("") {
		n += len(f.Values)
	}
	return n
}
