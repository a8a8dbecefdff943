package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webkit/handler"
)

func TestEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		resp handler.Response
		want int
	}{
		{"no content", handler.Empty(), http.StatusNoContent},
		{"accepted", handler.EmptyWithStatus(http.StatusAccepted), http.StatusAccepted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := httptest.NewRecorder()
			require.NoError(t, tt.resp.Render(w, httptest.NewRequest(http.MethodDelete, "/", nil)))
			assert.Equal(t, tt.want, w.Code)
			assert.Empty(t, w.Body.String())
		})
	}
}
