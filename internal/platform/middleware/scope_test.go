package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"eventshell/internal/scope"
	"eventshell/pkg/requestcontext"
)

func TestScopeInjectsDerivedContext(t *testing.T) {
	var got scope.Context
	h := Scope(func() scope.Context { return scope.Context{UserID: "u1", EventID: "e42"} })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = requestcontext.Scope(r.Context())
		}),
	)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, scope.Context{UserID: "u1", EventID: "e42"}, got)
}

func TestRequestID(t *testing.T) {
	t.Run("keeps the caller id", func(t *testing.T) {
		var got string
		h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = requestcontext.RequestID(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(headerRequestID, "req-1")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)
		assert.Equal(t, "req-1", got)
		assert.Equal(t, "req-1", rec.Header().Get(headerRequestID))
	})

	t.Run("mints an id when absent", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RequestID(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.NotEmpty(t, rec.Header().Get(headerRequestID))
	})
}
