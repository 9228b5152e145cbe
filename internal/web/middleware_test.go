package web

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestAccessLog_LogsWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	h := requestID(logger)(accessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?page=2", nil))

	out := buf.String()
	assert.Contains(t, out, `"message":"Request served"`)
	assert.Contains(t, out, `"status":418`)
	assert.Contains(t, out, `"query":"page=2"`)
	assert.Contains(t, out, `"request_id":"`+rec.Header().Get(RequestIDHeader)+`"`)
}

func TestAccessLog_WarnsOnServerErrors(t *testing.T) {
	var buf bytes.Buffer
	h := requestID(zerolog.New(&buf))(accessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/pokemon/pikachu", nil))

	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestAccessLog_SkipsNoisyPaths(t *testing.T) {
	for _, path := range []string{"/health", "/ready", "/metrics"} {
		var buf bytes.Buffer
		h := requestID(zerolog.New(&buf))(accessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))

		assert.Empty(t, buf.String(), path)
	}
}

func TestRecoverPanic(t *testing.T) {
	var buf bytes.Buffer
	h := requestID(zerolog.New(&buf))(recoverPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), "Handler panicked")
}
