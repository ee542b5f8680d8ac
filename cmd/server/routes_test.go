package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubEndpoints struct {
	ws, fetch int
}

func (s *stubEndpoints) ServeWS(w http.ResponseWriter, r *http.Request) {
	s.ws++
	w.WriteHeader(http.StatusNoContent)
}

func (s *stubEndpoints) Fetch(w http.ResponseWriter, r *http.Request) {
	s.fetch++
	w.WriteHeader(http.StatusOK)
}

func TestNewRouter(t *testing.T) {
	stub := &stubEndpoints{}
	r := newRouter("/mrfxp", stub, stub)

	cases := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/mrfxp/ws", http.StatusNoContent},
		{http.MethodPost, "/mrfxp/fetch", http.StatusOK},
		{http.MethodGet, "/mrfxp/fetch", http.StatusMethodNotAllowed},
		{http.MethodGet, "/ws", http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, tc.want, rec.Code, "%s %s", tc.method, tc.path)
	}

	assert.Equal(t, 1, stub.ws)
	assert.Equal(t, 1, stub.fetch)
}

func TestHealth(t *testing.T) {
	r := newRouter("/mrfxp", &stubEndpoints{}, &stubEndpoints{})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}
