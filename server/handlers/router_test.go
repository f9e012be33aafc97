package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/luno/weighted/server/ops"
	"github.com/stretchr/testify/assert"
)

type state struct {
	Dists *ops.Distributions
}

func (s state) Distributions() *ops.Distributions {
	return s.Dists
}

func TestRouterStatusCodes(t *testing.T) {
	r := CreateRouter(state{Dists: ops.NewDistributions(ops.NewMemDB())})

	testCases := []struct {
		name        string
		method      string
		path        string
		contentType string
		body        string
		expStatus   int
	}{
		{name: "list", method: http.MethodGet, path: "/weighted/api/distributions", expStatus: http.StatusOK},
		{name: "root redirects", method: http.MethodGet, path: "/", expStatus: http.StatusTemporaryRedirect},
		{name: "unknown path", method: http.MethodGet, path: "/elsewhere", expStatus: http.StatusNotFound},
		{name: "unknown distribution", method: http.MethodGet, path: "/weighted/api/distributions/nope", expStatus: http.StatusNotFound},
		{
			name: "weights need json", method: http.MethodPost, path: "/weighted/api/distributions/a/weights",
			contentType: "text/plain", body: `{"entries":[]}`, expStatus: http.StatusBadRequest,
		},
		{
			name: "malformed json", method: http.MethodPost, path: "/weighted/api/distributions/a/weights",
			contentType: "application/json", body: `{"entries":`, expStatus: http.StatusBadRequest,
		},
		{
			name: "negative weight", method: http.MethodPost, path: "/weighted/api/distributions/a/weights",
			contentType: "application/json", body: `{"entries":[{"key":"x","weight":-1}]}`, expStatus: http.StatusBadRequest,
		},
		{
			name: "add weight", method: http.MethodPost, path: "/weighted/api/distributions/a/weights",
			contentType: "application/json", body: `{"entries":[{"key":"x","weight":2}]}`, expStatus: http.StatusOK,
		},
		{
			name: "sample without body", method: http.MethodPost, path: "/weighted/api/distributions/a/sample",
			expStatus: http.StatusOK,
		},
		{
			name: "sample zero count", method: http.MethodPost, path: "/weighted/api/distributions/a/sample",
			contentType: "application/json", body: `{"count":0}`, expStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			if tc.contentType != "" {
				req.Header.Set("Content-Type", tc.contentType)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tc.expStatus, rec.Code)
		})
	}
}

func TestDebugRouter(t *testing.T) {
	r := CreateDebugRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
