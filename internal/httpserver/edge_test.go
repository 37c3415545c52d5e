package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func edgeServer(mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	e.Use(mw...)
	e.GET("/ping", func(c echo.Context) error { return ok(c, "pong") })
	return e
}

func TestCORS(t *testing.T) {
	t.Parallel()
	e := edgeServer(CORS([]string{"github", "localhost"}))

	tests := []struct {
		name   string
		origin string
		code   int
		allow  string
	}{
		{name: "no origin", origin: "", code: http.StatusOK},
		{name: "github pages", origin: "https://someone.github.io", code: http.StatusOK, allow: "https://someone.github.io"},
		{name: "localhost", origin: "http://localhost:5173", code: http.StatusOK, allow: "http://localhost:5173"},
		{name: "elsewhere", origin: "https://evil.example", code: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.origin != "" {
				req.Header.Set(echo.HeaderOrigin, tt.origin)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.allow, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))

			var env Envelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.Equal(t, tt.code == http.StatusOK, env.Success)
			if tt.code == http.StatusForbidden {
				assert.Equal(t, "request denied", env.Message)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	t.Parallel()
	e := edgeServer(RateLimit(3, time.Hour))

	hit := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit("10.0.0.1").Code, "request %d", i)
	}

	rec := hit("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, "too many requests, try again in 15 minutes", env.Message)

	assert.Equal(t, http.StatusOK, hit("10.0.0.2").Code)
}
