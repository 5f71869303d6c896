package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/servicedoc"
	sdhttp "github.com/fwojciec/servicedoc/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serve sends req to s and returns the recorded response.
func serve(s *sdhttp.Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

// decodeBody decodes a JSON response body into v.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

// errorDetail returns the "detail" field of a JSON error response.
func errorDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	decodeBody(t, rec, &body)
	return body.Detail
}

func fixedNow() time.Time {
	return time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC)
}

func TestServer_Index(t *testing.T) {
	t.Parallel()

	s := sdhttp.NewServer()

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "Church Service API", body["message"])
	assert.Equal(t, "1.0.0", body["version"])
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	s := sdhttp.NewServer()

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "healthy", body["status"])
}

func TestServer_UnknownRoute(t *testing.T) {
	t.Parallel()

	s := sdhttp.NewServer()

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_CORS(t *testing.T) {
	t.Parallel()

	preflight := func(origin string) *http.Request {
		req := httptest.NewRequest(http.MethodOptions, "/api/parse-html", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Content-Type")
		return req
	}

	t.Run("allows preflight from a known origin", func(t *testing.T) {
		t.Parallel()

		s := sdhttp.NewServer()

		rec := serve(s, preflight("http://localhost:3000"))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
		assert.Equal(t, "Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
	})

	t.Run("rejects preflight from an unknown origin", func(t *testing.T) {
		t.Parallel()

		s := sdhttp.NewServer()

		rec := serve(s, preflight("https://evil.example"))

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("wildcard allows any origin without credentials", func(t *testing.T) {
		t.Parallel()

		s := sdhttp.NewServer(sdhttp.WithAllowedOrigins([]string{"*"}))

		rec := serve(s, preflight("https://anywhere.example"))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("exposes content disposition on simple requests", func(t *testing.T) {
		t.Parallel()

		s := sdhttp.NewServer()
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.Header.Set("Origin", "http://localhost:3000")

		rec := serve(s, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "Content-Disposition", rec.Header().Get("Access-Control-Expose-Headers"))
	})

	t.Run("omits headers for unknown origins on simple requests", func(t *testing.T) {
		t.Parallel()

		s := sdhttp.NewServer()
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.Header.Set("Origin", "https://evil.example")

		rec := serve(s, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestServer_RateLimit(t *testing.T) {
	t.Parallel()

	t.Run("rejects requests over the per-client budget", func(t *testing.T) {
		t.Parallel()

		s := sdhttp.NewServer(sdhttp.WithRateLimit(0.001, 1))
		send := func() *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodPost, "/api/generate-welcome-slide", strings.NewReader(`{}`))
			return serve(s, req)
		}

		first := send()
		second := send()

		assert.Equal(t, http.StatusBadRequest, first.Code)
		assert.Equal(t, http.StatusTooManyRequests, second.Code)
		assert.Equal(t, "1", second.Header().Get("Retry-After"))
		assert.Equal(t, "Too many requests", errorDetail(t, second))
	})

	t.Run("budgets are per client", func(t *testing.T) {
		t.Parallel()

		s := sdhttp.NewServer(sdhttp.WithRateLimit(0.001, 1))
		send := func(remote string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodPost, "/api/generate-welcome-slide", strings.NewReader(`{}`))
			req.RemoteAddr = remote
			return serve(s, req)
		}

		send("198.51.100.1:1000")

		assert.NotEqual(t, http.StatusTooManyRequests, send("198.51.100.2:1000").Code)
		assert.Equal(t, http.StatusTooManyRequests, send("198.51.100.1:2000").Code)
	})

	t.Run("ignores forwarding headers by default", func(t *testing.T) {
		t.Parallel()

		s := sdhttp.NewServer(sdhttp.WithRateLimit(0.001, 1))

		rejected := 0
		for i := range 50 {
			req := httptest.NewRequest(http.MethodPost, "/api/generate-welcome-slide", strings.NewReader(`{}`))
			req.RemoteAddr = "198.51.100.1:1000"
			req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
			if serve(s, req).Code == http.StatusTooManyRequests {
				rejected++
			}
		}

		assert.Equal(t, 49, rejected)
	})

	t.Run("trusted proxy keys on forwarded address", func(t *testing.T) {
		t.Parallel()

		s := sdhttp.NewServer(sdhttp.WithRateLimit(0.001, 1), sdhttp.WithTrustProxy(true))
		send := func(forwarded string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodPost, "/api/generate-welcome-slide", strings.NewReader(`{}`))
			req.RemoteAddr = "10.0.0.1:1000"
			req.Header.Set("X-Forwarded-For", forwarded)
			return serve(s, req)
		}

		send("203.0.113.1")

		assert.NotEqual(t, http.StatusTooManyRequests, send("203.0.113.2").Code)
		assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.1").Code)
	})

	t.Run("non-positive rate disables limiting", func(t *testing.T) {
		t.Parallel()

		s := sdhttp.NewServer(sdhttp.WithRateLimit(0, 0))

		for range 5 {
			req := httptest.NewRequest(http.MethodPost, "/api/generate-welcome-slide", strings.NewReader(`{}`))
			assert.Equal(t, http.StatusBadRequest, serve(s, req).Code)
		}
	})

	t.Run("read-only routes are not limited", func(t *testing.T) {
		t.Parallel()

		s := sdhttp.NewServer(sdhttp.WithRateLimit(0.001, 1))

		for range 3 {
			rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/health", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})
}

func TestClientLimiter_Allow(t *testing.T) {
	t.Parallel()

	l := sdhttp.NewClientLimiter(0.001, 2)

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"))
}

func TestClientLimiter_Prune(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC)
	l := sdhttp.NewClientLimiter(0.001, 1)
	l.Now = func() time.Time { return now }

	l.Allow("idle")
	now = now.Add(5 * time.Minute)
	l.Allow("active")
	now = now.Add(6 * time.Minute)

	assert.Equal(t, 1, l.Prune(10*time.Minute))
	assert.Equal(t, 1, l.Len())
	assert.False(t, l.Allow("active"))
	assert.True(t, l.Allow("idle"))
}

func TestClientLimiter_Sweep(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := sdhttp.NewClientLimiter(1, 1)

	assert.NoError(t, l.Sweep(ctx, time.Hour, time.Hour))
}

func TestServer_OpenServeShutdown(t *testing.T) {
	t.Parallel()

	s := sdhttp.NewServer(sdhttp.WithAddr("127.0.0.1:0"))
	require.NoError(t, s.Open())

	errc := make(chan error, 1)
	go func() { errc <- s.Serve() }()

	resp, err := http.Get("http://" + s.Addr() + "/api/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, s.Shutdown(t.Context()))
	assert.NoError(t, <-errc)
}

func TestErrorStatusCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusConflict, sdhttp.ErrorStatusCode(servicedoc.ECONFLICT))
	assert.Equal(t, http.StatusBadRequest, sdhttp.ErrorStatusCode(servicedoc.EINVALID))
	assert.Equal(t, http.StatusNotFound, sdhttp.ErrorStatusCode(servicedoc.ENOTFOUND))
	assert.Equal(t, http.StatusNotImplemented, sdhttp.ErrorStatusCode(servicedoc.ENOTIMPLEMENTED))
	assert.Equal(t, http.StatusInternalServerError, sdhttp.ErrorStatusCode("bogus"))
}
