package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitByIP(t *testing.T) {
	t.Parallel()

	limited := Chain(okHandler(), RateLimitByIP(RateLimitConfig{
		RequestsPerWindow: 2,
		Window:            time.Minute,
		Burst:             2,
	}))

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.1.2.3:5555"

	for range 2 {
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	limited.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRateLimitSeparateKeys(t *testing.T) {
	t.Parallel()

	limited := Chain(okHandler(), RateLimitByIP(RateLimitConfig{
		RequestsPerWindow: 1,
		Window:            time.Minute,
		Burst:             1,
	}))

	first := httptest.NewRequest(http.MethodPost, "/login", nil)
	first.RemoteAddr = "10.0.0.1:1000"
	second := httptest.NewRequest(http.MethodPost, "/login", nil)
	second.RemoteAddr = "10.0.0.2:1000"

	rec := httptest.NewRecorder()
	limited.ServeHTTP(rec, first)
	require.Equal(t, http.StatusOK, rec.Code)

	// Exhausting one IP's budget must not affect another IP.
	rec = httptest.NewRecorder()
	limited.ServeHTTP(rec, first)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = httptest.NewRecorder()
	limited.ServeHTTP(rec, second)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestIPKeyExtractorHeaders(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "127.0.0.1:9999"
	require.Equal(t, "127.0.0.1", IPKeyExtractor(req))

	req.Header.Set("X-Real-IP", "203.0.113.9")
	require.Equal(t, "203.0.113.9", IPKeyExtractor(req))

	req.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")
	require.Equal(t, "198.51.100.7", IPKeyExtractor(req))
}
