package middleware

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/iudanet/cardsync/internal/server/handlers"
	"github.com/iudanet/cardsync/pkg/api"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("success"))
	})
}

func doRequest(h http.Handler, method, path, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_Allow(t *testing.T) {
	logger := discardLogger()

	t.Run("Burst within limit is allowed", func(t *testing.T) {
		limiter := NewRateLimiter(rate.Every(time.Minute), 5, time.Minute, logger)
		defer limiter.Stop()

		for i := 0; i < 5; i++ {
			assert.True(t, limiter.Allow("192.168.1.1"), fmt.Sprintf("request %d should be allowed", i+1))
		}
		assert.False(t, limiter.Allow("192.168.1.1"), "request over burst should be denied")
	})

	t.Run("Different keys are tracked separately", func(t *testing.T) {
		limiter := NewRateLimiter(rate.Every(time.Minute), 2, time.Minute, logger)
		defer limiter.Stop()

		assert.True(t, limiter.Allow("key1"))
		assert.True(t, limiter.Allow("key1"))
		assert.False(t, limiter.Allow("key1"), "key1 over limit")

		assert.True(t, limiter.Allow("key2"))
		assert.True(t, limiter.Allow("key2"))
		assert.False(t, limiter.Allow("key2"), "key2 over limit")
	})

	t.Run("Tokens refill over time", func(t *testing.T) {
		limiter := NewRateLimiter(rate.Every(50*time.Millisecond), 2, time.Minute, logger)
		defer limiter.Stop()

		assert.True(t, limiter.Allow("k"))
		assert.True(t, limiter.Allow("k"))
		assert.False(t, limiter.Allow("k"), "should be rate limited")

		time.Sleep(150 * time.Millisecond)

		assert.True(t, limiter.Allow("k"), "tokens should be refilled")
		assert.True(t, limiter.Allow("k"), "tokens should be refilled")
	})

	t.Run("Stop is idempotent", func(t *testing.T) {
		limiter := NewRateLimiter(rate.Inf, 1, time.Minute, logger)
		limiter.Stop()
		assert.NotPanics(t, limiter.Stop)
	})
}

func TestRateLimiter_CleanupIdle(t *testing.T) {
	limiter := NewRateLimiter(rate.Every(time.Minute), 1, time.Minute, discardLogger())
	defer limiter.Stop()

	limiter.Allow("stale")
	limiter.Allow("fresh")

	limiter.mu.Lock()
	limiter.visitors["stale"].lastSeen = time.Now().Add(-2 * time.Minute)
	limiter.mu.Unlock()

	limiter.cleanupIdle(time.Now())

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.NotContains(t, limiter.visitors, "stale")
	assert.Contains(t, limiter.visitors, "fresh")
}

func TestRateLimiter_Middleware(t *testing.T) {
	limiter := NewRateLimiter(rate.Every(time.Minute), 3, time.Minute, discardLogger())
	defer limiter.Stop()

	handler := limiter.Middleware(okHandler())

	for i := 0; i < 3; i++ {
		w := doRequest(handler, http.MethodPost, "/appleauth/auth/signin/init", "192.168.1.2:12345")
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := doRequest(handler, http.MethodPost, "/appleauth/auth/signin/init", "192.168.1.2:12345")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, handlers.CodeAccessDenied, resp.ErrorCode)
	assert.Equal(t, "Access denied", resp.ErrorMessage)

	// Другой IP со своим лимитом
	w = doRequest(handler, http.MethodPost, "/appleauth/auth/signin/init", "192.168.1.3:12345")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter_MiddlewareLogsExceededRequests(t *testing.T) {
	var logBuf strings.Builder
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	limiter := NewRateLimiter(rate.Every(time.Minute), 1, time.Minute, logger)
	defer limiter.Stop()
	handler := limiter.Middleware(okHandler())

	doRequest(handler, http.MethodGet, "/contacts/co/startup", "10.1.1.1:1")
	doRequest(handler, http.MethodGet, "/contacts/co/startup", "10.1.1.1:1")

	logOutput := logBuf.String()
	assert.Contains(t, logOutput, "Rate limit exceeded")
	assert.Contains(t, logOutput, "10.1.1.1")
	assert.Contains(t, logOutput, "/contacts/co/startup")
}

func TestPathRateLimiter(t *testing.T) {
	logger := discardLogger()
	auth := NewRateLimiter(rate.Every(time.Minute), 1, time.Minute, logger)
	fallback := NewRateLimiter(rate.Every(time.Minute), 3, time.Minute, logger)
	limiter := NewPathRateLimiter(fallback, map[string]*RateLimiter{"/appleauth/": auth})
	defer limiter.Stop()

	handler := limiter.Middleware(okHandler())
	addr := "172.16.0.1:4000"

	assert.Equal(t, http.StatusOK, doRequest(handler, http.MethodPost, "/appleauth/auth/signin/init", addr).Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(handler, http.MethodPost, "/appleauth/auth/signin/complete", addr).Code)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doRequest(handler, http.MethodGet, "/contacts/co/startup", addr).Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, doRequest(handler, http.MethodGet, "/contacts/co/startup", addr).Code)
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xRealIP    string
		expectedIP string
	}{
		{
			name:       "X-Forwarded-For with single IP",
			remoteAddr: "10.0.0.1:12345",
			xff:        "192.168.1.1",
			expectedIP: "192.168.1.1",
		},
		{
			name:       "X-Forwarded-For with multiple IPs",
			remoteAddr: "10.0.0.1:12345",
			xff:        "192.168.1.1, 10.0.0.2, 10.0.0.3",
			expectedIP: "192.168.1.1",
		},
		{
			name:       "X-Real-IP when X-Forwarded-For is empty",
			remoteAddr: "10.0.0.1:12345",
			xRealIP:    "192.168.2.1",
			expectedIP: "192.168.2.1",
		},
		{
			name:       "RemoteAddr without port",
			remoteAddr: "192.168.3.1:54321",
			expectedIP: "192.168.3.1",
		},
		{
			name:       "IPv6 RemoteAddr",
			remoteAddr: "[::1]:8080",
			expectedIP: "::1",
		},
		{
			name:       "X-Forwarded-For takes precedence over X-Real-IP",
			remoteAddr: "10.0.0.1:12345",
			xff:        "192.168.1.1",
			xRealIP:    "192.168.2.1",
			expectedIP: "192.168.1.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xRealIP != "" {
				req.Header.Set("X-Real-IP", tt.xRealIP)
			}

			assert.Equal(t, tt.expectedIP, getClientIP(req))
		})
	}
}
