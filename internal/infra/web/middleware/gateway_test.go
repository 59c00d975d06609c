package middleware

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DioGolang/GoTodo/pkg/logger"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRateLimiter_RejectsAfterLimit(t *testing.T) {
	//Arrange
	m := newFakeMetrics()
	limiter := NewRateLimiter(RateLimiterConfig{Name: "api", Requests: 100, Window: time.Hour}, m,
		logger.NewLogger("gotodo", true, logger.WithOutput(&bytes.Buffer{})))
	handler := limiter.Handler(http.HandlerFunc(ok))

	//Act
	var last *httptest.ResponseRecorder
	for i := 1; i <= 100; i++ {
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, httptest.NewRequest(http.MethodGet, "/api/todos", nil))
		require.Equal(t, http.StatusOK, last.Code, "request %d", i)
	}
	rejected := httptest.NewRecorder()
	handler.ServeHTTP(rejected, httptest.NewRequest(http.MethodGet, "/api/todos", nil))

	//Assert
	assert.Equal(t, "100", last.Header().Get("RateLimit-Limit"))
	assert.Equal(t, "0", last.Header().Get("RateLimit-Remaining"))
	assert.NotEmpty(t, last.Header().Get("RateLimit-Reset"))

	assert.Equal(t, http.StatusTooManyRequests, rejected.Code)
	assert.NotEmpty(t, rejected.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"success":false,"error":"Too many requests, please try again later"}`, rejected.Body.String())
	assert.Equal(t, 1, m.rateLimited["api"])

	other := httptest.NewRequest(http.MethodGet, "/api/todos", nil)
	other.RemoteAddr = "198.51.100.7:4000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code, "limits are per client")
}

func TestRateLimiter_ClientIdentity(t *testing.T) {
	tests := []struct {
		name       string
		trustProxy bool
		wantCodes  []int
	}{
		{"Should ignore forwarding headers by default", false,
			[]int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}},
		{"Should key by forwarding headers behind a trusted proxy", true,
			[]int{http.StatusOK, http.StatusOK, http.StatusOK, http.StatusOK}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := NewRateLimiter(RateLimiterConfig{Name: "api", Requests: 2, Window: time.Hour, TrustProxy: tt.trustProxy},
				newFakeMetrics(), logger.NewLogger("gotodo", true, logger.WithOutput(&bytes.Buffer{})))
			handler := limiter.Handler(http.HandlerFunc(ok))

			codes := make([]int, 0, len(tt.wantCodes))
			for i := range tt.wantCodes {
				req := httptest.NewRequest(http.MethodGet, "/api/todos", nil)
				req.RemoteAddr = "192.0.2.10:5000"
				req.Header.Set("X-Real-IP", fmt.Sprintf("203.0.113.%d", i+1))
				req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
				rec := httptest.NewRecorder()
				handler.ServeHTTP(rec, req)
				codes = append(codes, rec.Code)
			}

			assert.Equal(t, tt.wantCodes, codes)
		})
	}
}

func TestRateLimiter_FreshWindowResets(t *testing.T) {
	m := newFakeMetrics()
	window := 500 * time.Millisecond
	limiter := NewRateLimiter(RateLimiterConfig{Name: "mutations", Requests: 2, Window: window}, m,
		logger.NewLogger("gotodo", true, logger.WithOutput(&bytes.Buffer{})))
	handler := limiter.Handler(http.HandlerFunc(ok))

	codes := func() int {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/todos", nil))
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, codes())
	assert.Equal(t, http.StatusOK, codes())
	assert.Equal(t, http.StatusTooManyRequests, codes())

	time.Sleep(2*window + 100*time.Millisecond)

	assert.Equal(t, http.StatusOK, codes())
	assert.Equal(t, 1, m.rateLimited["mutations"])
}

func TestBodyLimit(t *testing.T) {
	var readErr error
	handler := BodyLimit(16)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("Should reject a declared oversize body", func(t *testing.T) {
		readErr = nil
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/todos", strings.NewReader(strings.Repeat("a", 17))))

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.JSONEq(t, `{"success":false,"error":"Request body too large"}`, rec.Body.String())
	})

	t.Run("Should pass a body within the cap", func(t *testing.T) {
		readErr = nil
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/todos", strings.NewReader(strings.Repeat("a", 16))))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.NoError(t, readErr)
	})

	t.Run("Should cap an undeclared body on read", func(t *testing.T) {
		readErr = nil
		req := httptest.NewRequest(http.MethodPost, "/api/todos", strings.NewReader(strings.Repeat("a", 64)))
		req.ContentLength = -1
		handler.ServeHTTP(httptest.NewRecorder(), req)

		var tooLarge *http.MaxBytesError
		assert.True(t, errors.As(readErr, &tooLarge))
	})
}

func TestSecureHeaders(t *testing.T) {
	handler := SecureHeaders([]string{"https://collector.example"})(http.HandlerFunc(ok))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	csp := rec.Header().Get("Content-Security-Policy")
	assert.Contains(t, csp, "default-src 'self'")
	assert.Contains(t, csp, "connect-src 'self' https://collector.example")
	assert.Contains(t, csp, "frame-ancestors 'none'")
}

func TestContentSecurityPolicy_SkipsBlankOrigins(t *testing.T) {
	csp := ContentSecurityPolicy([]string{" ", "https://a.example "})
	assert.Contains(t, csp, "connect-src 'self' https://a.example;")
}

func TestCORS(t *testing.T) {
	handler := CORS([]string{"https://app.example"})(http.HandlerFunc(ok))

	preflight := httptest.NewRequest(http.MethodOptions, "/api/todos", nil)
	preflight.Header.Set("Origin", "https://app.example")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, preflight)
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))

	foreign := httptest.NewRequest(http.MethodGet, "/api/todos", nil)
	foreign.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, foreign)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = chimw.GetReqID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	assert.NoError(t, err)
	assert.Equal(t, rec.Header().Get(RequestIDHeader), seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", seen)
}
