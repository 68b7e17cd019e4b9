package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jonathan/jobconnect/internal/config"
	"github.com/jonathan/jobconnect/internal/server/ratelimit"
)

func TestNew_RequiresDependencies(t *testing.T) {
	jwtService := NewJWTService(&config.JWTConfig{Secret: testJWTSecret, ExpirationHours: 1})
	passwords := &config.PasswordConfig{BcryptCost: bcrypt.MinCost}

	_, err := New(Deps{JWT: jwtService, Passwords: passwords})
	assert.Error(t, err)

	_, err = New(Deps{Store: newFakeStore(), Passwords: passwords})
	assert.Error(t, err)

	srv, err := New(Deps{Store: newFakeStore(), JWT: jwtService, Passwords: passwords})
	require.NoError(t, err)
	assert.False(t, srv.ai.Status().Enabled)
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestProtectedRoute_WithoutToken(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/jobs", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized", errorMessage(t, w))
}

func TestProtectedRoute_WithCookie(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.addUser(t, "cookie", "")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	w := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORSMiddleware(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSMiddleware_ConfiguredOrigin(t *testing.T) {
	srv, err := New(Deps{
		Store:     newFakeStore(),
		JWT:       NewJWTService(&config.JWTConfig{Secret: testJWTSecret, ExpirationHours: 1}),
		Passwords: &config.PasswordConfig{BcryptCost: bcrypt.MinCost},
		HTTP:      config.HTTPSettings{CORSAllowedOrigin: "http://localhost:3000"},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodOptions, "/api/jobs", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/health", "", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	env.server.Handler().ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := ratelimit.NewLimiter(&ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []ratelimit.EndpointConfig{
			{Path: "/api/auth/login", Method: http.MethodPost, Limit: 2, Window: time.Minute, Burst: 2},
		},
	})
	defer limiter.Stop()

	srv, err := New(Deps{
		Store:     newFakeStore(),
		JWT:       NewJWTService(&config.JWTConfig{Secret: testJWTSecret, ExpirationHours: 1}),
		Passwords: &config.PasswordConfig{BcryptCost: bcrypt.MinCost},
		Limiter:   limiter,
		Logger:    zap.NewNop(),
	})
	require.NoError(t, err)

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 2; i++ {
		w := send()
		assert.NotEqual(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := send()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	body := decodeBody[map[string]any](t, w)
	assert.Contains(t, body["error"], "Rate limit exceeded")

	// /health is never limited.
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	hw := httptest.NewRecorder()
	srv.Handler().ServeHTTP(hw, req)
	assert.Equal(t, http.StatusOK, hw.Code)
}

func TestWriteError_HidesInternalDetail(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.addUser(t, "alice", "")
	env.store.err = errors.New("connection refused to 10.1.2.3")

	w := env.do(t, http.MethodGet, "/api/jobs", token, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", errorMessage(t, w))
}

func TestExtractClientID(t *testing.T) {
	s := &Server{}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.7:4242"
	assert.Equal(t, "192.168.1.7", s.extractClientID(req))

	req.RemoteAddr = "not-a-host-port"
	assert.Equal(t, "not-a-host-port", s.extractClientID(req))
}
