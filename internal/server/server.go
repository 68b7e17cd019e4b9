package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/jobconnect/internal/ai"
	"github.com/jonathan/jobconnect/internal/config"
	"github.com/jonathan/jobconnect/internal/logger"
	"github.com/jonathan/jobconnect/internal/server/middleware"
	"github.com/jonathan/jobconnect/internal/server/ratelimit"
)

// Deps are the collaborators the server is built from.
type Deps struct {
	Store     Store
	AI        *ai.Service
	Fetcher   PageFetcher
	JWT       *JWTService
	Passwords *config.PasswordConfig
	Limiter   *ratelimit.Limiter
	Logger    *zap.Logger
	HTTP      config.HTTPSettings
	Port      int
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	store       Store
	ai          *ai.Service
	fetcher     PageFetcher
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
	httpConfig  config.HTTPSettings
	logger      *zap.Logger
}

// New creates a new server instance
func New(d Deps) (*Server, error) {
	if d.Store == nil {
		return nil, fmt.Errorf("server requires a store")
	}
	if d.JWT == nil || d.Passwords == nil {
		return nil, fmt.Errorf("server requires JWT and password configuration")
	}

	log := logger.OrNop(d.Logger)
	aiService := d.AI
	if aiService == nil {
		aiService = ai.NewService(nil, config.ProviderNone, log)
	}
	limiter := d.Limiter
	if limiter == nil {
		limiter = ratelimit.NewLimiter(&ratelimit.Config{Enabled: false})
	}

	s := &Server{
		store:       d.Store,
		ai:          aiService,
		fetcher:     d.Fetcher,
		rateLimiter: limiter,
		jwtService:  d.JWT,
		httpConfig:  d.HTTP,
		logger:      log,
	}
	s.userService = NewUserService(d.Store, d.Passwords)
	s.authHandler = NewAuthHandler(s.userService, d.JWT, d.HTTP.CookieSecure, log)

	mux := http.NewServeMux()
	s.routes(mux)
	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", d.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second, // job import may render in a browser
		IdleTimeout:       60 * time.Second,
	}

	return s, nil
}

func (s *Server) routes(mux *http.ServeMux) {
	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	protected := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, auth(h))
	}

	mux.HandleFunc("GET /health", s.handleHealth)

	// Auth
	mux.HandleFunc("POST /api/auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", s.authHandler.Login)
	mux.HandleFunc("POST /api/auth/logout", s.authHandler.Logout)
	protected("GET /api/auth/me", s.authHandler.Me)
	protected("PUT /api/auth/password", s.authHandler.UpdatePassword)

	// Users and profiles
	protected("GET /api/users", s.handleSearchUsers)
	protected("GET /api/users/suggestions", s.handleConnectionSuggestions)
	protected("GET /api/users/{id}", s.handleGetUser)
	protected("PUT /api/users/me", s.handleUpdateProfile)
	protected("DELETE /api/users/me", s.handleDeleteAccount)
	protected("POST /api/users/me/skills/extract", s.handleExtractProfileSkills)

	// Connections
	protected("POST /api/users/{id}/connect", s.handleConnect)
	protected("DELETE /api/users/{id}/connection", s.handleRemoveConnection)
	protected("GET /api/connections", s.handleListConnections)
	protected("GET /api/connections/pending", s.handleListPendingConnections)
	protected("POST /api/connections/{id}/accept", s.handleRespondConnection(true))
	protected("POST /api/connections/{id}/reject", s.handleRespondConnection(false))

	// Jobs
	protected("GET /api/jobs", s.handleSearchJobs)
	protected("POST /api/jobs", s.handleCreateJob)
	protected("GET /api/jobs/mine", s.handleListMyJobs)
	protected("GET /api/jobs/recommendations", s.handleJobRecommendations)
	protected("POST /api/jobs/import", s.handleImportJob)
	protected("GET /api/jobs/{id}", s.handleGetJob)
	protected("PUT /api/jobs/{id}", s.handleUpdateJob)
	protected("DELETE /api/jobs/{id}", s.handleDeleteJob)

	// Applications
	protected("POST /api/jobs/{id}/apply", s.handleApply)
	protected("GET /api/jobs/{id}/applications", s.handleListJobApplications)
	protected("GET /api/applications/mine", s.handleListMyApplications)
	protected("PUT /api/applications/{id}/status", s.handleUpdateApplicationStatus)
	protected("DELETE /api/applications/{id}", s.handleWithdrawApplication)

	// Posts, likes and comments
	protected("GET /api/posts", s.handleListPosts)
	protected("POST /api/posts", s.handleCreatePost)
	protected("GET /api/posts/{id}", s.handleGetPost)
	protected("PUT /api/posts/{id}", s.handleUpdatePost)
	protected("DELETE /api/posts/{id}", s.handleDeletePost)
	protected("POST /api/posts/{id}/like", s.handleToggleLike)
	protected("GET /api/posts/{id}/comments", s.handleListComments)
	protected("POST /api/posts/{id}/comments", s.handleCreateComment)
	protected("DELETE /api/comments/{id}", s.handleDeleteComment)

	// AI
	mux.HandleFunc("GET /api/ai/status", s.handleAIStatus)
	protected("POST /api/ai/extract-skills", s.handleAIExtractSkills)
	protected("POST /api/ai/generate-tags", s.handleAIGenerateTags)
	protected("POST /api/ai/analyze-sentiment", s.handleAIAnalyzeSentiment)
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)

	// Stop rate limiter cleanup goroutine
	s.rateLimiter.Stop()

	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	origin := s.httpConfig.CORSAllowedOrigin
	if origin == "" {
		origin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		// Browsers reject credentials with a wildcard origin.
		if origin != "*" {
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		fields := []zap.Field{
			zap.String(logger.FieldRequestID, requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		}
		if rec.status >= http.StatusInternalServerError {
			s.logger.Error("request failed", fields...)
			return
		}
		s.logger.Info("request", fields...)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, clientID, r.URL.Path, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to a status and writes it. Internal errors are logged
// and reported without detail.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request error",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	s.errorResponse(w, status, publicMessage(err, status))
}

// extractClientID extracts the client identifier from the request.
// It uses the IP address from RemoteAddr; forwarded headers are not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, clientID, path string, info ratelimit.Info) {
	response := map[string]any{
		"error":     "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["resetAt"] = info.ResetTime.Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Round(time.Second).Seconds())
		if seconds < 1 {
			seconds = 1
		}
		response["retryAfter"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.logger.Warn("rate limit exceeded",
		zap.String("client", clientID),
		zap.String("path", path),
		zap.Int("limit", info.Limit),
	)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
