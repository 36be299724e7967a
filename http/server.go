package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pagemark/pagemark"
)

// ShutdownTimeout is the time allowed for graceful shutdown.
const ShutdownTimeout = 10 * time.Second

// DefaultRequestTimeout bounds a single conversion request end to end,
// including the browser render.
const DefaultRequestTimeout = 30 * time.Second

// Server is the HTTP surface of the conversion service. It wires the
// safety validator, the renderer, and the conversion pipeline behind
// GET /target, with /health and / as unauthenticated info endpoints.
type Server struct {
	ln     net.Listener
	server *http.Server

	// Addr is the bind address, e.g. ":8080".
	Addr string

	Validator pagemark.URLValidator
	Renderer  pagemark.Renderer
	Converter *pagemark.DocumentConverter

	// Cache is consulted before rendering when non-nil. Cache failures
	// are logged and ignored; the cache never blocks a conversion.
	Cache pagemark.ConversionCache

	// AuthEnabled turns on bearer-token checks for /target. When
	// enabled, BearerToken must be non-empty or every request fails
	// with a 500.
	AuthEnabled bool
	BearerToken string

	// RequestTimeout bounds each conversion request. Zero means
	// DefaultRequestTimeout.
	RequestTimeout time.Duration

	Logger *slog.Logger
}

// NewServer creates a Server with routes registered. Collaborators are
// assigned on the returned struct before calling Open.
func NewServer() *Server {
	s := &Server{
		server: &http.Server{},
		Logger: slog.Default(),
	}

	router := http.NewServeMux()
	router.HandleFunc("GET /target", s.requireBearerToken(s.handleTarget))
	router.HandleFunc("GET /health", s.handleHealth)
	router.HandleFunc("GET /{$}", s.handleIndex)

	s.server.Handler = s.withRequestLogging(router)
	return s
}

// Open begins listening on s.Addr. It returns once the listener is
// bound; requests are served on a background goroutine.
func (s *Server) Open() error {
	if s.Addr == "" {
		return fmt.Errorf("addr required")
	}

	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.Addr, err)
	}
	s.ln = ln

	go func() {
		if err := s.server.Serve(s.ln); err != nil && err != http.ErrServerClosed {
			s.Logger.Error("http server stopped", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts the server down.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// URL returns the base URL the server is reachable at. Useful in tests
// when Addr was ":0".
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withRequestLogging assigns each request an ID and logs its outcome.
func (s *Server) withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		begin := time.Now()
		next.ServeHTTP(rec, r)

		s.Logger.Info("http request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"took", time.Since(begin),
		)
	})
}

// requireBearerToken enforces bearer auth when enabled. A server with
// auth enabled but no token configured refuses every request rather
// than silently running open.
func (s *Server) requireBearerToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.AuthEnabled {
			next(w, r)
			return
		}

		if s.BearerToken == "" {
			s.Logger.Warn("bearer auth enabled but no token configured")
			s.writeError(w, r, pagemark.Errorf(pagemark.EINTERNAL, "Authentication misconfigured"))
			return
		}

		auth := r.Header.Get("Authorization")
		if auth == "" {
			s.writeError(w, r, pagemark.Errorf(pagemark.EUNAUTHORIZED, "Missing Authorization header"))
			return
		}
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok {
			s.writeError(w, r, pagemark.Errorf(pagemark.EUNAUTHORIZED, "Invalid Authorization header format. Expected: 'Bearer <token>'"))
			return
		}
		if token != s.BearerToken {
			s.writeError(w, r, pagemark.Errorf(pagemark.EUNAUTHORIZED, "Invalid or expired Bearer token"))
			return
		}

		next(w, r)
	}
}

// handleTarget converts the page at ?url= to Markdown and returns it as
// text/plain with conversion metadata in X- headers.
func (s *Server) handleTarget(w http.ResponseWriter, r *http.Request) {
	targetURL := r.URL.Query().Get("url")
	if targetURL == "" {
		s.writeError(w, r, pagemark.Errorf(pagemark.EINVALID, "Missing required parameter 'url'"))
		return
	}

	timeout := s.RequestTimeout
	if timeout == 0 {
		timeout = DefaultRequestTimeout
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	if _, err := s.Validator.Validate(ctx, targetURL); err != nil {
		s.writeError(w, r, err)
		return
	}

	if s.Cache != nil {
		if cached, err := s.Cache.Get(ctx, targetURL); err == nil {
			s.Logger.Info("cache hit", "url", targetURL)
			s.writeMarkdown(w, targetURL, &cached.Result)
			return
		} else if pagemark.ErrorCode(err) != pagemark.ENOTFOUND {
			s.Logger.Warn("cache lookup failed", "url", targetURL, "error", err)
		}
	}

	page, err := s.Renderer.Render(ctx, targetURL)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if page.HTML == "" {
		s.writeError(w, r, pagemark.Errorf(pagemark.ENOTFOUND, "Failed to render page content"))
		return
	}

	baseURL := page.FinalURL
	if baseURL == "" {
		baseURL = targetURL
	}
	result, err := s.Converter.Convert(page.HTML, baseURL)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if s.Cache != nil {
		if err := s.Cache.Put(ctx, targetURL, result); err != nil {
			s.Logger.Warn("cache store failed", "url", targetURL, "error", err)
		}
	}

	s.writeMarkdown(w, targetURL, result)
}

func (s *Server) writeMarkdown(w http.ResponseWriter, targetURL string, result *pagemark.ConversionResult) {
	stats, err := json.Marshal(result.Stats)
	if err != nil {
		stats = []byte("{}")
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Original-URL", targetURL)
	w.Header().Set("X-Content-Length", fmt.Sprintf("%d", len(result.Markdown)))
	w.Header().Set("X-Conversion-Stats", string(stats))
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, result.Markdown)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": "pagemark",
		"endpoints": map[string]string{
			"/target": "Convert URL to Markdown",
			"/health": "Health check",
		},
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"service":     "pagemark",
		"description": "Convert web pages to Markdown format",
		"usage": map[string]any{
			"endpoint": "/target",
			"method":   "GET",
			"parameters": map[string]string{
				"url": "Target URL to convert (required)",
			},
			"example": "/target?url=https://example.com",
		},
		"response": map[string]string{
			"content_type": "text/plain",
			"encoding":     "utf-8",
		},
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("encoding response", "error", err)
	}
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

// writeError maps an application error to an HTTP status and writes the
// JSON error envelope.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := pagemark.ErrorCode(err)
	status := errorStatusCode(code)

	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "path", r.URL.Path, "error", err)
	} else {
		s.Logger.Warn("request rejected", "path", r.URL.Path, "code", code, "error", err)
	}

	s.writeJSON(w, status, errorResponse{
		Error:      code,
		Message:    pagemark.ErrorMessage(err),
		StatusCode: status,
	})
}

// errorStatusCode maps application error codes to HTTP status codes.
func errorStatusCode(code string) int {
	switch code {
	case pagemark.EINVALID:
		return http.StatusBadRequest
	case pagemark.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case pagemark.EFORBIDDEN:
		return http.StatusForbidden
	case pagemark.ENOTFOUND:
		return http.StatusNotFound
	case pagemark.ECONFLICT:
		return http.StatusConflict
	case pagemark.ETIMEOUT:
		return http.StatusRequestTimeout
	case pagemark.EUNAVAILABLE:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
