// Package api provides the HTTP server for the thermometer renderer.
//
// It exposes endpoints that render funding documents to SVG or PNG,
// return the computed layout and report the active style.
package api

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/seenimoa/thermometer/internal/config"
	"github.com/seenimoa/thermometer/internal/funding"
	"github.com/seenimoa/thermometer/internal/infra"
	"github.com/seenimoa/thermometer/internal/layout"
	"github.com/seenimoa/thermometer/internal/logging"
	"github.com/seenimoa/thermometer/internal/render"
	"github.com/seenimoa/thermometer/pkg/models"
	"github.com/seenimoa/thermometer/web"
)

// maxBodyBytes caps request documents.
const maxBodyBytes = 1 << 20

// Server is the HTTP API server.
type Server struct {
	router  chi.Router
	cfg     *config.Config
	style   layout.Style
	cache   *infra.Cache[[]byte]
	limiter *infra.RateLimiter
	log     *slog.Logger
	version string
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config, log *slog.Logger, version string) (*Server, error) {
	style := cfg.Style()
	if err := style.Validate(); err != nil {
		return nil, fmt.Errorf("invalid render style: %w", err)
	}

	srv := &Server{
		cfg:     cfg,
		style:   style,
		cache:   infra.NewCache[[]byte](cfg.API.CacheDuration()),
		limiter: infra.NewRateLimiter(max(cfg.API.RateLimit, 1), cfg.API.RefillInterval()),
		log:     logging.OrNop(log),
		version: version,
	}
	srv.router = srv.buildRouter()
	return srv, nil
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe serves on addr until ctx is done or the process receives
// SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go s.cache.RunCleanup(ctx, time.Minute)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}
	s.log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(s.log.Handler(), slog.LevelInfo),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "X-Cache"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", s.handleHealth)

	// Browser preview page
	r.Get("/", s.handleIndex)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.requireToken)

		r.Get("/health", s.handleHealth)
		r.Post("/render", s.handleRender)
		r.Post("/layout", s.handleLayout)
		r.Get("/style", s.handleStyle)
		r.Get("/config", s.handleConfig)
	})

	return r
}

// requireToken enforces "Authorization: Bearer <token>" when a token is
// configured.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := s.cfg.API.Token
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			writeError(w, http.StatusUnauthorized, "missing or invalid bearer token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ============================================================
// Types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HealthInfo is returned by /health.
type HealthInfo struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	CacheEntries int    `json:"cache_entries"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: HealthInfo{
			Status:       "ok",
			Version:      s.version,
			CacheEntries: s.cache.Len(),
		},
	})
}

// handleIndex serves the embedded preview page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data, err := fs.ReadFile(web.StaticFS(), "index.html")
	if err != nil {
		http.Error(w, "preview page not available", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := render.FormatSVG
	if q := r.URL.Query().Get("format"); q != "" {
		f, err := render.ParseFormat(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		format = f
	}

	data, ok := s.decodeFunding(w, r)
	if !ok {
		return
	}

	key, err := cacheKey(data, format)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if body, hit := s.cache.Get(key); hit {
		writeImage(w, format, body, "HIT")
		return
	}

	if err := s.limiter.Wait(r.Context()); err != nil {
		writeError(w, http.StatusTooManyRequests, "render rate limit exceeded")
		return
	}

	var buf bytes.Buffer
	l, err := render.Render(&buf, s.style, data, format)
	if err != nil {
		s.log.Error("render failed", "format", format, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	body := buf.Bytes()
	s.cache.Set(key, body)

	s.log.Info("rendered",
		"label", l.Label, "format", format, "bytes", len(body), "percent", l.Percent,
		"request_id", middleware.GetReqID(r.Context()))
	writeImage(w, format, body, "MISS")
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	data, ok := s.decodeFunding(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    layout.Compute(s.style, data),
	})
}

// decodeFunding reads and normalizes the request body. Bodies sent as
// application/hjson are decoded as Hjson, everything else as JSON.
func (s *Server) decodeFunding(w http.ResponseWriter, r *http.Request) (*models.FundingData, bool) {
	format := funding.FormatJSON
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil && mt == "application/hjson" {
		format = funding.FormatHJSON
	}

	data, err := funding.Parse(http.MaxBytesReader(w, r.Body, maxBodyBytes), format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	s.log.Debug("normalized input", "label", data.Label, "goal", data.Goal, "total", data.Total())
	return data, true
}

// cacheKey hashes the normalized document and the output format, so
// requests that differ only in clamped or padded values share an entry.
func cacheKey(data *models.FundingData, format render.Format) (string, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("cache key: %w", err)
	}
	sum := sha256.Sum256(append(b, []byte("|"+string(format))...))
	return hex.EncodeToString(sum[:]), nil
}

func writeImage(w http.ResponseWriter, format render.Format, body []byte, cache string) {
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("X-Cache", cache)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write JSON response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}
