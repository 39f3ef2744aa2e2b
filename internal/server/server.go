package server

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"folder-metadata/internal/common/config"
	"folder-metadata/internal/common/logger"
	"folder-metadata/internal/common/metrics"
	generatemetadata "folder-metadata/internal/handlers/generate-metadata"
	"folder-metadata/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

const requestIDHeader = "X-Request-ID"

type Server struct {
	cfg     *config.Config
	handler *generatemetadata.Handler
	logger  logger.Logger
	http    *http.Server
}

func New(cfg *config.Config, handler *generatemetadata.Handler, log logger.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		handler: handler,
		logger:  log.With(map[string]interface{}{"component": "http"}),
	}
	s.http = &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout:      config.GetDuration(cfg.Server.WriteTimeout),
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Router builds the full handler tree: CORS outermost, then request IDs,
// recovery and metrics around the routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.recoverer)
	r.Use(observe)

	r.Get("/health", s.health)
	r.Get("/ready", s.ready)
	if s.cfg.Metrics.Enabled {
		r.Handle(s.cfg.Metrics.Path, promhttp.Handler())
	}

	defaultMode, err := models.ParseMode(s.cfg.Server.DefaultMode)
	if err != nil {
		defaultMode = models.ModeFolderSummary
	}

	r.Route("/api/generate", func(r chi.Router) {
		r.Use(limitBody(s.cfg.Server.MaxBodyBytes))
		r.Post("/", s.handler.HTTPHandler(defaultMode))
		r.Post("/folder", s.handler.HTTPHandler(models.ModeFolderSummary))
		r.Post("/files", s.handler.HTTPHandler(models.ModePerFile))
	})

	return cors.New(cors.Options{
		AllowedOrigins: s.cfg.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	}).Handler(r)
}

func (s *Server) ListenAndServe() error {
	s.logger.Info("server listening", map[string]interface{}{"addr": s.http.Addr})
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	generatemetadata.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": s.cfg.App.Name,
		"version": s.cfg.App.Version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// ready fails when the hosted provider is configured without a key.
// Self-hosted endpoints may not need one.
func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Model.APIKey == "" && s.cfg.Model.BaseURL == config.DefaultModelBaseURL {
		generatemetadata.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "model api key not configured",
		})
		return
	}
	generatemetadata.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
		"model":  s.cfg.Model.Name,
	})
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.logger.Error("panic recovered", map[string]interface{}{
					"requestId": middleware.GetReqID(r.Context()),
					"panic":     rec,
					"stack":     string(debug.Stack()),
				})
				generatemetadata.WriteJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// requestID keeps a caller-supplied X-Request-ID or mints a UUID, and
// stores it where middleware.GetReqID finds it.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.ObserveRequest(route, r.Method, status, time.Since(start))
	})
}

func limitBody(max int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, max)
			next.ServeHTTP(w, r)
		})
	}
}
