package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mineforge/jobs/internal/boost"
	"github.com/mineforge/jobs/internal/catalog"
	"github.com/mineforge/jobs/internal/handler"
	"github.com/mineforge/jobs/internal/ledger"
	"github.com/mineforge/jobs/internal/logger"
	"github.com/mineforge/jobs/internal/metrics"
	"github.com/mineforge/jobs/internal/repository"
)

type Server struct {
	httpServer *http.Server
}

// NewServer wires the router. Handlers stay thin; every route delegates to a
// service.
func NewServer(port int, apiKey string, repo repository.Ledger, cat *catalog.Store, ledgerSvc ledger.Service, boosters *boost.Manager, pipeline handler.EventSubmitter) *Server {
	r := chi.NewRouter()

	// Middleware stack, outermost to innermost
	detector := NewAbuseDetector()

	r.Use(AuthMiddleware(apiKey, detector))
	r.Use(RateLimitMiddleware(detector))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBody))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(repo))

	// Metrics endpoint for Prometheus scraping
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		eventHandler := handler.NewEventHandler(pipeline)
		r.Post("/events", eventHandler.HandleSubmitEvent)

		jobHandler := handler.NewJobHandler(cat, ledgerSvc)
		r.Get("/jobs", jobHandler.HandleGetJobs)

		r.Route("/players/{playerID}/jobs", func(r chi.Router) {
			r.Get("/", jobHandler.HandleGetPlayerJobs)
			r.Post("/{jobKey}", jobHandler.HandleJoin)
			r.Delete("/{jobKey}", jobHandler.HandleLeave)
		})

		// Admin routes
		adminHandler := handler.NewAdminHandler(cat, ledgerSvc, boosters)
		r.Route("/admin", func(r chi.Router) {
			r.Post("/catalog/reload", adminHandler.HandleReloadCatalog)
			r.Post("/ledger/save", adminHandler.HandleSaveLedger)
			r.Post("/players/{playerID}/jobs/{jobKey}/reset", adminHandler.HandleResetXP)

			r.Route("/boosters", func(r chi.Router) {
				r.Post("/", adminHandler.HandleGrantBooster)
				r.Delete("/{playerID}/{key}", adminHandler.HandleRevokeBooster)
			})
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Health and metrics endpoints are scraped constantly, skip them
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
