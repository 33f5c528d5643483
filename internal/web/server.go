package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docsummarizer/internal/domain"
	"docsummarizer/internal/pipeline"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// Runner is the request flow the handlers drive.
type Runner interface {
	Run(ctx context.Context, src domain.Source) (pipeline.Result, error)
}

type Options struct {
	Addr               string
	MaxUploadBytes     int64
	UploadDir          string
	CORSAllowedOrigins []string
}

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
	log        *slog.Logger
}

func NewServer(opts Options, runner Runner, log *slog.Logger) (*Server, error) {
	uploadDir := opts.UploadDir
	if uploadDir == "" {
		uploadDir = os.TempDir()
	}

	page, err := template.ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	h := &handler{
		runner:         runner,
		page:           page,
		maxUploadBytes: opts.MaxUploadBytes,
		uploadDir:      uploadDir,
		log:            log,
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              opts.Addr,
			Handler:           newRouter(h, opts.CORSAllowedOrigins, log),
			ReadHeaderTimeout: readHeaderTimeout,
		},
		log: log,
	}, nil
}

func newRouter(h *handler, corsAllowedOrigins []string, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	r.Get("/", h.index)
	r.Post("/summarize", h.summarizeForm)
	r.Get("/healthz", h.healthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		if len(corsAllowedOrigins) > 0 {
			api.Use(cors.Handler(cors.Options{
				AllowedOrigins: corsAllowedOrigins,
				AllowedMethods: []string{http.MethodPost, http.MethodOptions},
				AllowedHeaders: []string{"Accept", "Content-Type"},
			}))
		}

		api.Post("/summarize", h.summarizeAPI)
	})

	return r
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start blocks until the server stops or ctx is done.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.log.InfoContext(ctx, "HTTP server is listening",
			"addr", s.httpServer.Addr)

		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("listen and serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}

		return nil
	}
}
