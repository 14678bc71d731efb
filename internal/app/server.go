package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/markdave123-py/contexta-explain/internal/api/handlers"
	appMiddleware "github.com/markdave123-py/contexta-explain/internal/api/middlewares"
	"github.com/markdave123-py/contexta-explain/internal/config"
	"github.com/markdave123-py/contexta-explain/internal/core"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, explainer handlers.Explainer, stager core.Stager, logger *zap.Logger) *Server {
	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewRouter(cfg, explainer, stager, logger),
		ReadHeaderTimeout: 10 * time.Second,
		// no WriteTimeout: explanations are streamed for as long as they take
	}
	return &Server{httpServer: httpSrv, logger: logger}
}

// NewRouter returns the chi router serving the API and the web client.
func NewRouter(cfg *config.Config, explainer handlers.Explainer, stager core.Stager, logger *zap.Logger) http.Handler {
	chatHandler := handlers.NewChatHandler(explainer, logger.Named("chat"))
	docHandler := handlers.NewDocumentHandler(explainer, stager, cfg.MaxUploadMB, logger.Named("documents"))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appMiddleware.RequestLogger(logger.Named("http")))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// API routes
	r.Route("/api", func(api chi.Router) {
		api.Get("/chat", chatHandler.ExplainMessage)
		api.Post("/chat", chatHandler.Chat)
		api.Post("/documents/explain", docHandler.ExplainDocument)
	})

	// Serve static files from the web directory
	if cfg.WebDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.WebDir)))
	}

	return r
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
