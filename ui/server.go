package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pilemap/app"
	"pilemap/internal"
	"pilemap/ports"
)

// Server exposes the extraction engine and its collaborators over HTTP. It
// is a thin surface: all semantics live in the app and domain layers.
type Server struct {
	router     *chi.Mux
	mapping    *app.MappingService
	grader     ports.Grader
	history    ports.ImportHistory
	logger     *internal.Logger
	previewCap int
}

// NewServer creates the HTTP server. history may be nil when no database is
// configured; the history endpoints then report empty results.
func NewServer(mapping *app.MappingService, grader ports.Grader, history ports.ImportHistory, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	s := &Server{
		router:     chi.NewRouter(),
		mapping:    mapping,
		grader:     grader,
		history:    history,
		logger:     logger,
		previewCap: mapping.Options().PreviewRowCap,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Post("/api/extract", s.handleExtract)
	s.router.Post("/api/remap", s.handleRemap)
	s.router.Post("/api/upload/custom", s.handleCustomUpload)
	s.router.Get("/api/mapping/state", s.handleMappingState)
	s.router.Post("/api/grade", s.handleGrade)
	s.router.Post("/api/report", s.handleReport)
	s.router.Get("/api/history", s.handleHistory)
}

// Router returns the underlying handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start blocks serving HTTP on the given port.
func (s *Server) Start(port string) error {
	s.logger.Info("pilemap server listening on :%s", port)
	return http.ListenAndServe(":"+port, s.router)
}
