package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MikeSquared-Agency/incidentlog/internal/hermes"
	"github.com/MikeSquared-Agency/incidentlog/internal/incident"
	"github.com/MikeSquared-Agency/incidentlog/internal/parser"
	"github.com/MikeSquared-Agency/incidentlog/internal/sheets"
	"github.com/MikeSquared-Agency/incidentlog/internal/store"
)

// Store is the persistence the API needs. *store.Store satisfies it.
type Store interface {
	Create(ctx context.Context, in incident.Input) (incident.Incident, error)
	Get(ctx context.Context, id int64) (incident.Incident, error)
	List(ctx context.Context, f store.ListFilter) ([]incident.Incident, error)
	Update(ctx context.Context, id int64, in incident.Input) (incident.Incident, error)
	Delete(ctx context.Context, id int64) error
	Recent(ctx context.Context, limit int) ([]incident.Incident, error)
	Stats(ctx context.Context) (incident.Stats, error)
	ReporterContacts(ctx context.Context) ([]incident.Contact, error)
}

// Parser turns transcripts into drafts. *parser.Parser satisfies it.
type Parser interface {
	Parse(ctx context.Context, transcript string) (incident.Draft, parser.Source)
}

// Exporter mirrors incidents to a spreadsheet. *sheets.Client satisfies it.
type Exporter interface {
	Export(ctx context.Context, title string, incidents []incident.Incident) (sheets.Result, error)
}

type Deps struct {
	Store    Store
	Parser   Parser
	Events   *hermes.Events
	Exporter Exporter // nil disables POST /api/export/sheet
	Logger   *slog.Logger

	AllowedOrigins []string
}

type Server struct {
	router   *chi.Mux
	port     int
	http     *http.Server
	store    Store
	parser   Parser
	events   *hermes.Events
	exporter Exporter
	logger   *slog.Logger
	now      func() time.Time
}

func NewServer(port int, deps Deps) *Server {
	events := deps.Events
	if events == nil {
		events = hermes.NewEvents(hermes.NopPublisher{}, deps.Logger)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(CORS(deps.AllowedOrigins))

	s := &Server{
		router:   router,
		port:     port,
		store:    deps.Store,
		parser:   deps.Parser,
		events:   events,
		exporter: deps.Exporter,
		logger:   deps.Logger,
		now:      time.Now,
	}

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.health)

		r.Route("/incidents", func(r chi.Router) {
			r.Get("/", s.listIncidents)
			r.Post("/", s.createIncident)
			r.Get("/{id}", s.getIncident)
			r.Put("/{id}", s.updateIncident)
			r.Delete("/{id}", s.deleteIncident)
		})

		r.Get("/dashboard/stats", s.dashboardStats)
		r.Get("/dashboard/recent", s.dashboardRecent)
		r.Get("/reporters", s.reporters)
		r.Post("/parse-incident", s.parseIncident)
		r.Post("/export/sheet", s.exportSheet)
	})
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("API server starting", "addr", addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"timestamp": s.now().UTC().Format(time.RFC3339Nano),
	})
}
