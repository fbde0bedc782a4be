package server

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/claude/repsheet/internal/api"
	"github.com/claude/repsheet/internal/config"
	"github.com/claude/repsheet/internal/session"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers: the remote API client, the
// cookie session manager, and the parsed page templates.
type Server struct {
	cfg      *config.Config
	api      *api.Client
	sessions *session.Manager
	pages    *templateSet
	log      *slog.Logger
	router   chi.Router
}

// New creates a Server with all routes configured. webFS must contain the
// templates/ and static/ trees.
func New(cfg *config.Config, client *api.Client, sessions *session.Manager, webFS fs.FS, log *slog.Logger) (*Server, error) {
	pages, err := parseTemplates(webFS)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		api:      client,
		sessions: sessions,
		pages:    pages,
		log:      log,
		router:   chi.NewRouter(),
	}
	s.routes(webFS)
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes(webFS fs.FS) {
	s.router.Use(RequestID)
	s.router.Use(RequestLogging(s.log))

	// JSON proxy to the remote API
	s.router.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(RateLimit(5, 10))
			r.Post("/auth/login", s.handleLogin)
			r.Post("/auth/register", s.handleRegister)
		})
		r.Post("/auth/logout", s.handleLogout)
		r.Get("/users/self", s.handleSelf)
		r.Get("/workouts", s.handleWorkoutsList)
		r.Post("/workouts", s.handleWorkoutCreate)
		r.Get("/workouts/{id}", s.handleWorkoutGet)
		r.Put("/workouts/{id}", s.handleWorkoutUpdate)
		r.Delete("/workouts/{id}", s.handleWorkoutDelete)
	})

	// Server-rendered pages
	s.router.Get("/", s.pageHome)
	s.router.Get("/login", s.pageLogin)
	s.router.Post("/login", s.actionLogin)
	s.router.Get("/register", s.pageRegister)
	s.router.Post("/register", s.actionRegister)
	s.router.Get("/account", s.pageAccount)
	s.router.Get("/workouts", s.pageWorkouts)
	s.router.Get("/workouts/new", s.pageWorkoutNew)
	s.router.Post("/workouts/new", s.actionWorkoutCreate)
	s.router.Get("/workouts/{id}", s.pageWorkoutDetail)
	s.router.Post("/workouts/{id}/save", s.actionWorkoutSave)
	s.router.Post("/workouts/{id}/entries", s.actionEntryAdd)
	s.router.Post("/workouts/{id}/delete", s.actionWorkoutDelete)

	s.router.Handle("/static/*", http.FileServerFS(webFS))

	s.router.NotFound(s.pageNotFound)
}
