package server

import (
	"net/http"
	"net/url"

	"github.com/claude/repsheet/internal/api"
	"github.com/claude/repsheet/internal/editor"
	"github.com/claude/repsheet/internal/models"
	"github.com/go-chi/chi/v5"
)

// pageData is what every template receives: nav state plus page-specific
// Data. Flash and Error come from query params set by the form actions.
type pageData struct {
	Title    string
	IsAuthed bool
	Username string
	Flash    string
	Error    string
	Data     any
}

// render executes a page template inside the layout. For authenticated
// requests the nav username comes from a self lookup, falling back to the
// display cookie when the lookup fails.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page, title string, data any) {
	pd := pageData{
		Title: title,
		Flash: r.URL.Query().Get("flash"),
		Error: r.URL.Query().Get("err"),
		Data:  data,
	}

	token := s.sessions.Token(r)
	pd.IsAuthed = token != ""
	if pd.IsAuthed {
		pd.Username = s.sessions.Username(r)
		if resp, err := s.api.Get(r.Context(), "/users/self", token); err == nil && resp.OK() {
			var env struct {
				User *models.User `json:"user"`
			}
			api.DecodeInto(resp.Body, &env)
			if env.User != nil {
				pd.Username = env.User.Username
			}
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.pages.execute(w, page, pd); err != nil {
		s.log.Error("template render failed", "page", page, "error", err)
	}
}

func (s *Server) pageHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "home", "Workouts", nil)
}

func (s *Server) pageLogin(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login", "Login", nil)
}

func (s *Server) pageRegister(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "register", "Register", nil)
}

type accountData struct {
	User    *models.User
	Message string
}

// pageAccount renders one of three states: not logged in, load failure
// (with a clear-session escape hatch), or the user's details.
func (s *Server) pageAccount(w http.ResponseWriter, r *http.Request) {
	token := s.sessions.Token(r)
	if token == "" {
		s.render(w, r, http.StatusOK, "account", "Account", accountData{})
		return
	}

	var data accountData
	resp, err := s.api.Get(r.Context(), "/users/self", token)
	if err != nil {
		data.Message = "Please try logging in again."
		s.render(w, r, http.StatusOK, "account", "Account", data)
		return
	}

	var env struct {
		User  *models.User `json:"user"`
		Error string       `json:"error"`
	}
	api.DecodeInto(resp.Body, &env)

	if !resp.OK() || env.User == nil {
		data.Message = env.Error
		if data.Message == "" {
			data.Message = "Please try logging in again."
		}
		s.render(w, r, http.StatusOK, "account", "Account", data)
		return
	}

	data.User = env.User
	s.render(w, r, http.StatusOK, "account", "Account", data)
}

type workoutsData struct {
	Workouts  []models.Workout
	LoadError string
}

func (s *Server) pageWorkouts(w http.ResponseWriter, r *http.Request) {
	var data workoutsData

	resp, err := s.api.Get(r.Context(), "/workouts", s.sessions.Token(r))
	if err != nil {
		data.LoadError = "Failed to load workouts"
		s.render(w, r, http.StatusOK, "workouts", "Workouts", data)
		return
	}

	var env struct {
		Workouts []models.Workout `json:"workouts"`
		Error    string           `json:"error"`
	}
	api.DecodeInto(resp.Body, &env)

	if !resp.OK() {
		data.LoadError = env.Error
		if data.LoadError == "" {
			data.LoadError = "Failed to load workouts"
		}
	} else {
		data.Workouts = env.Workouts
	}
	s.render(w, r, http.StatusOK, "workouts", "Workouts", data)
}

func (s *Server) pageWorkoutNew(w http.ResponseWriter, r *http.Request) {
	if s.sessions.Token(r) == "" {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, "workout_new", "New workout", nil)
}

type workoutDetailData struct {
	Workout *models.Workout
	Entries []models.WorkoutEntry
	CanEdit bool
	Message string
}

func (s *Server) pageWorkoutDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	resp, err := s.api.Get(r.Context(), "/workouts/"+url.PathEscape(id), s.sessions.Token(r))
	if err != nil {
		s.render(w, r, http.StatusOK, "workout_detail", "Workout", workoutDetailData{Message: "Workout not found"})
		return
	}

	var env struct {
		Workout *models.Workout `json:"workout"`
		Error   string          `json:"error"`
	}
	api.DecodeInto(resp.Body, &env)

	if !resp.OK() || env.Workout == nil {
		msg := env.Error
		if msg == "" {
			msg = "Workout not found"
		}
		s.render(w, r, http.StatusOK, "workout_detail", "Workout", workoutDetailData{Message: msg})
		return
	}

	draft := editor.FromWorkout(*env.Workout)
	s.render(w, r, http.StatusOK, "workout_detail", env.Workout.Title, workoutDetailData{
		Workout: env.Workout,
		Entries: draft.Entries,
		CanEdit: s.sessions.Token(r) != "",
	})
}

func (s *Server) pageNotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "not_found", "Not found", nil)
}
