package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/claude/repsheet/internal/api"
	"github.com/claude/repsheet/internal/editor"
	"github.com/claude/repsheet/internal/models"
	"github.com/go-chi/chi/v5"
)

// The form actions are the server-rendered counterpart of the proxy routes:
// each parses a posted form, performs exactly one remote call, and
// redirects (post/redirect/get) carrying a flash or error message.

func redirectMsg(w http.ResponseWriter, r *http.Request, path, key, msg string) {
	http.Redirect(w, r, path+"?"+key+"="+url.QueryEscape(msg), http.StatusSeeOther)
}

// errMessage extracts the remote error envelope's message, falling back to
// a static string. Upstream 4xx and malformed upstream JSON are not
// distinguished here; both surface the fallback.
func errMessage(body []byte, fallback string) string {
	var env struct {
		Error string `json:"error"`
	}
	api.DecodeInto(body, &env)
	if env.Error == "" {
		return fallback
	}
	return env.Error
}

func (s *Server) actionLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectMsg(w, r, "/login", "err", "invalid form submission")
		return
	}
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	if username == "" || password == "" {
		redirectMsg(w, r, "/login", "err", "username and password are required")
		return
	}

	resp, err := s.api.PostJSON(r.Context(), "/tokens/authentication", "", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		s.log.Error("login upstream call failed", "error", err)
		redirectMsg(w, r, "/login", "err", "upstream unavailable")
		return
	}
	if !resp.OK() {
		redirectMsg(w, r, "/login", "err", errMessage(resp.Body, "Login failed"))
		return
	}

	token, ok := api.ExtractAuthToken(resp.Body)
	if !ok {
		redirectMsg(w, r, "/login", "err", "login succeeded but no token was returned")
		return
	}

	s.sessions.Establish(w, token, username)
	http.Redirect(w, r, "/workouts", http.StatusSeeOther)
}

func (s *Server) actionRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectMsg(w, r, "/register", "err", "invalid form submission")
		return
	}
	username := strings.TrimSpace(r.FormValue("username"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	if username == "" || email == "" || password == "" {
		redirectMsg(w, r, "/register", "err", "username, email and password are required")
		return
	}

	resp, err := s.api.PostJSON(r.Context(), "/users", "", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
		"bio":      r.FormValue("bio"),
	})
	if err != nil {
		s.log.Error("register upstream call failed", "error", err)
		redirectMsg(w, r, "/register", "err", "upstream unavailable")
		return
	}
	if !resp.OK() {
		redirectMsg(w, r, "/register", "err", errMessage(resp.Body, "Registration failed"))
		return
	}

	redirectMsg(w, r, "/login", "flash", "Account created. Please log in.")
}

func (s *Server) actionWorkoutCreate(w http.ResponseWriter, r *http.Request) {
	token := s.sessions.Token(r)
	if token == "" {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		redirectMsg(w, r, "/workouts/new", "err", "invalid form submission")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		redirectMsg(w, r, "/workouts/new", "err", "title is required")
		return
	}

	payload := models.WorkoutCreate{
		Title:           title,
		Description:     r.FormValue("description"),
		DurationMinutes: formInt(r, "duration_minutes"),
		CaloriesBurned:  formInt(r, "calories_burned"),
		Entries:         []models.WorkoutEntry{},
	}

	resp, err := s.api.PostJSON(r.Context(), "/workouts", token, payload)
	if err != nil {
		s.log.Error("workout create upstream call failed", "error", err)
		redirectMsg(w, r, "/workouts/new", "err", "upstream unavailable")
		return
	}
	if !resp.OK() {
		redirectMsg(w, r, "/workouts/new", "err", errMessage(resp.Body, "Failed to create workout"))
		return
	}

	var env struct {
		Workout *models.Workout `json:"workout"`
	}
	api.DecodeInto(resp.Body, &env)

	if env.Workout != nil && env.Workout.ID != 0 {
		redirectMsg(w, r, fmt.Sprintf("/workouts/%d", env.Workout.ID), "flash", "Workout created")
		return
	}
	redirectMsg(w, r, "/workouts", "flash", "Workout created")
}

func (s *Server) actionWorkoutSave(w http.ResponseWriter, r *http.Request) {
	id, detail, ok := s.editTarget(w, r)
	if !ok {
		return
	}

	draft := draftFromForm(r, id)
	s.saveDraft(w, r, draft, detail)
}

// actionEntryAdd appends a new entry to the submitted draft and immediately
// performs a full save; there is no partial-save path.
func (s *Server) actionEntryAdd(w http.ResponseWriter, r *http.Request) {
	id, detail, ok := s.editTarget(w, r)
	if !ok {
		return
	}

	draft := draftFromForm(r, id)
	entry := models.WorkoutEntry{
		ExerciseName:    r.FormValue("exercise_name"),
		Sets:            formInt(r, "sets"),
		Reps:            editor.ParseOptionalInt(r.FormValue("reps")),
		DurationSeconds: editor.ParseOptionalInt(r.FormValue("duration_seconds")),
		Weight:          editor.ParseOptionalFloat(r.FormValue("weight")),
		Notes:           r.FormValue("notes"),
	}

	if err := draft.AddEntry(entry); err != nil {
		if errors.Is(err, editor.ErrExerciseNameRequired) {
			redirectMsg(w, r, detail, "err", "Exercise name is required")
			return
		}
		redirectMsg(w, r, detail, "err", err.Error())
		return
	}

	s.saveDraft(w, r, draft, detail)
}

func (s *Server) actionWorkoutDelete(w http.ResponseWriter, r *http.Request) {
	id, detail, ok := s.editTarget(w, r)
	if !ok {
		return
	}

	resp, err := s.api.Delete(r.Context(), fmt.Sprintf("/workouts/%d", id), s.sessions.Token(r))
	if err != nil {
		s.log.Error("workout delete upstream call failed", "error", err)
		redirectMsg(w, r, detail, "err", "upstream unavailable")
		return
	}
	if !resp.OK() {
		redirectMsg(w, r, detail, "err", errMessage(resp.Body, "Failed to delete workout"))
		return
	}

	redirectMsg(w, r, "/workouts", "flash", "Workout deleted")
}

// editTarget resolves the workout id and enforces authentication for the
// mutating form actions. The second return is the detail page path used for
// redirects.
func (s *Server) editTarget(w http.ResponseWriter, r *http.Request) (int, string, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/workouts", http.StatusSeeOther)
		return 0, "", false
	}
	detail := fmt.Sprintf("/workouts/%d", id)

	if s.sessions.Token(r) == "" {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return 0, "", false
	}
	if err := r.ParseForm(); err != nil {
		redirectMsg(w, r, detail, "err", "invalid form submission")
		return 0, "", false
	}
	return id, detail, true
}

func (s *Server) saveDraft(w http.ResponseWriter, r *http.Request, draft editor.Draft, detail string) {
	resp, err := s.api.PutJSON(r.Context(), fmt.Sprintf("/workouts/%d", draft.WorkoutID), s.sessions.Token(r), draft.UpdatePayload())
	if err != nil {
		s.log.Error("workout save upstream call failed", "error", err)
		redirectMsg(w, r, detail, "err", "upstream unavailable")
		return
	}
	if !resp.OK() {
		redirectMsg(w, r, detail, "err", errMessage(resp.Body, "Failed to save workout"))
		return
	}

	redirectMsg(w, r, detail, "flash", "Saved")
}

// draftFromForm reconstructs the edit draft from the posted form. Existing
// entries round-trip through parallel hidden fields; their submitted list
// order is authoritative and gets renumbered on save.
func draftFromForm(r *http.Request, workoutID int) editor.Draft {
	d := editor.Draft{
		WorkoutID:       workoutID,
		Title:           r.FormValue("title"),
		Description:     r.FormValue("description"),
		DurationMinutes: formInt(r, "duration_minutes"),
		CaloriesBurned:  formInt(r, "calories_burned"),
	}

	names := r.Form["entry_exercise"]
	for i, name := range names {
		d.Entries = append(d.Entries, models.WorkoutEntry{
			ID:              atoiDefault(valueAt(r.Form["entry_id"], i)),
			WorkoutID:       workoutID,
			ExerciseName:    name,
			Sets:            atoiDefault(valueAt(r.Form["entry_sets"], i)),
			Reps:            editor.ParseOptionalInt(valueAt(r.Form["entry_reps"], i)),
			DurationSeconds: editor.ParseOptionalInt(valueAt(r.Form["entry_duration"], i)),
			Weight:          editor.ParseOptionalFloat(valueAt(r.Form["entry_weight"], i)),
			Notes:           valueAt(r.Form["entry_notes"], i),
			OrderIndex:      atoiDefault(valueAt(r.Form["entry_order"], i)),
		})
	}
	return d
}

func formInt(r *http.Request, name string) int {
	return atoiDefault(r.FormValue(name))
}

func atoiDefault(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func valueAt(vals []string, i int) string {
	if i < len(vals) {
		return vals[i]
	}
	return ""
}
