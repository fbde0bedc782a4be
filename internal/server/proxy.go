package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/claude/repsheet/internal/api"
	"github.com/go-chi/chi/v5"
)

// Each proxy handler translates a browser request into one remote API call:
// validate shape, check the session token where required, forward, pass the
// remote status and body back. Invalid input and missing auth fail before
// any upstream call is made.

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username *string `json:"username"`
		Password *string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == nil || req.Password == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
		return
	}

	resp, err := s.api.PostJSON(r.Context(), "/tokens/authentication", "", map[string]string{
		"username": *req.Username,
		"password": *req.Password,
	})
	if err != nil {
		s.log.Error("login upstream call failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "upstream unavailable"})
		return
	}
	if !resp.OK() {
		writeProxied(w, resp)
		return
	}

	token, ok := api.ExtractAuthToken(resp.Body)
	if !ok {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "missing auth_token in response"})
		return
	}

	s.sessions.Establish(w, token, *req.Username)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username *string `json:"username"`
		Email    *string `json:"email"`
		Password *string `json:"password"`
		Bio      *string `json:"bio"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == nil || req.Email == nil || req.Password == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
		return
	}

	bio := ""
	if req.Bio != nil {
		bio = *req.Bio
	}

	resp, err := s.api.PostJSON(r.Context(), "/users", "", map[string]string{
		"username": *req.Username,
		"email":    *req.Email,
		"password": *req.Password,
		"bio":      bio,
	})
	if err != nil {
		s.log.Error("register upstream call failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "upstream unavailable"})
		return
	}
	writeProxied(w, resp)
}

// handleLogout never contacts the remote API: the cookies are the whole
// session, so clearing them is the logout.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Clear(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSelf(w http.ResponseWriter, r *http.Request) {
	token := s.sessions.Token(r)
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	resp, err := s.api.Get(r.Context(), "/users/self", token)
	if err != nil {
		s.log.Error("self upstream call failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "upstream unavailable"})
		return
	}
	writeProxied(w, resp)
}

// handleWorkoutsList attaches the bearer token when present but never
// rejects anonymous requests; the remote API decides what anonymous callers
// may see.
func (s *Server) handleWorkoutsList(w http.ResponseWriter, r *http.Request) {
	resp, err := s.api.Get(r.Context(), "/workouts", s.sessions.Token(r))
	if err != nil {
		s.log.Error("workouts upstream call failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "upstream unavailable"})
		return
	}
	writeProxied(w, resp)
}

func (s *Server) handleWorkoutCreate(w http.ResponseWriter, r *http.Request) {
	token := s.sessions.Token(r)
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil || !validPayload(raw) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
		return
	}

	resp, err := s.api.Do(r.Context(), http.MethodPost, "/workouts", token, raw, nil)
	if err != nil {
		s.log.Error("workout create upstream call failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "upstream unavailable"})
		return
	}
	writeProxied(w, resp)
}

func (s *Server) handleWorkoutGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	resp, err := s.api.Get(r.Context(), "/workouts/"+url.PathEscape(id), s.sessions.Token(r))
	if err != nil {
		s.log.Error("workout get upstream call failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "upstream unavailable"})
		return
	}
	writeProxied(w, resp)
}

func (s *Server) handleWorkoutUpdate(w http.ResponseWriter, r *http.Request) {
	token := s.sessions.Token(r)
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil || !validPayload(raw) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
		return
	}

	id := chi.URLParam(r, "id")
	resp, err := s.api.Do(r.Context(), http.MethodPut, "/workouts/"+url.PathEscape(id), token, raw, nil)
	if err != nil {
		s.log.Error("workout update upstream call failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "upstream unavailable"})
		return
	}
	writeProxied(w, resp)
}

func (s *Server) handleWorkoutDelete(w http.ResponseWriter, r *http.Request) {
	token := s.sessions.Token(r)
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	id := chi.URLParam(r, "id")
	resp, err := s.api.Delete(r.Context(), "/workouts/"+url.PathEscape(id), token)
	if err != nil {
		s.log.Error("workout delete upstream call failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "upstream unavailable"})
		return
	}
	writeProxied(w, resp)
}

// validPayload rejects bodies that are unparseable or JSON-falsy (null,
// false, zero, empty string); the remote API does the real validation, this
// layer only refuses bodies that carry no payload at all.
func validPayload(raw []byte) bool {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeProxied passes the remote response through with its status code. A
// body that is not valid JSON is replaced by an empty object so callers
// always receive JSON.
func writeProxied(w http.ResponseWriter, resp *api.Response) {
	body := resp.Body
	if !json.Valid(body) {
		body = []byte("{}")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	w.Write(body)
}
