package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// remoteAPI is a path-keyed stub of the remote workout API. Paths not in
// the map get an empty JSON object.
func remoteAPI(responses map[string]string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if body, ok := responses[r.URL.Path]; ok {
			w.Write([]byte(body))
			return
		}
		w.Write([]byte("{}"))
	})
}

func getPage(srv *Server, path, token string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req = withSession(req, token, "alice")
	}
	srv.ServeHTTP(rec, req)
	return rec
}

// TestPageWorkoutsList verifies the list page renders workout rows for
// anonymous visitors, with the login call to action instead of the create
// button.
func TestPageWorkoutsList(t *testing.T) {
	srv, _ := newTestServer(t, remoteAPI(map[string]string{
		"/workouts": `{"workouts":[{"id":1,"title":"Leg day","duration_minutes":60,"calories_burned":500}]}`,
	}))

	rec := getPage(srv, "/workouts", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	html := rec.Body.String()
	if !strings.Contains(html, "Leg day") {
		t.Error("workout title not rendered")
	}
	if !strings.Contains(html, "Login to create") {
		t.Error("anonymous call to action not rendered")
	}
	if strings.Contains(html, "New workout") {
		t.Error("create button rendered for anonymous visitor")
	}
}

// TestPageWorkoutsEmpty verifies an empty list renders the placeholder
// rather than an empty table.
func TestPageWorkoutsEmpty(t *testing.T) {
	srv, _ := newTestServer(t, remoteAPI(map[string]string{
		"/workouts": `{"workouts":[]}`,
	}))

	rec := getPage(srv, "/workouts", "")
	if !strings.Contains(rec.Body.String(), "No workouts yet.") {
		t.Error("empty-state placeholder not rendered")
	}
}

// TestPageWorkoutsLoadError verifies a remote failure still renders the
// page, carrying the remote error message.
func TestPageWorkoutsLoadError(t *testing.T) {
	srv, _ := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"database unavailable"}`))
	}))

	rec := getPage(srv, "/workouts", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "database unavailable") {
		t.Error("remote error message not rendered")
	}
}

// TestPageAccountStates exercises the account page's three states:
// anonymous, loaded, and load failure.
func TestPageAccountStates(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		srv, uc := newTestServer(t, nil)
		rec := getPage(srv, "/account", "")
		if !strings.Contains(rec.Body.String(), "You are not logged in.") {
			t.Error("anonymous state not rendered")
		}
		if uc.count() != 0 {
			t.Errorf("upstream calls = %d, want 0 for anonymous account page", uc.count())
		}
	})

	t.Run("loaded", func(t *testing.T) {
		srv, _ := newTestServer(t, remoteAPI(map[string]string{
			"/users/self": `{"user":{"id":1,"username":"alice","email":"alice@example.com","bio":"lifter"}}`,
		}))
		rec := getPage(srv, "/account", "tok")
		html := rec.Body.String()
		if !strings.Contains(html, "alice@example.com") {
			t.Error("email not rendered")
		}
		if !strings.Contains(html, "lifter") {
			t.Error("bio not rendered")
		}
	})

	t.Run("load failure", func(t *testing.T) {
		srv, _ := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"invalid or expired token"}`))
		}))
		rec := getPage(srv, "/account", "stale")
		html := rec.Body.String()
		if !strings.Contains(html, "Could not load your account.") {
			t.Error("failure state not rendered")
		}
		if !strings.Contains(html, "invalid or expired token") {
			t.Error("remote error message not rendered")
		}
		if !strings.Contains(html, "Clear session") {
			t.Error("clear-session escape hatch not rendered")
		}
	})
}

// TestPageWorkoutDetail verifies the detail page renders entries in order
// with the edit forms for an authenticated visitor.
func TestPageWorkoutDetail(t *testing.T) {
	srv, _ := newTestServer(t, remoteAPI(map[string]string{
		"/workouts/7": `{"workout":{"id":7,"title":"Leg day","duration_minutes":60,"calories_burned":500,
			"entries":[
				{"id":11,"workout_id":7,"exercise_name":"Bench","sets":3,"reps":null,"order_index":2},
				{"id":10,"workout_id":7,"exercise_name":"Squat","sets":5,"reps":5,"weight":100,"order_index":1}
			]}}`,
		"/users/self": `{"user":{"id":1,"username":"alice"}}`,
	}))

	rec := getPage(srv, "/workouts/7", "tok")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	html := rec.Body.String()

	// entries sorted by order index regardless of response order
	squat := strings.Index(html, "Squat")
	bench := strings.Index(html, "Bench")
	if squat == -1 || bench == -1 {
		t.Fatal("entries not rendered")
	}
	if squat > bench {
		t.Error("entries not sorted by order index")
	}

	if !strings.Contains(html, `action="/workouts/7/save"`) {
		t.Error("save form not rendered")
	}
	if !strings.Contains(html, `action="/workouts/7/entries"`) {
		t.Error("add-entry form not rendered")
	}
	if !strings.Contains(html, `action="/workouts/7/delete"`) {
		t.Error("delete form not rendered")
	}
	// null reps render as "-" in the table and "" in hidden fields
	if !strings.Contains(html, `name="entry_reps" value=""`) {
		t.Error("absent reps not round-tripped as empty hidden field")
	}
}

// TestPageWorkoutDetailReadOnly verifies anonymous visitors get the
// read-only rendering without edit forms.
func TestPageWorkoutDetailReadOnly(t *testing.T) {
	srv, _ := newTestServer(t, remoteAPI(map[string]string{
		"/workouts/7": `{"workout":{"id":7,"title":"Leg day","entries":[]}}`,
	}))

	rec := getPage(srv, "/workouts/7", "")
	html := rec.Body.String()
	if !strings.Contains(html, "Login to edit this workout.") {
		t.Error("read-only notice not rendered")
	}
	if strings.Contains(html, `action="/workouts/7/delete"`) {
		t.Error("delete form rendered for anonymous visitor")
	}
}

// TestPageWorkoutDetailEscapesID verifies the path parameter is escaped
// before it joins the upstream URL, as on the proxy routes.
func TestPageWorkoutDetailEscapesID(t *testing.T) {
	var gotPath string
	srv, _ := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"workout not found"}`))
	}))

	getPage(srv, "/workouts/1;2", "")
	if gotPath != "/workouts/1%3B2" {
		t.Errorf("upstream path = %q, want /workouts/1%%3B2", gotPath)
	}
}

// TestPageWorkoutDetailMissing verifies a remote 404 renders the
// missing-workout state instead of an error page.
func TestPageWorkoutDetailMissing(t *testing.T) {
	srv, _ := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"workout not found"}`))
	}))

	rec := getPage(srv, "/workouts/999", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "workout not found") {
		t.Error("missing-workout message not rendered")
	}
}

// TestPageNewWorkoutRequiresAuth verifies the create page redirects
// anonymous visitors to login.
func TestPageNewWorkoutRequiresAuth(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := getPage(srv, "/workouts/new", "")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("location = %q, want /login", loc)
	}
}

// TestFlashAndErrorBanners verifies redirect messages render in the
// layout.
func TestFlashAndErrorBanners(t *testing.T) {
	srv, _ := newTestServer(t, remoteAPI(map[string]string{
		"/workouts": `{"workouts":[]}`,
	}))

	rec := getPage(srv, "/workouts?flash=Workout+created", "")
	if !strings.Contains(rec.Body.String(), "Workout created") {
		t.Error("flash message not rendered")
	}

	rec = getPage(srv, "/workouts?err=Something+broke", "")
	if !strings.Contains(rec.Body.String(), "Something broke") {
		t.Error("error message not rendered")
	}
}

// TestNavUsernameFromSelfLookup verifies the nav shows the canonical
// username from the self lookup, not the display cookie.
func TestNavUsernameFromSelfLookup(t *testing.T) {
	srv, _ := newTestServer(t, remoteAPI(map[string]string{
		"/workouts":   `{"workouts":[]}`,
		"/users/self": `{"user":{"id":1,"username":"alice_renamed"}}`,
	}))

	rec := getPage(srv, "/workouts", "tok")
	if !strings.Contains(rec.Body.String(), "alice_renamed") {
		t.Error("nav username not taken from self lookup")
	}
}

// TestPageNotFound verifies unknown paths render the 404 page.
func TestPageNotFound(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := getPage(srv, "/no-such-page", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
