// Package models defines the JSON shapes exchanged with the remote workout
// API. These are pass-through records: the remote server owns validation and
// persistence, this layer only reshapes them for rendering and forwarding.
package models

// User is the account record returned by GET /users/self.
type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Bio       string `json:"bio"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Workout is a full workout record including its entries.
type Workout struct {
	ID              int            `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	DurationMinutes int            `json:"duration_minutes"`
	CaloriesBurned  int            `json:"calories_burned"`
	Entries         []WorkoutEntry `json:"entries"`
	UserID          int            `json:"user_id"`
}

// WorkoutEntry is a single exercise within a workout. Reps, DurationSeconds
// and Weight are pointers so "no value" survives the round trip as null
// rather than collapsing to zero.
type WorkoutEntry struct {
	ID              int      `json:"id"`
	WorkoutID       int      `json:"workout_id"`
	ExerciseName    string   `json:"exercise_name"`
	Sets            int      `json:"sets"`
	Reps            *int     `json:"reps"`
	DurationSeconds *int     `json:"duration_seconds"`
	Weight          *float64 `json:"weight"`
	Notes           string   `json:"notes"`
	OrderIndex      int      `json:"order_index"`
}

// WorkoutUpdate is the PUT /workouts/{id} request body. The remote API
// expects the entry list under workout_entries on update (it responds with
// entries on reads).
type WorkoutUpdate struct {
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	DurationMinutes int            `json:"duration_minutes"`
	CaloriesBurned  int            `json:"calories_burned"`
	Entries         []WorkoutEntry `json:"workout_entries"`
}

// WorkoutCreate is the POST /workouts request body.
type WorkoutCreate struct {
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	DurationMinutes int            `json:"duration_minutes"`
	CaloriesBurned  int            `json:"calories_burned"`
	Entries         []WorkoutEntry `json:"entries"`
}
