// Package editor holds the workout draft logic behind the edit forms:
// optional-number parsing, entry ordering, and assembly of the full PUT
// payload. Saves always transmit the entire entry list; partial updates are
// not part of the remote API's contract.
package editor

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/claude/repsheet/internal/models"
)

// ErrExerciseNameRequired is returned when an entry is added without a name.
var ErrExerciseNameRequired = errors.New("exercise name is required")

// ParseOptionalFloat maps free-text input to an optional numeric value.
// Empty, whitespace-only, and non-numeric input all mean "no value" — the
// form does not distinguish omitted from unparseable.
func ParseOptionalFloat(s string) *float64 {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil
	}
	return &n
}

// ParseOptionalInt is ParseOptionalFloat for integer fields.
func ParseOptionalInt(s string) *int {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil
	}
	return &n
}

// NextOrderIndex returns one past the highest order index in the list, or 1
// for an empty list.
func NextOrderIndex(entries []models.WorkoutEntry) int {
	max := 0
	for _, e := range entries {
		if e.OrderIndex > max {
			max = e.OrderIndex
		}
	}
	return max + 1
}

// Renumber rewrites every entry's order index to its 1-based list position.
// Prior indices are discarded, so the result is always dense and contiguous;
// renumbering an already-contiguous list is a no-op.
func Renumber(entries []models.WorkoutEntry) []models.WorkoutEntry {
	out := make([]models.WorkoutEntry, len(entries))
	copy(out, entries)
	for i := range out {
		out[i].OrderIndex = i + 1
	}
	return out
}

// Draft is the in-memory edit state for a single workout.
type Draft struct {
	WorkoutID       int
	Title           string
	Description     string
	DurationMinutes int
	CaloriesBurned  int
	Entries         []models.WorkoutEntry
}

// FromWorkout initializes a draft from a loaded workout, entries sorted by
// their stored order.
func FromWorkout(w models.Workout) Draft {
	entries := make([]models.WorkoutEntry, len(w.Entries))
	copy(entries, w.Entries)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].OrderIndex < entries[j].OrderIndex
	})
	return Draft{
		WorkoutID:       w.ID,
		Title:           w.Title,
		Description:     w.Description,
		DurationMinutes: w.DurationMinutes,
		CaloriesBurned:  w.CaloriesBurned,
		Entries:         entries,
	}
}

// AddEntry validates and appends a new entry. The entry gets the next order
// index; the draft is left untouched when validation fails.
func (d *Draft) AddEntry(e models.WorkoutEntry) error {
	e.ExerciseName = strings.TrimSpace(e.ExerciseName)
	if e.ExerciseName == "" {
		return ErrExerciseNameRequired
	}
	e.WorkoutID = d.WorkoutID
	e.OrderIndex = NextOrderIndex(d.Entries)
	d.Entries = append(d.Entries, e)
	return nil
}

// UpdatePayload builds the full PUT body: all scalar fields plus the entire
// entry list, renumbered to current list positions.
func (d *Draft) UpdatePayload() models.WorkoutUpdate {
	entries := Renumber(d.Entries)
	for i := range entries {
		entries[i].WorkoutID = d.WorkoutID
	}
	return models.WorkoutUpdate{
		Title:           d.Title,
		Description:     d.Description,
		DurationMinutes: d.DurationMinutes,
		CaloriesBurned:  d.CaloriesBurned,
		Entries:         entries,
	}
}
