// Package workouts keeps the local workout log, newest entry first.
package workouts

import (
	"errors"
	"slices"
	"time"

	"github.com/dmitrijs2005/healthdash/internal/client/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned by Update and Remove for an unknown id.
var ErrNotFound = errors.New("workout not found")

// Ledger is an ordered workout collection. Order is insertion order, newest
// first, regardless of Date. Not safe for concurrent use.
type Ledger struct {
	// items is kept oldest first so Add is an append; List reverses it.
	items []models.Workout
	newID func() string
	now   func() time.Time
}

type Option func(*Ledger)

// WithIDGenerator replaces the uuid v4 id generator.
func WithIDGenerator(fn func() string) Option {
	return func(l *Ledger) { l.newID = fn }
}

// WithClock replaces time.Now for creation timestamps.
func WithClock(fn func() time.Time) Option {
	return func(l *Ledger) { l.now = fn }
}

func NewLedger(opts ...Option) *Ledger {
	l := &Ledger{
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Add stamps draft with a fresh id and the current time and puts it at the
// head of the log.
func (l *Ledger) Add(draft models.WorkoutDraft) models.Workout {
	w := models.Workout{
		ID:        l.newID(),
		Type:      draft.Type,
		Duration:  draft.Duration,
		Intensity: draft.Intensity,
		Notes:     draft.Notes,
		Date:      l.now().UTC(),
	}
	l.items = append(l.items, w)
	return w
}

// Update merges patch into the workout with id, keeping its position.
func (l *Ledger) Update(id string, patch models.WorkoutPatch) (models.Workout, error) {
	i := l.index(id)
	if i < 0 {
		return models.Workout{}, ErrNotFound
	}
	l.items[i] = patch.Apply(l.items[i])
	return l.items[i], nil
}

// Remove deletes the workout with id.
func (l *Ledger) Remove(id string) error {
	i := l.index(id)
	if i < 0 {
		return ErrNotFound
	}
	l.items = slices.Delete(l.items, i, i+1)
	return nil
}

// Get returns the workout with id.
func (l *Ledger) Get(id string) (models.Workout, bool) {
	i := l.index(id)
	if i < 0 {
		return models.Workout{}, false
	}
	return l.items[i], true
}

// List returns a copy of the log, newest first.
func (l *Ledger) List() []models.Workout {
	out := slices.Clone(l.items)
	slices.Reverse(out)
	return out
}

func (l *Ledger) Len() int { return len(l.items) }

// Reset empties the log.
func (l *Ledger) Reset() {
	l.items = nil
}

func (l *Ledger) index(id string) int {
	return slices.IndexFunc(l.items, func(w models.Workout) bool { return w.ID == id })
}
