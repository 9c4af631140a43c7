// Package metrics tracks today's health stats against their goals.
package metrics

import "github.com/dmitrijs2005/healthdash/internal/client/models"

// DefaultGoals are the targets a fresh tracker starts with.
var DefaultGoals = models.HealthStats{
	Steps:    10000,
	Calories: 2000,
	Water:    2000,
	Sleep:    8,
}

// Tracker holds the live stats and goals. It is not safe for concurrent
// use; the unified store serialises access.
type Tracker struct {
	stats models.HealthStats
	goals models.HealthStats
}

func NewTracker() *Tracker {
	t := &Tracker{}
	t.Reset()
	return t
}

// UpdateStats merges patch into the current stats.
func (t *Tracker) UpdateStats(patch models.StatsPatch) {
	t.stats = patch.Apply(t.stats)
}

// UpdateGoals merges patch into the current goals.
func (t *Tracker) UpdateGoals(patch models.StatsPatch) {
	t.goals = patch.Apply(t.goals)
}

// Reset restores zero stats and DefaultGoals.
func (t *Tracker) Reset() {
	t.stats = models.HealthStats{}
	t.goals = DefaultGoals
}

func (t *Tracker) Stats() models.HealthStats { return t.stats }

func (t *Tracker) Goals() models.HealthStats { return t.goals }

// Progress derives the progress of every stat towards its goal.
func (t *Tracker) Progress() Progress {
	return Compute(t.stats, t.goals)
}
