package models

import "time"

// Intensity is the perceived effort of a workout.
type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

// Valid reports whether i is one of the known intensity levels.
func (i Intensity) Valid() bool {
	switch i {
	case IntensityLow, IntensityMedium, IntensityHigh:
		return true
	}
	return false
}

// Workout is a single entry of the workout log.
// Duration is kept as text (minutes) the way users type it.
type Workout struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Duration  string    `json:"duration"`
	Intensity Intensity `json:"intensity"`
	Notes     string    `json:"notes"`
	Date      time.Time `json:"date"`
}

// WorkoutDraft is a workout before the ledger assigns its id and timestamp.
type WorkoutDraft struct {
	Type      string    `json:"type"`
	Duration  string    `json:"duration"`
	Intensity Intensity `json:"intensity"`
	Notes     string    `json:"notes"`
}

// WorkoutPatch is a merge-patch for a stored workout. Id and date are immutable.
type WorkoutPatch struct {
	Type      *string    `json:"type,omitempty"`
	Duration  *string    `json:"duration,omitempty"`
	Intensity *Intensity `json:"intensity,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
}

// Apply returns w with the supplied fields replaced.
func (p WorkoutPatch) Apply(w Workout) Workout {
	if p.Type != nil {
		w.Type = *p.Type
	}
	if p.Duration != nil {
		w.Duration = *p.Duration
	}
	if p.Intensity != nil {
		w.Intensity = *p.Intensity
	}
	if p.Notes != nil {
		w.Notes = *p.Notes
	}
	return w
}
