package metrics

import "github.com/dmitrijs2005/healthdash/internal/client/models"

// Ratio is the progress of one stat towards its goal.
//
// Ratio is value/goal*100 and is not clamped, so callers can tell how far a
// goal was overshot. Percent is the same figure clamped to [0, 100] for
// display. A goal that is zero or negative yields no progress at all.
type Ratio struct {
	Value    float64 `json:"value"`
	Goal     float64 `json:"goal"`
	Ratio    float64 `json:"ratio"`
	Percent  float64 `json:"percent"`
	Exceeded bool    `json:"exceeded"`
}

// Progress holds a Ratio per stat.
type Progress struct {
	Steps    Ratio `json:"steps"`
	Calories Ratio `json:"calories"`
	Water    Ratio `json:"water"`
	Sleep    Ratio `json:"sleep"`
}

// Compute derives Progress from stats and goals.
func Compute(stats, goals models.HealthStats) Progress {
	return Progress{
		Steps:    ratio(stats.Steps, goals.Steps),
		Calories: ratio(stats.Calories, goals.Calories),
		Water:    ratio(stats.Water, goals.Water),
		Sleep:    ratio(stats.Sleep, goals.Sleep),
	}
}

func ratio(value, goal float64) Ratio {
	r := Ratio{Value: value, Goal: goal}
	if goal <= 0 {
		return r
	}

	r.Ratio = value / goal * 100
	r.Percent = min(max(r.Ratio, 0), 100)
	r.Exceeded = value > goal
	return r
}
