package models

// HealthStats holds today's accumulated values. The same shape is used for goals,
// where each field is the target for the corresponding stat.
type HealthStats struct {
	Steps    float64 `json:"steps"`
	Calories float64 `json:"calories"`
	Water    float64 `json:"water"`
	Sleep    float64 `json:"sleep"`
}

// StatsPatch is a merge-patch for HealthStats. Nil fields keep their value.
type StatsPatch struct {
	Steps    *float64 `json:"steps,omitempty"`
	Calories *float64 `json:"calories,omitempty"`
	Water    *float64 `json:"water,omitempty"`
	Sleep    *float64 `json:"sleep,omitempty"`
}

// Apply returns s with the supplied fields replaced.
func (p StatsPatch) Apply(s HealthStats) HealthStats {
	if p.Steps != nil {
		s.Steps = *p.Steps
	}
	if p.Calories != nil {
		s.Calories = *p.Calories
	}
	if p.Water != nil {
		s.Water = *p.Water
	}
	if p.Sleep != nil {
		s.Sleep = *p.Sleep
	}
	return s
}

// Float returns a pointer to v. Handy for building patches.
func Float(v float64) *float64 { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }
