package store

import (
	"maps"
	"slices"

	"github.com/dmitrijs2005/healthdash/internal/client/models"
	"github.com/dmitrijs2005/healthdash/internal/client/session"
)

// Snapshot is an immutable copy of the store state. Version grows by one
// with every committed change; listeners receive snapshots in Version order.
type Snapshot struct {
	Version  uint64
	State    session.State
	User     *models.User
	Stats    models.HealthStats
	Goals    models.HealthStats
	Workouts []models.Workout
	Ops      map[Operation]OpStatus
}

// Authenticated reports whether a user is signed in.
func (s Snapshot) Authenticated() bool {
	return s.State == session.Authenticated
}

// Status returns the status of op, idle if it never ran.
func (s Snapshot) Status(op Operation) OpStatus {
	if st, ok := s.Ops[op]; ok {
		return st
	}
	return idle()
}

// snapshotLocked copies the current state. Caller holds s.mu.
func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Version:  s.version,
		State:    s.session.State(),
		Stats:    s.metrics.Stats(),
		Goals:    s.metrics.Goals(),
		Workouts: s.ledger.List(),
		Ops:      maps.Clone(s.ops),
	}
	if u, ok := s.session.User(); ok {
		snap.User = &u
	}
	if snap.Workouts == nil {
		snap.Workouts = []models.Workout{}
	}
	return snap
}

// clone returns a deep copy so callers may keep or modify it freely.
func (s Snapshot) clone() Snapshot {
	c := s
	if s.User != nil {
		u := *s.User
		c.User = &u
	}
	c.Workouts = slices.Clone(s.Workouts)
	if c.Workouts == nil {
		c.Workouts = []models.Workout{}
	}
	c.Ops = maps.Clone(s.Ops)
	return c
}
