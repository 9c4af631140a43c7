// Package store is the composition root of the dashboard state. It puts the
// session manager, the metrics tracker and the workout ledger behind one
// operation surface and tells subscribers about every change.
package store

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/dmitrijs2005/healthdash/internal/client/metrics"
	"github.com/dmitrijs2005/healthdash/internal/client/models"
	"github.com/dmitrijs2005/healthdash/internal/client/session"
	"github.com/dmitrijs2005/healthdash/internal/client/workouts"
	"github.com/dmitrijs2005/healthdash/internal/logging"
)

// Listener receives every committed snapshot.
type Listener func(Snapshot)

// Store is safe for concurrent use.
//
// All in-memory mutations happen under one mutex, so no two of them
// interleave. Network round trips run outside it: local operations proceed
// while a login or profile update is pending. Snapshots are queued while the
// mutex is held and delivered after it is released, in commit order, by
// whichever goroutine is currently draining the queue. A listener may call
// back into the store; the resulting snapshot is delivered after the
// listener returns.
type Store struct {
	mu sync.Mutex

	session *session.Manager
	metrics *metrics.Tracker
	ledger  *workouts.Ledger
	log     logging.Logger

	version uint64
	ops     map[Operation]OpStatus

	listeners  map[uint64]Listener
	nextID     uint64
	pending    []Snapshot
	delivering bool
}

func New(sess *session.Manager, tracker *metrics.Tracker, ledger *workouts.Ledger, log logging.Logger) *Store {
	return &Store{
		session:   sess,
		metrics:   tracker,
		ledger:    ledger,
		log:       log.With("component", "store"),
		ops:       make(map[Operation]OpStatus),
		listeners: make(map[uint64]Listener),
	}
}

// Subscribe registers fn and returns a function that removes it. A snapshot
// already being delivered may still reach fn after removal.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Status returns the last status of op.
func (s *Store) Status(op Operation) OpStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.ops[op]; ok {
		return st
	}
	return idle()
}

// Progress derives goal progress from the current stats and goals.
func (s *Store) Progress() metrics.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metrics.Progress()
}

// StoredToken reports on the persisted access token without signing in.
func (s *Store) StoredToken(ctx context.Context) (session.TokenInfo, error) {
	return s.session.StoredToken(ctx)
}

// Login authenticates and, on success, replaces the current user.
func (s *Store) Login(ctx context.Context, email, password string) error {
	return s.remote(ctx, OpLogin, func(ctx context.Context) (func() error, error) {
		u, pair, err := s.session.Login(ctx, email, password)
		return func() error { return s.session.SignIn(ctx, u, pair) }, err
	})
}

// Register creates an account and signs the new user in.
func (s *Store) Register(ctx context.Context, name, email, password string) error {
	return s.remote(ctx, OpRegister, func(ctx context.Context) (func() error, error) {
		u, pair, err := s.session.Register(ctx, name, email, password)
		return func() error { return s.session.SignIn(ctx, u, pair) }, err
	})
}

// UpdateProfile sends patch to the server and merges it into the current
// user once the server accepts it.
func (s *Store) UpdateProfile(ctx context.Context, patch models.UserPatch) error {
	return s.remote(ctx, OpUpdateProfile, func(ctx context.Context) (func() error, error) {
		err := s.session.UpdateProfile(ctx, patch)
		return func() error {
			s.session.MergeProfile(patch)
			return nil
		}, err
	})
}

// remote runs a network-backed operation. call performs the network I/O
// outside the lock and returns the change to apply on success. The change
// runs under the lock, so a token write and the user it belongs to land
// together with respect to Logout.
func (s *Store) remote(ctx context.Context, op Operation, call func(context.Context) (func() error, error)) error {
	s.mu.Lock()
	if s.ops[op].InFlight() {
		s.mu.Unlock()
		s.log.Debug(ctx, "operation rejected", "operation", op, "reason", "in flight")
		return fmt.Errorf("%s: %w", op, ErrInFlight)
	}
	s.ops[op] = OpStatus{Phase: PhaseInFlight}
	s.commitLocked(ctx, op)
	s.mu.Unlock()
	s.flush()

	apply, err := call(ctx)

	s.mu.Lock()
	if err == nil {
		err = apply()
	}
	s.ops[op] = result(err)
	s.commitLocked(ctx, op)
	s.mu.Unlock()
	s.flush()

	return err
}

// Logout erases the stored tokens, clears the user and resets stats, goals
// and workouts in a single change. The reset happens even when erasing the
// tokens fails; that error is returned.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	err := s.session.SignOut(ctx)
	s.metrics.Reset()
	s.ledger.Reset()
	s.ops[OpLogout] = result(err)
	s.commitLocked(ctx, OpLogout)
	s.mu.Unlock()
	s.flush()

	return err
}

// UpdateStats merges patch into today's stats.
func (s *Store) UpdateStats(patch models.StatsPatch) {
	s.local(OpUpdateStats, func() error {
		s.metrics.UpdateStats(patch)
		return nil
	})
}

// UpdateGoals merges patch into the goals.
func (s *Store) UpdateGoals(patch models.StatsPatch) {
	s.local(OpUpdateGoals, func() error {
		s.metrics.UpdateGoals(patch)
		return nil
	})
}

// AddWorkout stores draft at the head of the workout log and returns the
// completed record.
func (s *Store) AddWorkout(draft models.WorkoutDraft) models.Workout {
	var w models.Workout
	s.local(OpAddWorkout, func() error {
		w = s.ledger.Add(draft)
		return nil
	})
	return w
}

// UpdateWorkout merges patch into the workout with id. It returns
// workouts.ErrNotFound for an unknown id.
func (s *Store) UpdateWorkout(id string, patch models.WorkoutPatch) (models.Workout, error) {
	var w models.Workout
	err := s.local(OpUpdateWorkout, func() error {
		var err error
		w, err = s.ledger.Update(id, patch)
		return err
	})
	return w, err
}

// DeleteWorkout removes the workout with id. It returns workouts.ErrNotFound
// for an unknown id.
func (s *Store) DeleteWorkout(id string) error {
	return s.local(OpDeleteWorkout, func() error {
		return s.ledger.Remove(id)
	})
}

func (s *Store) local(op Operation, fn func() error) error {
	ctx := context.Background()

	s.mu.Lock()
	err := fn()
	s.ops[op] = result(err)
	s.commitLocked(ctx, op)
	s.mu.Unlock()
	s.flush()

	return err
}

// commitLocked bumps the version and queues a snapshot. Caller holds s.mu.
func (s *Store) commitLocked(ctx context.Context, op Operation) {
	s.version++
	s.pending = append(s.pending, s.snapshotLocked())
	s.log.Debug(ctx, "state changed", "operation", op, "phase", s.ops[op].Phase, "version", s.version)
}

// flush delivers queued snapshots unless another goroutine, or an outer
// call on this one, is already doing it.
func (s *Store) flush() {
	s.mu.Lock()
	if s.delivering {
		s.mu.Unlock()
		return
	}
	s.delivering = true

	for len(s.pending) > 0 {
		snap := s.pending[0]
		s.pending = s.pending[1:]
		listeners := make([]Listener, 0, len(s.listeners))
		for _, id := range slices.Sorted(maps.Keys(s.listeners)) {
			listeners = append(listeners, s.listeners[id])
		}
		s.mu.Unlock()

		for _, fn := range listeners {
			fn(snap.clone())
		}

		s.mu.Lock()
	}

	s.pending = nil
	s.delivering = false
	s.mu.Unlock()
}
