package store

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/healthdash/internal/client/api"
	"github.com/dmitrijs2005/healthdash/internal/client/metrics"
	"github.com/dmitrijs2005/healthdash/internal/client/models"
	"github.com/dmitrijs2005/healthdash/internal/client/repositories/tokens"
	"github.com/dmitrijs2005/healthdash/internal/client/session"
	"github.com/dmitrijs2005/healthdash/internal/client/storage"
	"github.com/dmitrijs2005/healthdash/internal/client/workouts"
	"github.com/dmitrijs2005/healthdash/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*************
 * Fake auth API
 *************/

type authServer struct {
	mu           sync.Mutex
	gate         chan struct{}
	entered      chan struct{}
	profileCalls int
	lastBearer   string
	lastProfile  map[string]any
}

func (s *authServer) wait(r *http.Request) bool {
	s.mu.Lock()
	gate, entered := s.gate, s.entered
	s.mu.Unlock()
	if gate == nil {
		return true
	}
	if entered != nil {
		entered <- struct{}{}
	}
	select {
	case <-gate:
		return true
	case <-r.Context().Done():
		return false
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *authServer) login(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	_ = json.NewDecoder(r.Body).Decode(&req)
	if !s.wait(r) {
		return
	}
	if req["password"] != "secret" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "No active account found with the given credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"access":  "A1",
		"refresh": "R1",
		"user":    map[string]any{"id": 7, "name": "Ann", "email": req["email"], "height": "170"},
	})
}

func (s *authServer) register(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	_ = json.NewDecoder(r.Body).Decode(&req)
	writeJSON(w, http.StatusCreated, map[string]any{
		"access":  "A2",
		"refresh": "R2",
		"user":    map[string]any{"id": 8, "username": req["username"], "email": req["email"]},
	})
}

func (s *authServer) profile(w http.ResponseWriter, r *http.Request) {
	var req map[string]any
	_ = json.NewDecoder(r.Body).Decode(&req)

	s.mu.Lock()
	s.profileCalls++
	s.lastBearer = r.Header.Get("Authorization")
	s.lastProfile = req
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"message": "Profile updated successfully"})
}

func (s *authServer) block() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gate = make(chan struct{})
	s.entered = make(chan struct{}, 1)
}

func (s *authServer) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	close(s.gate)
}

/*************
 * Fixture
 *************/

type fixture struct {
	store  *Store
	tokens tokens.Store
	server *authServer
}

type options struct {
	tokens  tokens.Store
	timeout time.Duration
}

func newFixture(t *testing.T, opt options) *fixture {
	t.Helper()

	srv := &authServer{}
	r := chi.NewRouter()
	r.Post("/api/login/", srv.login)
	r.Post("/api/register/", srv.register)
	r.Post("/api/profile/", srv.profile)
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)

	if opt.timeout == 0 {
		opt.timeout = 5 * time.Second
	}
	client, err := api.NewHTTPClient(ts.URL, opt.timeout)
	require.NoError(t, err)

	if opt.tokens == nil {
		opt.tokens = tokens.NewMemoryStore()
	}

	log := logging.NewNop()
	s := New(session.NewManager(client, opt.tokens, log), metrics.NewTracker(), workouts.NewLedger(), log)
	return &fixture{store: s, tokens: opt.tokens, server: srv}
}

type recorder struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func record(s *Store) *recorder {
	r := &recorder{}
	s.Subscribe(func(snap Snapshot) {
		r.mu.Lock()
		r.snaps = append(r.snaps, snap)
		r.mu.Unlock()
	})
	return r
}

func (r *recorder) all() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Snapshot(nil), r.snaps...)
}

func (r *recorder) last(t *testing.T) Snapshot {
	t.Helper()
	all := r.all()
	require.NotEmpty(t, all)
	return all[len(all)-1]
}

func loadTokens(t *testing.T, s tokens.Store) models.TokenPair {
	t.Helper()
	pair, err := s.Load(context.Background())
	require.NoError(t, err)
	return pair
}

type eraseFailing struct {
	*tokens.MemoryStore
	err error
}

func (e eraseFailing) Erase(context.Context) error { return e.err }

type saveFailing struct {
	*tokens.MemoryStore
	err error
}

func (e saveFailing) Save(context.Context, models.TokenPair) error { return e.err }

// hookedTokens runs onSave once, right after the first successful Save.
type hookedTokens struct {
	*tokens.MemoryStore
	onSave func()
}

func (h *hookedTokens) Save(ctx context.Context, p models.TokenPair) error {
	if err := h.MemoryStore.Save(ctx, p); err != nil {
		return err
	}
	if fn := h.onSave; fn != nil {
		h.onSave = nil
		fn()
	}
	return nil
}

/*************
 * Session operations
 *************/

func TestLogin_Success(t *testing.T) {
	f := newFixture(t, options{})
	rec := record(f.store)

	require.NoError(t, f.store.Login(context.Background(), "ann@example.com", "secret"))

	snap := f.store.Snapshot()
	require.True(t, snap.Authenticated())
	require.NotNil(t, snap.User)
	assert.Equal(t, models.User{ID: "7", Name: "Ann", Email: "ann@example.com", Height: "170"}, *snap.User)
	assert.Equal(t, models.TokenPair{Access: "A1", Refresh: "R1"}, loadTokens(t, f.tokens))

	got := rec.all()
	require.Len(t, got, 2)
	assert.Equal(t, PhaseInFlight, got[0].Status(OpLogin).Phase)
	assert.Equal(t, session.Anonymous, got[0].State)
	assert.Equal(t, PhaseSucceeded, got[1].Status(OpLogin).Phase)
	assert.Equal(t, session.Authenticated, got[1].State)
	assert.Less(t, got[0].Version, got[1].Version)
}

func TestLogin_BadCredentials(t *testing.T) {
	f := newFixture(t, options{})

	err := f.store.Login(context.Background(), "ann@example.com", "wrong")
	require.ErrorIs(t, err, api.ErrAuthFailure)

	snap := f.store.Snapshot()
	assert.False(t, snap.Authenticated())
	assert.Nil(t, snap.User)
	assert.True(t, loadTokens(t, f.tokens).IsZero())

	st := f.store.Status(OpLogin)
	assert.Equal(t, PhaseFailed, st.Phase)
	assert.ErrorIs(t, st.Err, api.ErrAuthFailure)
}

func TestLogin_Timeout(t *testing.T) {
	f := newFixture(t, options{timeout: 50 * time.Millisecond})
	f.server.block()
	t.Cleanup(f.server.release)

	err := f.store.Login(context.Background(), "ann@example.com", "secret")
	require.ErrorIs(t, err, api.ErrNetwork)
	assert.False(t, f.store.Snapshot().Authenticated())
	assert.Equal(t, PhaseFailed, f.store.Status(OpLogin).Phase)
}

func TestLogin_InFlightGuard(t *testing.T) {
	f := newFixture(t, options{})
	f.server.block()
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- f.store.Login(ctx, "ann@example.com", "secret") }()

	select {
	case <-f.server.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("login request never reached the server")
	}
	require.True(t, f.store.Status(OpLogin).InFlight())

	err := f.store.Login(ctx, "ann@example.com", "secret")
	require.ErrorIs(t, err, ErrInFlight)

	// local work is not blocked by the pending request
	f.store.AddWorkout(models.WorkoutDraft{Type: "Walk", Duration: "10", Intensity: models.IntensityLow})
	require.Len(t, f.store.Snapshot().Workouts, 1)

	f.server.release()
	require.NoError(t, <-done)
	require.True(t, f.store.Snapshot().Authenticated())
	require.Len(t, f.store.Snapshot().Workouts, 1)
}

func TestLogin_TokenSaveFailure(t *testing.T) {
	boom := errors.New("disk full")
	f := newFixture(t, options{tokens: saveFailing{MemoryStore: tokens.NewMemoryStore(), err: boom}})

	err := f.store.Login(context.Background(), "ann@example.com", "secret")
	require.ErrorIs(t, err, boom)

	snap := f.store.Snapshot()
	assert.False(t, snap.Authenticated())
	assert.Nil(t, snap.User)
	assert.Equal(t, PhaseFailed, snap.Status(OpLogin).Phase)
}

func TestLogin_LogoutDuringTokenSave(t *testing.T) {
	ht := &hookedTokens{MemoryStore: tokens.NewMemoryStore()}
	f := newFixture(t, options{tokens: ht})
	ctx := context.Background()

	loggedOut := make(chan struct{})
	ht.onSave = func() {
		go func() {
			_ = f.store.Logout(ctx)
			close(loggedOut)
		}()
		// give Logout a chance to run while Login is still committing
		select {
		case <-loggedOut:
		case <-time.After(50 * time.Millisecond):
		}
	}

	require.NoError(t, f.store.Login(ctx, "ann@example.com", "secret"))

	select {
	case <-loggedOut:
	case <-time.After(5 * time.Second):
		t.Fatal("logout never finished")
	}

	snap := f.store.Snapshot()
	pair := loadTokens(t, f.tokens)
	if snap.Authenticated() {
		assert.Equal(t, models.TokenPair{Access: "A1", Refresh: "R1"}, pair)
	} else {
		assert.True(t, pair.IsZero(), "anonymous session must not leave tokens behind")
	}
	assert.Equal(t, session.Anonymous, snap.State, "logout lands after the login it raced")
	assert.True(t, pair.IsZero())
}

func TestRegister_SeedsUser(t *testing.T) {
	f := newFixture(t, options{})

	require.NoError(t, f.store.Register(context.Background(), "Bob", "bob@example.com", "pw"))

	snap := f.store.Snapshot()
	require.True(t, snap.Authenticated())
	assert.Equal(t, "8", snap.User.ID)
	assert.Equal(t, "Bob", snap.User.Name)
	assert.Equal(t, "bob@example.com", snap.User.Email)
	assert.Equal(t, models.TokenPair{Access: "A2", Refresh: "R2"}, loadTokens(t, f.tokens))
	assert.Equal(t, PhaseSucceeded, snap.Status(OpRegister).Phase)
}

func TestUpdateProfile_MissingToken(t *testing.T) {
	f := newFixture(t, options{})

	err := f.store.UpdateProfile(context.Background(), models.UserPatch{Age: models.String("30")})
	require.ErrorIs(t, err, session.ErrMissingToken)
	assert.Zero(t, f.server.profileCalls)
	assert.Equal(t, PhaseFailed, f.store.Status(OpUpdateProfile).Phase)
}

func TestUpdateProfile_MergesOptimistically(t *testing.T) {
	f := newFixture(t, options{})
	ctx := context.Background()
	require.NoError(t, f.store.Login(ctx, "ann@example.com", "secret"))

	require.NoError(t, f.store.UpdateProfile(ctx, models.UserPatch{Weight: models.String("61"), Gender: models.String("female")}))

	u := f.store.Snapshot().User
	require.NotNil(t, u)
	assert.Equal(t, "61", u.Weight)
	assert.Equal(t, "female", u.Gender)
	assert.Equal(t, "170", u.Height)
	assert.Equal(t, "Ann", u.Name)

	f.server.mu.Lock()
	defer f.server.mu.Unlock()
	assert.Equal(t, "Bearer A1", f.server.lastBearer)
	assert.Equal(t, map[string]any{"weight": "61", "gender": "female"}, f.server.lastProfile)
}

func TestLogout_ResetsEverything(t *testing.T) {
	f := newFixture(t, options{})
	ctx := context.Background()
	require.NoError(t, f.store.Login(ctx, "ann@example.com", "secret"))

	f.store.UpdateStats(models.StatsPatch{Steps: models.Float(4200), Sleep: models.Float(7)})
	f.store.UpdateGoals(models.StatsPatch{Steps: models.Float(12000)})
	f.store.AddWorkout(models.WorkoutDraft{Type: "Running", Duration: "30", Intensity: models.IntensityMedium})

	rec := record(f.store)
	require.NoError(t, f.store.Logout(ctx))

	got := rec.all()
	require.Len(t, got, 1, "logout is a single change")
	for _, snap := range []Snapshot{got[0], f.store.Snapshot()} {
		assert.Equal(t, session.Anonymous, snap.State)
		assert.Nil(t, snap.User)
		assert.Equal(t, models.HealthStats{}, snap.Stats)
		assert.Equal(t, metrics.DefaultGoals, snap.Goals)
		assert.Empty(t, snap.Workouts)
	}
	assert.True(t, loadTokens(t, f.tokens).IsZero())
}

func TestLogout_WhenAnonymous(t *testing.T) {
	f := newFixture(t, options{})
	f.store.AddWorkout(models.WorkoutDraft{Type: "Yoga"})

	require.NoError(t, f.store.Logout(context.Background()))
	assert.Empty(t, f.store.Snapshot().Workouts)
	assert.Equal(t, PhaseSucceeded, f.store.Status(OpLogout).Phase)
}

func TestLogout_EraseFailureStillResets(t *testing.T) {
	boom := errors.New("read-only filesystem")
	f := newFixture(t, options{tokens: eraseFailing{MemoryStore: tokens.NewMemoryStore(), err: boom}})
	ctx := context.Background()
	require.NoError(t, f.store.Login(ctx, "ann@example.com", "secret"))
	f.store.UpdateStats(models.StatsPatch{Water: models.Float(900)})
	rec := record(f.store)

	err := f.store.Logout(ctx)
	require.ErrorIs(t, err, boom)

	snap := rec.last(t)
	assert.False(t, snap.Authenticated())
	assert.Equal(t, models.HealthStats{}, snap.Stats)
	assert.Equal(t, PhaseFailed, snap.Status(OpLogout).Phase)
}

func TestSessionSurvivesOnSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := storage.Open(ctx, filepath.Join(t.TempDir(), "healthdash.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := tokens.NewSQLiteStore(db)
	f := newFixture(t, options{tokens: store})

	require.NoError(t, f.store.Login(ctx, "ann@example.com", "secret"))
	assert.Equal(t, models.TokenPair{Access: "A1", Refresh: "R1"}, loadTokens(t, tokens.NewSQLiteStore(db)))

	require.NoError(t, f.store.Logout(ctx))
	assert.True(t, loadTokens(t, tokens.NewSQLiteStore(db)).IsZero())
}

/*************
 * Local operations
 *************/

func TestUpdateGoals_Scenario(t *testing.T) {
	f := newFixture(t, options{})

	require.Equal(t, models.HealthStats{Steps: 10000, Calories: 2000, Water: 2000, Sleep: 8}, f.store.Snapshot().Goals)

	f.store.UpdateGoals(models.StatsPatch{Steps: models.Float(12000)})

	require.Equal(t, models.HealthStats{Steps: 12000, Calories: 2000, Water: 2000, Sleep: 8}, f.store.Snapshot().Goals)
}

func TestWorkouts_Scenario(t *testing.T) {
	f := newFixture(t, options{})

	run := f.store.AddWorkout(models.WorkoutDraft{Type: "Running", Duration: "30", Intensity: models.IntensityMedium})
	yoga := f.store.AddWorkout(models.WorkoutDraft{Type: "Yoga", Duration: "20", Intensity: models.IntensityLow})
	require.NotEqual(t, run.ID, yoga.ID)

	list := f.store.Snapshot().Workouts
	require.Len(t, list, 2)
	assert.Equal(t, "Yoga", list[0].Type)
	assert.Equal(t, "Running", list[1].Type)

	updated, err := f.store.UpdateWorkout(run.ID, models.WorkoutPatch{Notes: models.String("easy")})
	require.NoError(t, err)
	assert.Equal(t, "easy", updated.Notes)
	list = f.store.Snapshot().Workouts
	assert.Equal(t, []string{yoga.ID, run.ID}, []string{list[0].ID, list[1].ID})

	require.NoError(t, f.store.DeleteWorkout(yoga.ID))
	list = f.store.Snapshot().Workouts
	require.Len(t, list, 1)
	assert.Equal(t, run.ID, list[0].ID)
}

func TestWorkouts_NotFound(t *testing.T) {
	f := newFixture(t, options{})
	f.store.AddWorkout(models.WorkoutDraft{Type: "Running"})

	_, err := f.store.UpdateWorkout("missing", models.WorkoutPatch{Type: models.String("x")})
	require.ErrorIs(t, err, workouts.ErrNotFound)
	require.ErrorIs(t, f.store.DeleteWorkout("missing"), workouts.ErrNotFound)

	assert.Len(t, f.store.Snapshot().Workouts, 1)
	assert.Equal(t, PhaseFailed, f.store.Status(OpDeleteWorkout).Phase)
}

func TestProgress(t *testing.T) {
	f := newFixture(t, options{})
	f.store.UpdateStats(models.StatsPatch{Steps: models.Float(15000), Water: models.Float(500)})
	f.store.UpdateGoals(models.StatsPatch{Sleep: models.Float(0)})

	p := f.store.Progress()
	assert.True(t, p.Steps.Exceeded)
	assert.InDelta(t, 150, p.Steps.Ratio, 1e-9)
	assert.InDelta(t, 100, p.Steps.Percent, 1e-9)
	assert.InDelta(t, 25, p.Water.Percent, 1e-9)
	assert.Zero(t, p.Sleep.Ratio)
}

/*************
 * Subscriptions
 *************/

func TestSubscribe_EveryMutationNotifies(t *testing.T) {
	f := newFixture(t, options{})
	rec := record(f.store)

	f.store.UpdateStats(models.StatsPatch{Steps: models.Float(1)})
	f.store.UpdateGoals(models.StatsPatch{Water: models.Float(2500)})
	w := f.store.AddWorkout(models.WorkoutDraft{Type: "Row"})
	_, _ = f.store.UpdateWorkout(w.ID, models.WorkoutPatch{Duration: models.String("15")})
	_ = f.store.DeleteWorkout(w.ID)

	got := rec.all()
	require.Len(t, got, 5)
	assert.Equal(t, float64(1), got[0].Stats.Steps)
	assert.Equal(t, float64(2500), got[1].Goals.Water)
	assert.Len(t, got[2].Workouts, 1)
	assert.Equal(t, "15", got[3].Workouts[0].Duration)
	assert.Empty(t, got[4].Workouts)
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	f := newFixture(t, options{})

	calls := 0
	unsubscribe := f.store.Subscribe(func(Snapshot) { calls++ })
	f.store.UpdateStats(models.StatsPatch{Steps: models.Float(1)})
	unsubscribe()
	unsubscribe()
	f.store.UpdateStats(models.StatsPatch{Steps: models.Float(2)})

	assert.Equal(t, 1, calls)
}

func TestSubscribe_OrderedUnderConcurrency(t *testing.T) {
	f := newFixture(t, options{})
	rec := record(f.store)

	const n = 50
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				f.store.UpdateStats(models.StatsPatch{Steps: models.Float(float64(i))})
			} else {
				f.store.AddWorkout(models.WorkoutDraft{Type: "Bike"})
			}
		}()
	}
	wg.Wait()

	got := rec.all()
	require.Len(t, got, n)
	for i := 1; i < len(got); i++ {
		require.Equal(t, got[i-1].Version+1, got[i].Version)
		require.GreaterOrEqual(t, len(got[i].Workouts), len(got[i-1].Workouts))
	}
	assert.Len(t, f.store.Snapshot().Workouts, n/2)
}

func TestSubscribe_ListenerMayCallBack(t *testing.T) {
	f := newFixture(t, options{})

	var versions []uint64
	f.store.Subscribe(func(snap Snapshot) {
		versions = append(versions, snap.Version)
		if len(snap.Workouts) == 1 && snap.Stats.Steps == 0 {
			f.store.UpdateStats(models.StatsPatch{Steps: models.Float(100)})
		}
	})

	f.store.AddWorkout(models.WorkoutDraft{Type: "Hike"})

	assert.Equal(t, []uint64{1, 2}, versions)
	assert.Equal(t, float64(100), f.store.Snapshot().Stats.Steps)
}

func TestSnapshot_IsACopy(t *testing.T) {
	f := newFixture(t, options{})
	require.NoError(t, f.store.Login(context.Background(), "ann@example.com", "secret"))
	f.store.AddWorkout(models.WorkoutDraft{Type: "Swim"})

	snap := f.store.Snapshot()
	snap.User.Name = "changed"
	snap.Workouts[0].Type = "changed"
	snap.Ops[OpLogin] = OpStatus{Phase: PhaseFailed}

	again := f.store.Snapshot()
	assert.Equal(t, "Ann", again.User.Name)
	assert.Equal(t, "Swim", again.Workouts[0].Type)
	assert.Equal(t, PhaseSucceeded, again.Status(OpLogin).Phase)
}

func TestSnapshot_InitialState(t *testing.T) {
	f := newFixture(t, options{})

	snap := f.store.Snapshot()
	assert.Zero(t, snap.Version)
	assert.Equal(t, session.Anonymous, snap.State)
	assert.NotNil(t, snap.Workouts)
	assert.Empty(t, snap.Workouts)
	assert.Equal(t, PhaseIdle, snap.Status(OpLogin).Phase)
	assert.Equal(t, PhaseIdle, f.store.Status(OpRegister).Phase)
}
