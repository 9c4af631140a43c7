// Package session owns the authentication state of the dashboard: who is
// signed in, and the durable token pair that backs authorized calls.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/healthdash/internal/client/api"
	"github.com/dmitrijs2005/healthdash/internal/client/models"
	"github.com/dmitrijs2005/healthdash/internal/client/repositories/tokens"
	"github.com/dmitrijs2005/healthdash/internal/logging"
)

// State is the derived session status.
type State string

const (
	Anonymous     State = "anonymous"
	Authenticated State = "authenticated"
)

// Manager splits its surface in two.
//
// Login, Register and UpdateProfile perform network I/O and never write the
// in-memory user or the token store, so they may run while other work
// proceeds. SignIn, SignOut, MergeProfile and the accessors change or read
// the user and the stored tokens together and are not synchronised: the
// owner (the unified store) serialises them so the two never disagree.
type Manager struct {
	client api.Client
	tokens tokens.Store
	log    logging.Logger
	now    func() time.Time

	user *models.User
}

func NewManager(client api.Client, store tokens.Store, log logging.Logger) *Manager {
	return &Manager{
		client: client,
		tokens: store,
		log:    log.With("component", "session"),
		now:    time.Now,
	}
}

// Login checks credentials against the API. It returns the server user and
// token pair without touching the token store; the caller commits both with
// SignIn.
func (m *Manager) Login(ctx context.Context, email, password string) (models.User, models.TokenPair, error) {
	res, err := m.client.Login(ctx, email, password)
	if err != nil {
		m.log.Warn(ctx, "login failed", "operation", "login", "outcome", "failure", "error", err)
		return models.User{}, models.TokenPair{}, fmt.Errorf("login: %w", err)
	}
	m.log.Info(ctx, "login accepted", "operation", "login", "outcome", "success", "user_id", res.User.ID)
	return res.User, res.Tokens, nil
}

// Register creates an account. The server-supplied user is seeded with the
// name and email given here when the server leaves them out. As with Login,
// nothing is persisted until SignIn.
func (m *Manager) Register(ctx context.Context, name, email, password string) (models.User, models.TokenPair, error) {
	res, err := m.client.Register(ctx, name, email, password)
	if err != nil {
		m.log.Warn(ctx, "registration failed", "operation", "register", "outcome", "failure", "error", err)
		return models.User{}, models.TokenPair{}, fmt.Errorf("register: %w", err)
	}

	u := res.User
	if name != "" && (u.Name == "" || u.Name == u.Email) {
		u.Name = name
	}
	if u.Email == "" {
		u.Email = email
	}
	m.log.Info(ctx, "registration accepted", "operation", "register", "outcome", "success", "user_id", u.ID)
	return u, res.Tokens, nil
}

// UpdateProfile sends patch to the profile endpoint using the stored access
// token. It fails with ErrMissingToken, without any request, when no token
// is stored. The caller merges the patch locally with MergeProfile.
func (m *Manager) UpdateProfile(ctx context.Context, patch models.UserPatch) error {
	pair, err := m.tokens.Load(ctx)
	if err != nil {
		return fmt.Errorf("update profile: load tokens: %w", err)
	}
	if pair.Access == "" {
		m.log.Warn(ctx, "profile update without token", "operation", "update_profile", "outcome", "failure")
		return fmt.Errorf("update profile: %w", ErrMissingToken)
	}

	if info, err := InspectToken(pair.Access, m.now()); err == nil && info.Expired {
		m.log.Warn(ctx, "stored access token has expired", "operation", "update_profile", "expires_at", info.ExpiresAt)
	}

	if err := m.client.UpdateProfile(ctx, pair.Access, patch); err != nil {
		m.log.Warn(ctx, "profile update failed", "operation", "update_profile", "outcome", "failure", "error", err)
		return fmt.Errorf("update profile: %w", err)
	}
	m.log.Info(ctx, "profile updated", "operation", "update_profile", "outcome", "success")
	return nil
}

// SignIn saves pair to the token store and then makes u the current user.
// When saving fails the user is left unchanged.
func (m *Manager) SignIn(ctx context.Context, u models.User, pair models.TokenPair) error {
	if err := m.tokens.Save(ctx, pair); err != nil {
		m.log.Error(ctx, "saving tokens failed", "outcome", "failure", "error", err)
		return fmt.Errorf("save tokens: %w", err)
	}
	m.user = &u
	return nil
}

// SignOut erases the durable tokens and clears the user. The user is cleared
// even when erasing fails; the error is still returned.
func (m *Manager) SignOut(ctx context.Context) error {
	m.user = nil
	if err := m.tokens.Erase(ctx); err != nil {
		m.log.Error(ctx, "erasing tokens failed", "operation", "logout", "outcome", "failure", "error", err)
		return fmt.Errorf("logout: erase tokens: %w", err)
	}
	m.log.Info(ctx, "logged out", "operation", "logout", "outcome", "success")
	return nil
}

// MergeProfile applies patch to the current user. It is a no-op when anonymous.
func (m *Manager) MergeProfile(patch models.UserPatch) {
	if m.user == nil {
		return
	}
	u := patch.Apply(*m.user)
	m.user = &u
}

// User returns a copy of the current user and whether one is signed in.
func (m *Manager) User() (models.User, bool) {
	if m.user == nil {
		return models.User{}, false
	}
	return *m.user, true
}

func (m *Manager) State() State {
	if m.user == nil {
		return Anonymous
	}
	return Authenticated
}

// StoredToken reports on the access token currently in the token store.
// It never signs anybody in.
func (m *Manager) StoredToken(ctx context.Context) (TokenInfo, error) {
	pair, err := m.tokens.Load(ctx)
	if err != nil {
		return TokenInfo{}, fmt.Errorf("load tokens: %w", err)
	}
	return InspectToken(pair.Access, m.now())
}
