package api

import (
	"context"

	"github.com/dmitrijs2005/healthdash/internal/client/models"
)

// AuthResult is what a successful login or registration yields.
type AuthResult struct {
	Tokens models.TokenPair
	User   models.User
}

// Client is the auth API as seen by the session layer.
type Client interface {
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)
	UpdateProfile(ctx context.Context, accessToken string, patch models.UserPatch) error
}
