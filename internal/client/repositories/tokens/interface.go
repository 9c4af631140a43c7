package tokens

import (
	"context"

	"github.com/dmitrijs2005/healthdash/internal/client/models"
)

// Fixed keys under which the pair is stored.
const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
)

// Repository is raw key/value access to the credentials table.
// Get returns ("", false, nil) for an absent key.
type Repository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}

// Store persists a models.TokenPair. Load on an empty store returns a zero
// pair and no error.
type Store interface {
	Save(ctx context.Context, pair models.TokenPair) error
	Load(ctx context.Context) (models.TokenPair, error)
	Erase(ctx context.Context) error
}
