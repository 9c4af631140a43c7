package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo describes the stored access token as decoded from its claims.
// The signature is not verified: the client has no key and only uses this
// for display and diagnostics.
type TokenInfo struct {
	Present   bool
	UserID    string
	ExpiresAt time.Time
	Expired   bool
}

// InspectToken decodes raw without verifying it. An empty raw yields a zero
// TokenInfo and no error.
func InspectToken(raw string, now time.Time) (TokenInfo, error) {
	if raw == "" {
		return TokenInfo{}, nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return TokenInfo{}, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}

	info := TokenInfo{Present: true}

	// simplejwt puts the account id in user_id; fall back to sub.
	if v, ok := claims["user_id"]; ok && v != nil {
		info.UserID = fmt.Sprint(v)
	} else if sub, err := claims.GetSubject(); err == nil {
		info.UserID = sub
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return TokenInfo{}, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}
	if exp != nil {
		info.ExpiresAt = exp.Time
		info.Expired = !now.Before(exp.Time)
	}
	return info, nil
}
