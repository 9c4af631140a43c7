package session

import "errors"

var (
	// ErrMissingToken means no access token is stored, so an authorized
	// call cannot be made.
	ErrMissingToken = errors.New("no access token stored")

	// ErrMalformedToken means the stored access token is not a decodable JWT.
	ErrMalformedToken = errors.New("malformed access token")
)
