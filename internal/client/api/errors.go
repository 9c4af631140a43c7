package api

import "errors"

var (
	ErrAuthFailure      = errors.New("authentication failed")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNetwork          = errors.New("network failure")
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrBadResponse      = errors.New("malformed response")
)
