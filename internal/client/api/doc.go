// Package api is the client side of the auth API contract.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) covering the
//     three calls the session layer depends on: Login, Register and
//     UpdateProfile.
//  2. A JSON-over-HTTP implementation (see HTTPClient) that posts to the
//     fixed paths /api/login/, /api/register/ and /api/profile/, applies a
//     per-request timeout and maps HTTP outcomes to sentinel errors.
//
// # Error Handling
//
// Callers match failures with errors.Is: ErrAuthFailure, ErrUnauthorized,
// ErrNetwork, ErrUnexpectedStatus, ErrBadResponse. The wrapped error keeps
// the server's message when one was returned, and context errors stay in the
// chain so errors.Is(err, context.DeadlineExceeded) also works.
package api
