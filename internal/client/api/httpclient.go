package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/healthdash/internal/client/models"
)

const (
	loginPath    = "/api/login/"
	registerPath = "/api/register/"
	profilePath  = "/api/profile/"

	maxBodyBytes = 1 << 20
)

// HTTPClient talks to the auth API over HTTP with JSON bodies.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

// Option customises an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client (e.g. for tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// NewHTTPClient validates baseURL and returns a client applying timeout to
// every request. A non-positive timeout disables the per-request deadline;
// the caller's context still applies.
func NewHTTPClient(baseURL string, timeout time.Duration, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", baseURL)
	}

	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		timeout: timeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	return c.authenticate(ctx, loginPath, loginRequest{Email: email, Password: password})
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	req := registerRequest{Name: name, Username: email, Email: email, Password: password}
	return c.authenticate(ctx, registerPath, req)
}

// UpdateProfile posts the patch with a bearer token. Any 2xx is success;
// the response body is not inspected.
func (c *HTTPClient) UpdateProfile(ctx context.Context, accessToken string, patch models.UserPatch) error {
	status, body, err := c.post(ctx, profilePath, accessToken, patch)
	if err != nil {
		return err
	}
	if isSuccess(status) {
		return nil
	}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, serverMessage(body))
	default:
		return fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, status, serverMessage(body))
	}
}

func (c *HTTPClient) authenticate(ctx context.Context, path string, payload any) (*AuthResult, error) {
	status, body, err := c.post(ctx, path, "", payload)
	if err != nil {
		return nil, err
	}

	if !isSuccess(status) {
		return nil, mapAuthStatus(status, body)
	}

	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadResponse, err)
	}
	if resp.Access == "" || resp.User == nil {
		return nil, fmt.Errorf("%w: missing access token or user", ErrBadResponse)
	}

	return &AuthResult{
		Tokens: models.TokenPair{Access: resp.Access, Refresh: resp.Refresh},
		User:   resp.User.toModel(),
	}, nil
}

func mapAuthStatus(status int, body []byte) error {
	switch status {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrAuthFailure, serverMessage(body))
	default:
		return fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, status, serverMessage(body))
	}
}

// post sends payload as JSON and returns the status and (bounded) body.
// Transport failures, including timeouts, come back wrapped in ErrNetwork.
func (c *HTTPClient) post(ctx context.Context, path, bearer string, payload any) (int, []byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, nil, fmt.Errorf("%w: read body: %w", ErrNetwork, err)
	}
	return resp.StatusCode, body, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
