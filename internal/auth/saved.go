package auth

import (
	"context"
	"errors"
	"time"

	"github.com/fivetwenty-io/concourse-client/pkg/concourse"
)

// ErrSessionExpired is returned when a saved session is stale and there are no
// credentials to refresh it with.
var ErrSessionExpired = errors.New("session expired, log in again")

// SavedSessionAuthenticator replays a previously persisted state without
// holding the password. It fails once the state goes stale.
type SavedSessionAuthenticator struct {
	state State
	now   func() time.Time
}

// NewSavedSessionAuthenticator creates an authenticator for state.
func NewSavedSessionAuthenticator(state State, opts ...SavedOption) *SavedSessionAuthenticator {
	s := &SavedSessionAuthenticator{state: state, now: time.Now}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SavedOption configures a SavedSessionAuthenticator.
type SavedOption func(*SavedSessionAuthenticator)

// WithSavedClock sets the time source used for expiry decisions.
func WithSavedClock(now func() time.Time) SavedOption {
	return func(s *SavedSessionAuthenticator) {
		s.now = now
	}
}

// Intercept returns a copy of req carrying the saved session headers.
func (s *SavedSessionAuthenticator) Intercept(_ context.Context, req *concourse.Request) (*concourse.Request, error) {
	if s.state.Stale(s.now()) {
		return nil, ErrSessionExpired
	}

	headers, err := s.state.Headers()
	if err != nil {
		return nil, err
	}

	return withHeaders(req, headers), nil
}

// GetToken returns the saved access token while it is still valid.
func (s *SavedSessionAuthenticator) GetToken(context.Context) (string, error) {
	if s.state.Stale(s.now()) {
		return "", ErrSessionExpired
	}

	return s.state.AccessToken, nil
}

// RefreshToken always fails: there are no credentials to refresh with.
func (s *SavedSessionAuthenticator) RefreshToken(context.Context) error {
	return ErrSessionExpired
}

// State returns a copy of the saved state.
func (s *SavedSessionAuthenticator) State() *State {
	snapshot := s.state

	return &snapshot
}
