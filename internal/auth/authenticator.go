package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/fivetwenty-io/concourse-client/internal/constants"
	"github.com/fivetwenty-io/concourse-client/pkg/concourse"
)

// refreshKey is the only singleflight key: an authenticator owns one session.
const refreshKey = "session"

// Authenticator attaches authentication headers to outgoing requests.
type Authenticator interface {
	// Intercept returns a copy of req carrying authentication headers.
	Intercept(ctx context.Context, req *concourse.Request) (*concourse.Request, error)
}

// TokenManager defines the interface for token management.
type TokenManager interface {
	Authenticator
	GetToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) error
}

// SessionAuthenticator acquires, caches and refreshes a session for one set
// of credentials. It is safe for concurrent use: the state is swapped as a
// whole and concurrent refreshes share a single version probe and token fetch.
type SessionAuthenticator struct {
	credentials Credentials
	httpClient  *http.Client
	logger      concourse.Logger
	now         func() time.Time

	state     atomic.Pointer[State]
	refreshes singleflight.Group
}

// Option configures a SessionAuthenticator.
type Option func(*SessionAuthenticator)

// WithHTTPClient sets the client used for the version probe and token requests.
// It must not itself authenticate requests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(a *SessionAuthenticator) {
		a.httpClient = httpClient
	}
}

// WithLogger sets a logger.
func WithLogger(logger concourse.Logger) Option {
	return func(a *SessionAuthenticator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithClock sets the time source used for expiry decisions.
func WithClock(now func() time.Time) Option {
	return func(a *SessionAuthenticator) {
		a.now = now
	}
}

// NewSessionAuthenticator creates an authenticator. No network call is made
// until the first request needs a session.
func NewSessionAuthenticator(credentials Credentials, opts ...Option) (*SessionAuthenticator, error) {
	err := credentials.Validate()
	if err != nil {
		return nil, err
	}

	a := &SessionAuthenticator{
		credentials: credentials,
		httpClient:  &http.Client{Timeout: constants.DefaultHTTPTimeout},
		logger:      nopLogger{},
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// Intercept returns a copy of req with the session headers merged over its
// existing headers. req is never modified. No copy is returned when the
// session cannot be resolved.
func (a *SessionAuthenticator) Intercept(ctx context.Context, req *concourse.Request) (*concourse.Request, error) {
	headers, err := a.Headers(ctx)
	if err != nil {
		return nil, err
	}

	return withHeaders(req, headers), nil
}

// withHeaders copies req and sets headers on the copy, replacing any values
// already present under the same names.
func withHeaders(req *concourse.Request, headers http.Header) *concourse.Request {
	out := req.Clone()
	if out == nil {
		out = &concourse.Request{}
	}

	if out.Headers == nil {
		out.Headers = make(http.Header, len(headers))
	}

	for name, values := range headers {
		out.Headers[name] = values
	}

	return out
}

// Headers resolves the session and returns its authentication headers.
func (a *SessionAuthenticator) Headers(ctx context.Context) (http.Header, error) {
	state, err := a.resolve(ctx)
	if err != nil {
		return nil, err
	}

	return state.Headers()
}

// GetToken returns a valid access token, refreshing if necessary.
func (a *SessionAuthenticator) GetToken(ctx context.Context) (string, error) {
	state, err := a.resolve(ctx)
	if err != nil {
		return "", err
	}

	return state.AccessToken, nil
}

// RefreshToken forces a refresh even if the current state is still valid.
// A refresh already in flight is joined rather than repeated.
func (a *SessionAuthenticator) RefreshToken(ctx context.Context) error {
	_, err := a.refresh(ctx, a.state.Load(), true)

	return err
}

// State returns a copy of the current state, or nil before the first refresh.
func (a *SessionAuthenticator) State() *State {
	current := a.state.Load()
	if current == nil {
		return nil
	}

	snapshot := *current

	return &snapshot
}

// SetState seeds the authenticator with a previously obtained state. A stale
// or incomplete state is refreshed on the next request.
func (a *SessionAuthenticator) SetState(state State) {
	a.state.Store(&state)
}

func (a *SessionAuthenticator) resolve(ctx context.Context) (*State, error) {
	current := a.state.Load()
	if !current.Stale(a.now()) {
		return current, nil
	}

	return a.refresh(ctx, current, false)
}

// refresh runs at most one probe and token fetch at a time. Callers that
// arrive while a refresh is in flight wait for it and share its result or
// error. Inside the flight the state is checked again, since a refresh may
// have completed between the caller's check and its arrival here.
func (a *SessionAuthenticator) refresh(ctx context.Context, observed *State, force bool) (*State, error) {
	result, err, shared := a.refreshes.Do(refreshKey, func() (interface{}, error) {
		current := a.state.Load()
		if !current.Stale(a.now()) && (!force || current != observed) {
			return current, nil
		}

		version, err := a.probeVersion(ctx)
		if err != nil {
			return nil, err
		}

		flow, err := SelectFlow(version)
		if err != nil {
			return nil, err
		}

		a.logger.Debug("Refreshing session", map[string]interface{}{
			"server_version": version,
			"flow":           flow.String(),
		})

		next, err := a.fetch(ctx, flow, version)
		if err != nil {
			a.logger.Error("Session refresh failed", map[string]interface{}{
				"flow":  flow.String(),
				"error": err.Error(),
			})

			return nil, err
		}

		a.state.Store(next)

		a.logger.Debug("Session refreshed", map[string]interface{}{
			"expires_at": next.Expiry().UTC().Format(time.RFC3339),
		})

		return next, nil
	})
	if err != nil {
		return nil, fmt.Errorf("authenticating: %w", err)
	}

	if shared {
		a.logger.Debug("Joined in-flight session refresh", nil)
	}

	state, _ := result.(*State)

	return state, nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}
