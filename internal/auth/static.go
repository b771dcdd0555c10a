package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/fivetwenty-io/concourse-client/pkg/concourse"
)

// ErrStaticTokenCannotRefresh is returned when a static token is asked to refresh.
var ErrStaticTokenCannotRefresh = errors.New("static token cannot be refreshed")

// StaticAuthenticator attaches a fixed bearer token, for callers that obtained
// a token out of band.
type StaticAuthenticator struct {
	tokenType   string
	accessToken string
}

// NewStaticAuthenticator creates an authenticator for a pre-obtained token.
func NewStaticAuthenticator(accessToken string) *StaticAuthenticator {
	return &StaticAuthenticator{tokenType: "Bearer", accessToken: accessToken}
}

// Intercept returns a copy of req with the Authorization header set.
func (s *StaticAuthenticator) Intercept(_ context.Context, req *concourse.Request) (*concourse.Request, error) {
	out := req.Clone()
	if out == nil {
		out = &concourse.Request{}
	}

	if out.Headers == nil {
		out.Headers = make(http.Header)
	}

	out.Headers.Set(HeaderAuthorization, s.tokenType+" "+s.accessToken)

	return out, nil
}

// GetToken returns the token.
func (s *StaticAuthenticator) GetToken(context.Context) (string, error) {
	return s.accessToken, nil
}

// RefreshToken always fails.
func (s *StaticAuthenticator) RefreshToken(context.Context) error {
	return ErrStaticTokenCannotRefresh
}
