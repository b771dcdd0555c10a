package auth

import (
	"errors"
	"net/url"
	"strings"
)

// Fixed client credentials sent with HTTP Basic auth on sky token requests.
// They identify the client application type, not the user.
const (
	ClientID     = "fly"
	ClientSecret = "Zmx5"
)

// Static errors for err113 compliance.
var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrMissingEndpoint    = errors.New("info and token endpoints are required")
)

// Credentials are the caller-supplied inputs of a session. They are not
// modified for the lifetime of an authenticator.
type Credentials struct {
	Username string
	Password string

	// InfoURL returns the server version metadata.
	InfoURL string
	// LegacyTokenURL is the team token endpoint of servers before 4.0.0.
	LegacyTokenURL string
	// TransitionalTokenURL is the sky token endpoint of servers from 4.0.0 up to 6.1.0.
	TransitionalTokenURL string
	// TokenURL is the issuer token endpoint of servers from 6.1.0.
	TokenURL string
}

// NewCredentials derives the standard endpoints from a server base URL.
func NewCredentials(baseURL, team, username, password string) Credentials {
	base := strings.TrimSuffix(baseURL, "/")

	return Credentials{
		Username:             username,
		Password:             password,
		InfoURL:              base + "/api/v1/info",
		LegacyTokenURL:       base + "/api/v1/teams/" + url.PathEscape(team) + "/auth/token",
		TransitionalTokenURL: base + "/sky/token",
		TokenURL:             base + "/sky/issuer/token",
	}
}

// Validate checks that every field needed by the three flows is present.
func (c Credentials) Validate() error {
	if c.Username == "" || c.Password == "" {
		return ErrMissingCredentials
	}

	if c.InfoURL == "" || c.LegacyTokenURL == "" || c.TransitionalTokenURL == "" || c.TokenURL == "" {
		return ErrMissingEndpoint
	}

	return nil
}
