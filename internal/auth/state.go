package auth

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// ExpiryMargin is subtracted from a token's expiry before it is considered
// usable, covering clock drift and in-flight request latency.
const ExpiryMargin = 10 * time.Minute

// Header names attached to authenticated requests.
const (
	HeaderAuthorization = "Authorization"
	HeaderCSRFToken     = "X-Csrf-Token"
)

// State is a complete authentication state. Values are never mutated once
// stored; a refresh replaces the whole value.
type State struct {
	AccessToken string `json:"access_token" yaml:"access_token"`
	TokenType   string `json:"token_type"   yaml:"token_type"`
	// ExpiresAt is a Unix timestamp in seconds.
	ExpiresAt int64 `json:"expires_at" yaml:"expires_at"`
	// IDToken carries the csrf claim on servers before 6.1.0. On newer
	// servers it may equal AccessToken.
	IDToken       string `json:"id_token"       yaml:"id_token"`
	ServerVersion string `json:"server_version" yaml:"server_version"`
}

// Complete reports whether every field is populated.
func (s *State) Complete() bool {
	return s != nil &&
		s.AccessToken != "" &&
		s.TokenType != "" &&
		s.ExpiresAt != 0 &&
		s.IDToken != "" &&
		s.ServerVersion != ""
}

// Stale reports whether the state must be refreshed at now: it is absent,
// incomplete, or within ExpiryMargin of its expiry.
func (s *State) Stale(now time.Time) bool {
	if !s.Complete() {
		return true
	}

	return now.Unix() > s.ExpiresAt-int64(ExpiryMargin/time.Second)
}

// Expiry returns ExpiresAt as a time.
func (s *State) Expiry() time.Time {
	return time.Unix(s.ExpiresAt, 0)
}

// Headers computes the authentication headers for the state. Servers before
// 6.1.0 also get an X-Csrf-Token header taken from the id token's csrf claim.
func (s *State) Headers() (http.Header, error) {
	headers := make(http.Header)
	headers.Set(HeaderAuthorization, s.TokenType+" "+s.AccessToken)

	csrf, err := UsesCSRF(s.ServerVersion)
	if err != nil {
		return nil, err
	}

	if csrf {
		value, err := CSRFToken(s.IDToken)
		if err != nil {
			return nil, fmt.Errorf("deriving csrf token: %w", err)
		}

		headers.Set(HeaderCSRFToken, value)
	}

	return headers, nil
}

// Token returns an oauth2 view of the state. The id token and server version
// are carried as extras.
func (s *State) Token() *oauth2.Token {
	token := &oauth2.Token{
		AccessToken: s.AccessToken,
		TokenType:   s.TokenType,
		Expiry:      s.Expiry(),
	}

	return token.WithExtra(map[string]interface{}{
		"id_token":       s.IDToken,
		"server_version": s.ServerVersion,
	})
}
