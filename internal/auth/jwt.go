package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Static errors for err113 compliance.
var (
	ErrMalformedToken     = errors.New("malformed token")
	ErrMissingCSRFClaim   = errors.New("token has no csrf claim")
	ErrMissingExpiryClaim = errors.New("token has no exp claim")
)

// Claims are read from tokens the server just issued over the session's own
// transport, so signatures are not verified.
func parseClaims(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}

	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}

	return claims, nil
}

// CSRFToken extracts the csrf claim of an id token.
func CSRFToken(idToken string) (string, error) {
	claims, err := parseClaims(idToken)
	if err != nil {
		return "", err
	}

	csrf, ok := claims["csrf"].(string)
	if !ok || csrf == "" {
		return "", ErrMissingCSRFClaim
	}

	return csrf, nil
}

// ExpiresAt extracts the exp claim of a token as Unix seconds.
func ExpiresAt(token string) (int64, error) {
	claims, err := parseClaims(token)
	if err != nil {
		return 0, err
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}

	if exp == nil {
		return 0, ErrMissingExpiryClaim
	}

	return exp.Unix(), nil
}
