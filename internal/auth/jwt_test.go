package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSRFToken(t *testing.T) {
	t.Parallel()

	t.Run("reads the claim", func(t *testing.T) {
		t.Parallel()

		csrf, err := CSRFToken(signToken(t, jwt.MapClaims{"csrf": "abc123"}))
		require.NoError(t, err)
		assert.Equal(t, "abc123", csrf)
	})

	t.Run("missing claim", func(t *testing.T) {
		t.Parallel()

		_, err := CSRFToken(signToken(t, jwt.MapClaims{"sub": "admin"}))
		require.ErrorIs(t, err, ErrMissingCSRFClaim)
	})

	t.Run("malformed token", func(t *testing.T) {
		t.Parallel()

		for _, token := range []string{"", "opaque", "a.b.c"} {
			_, err := CSRFToken(token)
			require.ErrorIs(t, err, ErrMalformedToken, token)
		}
	})
}

func TestExpiresAt(t *testing.T) {
	t.Parallel()

	t.Run("reads exp", func(t *testing.T) {
		t.Parallel()

		exp, err := ExpiresAt(signToken(t, jwt.MapClaims{"exp": int64(1700000000)}))
		require.NoError(t, err)
		assert.Equal(t, int64(1700000000), exp)
	})

	t.Run("missing exp", func(t *testing.T) {
		t.Parallel()

		_, err := ExpiresAt(signToken(t, jwt.MapClaims{"csrf": "x"}))
		require.ErrorIs(t, err, ErrMissingExpiryClaim)
	})

	t.Run("invalid exp", func(t *testing.T) {
		t.Parallel()

		_, err := ExpiresAt(signToken(t, jwt.MapClaims{"exp": "tomorrow"}))
		require.ErrorIs(t, err, ErrMalformedToken)
	})
}
