package commands

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/concourse-client/internal/auth"
	"github.com/fivetwenty-io/concourse-client/internal/constants"
)

func TestNewLoginCommand(t *testing.T) {
	t.Parallel()

	cmd := NewLoginCommand()
	assert.Equal(t, "login", cmd.Use)
	assert.Equal(t, "Log in to a Concourse target", cmd.Short)
	assert.NotNil(t, cmd.RunE)

	for _, name := range []string{"url", "team", "username", "password", "save-password"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "Flag %s should exist", name)
	}

	assert.Equal(t, "u", cmd.Flags().Lookup("url").Shorthand)
	assert.Equal(t, "n", cmd.Flags().Lookup("team").Shorthand)
	assert.Equal(t, "false", cmd.Flags().Lookup("save-password").DefValue)
}

func TestNewLogoutCommand(t *testing.T) {
	t.Parallel()

	cmd := NewLogoutCommand()
	assert.Equal(t, "logout", cmd.Use)

	allFlag := cmd.Flags().Lookup("all")
	require.NotNil(t, allFlag)
	assert.Equal(t, "a", allFlag.Shorthand)
}

func TestLoginSavesSession(t *testing.T) {
	server := newFakeConcourse(t)
	path := useTempConfig(t)

	out, err := execute(NewLoginCommand(), "--url", server.URL, "--username", "admin", "--password", "s3cret")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in to "+server.URL+" as admin on team main")
	assert.Contains(t, out, "server 7.11.2")

	config, err := loadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, constants.DefaultTargetName, config.CurrentTarget)

	target := config.Targets[constants.DefaultTargetName]
	require.NotNil(t, target)
	require.NotNil(t, target.Session)
	assert.Equal(t, "access-1", target.Session.AccessToken)
	assert.Equal(t, "7.11.2", target.Session.ServerVersion)
	assert.Empty(t, target.Password)
	assert.NotNil(t, target.LastRefreshed)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(constants.ConfigFilePerm), info.Mode().Perm())

	// The saved session is reused without another token request.
	out, err = execute(NewPipelinesCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "app")
	assert.Equal(t, int32(1), server.tokenCalls.Load())

	out, err = execute(NewJobActionCommands()[0], "app/unit")
	require.NoError(t, err)
	assert.Equal(t, "started app/unit #7 (build 42)\n", out)
	assert.Equal(t, int32(1), server.triggerCalls.Load())

	out, err = execute(NewTokenCommand(), "--value")
	require.NoError(t, err)
	assert.Equal(t, "access-1\n", out)

	// Without a saved password the session cannot be renewed.
	_, err = execute(NewTokenCommand(), "--refresh")
	require.ErrorIs(t, err, auth.ErrSessionExpired)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	server := newFakeConcourse(t)
	path := useTempConfig(t)

	_, err := execute(NewLoginCommand(), "--url", server.URL, "--username", "admin", "--password", "wrong")
	require.Error(t, err)

	var tokenErr *auth.TokenError
	require.ErrorAs(t, err, &tokenErr)
	assert.Equal(t, 401, tokenErr.StatusCode)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "config must not be written on failure")
}

func TestLoginRequiresURLAndUsername(t *testing.T) {
	useTempConfig(t)

	_, err := execute(NewLoginCommand(), "--username", "admin", "--password", "s3cret")
	require.ErrorIs(t, err, constants.ErrTargetURLRequired)

	_, err = execute(NewLoginCommand(), "--url", "https://ci.example.com", "--password", "s3cret")
	require.ErrorIs(t, err, constants.ErrUsernameRequired)
}

func TestSavedPasswordRefreshesAndPersists(t *testing.T) {
	server := newFakeConcourse(t)
	path := useTempConfig(t)

	_, err := execute(NewLoginCommand(), "--url", server.URL, "--username", "admin", "--password", "s3cret", "--save-password")
	require.NoError(t, err)

	// Expire the saved session.
	config, err := loadConfigFile(path)
	require.NoError(t, err)

	target := config.Targets[constants.DefaultTargetName]
	assert.Equal(t, "s3cret", target.Password)
	target.Session.ExpiresAt = time.Now().Add(-time.Minute).Unix()
	require.NoError(t, saveConfigFile(path, config))

	_, err = execute(NewPipelinesCommand())
	require.NoError(t, err)
	assert.Equal(t, int32(2), server.tokenCalls.Load())

	config, err = loadConfigFile(path)
	require.NoError(t, err)

	refreshed := config.Targets[constants.DefaultTargetName].Session
	require.NotNil(t, refreshed)
	assert.Equal(t, "access-2", refreshed.AccessToken)
	assert.False(t, refreshed.Stale(time.Now()))
}

func TestExpiredSessionWithoutPassword(t *testing.T) {
	server := newFakeConcourse(t)
	path := useTempConfig(t)

	require.NoError(t, saveConfigFile(path, &Config{
		CurrentTarget: "ci",
		Targets: map[string]*Target{
			"ci": {
				URL:  server.URL,
				Team: "main",
				Session: &auth.State{
					AccessToken:   "access-old",
					TokenType:     "bearer",
					ExpiresAt:     time.Now().Add(-time.Hour).Unix(),
					IDToken:       "id-old",
					ServerVersion: "7.11.2",
				},
			},
		},
	}))

	_, err := execute(NewPipelinesCommand())
	require.ErrorIs(t, err, auth.ErrSessionExpired)
	assert.Equal(t, int32(0), server.tokenCalls.Load())
}

func TestLogout(t *testing.T) {
	path := useTempConfig(t)

	session := &auth.State{AccessToken: "a", TokenType: "bearer", ExpiresAt: 1, IDToken: "i", ServerVersion: "7.0.0"}
	require.NoError(t, saveConfigFile(path, &Config{
		CurrentTarget: "ci",
		Targets: map[string]*Target{
			"ci":      {URL: "https://ci.example.com", Team: "main", Password: "p", Session: session},
			"staging": {URL: "https://staging.example.com", Team: "main", Session: session},
		},
	}))

	out, err := execute(NewLogoutCommand())
	require.NoError(t, err)
	assert.Equal(t, "Logged out of ci\n", out)

	config, err := loadConfigFile(path)
	require.NoError(t, err)
	assert.Nil(t, config.Targets["ci"].Session)
	assert.Empty(t, config.Targets["ci"].Password)
	assert.NotNil(t, config.Targets["staging"].Session)

	_, err = execute(NewLogoutCommand(), "--all")
	require.NoError(t, err)

	config, err = loadConfigFile(path)
	require.NoError(t, err)
	assert.Nil(t, config.Targets["staging"].Session)
	assert.Equal(t, "https://staging.example.com", config.Targets["staging"].URL)
}
