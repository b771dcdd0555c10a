package commands

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/concourse-client/internal/auth"
	"github.com/fivetwenty-io/concourse-client/internal/constants"
)

func sampleConfig() *Config {
	return &Config{
		CurrentTarget: "ci",
		Output:        constants.FormatJSON,
		Targets: map[string]*Target{
			"ci": {
				URL:      "https://ci.example.com",
				Team:     "main",
				Username: "admin",
				Password: "s3cret",
				Session: &auth.State{
					AccessToken:   "access",
					TokenType:     "bearer",
					ExpiresAt:     1709294400,
					IDToken:       "id",
					ServerVersion: "7.11.2",
				},
			},
			"staging": {URL: "https://staging.example.com", Team: "dev"},
		},
	}
}

func TestConfigFileRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.yml")

	empty, err := loadConfigFile(path)
	require.NoError(t, err)
	assert.NotNil(t, empty.Targets)
	assert.Empty(t, empty.Targets)

	require.NoError(t, saveConfigFile(path, sampleConfig()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(constants.ConfigFilePerm), info.Mode().Perm())

	loaded, err := loadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleConfig(), loaded)
}

func TestLoadConfigFile_Invalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("targets: [not, a, map"), constants.ConfigFilePerm))

	_, err := loadConfigFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestConfig_Lookup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		config   *Config
		lookup   string
		wantName string
		wantErr  error
	}{
		{name: "current target", config: sampleConfig(), wantName: "ci"},
		{name: "named target", config: sampleConfig(), lookup: "staging", wantName: "staging"},
		{name: "unknown target", config: sampleConfig(), lookup: "prod", wantErr: constants.ErrTargetNotFound},
		{name: "no targets", config: &Config{}, wantErr: constants.ErrNoTargetsConfigured},
		{
			name:    "no current target",
			config:  &Config{Targets: map[string]*Target{"ci": {URL: "https://ci.example.com"}}},
			wantErr: constants.ErrNoCurrentTarget,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			name, target, err := tt.config.Lookup(tt.lookup)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			assert.Same(t, tt.config.Targets[tt.wantName], target)
		})
	}
}

func TestConfig_Redacted(t *testing.T) {
	t.Parallel()

	config := sampleConfig()
	masked := config.redacted()

	assert.Equal(t, constants.MaskedSecret, masked.Targets["ci"].Password)
	assert.Equal(t, constants.MaskedSecret, masked.Targets["ci"].Session.AccessToken)
	assert.Equal(t, constants.MaskedSecret, masked.Targets["ci"].Session.IDToken)
	assert.Equal(t, "7.11.2", masked.Targets["ci"].Session.ServerVersion)
	assert.Empty(t, masked.Targets["staging"].Password)

	// The original is untouched.
	assert.Equal(t, "s3cret", config.Targets["ci"].Password)
	assert.Equal(t, "access", config.Targets["ci"].Session.AccessToken)
}

func TestSetAndUnsetConfigValue(t *testing.T) {
	t.Parallel()

	config := sampleConfig()

	require.NoError(t, setConfigValue(config, keyOutput, constants.FormatYAML))
	assert.Equal(t, constants.FormatYAML, config.Output)

	require.ErrorIs(t, setConfigValue(config, keyOutput, "xml"), constants.ErrInvalidOutputFormat)

	require.NoError(t, setConfigValue(config, keyCurrentTarget, "staging"))
	assert.Equal(t, "staging", config.CurrentTarget)

	require.ErrorIs(t, setConfigValue(config, keyCurrentTarget, "prod"), constants.ErrTargetNotFound)
	require.ErrorIs(t, setConfigValue(config, "color", "on"), constants.ErrUnknownConfigKey)

	require.NoError(t, unsetConfigValue(config, keyOutput))
	assert.Empty(t, config.Output)

	require.NoError(t, unsetConfigValue(config, keyCurrentTarget))
	assert.Empty(t, config.CurrentTarget)

	require.ErrorIs(t, unsetConfigValue(config, "color"), constants.ErrUnknownConfigKey)
}

func TestConfigPersister_SaveState(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, saveConfigFile(path, sampleConfig()))

	refreshedAt := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	persister := NewConfigPersister(path)
	persister.now = func() time.Time { return refreshedAt }

	state := auth.State{
		AccessToken:   "access-2",
		TokenType:     "bearer",
		ExpiresAt:     1709298000,
		IDToken:       "id-2",
		ServerVersion: "7.11.2",
	}

	require.NoError(t, persister.SaveState("ci", state))

	loaded, err := loadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, state, *loaded.Targets["ci"].Session)
	require.NotNil(t, loaded.Targets["ci"].LastRefreshed)
	assert.True(t, refreshedAt.Equal(*loaded.Targets["ci"].LastRefreshed))
	assert.Equal(t, "s3cret", loaded.Targets["ci"].Password)
	assert.Nil(t, loaded.Targets["staging"].Session)

	require.ErrorIs(t, persister.SaveState("prod", state), constants.ErrTargetNotFound)
}

func TestConfigCommands(t *testing.T) {
	path := useTempConfig(t)
	require.NoError(t, saveConfigFile(path, sampleConfig()))

	out, err := execute(NewConfigCommand(), "set", "output", "yaml")
	require.NoError(t, err)
	assert.Equal(t, "Set output to yaml\n", out)

	viper.Set("output", constants.FormatJSON)

	out, err = execute(NewConfigCommand(), "show")
	require.NoError(t, err)
	assert.Contains(t, out, `"url": "https://ci.example.com"`)
	assert.Contains(t, out, `"password": "***"`)
	assert.NotContains(t, out, "s3cret")

	out, err = execute(NewTargetCommand(), "staging")
	require.NoError(t, err)
	assert.Equal(t, "Switched to target staging\n", out)

	out, err = execute(NewTargetCommand())
	require.NoError(t, err)
	assert.Equal(t, "staging: https://staging.example.com (team dev)\n", out)

	_, err = execute(NewConfigCommand(), "unset", "current_target")
	require.NoError(t, err)

	config, err := loadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, constants.FormatYAML, config.Output)
	assert.Empty(t, config.CurrentTarget)
}
