package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/concourse-client/internal/auth"
	"github.com/fivetwenty-io/concourse-client/internal/constants"
)

const (
	keyOutput        = "output"
	keyCurrentTarget = "current_target"
)

// Config represents the CLI configuration file.
type Config struct {
	Targets       map[string]*Target `json:"targets,omitempty"        yaml:"targets,omitempty"`
	CurrentTarget string             `json:"current_target,omitempty" yaml:"current_target,omitempty"`
	Output        string             `json:"output,omitempty"         yaml:"output,omitempty"`
}

// Target is a saved Concourse server and the session obtained for it.
type Target struct {
	URL      string `json:"url"                yaml:"url"`
	Team     string `json:"team"               yaml:"team"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	// Password is only stored by "login --save-password"; with it the session
	// is refreshed automatically.
	Password          string      `json:"password,omitempty"       yaml:"password,omitempty"`
	Session           *auth.State `json:"session,omitempty"        yaml:"session,omitempty"`
	LastRefreshed     *time.Time  `json:"last_refreshed,omitempty" yaml:"last_refreshed,omitempty"`
	SkipSSLValidation bool        `json:"skip_ssl_validation"      yaml:"skip_ssl_validation"`
}

// Lookup returns the named target, or the current one when name is empty.
func (c *Config) Lookup(name string) (string, *Target, error) {
	if name == "" {
		name = c.CurrentTarget
	}

	if name == "" {
		if len(c.Targets) == 0 {
			return "", nil, constants.ErrNoTargetsConfigured
		}

		return "", nil, constants.ErrNoCurrentTarget
	}

	target, ok := c.Targets[name]
	if !ok {
		return "", nil, fmt.Errorf("%w: %s", constants.ErrTargetNotFound, name)
	}

	return name, target, nil
}

// TargetNames returns the target names in sorted order.
func (c *Config) TargetNames() []string {
	names := make([]string, 0, len(c.Targets))
	for name := range c.Targets {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// redacted returns a copy safe to print.
func (c *Config) redacted() *Config {
	out := &Config{
		Targets:       make(map[string]*Target, len(c.Targets)),
		CurrentTarget: c.CurrentTarget,
		Output:        c.Output,
	}

	for name, target := range c.Targets {
		masked := *target
		if masked.Password != "" {
			masked.Password = constants.MaskedSecret
		}

		if masked.Session != nil {
			session := *masked.Session
			session.AccessToken = constants.MaskedSecret
			session.IDToken = constants.MaskedSecret
			masked.Session = &session
		}

		out.Targets[name] = &masked
	}

	return out
}

// configPath returns the config file in use.
func configPath() (string, error) {
	if path := viper.GetString("config"); path != "" {
		return path, nil
	}

	if used := viper.ConfigFileUsed(); used != "" {
		return used, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, constants.ConfigDirName, constants.ConfigFileName), nil
}

// loadConfig reads the config file in use.
func loadConfig() (*Config, string, error) {
	path, err := configPath()
	if err != nil {
		return nil, "", err
	}

	config, err := loadConfigFile(path)
	if err != nil {
		return nil, "", err
	}

	return config, path, nil
}

// loadConfigFile reads path. A missing file is an empty config.
func loadConfigFile(path string) (*Config, error) {
	config := &Config{}

	// path is the user's own config file
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if len(data) > 0 {
		err = yaml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if config.Targets == nil {
		config.Targets = make(map[string]*Target)
	}

	return config, nil
}

// saveConfigFile writes config to path with owner-only permissions.
func saveConfigFile(path string, config *Config) error {
	err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show and change the CLI configuration file",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the CLI configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, path, err := loadConfig()
			if err != nil {
				return err
			}

			masked := config.redacted()

			return render(cmd.OutOrStdout(), outputFormat(), masked, func(table *tablewriter.Table) {
				table.Header("Property", "Value")
				_ = table.Append("Config File", path)
				_ = table.Append("Current Target", valueOr(masked.CurrentTarget, constants.None))
				_ = table.Append("Output", valueOr(masked.Output, constants.FormatTable))

				for _, name := range masked.TargetNames() {
					target := masked.Targets[name]
					_ = table.Append("Target "+name, target.URL+" (team "+target.Team+")")
				}
			})
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value. Keys: output, current_target",
		Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
		RunE: func(cmd *cobra.Command, args []string) error {
			config, path, err := loadConfig()
			if err != nil {
				return err
			}

			err = setConfigValue(config, args[0], args[1])
			if err != nil {
				return err
			}

			err = saveConfigFile(path, config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s to %s\n", args[0], args[1])

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a configuration value. Keys: output, current_target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, path, err := loadConfig()
			if err != nil {
				return err
			}

			err = unsetConfigValue(config, args[0])
			if err != nil {
				return err
			}

			err = saveConfigFile(path, config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", args[0])

			return nil
		},
	}
}

func setConfigValue(config *Config, key, value string) error {
	switch key {
	case keyOutput:
		if !slices.Contains([]string{constants.FormatTable, constants.FormatJSON, constants.FormatYAML}, value) {
			return fmt.Errorf("%w: %s", constants.ErrInvalidOutputFormat, value)
		}

		config.Output = value
	case keyCurrentTarget:
		if _, ok := config.Targets[value]; !ok {
			return fmt.Errorf("%w: %s", constants.ErrTargetNotFound, value)
		}

		config.CurrentTarget = value
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	return nil
}

func unsetConfigValue(config *Config, key string) error {
	switch key {
	case keyOutput:
		config.Output = ""
	case keyCurrentTarget:
		config.CurrentTarget = ""
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	return nil
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}
