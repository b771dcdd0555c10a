package commands

import (
	"fmt"
	"io"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/fivetwenty-io/concourse-client/internal/auth"
	"github.com/fivetwenty-io/concourse-client/internal/client"
	"github.com/fivetwenty-io/concourse-client/internal/constants"
)

// readPassword prompts on w and reads a password from the terminal.
var readPassword = func(w io.Writer) (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", constants.ErrPasswordPrompt
	}

	_, _ = fmt.Fprint(w, "Password: ")

	bytePassword, err := term.ReadPassword(int(syscall.Stdin))

	_, _ = fmt.Fprintln(w)

	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	return string(bytePassword), nil
}

type loginOptions struct {
	url          string
	team         string
	username     string
	password     string
	savePassword bool
}

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	opts := &loginOptions{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to a Concourse target",
		Long: `Log in to a Concourse server and save the session as a target.

The server version decides the token protocol. The session is reused by later
commands until it expires; with --save-password it is refreshed automatically.`,
		Example: `  concourse login -t ci --url https://ci.example.com --username admin
  concourse login -t ci --team dev --username admin --password secret --save-password`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.url, "url", "u", "", "Concourse URL (required for a new target)")
	cmd.Flags().StringVarP(&opts.team, "team", "n", "", "team to log in to (default is main)")
	cmd.Flags().StringVar(&opts.username, "username", "", "username")
	cmd.Flags().StringVarP(&opts.password, "password", "p", "", "password (prompted if omitted)")
	cmd.Flags().BoolVar(&opts.savePassword, "save-password", false, "store the password so the session refreshes automatically")

	return cmd
}

func runLogin(cmd *cobra.Command, opts *loginOptions) error {
	config, path, err := loadConfig()
	if err != nil {
		return err
	}

	name := valueOr(viper.GetString("target"), valueOr(config.CurrentTarget, constants.DefaultTargetName))
	target := loginTarget(config.Targets[name], opts)

	if target.URL == "" {
		return constants.ErrTargetURLRequired
	}

	if target.Username == "" {
		return constants.ErrUsernameRequired
	}

	password := opts.password
	if password == "" {
		password, err = readPassword(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
	}

	logger := newLogger(cmd.ErrOrStderr(), viper.GetBool("verbose"))

	clientConfig, err := clientConfigFor(target, logger)
	if err != nil {
		return err
	}

	sessionAuth, err := auth.NewSessionAuthenticator(
		auth.NewCredentials(clientConfig.URL, clientConfig.Team, target.Username, password),
		auth.WithHTTPClient(client.NewAuthTransport(clientConfig)),
		auth.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	err = sessionAuth.RefreshToken(cmd.Context())
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	now := time.Now()
	target.Session = sessionAuth.State()
	target.LastRefreshed = &now

	if opts.savePassword {
		target.Password = password
	}

	config.Targets[name] = target
	config.CurrentTarget = name

	err = saveConfigFile(path, config)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s as %s on team %s (target %s, server %s)\n",
		target.URL, target.Username, target.Team, name, target.Session.ServerVersion)

	return nil
}

// loginTarget merges the flags over a previously saved target. The saved
// password and session are always dropped.
func loginTarget(existing *Target, opts *loginOptions) *Target {
	target := &Target{}
	if existing != nil {
		target.URL = existing.URL
		target.Team = existing.Team
		target.Username = existing.Username
		target.SkipSSLValidation = existing.SkipSSLValidation
	}

	target.URL = valueOr(opts.url, target.URL)
	target.Team = valueOr(opts.team, valueOr(target.Team, constants.DefaultTeam))
	target.Username = valueOr(opts.username, target.Username)
	target.SkipSSLValidation = target.SkipSSLValidation || viper.GetBool("skip_ssl_validation")

	return target
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Log out of a Concourse target",
		Long:  "Remove the saved session and password of the current target, or of every target with --all",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, path, err := loadConfig()
			if err != nil {
				return err
			}

			names := config.TargetNames()
			if !all {
				name, _, err := config.Lookup(viper.GetString("target"))
				if err != nil {
					return err
				}

				names = []string{name}
			}

			for _, name := range names {
				target := config.Targets[name]
				target.Session = nil
				target.Password = ""
				target.LastRefreshed = nil
			}

			err = saveConfigFile(path, config)
			if err != nil {
				return err
			}

			for _, name := range names {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged out of %s\n", name)
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "log out of every target")

	return cmd
}
