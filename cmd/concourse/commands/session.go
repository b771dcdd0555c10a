package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/concourse-client/internal/auth"
	"github.com/fivetwenty-io/concourse-client/internal/client"
	"github.com/fivetwenty-io/concourse-client/internal/constants"
	"github.com/fivetwenty-io/concourse-client/pkg/concourse"
	"github.com/fivetwenty-io/concourse-client/pkg/concourseclient"
)

// stateHolder is implemented by authenticators that hold a session.
type stateHolder interface {
	State() *auth.State
}

// session is an API client bound to a saved target.
type session struct {
	name    string
	target  *Target
	client  *client.Client
	manager auth.TokenManager
}

// team returns a client scoped to the target's team.
func (s *session) team() concourse.TeamClient {
	return s.client.Team(valueOr(s.target.Team, constants.DefaultTeam))
}

// state resolves the current session, refreshing it first if possible.
func (s *session) state(ctx context.Context) (*auth.State, error) {
	holder, ok := s.manager.(stateHolder)
	if !ok {
		return nil, constants.ErrNoSession
	}

	_, err := s.manager.GetToken(ctx)
	if err != nil {
		return nil, err
	}

	return holder.State(), nil
}

// openSession loads the selected target and builds a client for it.
func openSession(cmd *cobra.Command) (*session, error) {
	config, path, err := loadConfig()
	if err != nil {
		return nil, err
	}

	name, target, err := config.Lookup(viper.GetString("target"))
	if err != nil {
		return nil, err
	}

	logger := newLogger(cmd.ErrOrStderr(), viper.GetBool("verbose"))

	clientConfig, err := clientConfigFor(target, logger)
	if err != nil {
		return nil, err
	}

	manager, err := authenticatorFor(name, target, clientConfig, path, logger)
	if err != nil {
		return nil, err
	}

	var api *client.Client
	if manager == nil {
		api, err = client.New(cmd.Context(), clientConfig)
	} else {
		api, err = client.NewWithAuthenticator(clientConfig, manager)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create client for target %s: %w", name, err)
	}

	return &session{name: name, target: target, client: api, manager: manager}, nil
}

// clientConfigFor builds the library configuration for target.
func clientConfigFor(target *Target, logger concourse.Logger) (*concourse.Config, error) {
	skipTLS := target.SkipSSLValidation || viper.GetBool("skip_ssl_validation")
	if skipTLS && !concourseclient.IsDevelopmentEnvironment() {
		return nil, fmt.Errorf("%w (set %s=true)", concourse.ErrSkipTLSOnlyInDev, constants.EnvDevMode)
	}

	return &concourse.Config{
		URL:           concourseclient.NormalizeURL(target.URL),
		Team:          valueOr(target.Team, constants.DefaultTeam),
		Logger:        logger,
		Debug:         viper.GetBool("verbose"),
		SkipTLSVerify: skipTLS,
	}, nil
}

// authenticatorFor picks how requests to target are authenticated: an explicit
// --token, a refreshable session when the password was saved, the saved
// session alone, or nothing.
func authenticatorFor(name string, target *Target, config *concourse.Config, path string, logger concourse.Logger) (auth.TokenManager, error) {
	if token := viper.GetString("token"); token != "" {
		return auth.NewStaticAuthenticator(token), nil
	}

	if target.Password != "" {
		sessionAuth, err := auth.NewSessionAuthenticator(
			auth.NewCredentials(config.URL, config.Team, target.Username, target.Password),
			auth.WithHTTPClient(client.NewAuthTransport(config)),
			auth.WithLogger(logger),
		)
		if err != nil {
			return nil, err
		}

		if target.Session != nil {
			sessionAuth.SetState(*target.Session)
		}

		return auth.NewPersistingAuthenticator(sessionAuth, NewConfigPersister(path), name, logger), nil
	}

	if target.Session != nil {
		return auth.NewSavedSessionAuthenticator(*target.Session), nil
	}

	return nil, nil //nolint:nilnil // unauthenticated target
}
