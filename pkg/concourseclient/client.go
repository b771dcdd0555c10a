package concourseclient

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fivetwenty-io/concourse-client/internal/client"
	"github.com/fivetwenty-io/concourse-client/internal/constants"
	"github.com/fivetwenty-io/concourse-client/pkg/concourse"
)

// New creates a new Concourse API client. No request is sent until the first
// API call; with a username and password the session is established then.
func New(ctx context.Context, config *concourse.Config) (concourse.Client, error) {
	if config == nil {
		return nil, concourse.ErrConfigRequired
	}

	err := validate(config)
	if err != nil {
		return nil, err
	}

	normalized := *config
	normalized.URL = NormalizeURL(config.URL)

	if normalized.Team == "" {
		normalized.Team = concourse.DefaultTeam
	}

	c, err := client.New(ctx, &normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return c, nil
}

func validate(config *concourse.Config) error {
	if strings.TrimSpace(config.URL) == "" {
		return concourse.ErrURLRequired
	}

	if config.AccessToken == "" && config.Username != "" && config.Password == "" {
		return concourse.ErrPasswordRequired
	}

	if config.SkipTLSVerify && !IsDevelopmentEnvironment() {
		return fmt.Errorf("%w (set %s=true)", concourse.ErrSkipTLSOnlyInDev, constants.EnvDevMode)
	}

	return nil
}

// NormalizeURL trims trailing slashes and defaults the scheme to https.
func NormalizeURL(raw string) string {
	normalized := strings.TrimRight(strings.TrimSpace(raw), "/")
	if !strings.HasPrefix(normalized, "http://") && !strings.HasPrefix(normalized, "https://") {
		normalized = "https://" + normalized
	}

	return normalized
}

// IsDevelopmentEnvironment checks if we're in a development environment.
func IsDevelopmentEnvironment() bool {
	devMode := os.Getenv(constants.EnvDevMode)

	return devMode == constants.BooleanTrue || devMode == constants.BooleanOne
}

// NewWithEndpoint creates a new client with just a URL (no auth).
func NewWithEndpoint(ctx context.Context, endpoint string) (concourse.Client, error) {
	return New(ctx, &concourse.Config{
		URL: endpoint,
	})
}

// NewWithToken creates a new client with a URL and a pre-issued access token.
func NewWithToken(ctx context.Context, endpoint, token string) (concourse.Client, error) {
	return New(ctx, &concourse.Config{
		URL:         endpoint,
		AccessToken: token,
	})
}

// NewWithPassword creates a new client using username/password authentication
// against the main team.
func NewWithPassword(ctx context.Context, endpoint, username, password string) (concourse.Client, error) {
	return New(ctx, &concourse.Config{
		URL:      endpoint,
		Username: username,
		Password: password,
	})
}
