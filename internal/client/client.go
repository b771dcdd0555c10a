package client

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/concourse-client/internal/auth"
	"github.com/fivetwenty-io/concourse-client/internal/constants"
	internalhttp "github.com/fivetwenty-io/concourse-client/internal/http"
	"github.com/fivetwenty-io/concourse-client/pkg/concourse"
)

// Static errors for err113 compliance.
var (
	ErrURLRequired             = errors.New("URL is required")
	ErrNoAuthenticator         = errors.New("no authenticator configured")
	ErrSessionStateUnavailable = errors.New("client does not hold a session")
)

// Client implements the concourse.Client interface.
type Client struct {
	httpClient    *internalhttp.Client
	authenticator auth.TokenManager
	baseURL       string
	logger        concourse.Logger
}

// newRetryableClient builds the retrying transport for config.
func newRetryableClient(config *concourse.Config) *retryablehttp.Client {
	retryable := internalhttp.NewRetryableClient()

	if config.HTTPTimeout > 0 {
		retryable.HTTPClient.Timeout = config.HTTPTimeout
	}

	if config.SkipTLSVerify {
		retryable.HTTPClient.Transport = &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, // #nosec G402 -- only reachable in development mode
		}
	}

	return retryable
}

// NewAuthTransport returns a client for authentication requests that shares
// the timeout, TLS and retry settings of config.
func NewAuthTransport(config *concourse.Config) *http.Client {
	return newRetryableClient(config).StandardClient()
}

// New creates a Concourse API client. config.URL must already be normalised.
func New(_ context.Context, config *concourse.Config) (*Client, error) {
	if config.URL == "" {
		return nil, ErrURLRequired
	}

	retryable := newRetryableClient(config)

	authenticator, err := createAuthenticator(config, retryable.StandardClient())
	if err != nil {
		return nil, err
	}

	return newClient(config, authenticator, retryable), nil
}

// NewWithAuthenticator creates a client that authenticates through tokenManager.
func NewWithAuthenticator(config *concourse.Config, tokenManager auth.TokenManager) (*Client, error) {
	if config.URL == "" {
		return nil, ErrURLRequired
	}

	if tokenManager == nil {
		return nil, ErrNoAuthenticator
	}

	return newClient(config, tokenManager, newRetryableClient(config)), nil
}

func newClient(config *concourse.Config, authenticator auth.TokenManager, retryable *retryablehttp.Client) *Client {
	// The retrying client is installed first so WithRetryConfig applies to it.
	httpOpts := append([]internalhttp.Option{internalhttp.WithHTTPClient(retryable)}, createHTTPClientOptions(config)...)

	return &Client{
		httpClient:    internalhttp.NewClient(config.URL, authenticator, httpOpts...),
		authenticator: authenticator,
		baseURL:       config.URL,
		logger:        config.Logger,
	}
}

// createAuthenticator picks the authenticator for the configured credentials.
// A static token wins over username and password; no credentials means no
// authentication.
func createAuthenticator(config *concourse.Config, transport *http.Client) (auth.TokenManager, error) {
	if config.AccessToken != "" {
		return auth.NewStaticAuthenticator(config.AccessToken), nil
	}

	if config.Username == "" {
		return nil, nil //nolint:nilnil // unauthenticated client
	}

	team := config.Team
	if team == "" {
		team = concourse.DefaultTeam
	}

	opts := []auth.Option{auth.WithHTTPClient(transport)}
	if config.Logger != nil {
		opts = append(opts, auth.WithLogger(config.Logger))
	}

	session, err := auth.NewSessionAuthenticator(
		auth.NewCredentials(config.URL, team, config.Username, config.Password),
		opts...,
	)
	if err != nil {
		return nil, err
	}

	return session, nil
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *concourse.Config) []internalhttp.Option {
	var httpOpts []internalhttp.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, internalhttp.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, internalhttp.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, internalhttp.WithUserAgent(config.UserAgent))
	}

	if config.Interceptors != nil {
		httpOpts = append(httpOpts, internalhttp.WithInterceptors(config.Interceptors))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, internalhttp.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return httpOpts
}

// GetTokenManager returns the authenticator, or nil for an unauthenticated client.
func (c *Client) GetTokenManager() auth.TokenManager {
	return c.authenticator
}

// Session returns the session authenticator when the client logs in with a
// username and password.
func (c *Client) Session() (*auth.SessionAuthenticator, error) {
	session, ok := c.authenticator.(*auth.SessionAuthenticator)
	if !ok {
		return nil, ErrSessionStateUnavailable
	}

	return session, nil
}

// Info implements concourse.Client.Info.
func (c *Client) Info(ctx context.Context) (*concourse.Info, error) {
	var info concourse.Info

	err := getJSON(ctx, c.httpClient, "/api/v1/info", nil, &info, "info")
	if err != nil {
		return nil, err
	}

	return &info, nil
}

// ListTeams implements concourse.Client.ListTeams.
func (c *Client) ListTeams(ctx context.Context) ([]concourse.Team, error) {
	var teams []concourse.Team

	err := getJSON(ctx, c.httpClient, "/api/v1/teams", nil, &teams, "teams")
	if err != nil {
		return nil, err
	}

	return teams, nil
}

// ListPipelines implements concourse.Client.ListPipelines.
func (c *Client) ListPipelines(ctx context.Context) ([]concourse.Pipeline, error) {
	var pipelines []concourse.Pipeline

	err := getJSON(ctx, c.httpClient, "/api/v1/pipelines", nil, &pipelines, "pipelines")
	if err != nil {
		return nil, err
	}

	return pipelines, nil
}

// ListBuilds implements concourse.Client.ListBuilds.
func (c *Client) ListBuilds(ctx context.Context, page *concourse.Page) ([]concourse.Build, error) {
	var builds []concourse.Build

	err := getJSON(ctx, c.httpClient, "/api/v1/builds", page.Values(), &builds, "builds")
	if err != nil {
		return nil, err
	}

	return builds, nil
}

// ListWorkers implements concourse.Client.ListWorkers.
func (c *Client) ListWorkers(ctx context.Context) ([]concourse.Worker, error) {
	var workers []concourse.Worker

	err := getJSON(ctx, c.httpClient, "/api/v1/workers", nil, &workers, "workers")
	if err != nil {
		return nil, err
	}

	return workers, nil
}

// Team implements concourse.Client.Team.
func (c *Client) Team(name string) concourse.TeamClient {
	return NewTeamClient(c.httpClient, name)
}

// Build implements concourse.Client.Build.
func (c *Client) Build(id int) concourse.BuildClient {
	return NewBuildClient(c.httpClient, id)
}

// Compile-time interface checks.
var _ concourse.Client = (*Client)(nil)

// segment escapes a single path segment.
func segment(value string) string {
	return url.PathEscape(value)
}

func itoa(value int) string {
	return strconv.Itoa(value)
}
