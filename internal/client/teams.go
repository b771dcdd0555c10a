package client

import (
	"context"

	internalhttp "github.com/fivetwenty-io/concourse-client/internal/http"
	"github.com/fivetwenty-io/concourse-client/pkg/concourse"
)

// TeamClient implements concourse.TeamClient.
type TeamClient struct {
	httpClient *internalhttp.Client
	name       string
}

// NewTeamClient creates a client scoped to team name.
func NewTeamClient(httpClient *internalhttp.Client, name string) *TeamClient {
	return &TeamClient{
		httpClient: httpClient,
		name:       name,
	}
}

// Name implements concourse.TeamClient.Name.
func (c *TeamClient) Name() string {
	return c.name
}

func (c *TeamClient) path() (string, error) {
	if c.name == "" {
		return "", concourse.ErrTeamNameRequired
	}

	return "/api/v1/teams/" + segment(c.name), nil
}

// ListPipelines implements concourse.TeamClient.ListPipelines.
func (c *TeamClient) ListPipelines(ctx context.Context) ([]concourse.Pipeline, error) {
	base, err := c.path()
	if err != nil {
		return nil, err
	}

	var pipelines []concourse.Pipeline

	err = getJSON(ctx, c.httpClient, base+"/pipelines", nil, &pipelines, "team pipelines")
	if err != nil {
		return nil, err
	}

	return pipelines, nil
}

// ListBuilds implements concourse.TeamClient.ListBuilds.
func (c *TeamClient) ListBuilds(ctx context.Context, page *concourse.Page) ([]concourse.Build, error) {
	base, err := c.path()
	if err != nil {
		return nil, err
	}

	var builds []concourse.Build

	err = getJSON(ctx, c.httpClient, base+"/builds", page.Values(), &builds, "team builds")
	if err != nil {
		return nil, err
	}

	return builds, nil
}

// Pipeline implements concourse.TeamClient.Pipeline.
func (c *TeamClient) Pipeline(name string) concourse.PipelineClient {
	return NewPipelineClient(c.httpClient, c.name, name)
}

var _ concourse.TeamClient = (*TeamClient)(nil)
