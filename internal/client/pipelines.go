package client

import (
	"context"
	"encoding/json"
	"fmt"

	internalhttp "github.com/fivetwenty-io/concourse-client/internal/http"
	"github.com/fivetwenty-io/concourse-client/pkg/concourse"
)

// ConfigVersionHeader carries the version of a pipeline configuration.
const ConfigVersionHeader = "X-Concourse-Config-Version"

// PipelineClient implements concourse.PipelineClient.
type PipelineClient struct {
	httpClient *internalhttp.Client
	team       string
	name       string
}

// NewPipelineClient creates a client scoped to pipeline name of team.
func NewPipelineClient(httpClient *internalhttp.Client, team, name string) *PipelineClient {
	return &PipelineClient{
		httpClient: httpClient,
		team:       team,
		name:       name,
	}
}

func (c *PipelineClient) path() (string, error) {
	if c.team == "" {
		return "", concourse.ErrTeamNameRequired
	}

	if c.name == "" {
		return "", concourse.ErrPipelineNameRequired
	}

	return "/api/v1/teams/" + segment(c.team) + "/pipelines/" + segment(c.name), nil
}

// Get implements concourse.PipelineClient.Get.
func (c *PipelineClient) Get(ctx context.Context) (*concourse.Pipeline, error) {
	base, err := c.path()
	if err != nil {
		return nil, err
	}

	var pipeline concourse.Pipeline

	err = getJSON(ctx, c.httpClient, base, nil, &pipeline, "pipeline")
	if err != nil {
		return nil, err
	}

	return &pipeline, nil
}

// Config implements concourse.PipelineClient.Config.
func (c *PipelineClient) Config(ctx context.Context) (*concourse.PipelineConfig, error) {
	base, err := c.path()
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, base+"/config", nil)
	if err != nil {
		return nil, fmt.Errorf("getting pipeline config: %w", err)
	}

	var config concourse.PipelineConfig

	err = json.Unmarshal(resp.Body, &config)
	if err != nil {
		return nil, fmt.Errorf("parsing pipeline config: %w", err)
	}

	config.Version = resp.Headers.Get(ConfigVersionHeader)

	return &config, nil
}

// Pause implements concourse.PipelineClient.Pause.
func (c *PipelineClient) Pause(ctx context.Context) error {
	return c.action(ctx, "pause", "pausing pipeline")
}

// Unpause implements concourse.PipelineClient.Unpause.
func (c *PipelineClient) Unpause(ctx context.Context) error {
	return c.action(ctx, "unpause", "unpausing pipeline")
}

// Expose implements concourse.PipelineClient.Expose.
func (c *PipelineClient) Expose(ctx context.Context) error {
	return c.action(ctx, "expose", "exposing pipeline")
}

// Hide implements concourse.PipelineClient.Hide.
func (c *PipelineClient) Hide(ctx context.Context) error {
	return c.action(ctx, "hide", "hiding pipeline")
}

func (c *PipelineClient) action(ctx context.Context, name, description string) error {
	base, err := c.path()
	if err != nil {
		return err
	}

	return put(ctx, c.httpClient, base+"/"+name, description)
}

// Delete implements concourse.PipelineClient.Delete.
func (c *PipelineClient) Delete(ctx context.Context) error {
	base, err := c.path()
	if err != nil {
		return err
	}

	_, err = c.httpClient.Delete(ctx, base)
	if err != nil {
		return fmt.Errorf("deleting pipeline: %w", err)
	}

	return nil
}

// ListJobs implements concourse.PipelineClient.ListJobs.
func (c *PipelineClient) ListJobs(ctx context.Context) ([]concourse.Job, error) {
	base, err := c.path()
	if err != nil {
		return nil, err
	}

	var jobs []concourse.Job

	err = getJSON(ctx, c.httpClient, base+"/jobs", nil, &jobs, "jobs")
	if err != nil {
		return nil, err
	}

	return jobs, nil
}

// ListResources implements concourse.PipelineClient.ListResources.
func (c *PipelineClient) ListResources(ctx context.Context) ([]concourse.Resource, error) {
	base, err := c.path()
	if err != nil {
		return nil, err
	}

	var resources []concourse.Resource

	err = getJSON(ctx, c.httpClient, base+"/resources", nil, &resources, "resources")
	if err != nil {
		return nil, err
	}

	return resources, nil
}

// ListBuilds implements concourse.PipelineClient.ListBuilds.
func (c *PipelineClient) ListBuilds(ctx context.Context, page *concourse.Page) ([]concourse.Build, error) {
	base, err := c.path()
	if err != nil {
		return nil, err
	}

	var builds []concourse.Build

	err = getJSON(ctx, c.httpClient, base+"/builds", page.Values(), &builds, "pipeline builds")
	if err != nil {
		return nil, err
	}

	return builds, nil
}

// Job implements concourse.PipelineClient.Job.
func (c *PipelineClient) Job(name string) concourse.JobClient {
	return NewJobClient(c.httpClient, c.team, c.name, name)
}

// Resource implements concourse.PipelineClient.Resource.
func (c *PipelineClient) Resource(name string) concourse.ResourceClient {
	return NewResourceClient(c.httpClient, c.team, c.name, name)
}

var _ concourse.PipelineClient = (*PipelineClient)(nil)
