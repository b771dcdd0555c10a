package client

import (
	"context"
	"encoding/json"
	"fmt"

	internalhttp "github.com/fivetwenty-io/concourse-client/internal/http"
	"github.com/fivetwenty-io/concourse-client/pkg/concourse"
)

// JobClient implements concourse.JobClient.
type JobClient struct {
	pipeline *PipelineClient
	name     string
}

// NewJobClient creates a client scoped to job name of a pipeline.
func NewJobClient(httpClient *internalhttp.Client, team, pipeline, name string) *JobClient {
	return &JobClient{
		pipeline: NewPipelineClient(httpClient, team, pipeline),
		name:     name,
	}
}

func (c *JobClient) path() (string, error) {
	base, err := c.pipeline.path()
	if err != nil {
		return "", err
	}

	if c.name == "" {
		return "", concourse.ErrJobNameRequired
	}

	return base + "/jobs/" + segment(c.name), nil
}

// Get implements concourse.JobClient.Get.
func (c *JobClient) Get(ctx context.Context) (*concourse.Job, error) {
	base, err := c.path()
	if err != nil {
		return nil, err
	}

	var job concourse.Job

	err = getJSON(ctx, c.pipeline.httpClient, base, nil, &job, "job")
	if err != nil {
		return nil, err
	}

	return &job, nil
}

// ListBuilds implements concourse.JobClient.ListBuilds.
func (c *JobClient) ListBuilds(ctx context.Context, page *concourse.Page) ([]concourse.Build, error) {
	base, err := c.path()
	if err != nil {
		return nil, err
	}

	var builds []concourse.Build

	err = getJSON(ctx, c.pipeline.httpClient, base+"/builds", page.Values(), &builds, "job builds")
	if err != nil {
		return nil, err
	}

	return builds, nil
}

// GetBuild implements concourse.JobClient.GetBuild.
func (c *JobClient) GetBuild(ctx context.Context, name string) (*concourse.Build, error) {
	base, err := c.path()
	if err != nil {
		return nil, err
	}

	var build concourse.Build

	err = getJSON(ctx, c.pipeline.httpClient, base+"/builds/"+segment(name), nil, &build, "job build")
	if err != nil {
		return nil, err
	}

	return &build, nil
}

// Trigger implements concourse.JobClient.Trigger.
func (c *JobClient) Trigger(ctx context.Context) (*concourse.Build, error) {
	base, err := c.path()
	if err != nil {
		return nil, err
	}

	resp, err := c.pipeline.httpClient.Post(ctx, base+"/builds", nil)
	if err != nil {
		return nil, fmt.Errorf("triggering job: %w", err)
	}

	var build concourse.Build

	err = json.Unmarshal(resp.Body, &build)
	if err != nil {
		return nil, fmt.Errorf("parsing triggered build: %w", err)
	}

	return &build, nil
}

// Pause implements concourse.JobClient.Pause.
func (c *JobClient) Pause(ctx context.Context) error {
	base, err := c.path()
	if err != nil {
		return err
	}

	return put(ctx, c.pipeline.httpClient, base+"/pause", "pausing job")
}

// Unpause implements concourse.JobClient.Unpause.
func (c *JobClient) Unpause(ctx context.Context) error {
	base, err := c.path()
	if err != nil {
		return err
	}

	return put(ctx, c.pipeline.httpClient, base+"/unpause", "unpausing job")
}

var _ concourse.JobClient = (*JobClient)(nil)
