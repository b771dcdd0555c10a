package client

import (
	"context"
	"encoding/json"
	"fmt"

	internalhttp "github.com/fivetwenty-io/concourse-client/internal/http"
	"github.com/fivetwenty-io/concourse-client/pkg/concourse"
)

// ResourceClient implements concourse.ResourceClient.
type ResourceClient struct {
	pipeline *PipelineClient
	name     string
}

// NewResourceClient creates a client scoped to resource name of a pipeline.
func NewResourceClient(httpClient *internalhttp.Client, team, pipeline, name string) *ResourceClient {
	return &ResourceClient{
		pipeline: NewPipelineClient(httpClient, team, pipeline),
		name:     name,
	}
}

func (c *ResourceClient) path() (string, error) {
	base, err := c.pipeline.path()
	if err != nil {
		return "", err
	}

	if c.name == "" {
		return "", concourse.ErrResourceNameRequired
	}

	return base + "/resources/" + segment(c.name), nil
}

// Get implements concourse.ResourceClient.Get.
func (c *ResourceClient) Get(ctx context.Context) (*concourse.Resource, error) {
	base, err := c.path()
	if err != nil {
		return nil, err
	}

	var resource concourse.Resource

	err = getJSON(ctx, c.pipeline.httpClient, base, nil, &resource, "resource")
	if err != nil {
		return nil, err
	}

	return &resource, nil
}

// ListVersions implements concourse.ResourceClient.ListVersions.
func (c *ResourceClient) ListVersions(ctx context.Context, page *concourse.Page) ([]concourse.ResourceVersion, error) {
	base, err := c.path()
	if err != nil {
		return nil, err
	}

	var versions []concourse.ResourceVersion

	err = getJSON(ctx, c.pipeline.httpClient, base+"/versions", page.Values(), &versions, "resource versions")
	if err != nil {
		return nil, err
	}

	return versions, nil
}

// checkRequest is the body of a resource check.
type checkRequest struct {
	From map[string]string `json:"from"`
}

// Check implements concourse.ResourceClient.Check.
func (c *ResourceClient) Check(ctx context.Context, version map[string]string) (*concourse.Build, error) {
	base, err := c.path()
	if err != nil {
		return nil, err
	}

	resp, err := c.pipeline.httpClient.Post(ctx, base+"/check", &checkRequest{From: version})
	if err != nil {
		return nil, fmt.Errorf("checking resource: %w", err)
	}

	var build concourse.Build

	err = json.Unmarshal(resp.Body, &build)
	if err != nil {
		return nil, fmt.Errorf("parsing check build: %w", err)
	}

	return &build, nil
}

// Version implements concourse.ResourceClient.Version.
func (c *ResourceClient) Version(id int) concourse.VersionClient {
	return &VersionClient{resource: c, id: id}
}

// VersionClient implements concourse.VersionClient.
type VersionClient struct {
	resource *ResourceClient
	id       int
}

func (c *VersionClient) list(ctx context.Context, relation, what string) ([]concourse.Build, error) {
	base, err := c.resource.path()
	if err != nil {
		return nil, err
	}

	var builds []concourse.Build

	err = getJSON(ctx, c.resource.pipeline.httpClient, base+"/versions/"+itoa(c.id)+"/"+relation, nil, &builds, what)
	if err != nil {
		return nil, err
	}

	return builds, nil
}

// InputTo implements concourse.VersionClient.InputTo.
func (c *VersionClient) InputTo(ctx context.Context) ([]concourse.Build, error) {
	return c.list(ctx, "input_to", "builds using version")
}

// OutputOf implements concourse.VersionClient.OutputOf.
func (c *VersionClient) OutputOf(ctx context.Context) ([]concourse.Build, error) {
	return c.list(ctx, "output_of", "builds producing version")
}

var (
	_ concourse.ResourceClient = (*ResourceClient)(nil)
	_ concourse.VersionClient  = (*VersionClient)(nil)
)
