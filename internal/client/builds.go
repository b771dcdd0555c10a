package client

import (
	"context"

	internalhttp "github.com/fivetwenty-io/concourse-client/internal/http"
	"github.com/fivetwenty-io/concourse-client/pkg/concourse"
)

// BuildClient implements concourse.BuildClient.
type BuildClient struct {
	httpClient *internalhttp.Client
	id         int
}

// NewBuildClient creates a client scoped to build id.
func NewBuildClient(httpClient *internalhttp.Client, id int) *BuildClient {
	return &BuildClient{
		httpClient: httpClient,
		id:         id,
	}
}

func (c *BuildClient) path() string {
	return "/api/v1/builds/" + itoa(c.id)
}

// Get implements concourse.BuildClient.Get.
func (c *BuildClient) Get(ctx context.Context) (*concourse.Build, error) {
	var build concourse.Build

	err := getJSON(ctx, c.httpClient, c.path(), nil, &build, "build")
	if err != nil {
		return nil, err
	}

	return &build, nil
}

// Abort implements concourse.BuildClient.Abort.
func (c *BuildClient) Abort(ctx context.Context) error {
	return put(ctx, c.httpClient, c.path()+"/abort", "aborting build")
}

// Resources implements concourse.BuildClient.Resources.
func (c *BuildClient) Resources(ctx context.Context) (*concourse.BuildInputsOutputs, error) {
	var resources concourse.BuildInputsOutputs

	err := getJSON(ctx, c.httpClient, c.path()+"/resources", nil, &resources, "build resources")
	if err != nil {
		return nil, err
	}

	return &resources, nil
}

var _ concourse.BuildClient = (*BuildClient)(nil)
