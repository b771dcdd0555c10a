package concourse

import (
	"context"
	"time"
)

// DefaultTeam is the team used when Config.Team is empty.
const DefaultTeam = "main"

// Client is the root of the resource hierarchy: system → team → pipeline → job/resource → build/version.
type Client interface {
	// Info returns the server version metadata from /api/v1/info.
	Info(ctx context.Context) (*Info, error)
	ListTeams(ctx context.Context) ([]Team, error)
	// ListPipelines lists the pipelines visible to the caller across all teams.
	ListPipelines(ctx context.Context) ([]Pipeline, error)
	ListBuilds(ctx context.Context, page *Page) ([]Build, error)
	ListWorkers(ctx context.Context) ([]Worker, error)

	Team(name string) TeamClient
	Build(id int) BuildClient
}

// TeamClient scopes requests to a single team.
type TeamClient interface {
	Name() string
	ListPipelines(ctx context.Context) ([]Pipeline, error)
	ListBuilds(ctx context.Context, page *Page) ([]Build, error)
	Pipeline(name string) PipelineClient
}

// PipelineClient scopes requests to a single pipeline of a team.
type PipelineClient interface {
	Get(ctx context.Context) (*Pipeline, error)
	Config(ctx context.Context) (*PipelineConfig, error)
	Pause(ctx context.Context) error
	Unpause(ctx context.Context) error
	Expose(ctx context.Context) error
	Hide(ctx context.Context) error
	Delete(ctx context.Context) error
	ListJobs(ctx context.Context) ([]Job, error)
	ListResources(ctx context.Context) ([]Resource, error)
	ListBuilds(ctx context.Context, page *Page) ([]Build, error)

	Job(name string) JobClient
	Resource(name string) ResourceClient
}

// JobClient scopes requests to a single job of a pipeline.
type JobClient interface {
	Get(ctx context.Context) (*Job, error)
	ListBuilds(ctx context.Context, page *Page) ([]Build, error)
	GetBuild(ctx context.Context, name string) (*Build, error)
	// Trigger creates a new build of the job.
	Trigger(ctx context.Context) (*Build, error)
	Pause(ctx context.Context) error
	Unpause(ctx context.Context) error
}

// ResourceClient scopes requests to a single resource of a pipeline.
type ResourceClient interface {
	Get(ctx context.Context) (*Resource, error)
	ListVersions(ctx context.Context, page *Page) ([]ResourceVersion, error)
	// Check asks the server to check the resource, optionally starting from version.
	Check(ctx context.Context, version map[string]string) (*Build, error)
	Version(id int) VersionClient
}

// VersionClient scopes requests to a single version of a resource.
type VersionClient interface {
	InputTo(ctx context.Context) ([]Build, error)
	OutputOf(ctx context.Context) ([]Build, error)
}

// BuildClient scopes requests to a single build.
type BuildClient interface {
	Get(ctx context.Context) (*Build, error)
	Abort(ctx context.Context) error
	Resources(ctx context.Context) (*BuildInputsOutputs, error)
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a concourse.Client.
//
// # Authentication
//
//  1. AccessToken: used directly as a static Bearer token and never refreshed.
//  2. Username/Password: a session is established lazily on the first request.
//     The server version is probed from /api/v1/info and the matching token
//     protocol is used (team token endpoint before 4.0.0, /sky/token before
//     6.1.0, /sky/issuer/token afterwards). Tokens are refreshed ten minutes
//     before they expire.
//  3. No credentials: requests are sent without authentication.
type Config struct {
	// URL is the base URL of the server (e.g., "https://ci.example.com").
	// concourseclient.New trims a trailing slash and adds "https://" if no
	// scheme is present.
	URL string
	// Team is the team used for legacy token requests. Defaults to "main".
	Team string

	Username string
	Password string
	// AccessToken, if set, is sent as "Authorization: Bearer <token>".
	AccessToken string

	// HTTPTimeout bounds each HTTP attempt. Zero uses the default.
	HTTPTimeout time.Duration
	// RetryMax is the maximum number of retries for transient failures (>=500,
	// 429 and connection errors). Zero uses the default.
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// Debug enables request/response logging when a Logger is provided.
	Debug  bool
	Logger Logger
	// SkipTLSVerify is only honored when CONCOURSE_DEV_MODE is "true" or "1".
	SkipTLSVerify bool
	UserAgent     string

	// Interceptors run after authentication headers have been attached.
	Interceptors *InterceptorChain
}
