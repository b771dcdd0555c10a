package concourse

import (
	"net/url"
	"strconv"
)

// Build statuses reported by the server.
const (
	BuildStatusPending   = "pending"
	BuildStatusStarted   = "started"
	BuildStatusSucceeded = "succeeded"
	BuildStatusFailed    = "failed"
	BuildStatusErrored   = "errored"
	BuildStatusAborted   = "aborted"
)

// Info represents the /api/v1/info response.
type Info struct {
	Version       string `json:"version"                  yaml:"version"`
	WorkerVersion string `json:"worker_version"           yaml:"worker_version"`
	ExternalURL   string `json:"external_url,omitempty"   yaml:"external_url,omitempty"`
	ClusterName   string `json:"cluster_name,omitempty"   yaml:"cluster_name,omitempty"`
}

// Team represents a team.
type Team struct {
	ID   int                            `json:"id"             yaml:"id"`
	Name string                         `json:"name"           yaml:"name"`
	Auth map[string]map[string][]string `json:"auth,omitempty" yaml:"auth,omitempty"`
}

// Pipeline represents a pipeline.
type Pipeline struct {
	ID           int                    `json:"id"                      yaml:"id"`
	Name         string                 `json:"name"                    yaml:"name"`
	InstanceVars map[string]interface{} `json:"instance_vars,omitempty" yaml:"instance_vars,omitempty"`
	Paused       bool                   `json:"paused"                  yaml:"paused"`
	PausedBy     string                 `json:"paused_by,omitempty"     yaml:"paused_by,omitempty"`
	PausedAt     int64                  `json:"paused_at,omitempty"     yaml:"paused_at,omitempty"`
	Public       bool                   `json:"public"                  yaml:"public"`
	Archived     bool                   `json:"archived"                yaml:"archived"`
	Groups       []GroupConfig          `json:"groups,omitempty"        yaml:"groups,omitempty"`
	TeamName     string                 `json:"team_name"               yaml:"team_name"`
	LastUpdated  int64                  `json:"last_updated,omitempty"  yaml:"last_updated,omitempty"`
}

// GroupConfig represents a named group of jobs in a pipeline.
type GroupConfig struct {
	Name      string   `json:"name"                yaml:"name"`
	Jobs      []string `json:"jobs,omitempty"      yaml:"jobs,omitempty"`
	Resources []string `json:"resources,omitempty" yaml:"resources,omitempty"`
}

// PipelineConfig is the configuration of a pipeline as returned by the server.
type PipelineConfig struct {
	Config map[string]interface{} `json:"config" yaml:"config"`
	// Version is the X-Concourse-Config-Version header value.
	Version string `json:"-" yaml:"-"`
}

// Job represents a job of a pipeline.
type Job struct {
	ID                   int         `json:"id"                               yaml:"id"`
	Name                 string      `json:"name"                             yaml:"name"`
	TeamName             string      `json:"team_name"                        yaml:"team_name"`
	PipelineID           int         `json:"pipeline_id"                      yaml:"pipeline_id"`
	PipelineName         string      `json:"pipeline_name"                    yaml:"pipeline_name"`
	Paused               bool        `json:"paused,omitempty"                 yaml:"paused,omitempty"`
	HasNewInputs         bool        `json:"has_new_inputs,omitempty"         yaml:"has_new_inputs,omitempty"`
	DisableManualTrigger bool        `json:"disable_manual_trigger,omitempty" yaml:"disable_manual_trigger,omitempty"`
	Groups               []string    `json:"groups,omitempty"                 yaml:"groups,omitempty"`
	FirstLoggedBuildID   int         `json:"first_logged_build_id,omitempty"  yaml:"first_logged_build_id,omitempty"`
	NextBuild            *Build      `json:"next_build,omitempty"             yaml:"next_build,omitempty"`
	FinishedBuild        *Build      `json:"finished_build,omitempty"         yaml:"finished_build,omitempty"`
	TransitionBuild      *Build      `json:"transition_build,omitempty"       yaml:"transition_build,omitempty"`
	Inputs               []JobInput  `json:"inputs,omitempty"                 yaml:"inputs,omitempty"`
	Outputs              []JobOutput `json:"outputs,omitempty"                yaml:"outputs,omitempty"`
}

// JobInput is an input of a job.
type JobInput struct {
	Name     string   `json:"name"             yaml:"name"`
	Resource string   `json:"resource"         yaml:"resource"`
	Passed   []string `json:"passed,omitempty" yaml:"passed,omitempty"`
	Trigger  bool     `json:"trigger"          yaml:"trigger"`
}

// JobOutput is an output of a job.
type JobOutput struct {
	Name     string `json:"name"     yaml:"name"`
	Resource string `json:"resource" yaml:"resource"`
}

// Build represents a build.
type Build struct {
	ID           int    `json:"id"                      yaml:"id"`
	TeamName     string `json:"team_name"               yaml:"team_name"`
	Name         string `json:"name"                    yaml:"name"`
	Status       string `json:"status"                  yaml:"status"`
	APIURL       string `json:"api_url"                 yaml:"api_url"`
	JobName      string `json:"job_name,omitempty"      yaml:"job_name,omitempty"`
	ResourceName string `json:"resource_name,omitempty" yaml:"resource_name,omitempty"`
	PipelineID   int    `json:"pipeline_id,omitempty"   yaml:"pipeline_id,omitempty"`
	PipelineName string `json:"pipeline_name,omitempty" yaml:"pipeline_name,omitempty"`
	StartTime    int64  `json:"start_time,omitempty"    yaml:"start_time,omitempty"`
	EndTime      int64  `json:"end_time,omitempty"      yaml:"end_time,omitempty"`
	ReapTime     int64  `json:"reap_time,omitempty"     yaml:"reap_time,omitempty"`
	CreatedBy    string `json:"created_by,omitempty"    yaml:"created_by,omitempty"`
}

// Finished reports whether the build reached a terminal status.
func (b *Build) Finished() bool {
	switch b.Status {
	case BuildStatusSucceeded, BuildStatusFailed, BuildStatusErrored, BuildStatusAborted:
		return true
	default:
		return false
	}
}

// Resource represents a resource of a pipeline.
type Resource struct {
	Name          string            `json:"name"                     yaml:"name"`
	PipelineID    int               `json:"pipeline_id"              yaml:"pipeline_id"`
	PipelineName  string            `json:"pipeline_name"            yaml:"pipeline_name"`
	TeamName      string            `json:"team_name"                yaml:"team_name"`
	Type          string            `json:"type"                     yaml:"type"`
	LastChecked   int64             `json:"last_checked,omitempty"   yaml:"last_checked,omitempty"`
	Icon          string            `json:"icon,omitempty"           yaml:"icon,omitempty"`
	PinnedVersion map[string]string `json:"pinned_version,omitempty" yaml:"pinned_version,omitempty"`
	PinComment    string            `json:"pin_comment,omitempty"    yaml:"pin_comment,omitempty"`
	Build         *Build            `json:"build,omitempty"          yaml:"build,omitempty"`
}

// ResourceVersion is a version emitted by a resource check.
type ResourceVersion struct {
	ID       int               `json:"id"                 yaml:"id"`
	Version  map[string]string `json:"version"            yaml:"version"`
	Metadata []MetadataField   `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Enabled  bool              `json:"enabled"            yaml:"enabled"`
}

// MetadataField is a single name/value pair of version metadata.
type MetadataField struct {
	Name  string `json:"name"  yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// BuildInputsOutputs lists the versions consumed and produced by a build.
type BuildInputsOutputs struct {
	Inputs  []BuildInput  `json:"inputs"  yaml:"inputs"`
	Outputs []BuildOutput `json:"outputs" yaml:"outputs"`
}

// BuildInput is a version consumed by a build.
type BuildInput struct {
	Name            string            `json:"name"             yaml:"name"`
	Version         map[string]string `json:"version"          yaml:"version"`
	PipelineID      int               `json:"pipeline_id"      yaml:"pipeline_id"`
	FirstOccurrence bool              `json:"first_occurrence" yaml:"first_occurrence"`
}

// BuildOutput is a version produced by a build.
type BuildOutput struct {
	Name    string            `json:"name"    yaml:"name"`
	Version map[string]string `json:"version" yaml:"version"`
}

// Worker represents a registered worker.
type Worker struct {
	Name             string   `json:"name"              yaml:"name"`
	Platform         string   `json:"platform"          yaml:"platform"`
	State            string   `json:"state"             yaml:"state"`
	Team             string   `json:"team,omitempty"    yaml:"team,omitempty"`
	Version          string   `json:"version,omitempty" yaml:"version,omitempty"`
	ActiveContainers int      `json:"active_containers" yaml:"active_containers"`
	Tags             []string `json:"tags,omitempty"    yaml:"tags,omitempty"`
	StartTime        int64    `json:"start_time"        yaml:"start_time"`
}

// Page selects a window of a paginated list. Zero fields are omitted.
type Page struct {
	Limit int
	Since int
	Until int
}

// Values converts the page into query parameters.
func (p *Page) Values() url.Values {
	values := url.Values{}
	if p == nil {
		return values
	}

	if p.Limit > 0 {
		values.Set("limit", strconv.Itoa(p.Limit))
	}

	if p.Since > 0 {
		values.Set("since", strconv.Itoa(p.Since))
	}

	if p.Until > 0 {
		values.Set("until", strconv.Itoa(p.Until))
	}

	return values
}
