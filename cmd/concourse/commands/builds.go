package commands

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/concourse-client/internal/constants"
	"github.com/fivetwenty-io/concourse-client/pkg/concourse"
)

type buildsOptions struct {
	pipeline string
	job      string
	all      bool
	count    int
	since    int
	until    int
}

// NewBuildsCommand creates the builds command.
func NewBuildsCommand() *cobra.Command {
	opts := &buildsOptions{}

	cmd := &cobra.Command{
		Use:   "builds",
		Short: "List builds",
		Long: `List recent builds of the target's team, of a pipeline with --pipeline,
of a job with --job, or across every visible team with --all.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}

			builds, err := listBuilds(cmd, s, opts)
			if err != nil {
				return fmt.Errorf("failed to list builds: %w", err)
			}

			return render(cmd.OutOrStdout(), outputFormat(), builds, func(table *tablewriter.Table) {
				table.Header("ID", "Pipeline/Job", "Build", "Status", "Start", "End", "Duration", "Team", "Created By")

				for _, build := range builds {
					_ = table.Append(strconv.Itoa(build.ID), buildSource(build), build.Name, build.Status,
						formatUnix(build.StartTime), formatUnix(build.EndTime),
						formatDuration(build.StartTime, build.EndTime), build.TeamName,
						truncate(valueOr(build.CreatedBy, constants.NotAvailable)))
				}
			})
		},
	}

	cmd.Flags().StringVarP(&opts.pipeline, "pipeline", "p", "", "list builds of a pipeline")
	cmd.Flags().StringVarP(&opts.job, "job", "j", "", "list builds of a job, as PIPELINE/JOB")
	cmd.Flags().BoolVarP(&opts.all, "all", "a", false, "list builds of all teams")
	cmd.Flags().IntVar(&opts.count, "count", constants.DefaultPageSize, "number of builds to list")
	cmd.Flags().IntVar(&opts.since, "since", 0, "list builds newer than this build ID")
	cmd.Flags().IntVar(&opts.until, "until", 0, "list builds older than this build ID")

	return cmd
}

func listBuilds(cmd *cobra.Command, s *session, opts *buildsOptions) ([]concourse.Build, error) {
	page := &concourse.Page{Limit: opts.count, Since: opts.since, Until: opts.until}

	switch {
	case opts.job != "":
		pipeline, job, err := splitPath(opts.job)
		if err != nil {
			return nil, err
		}

		return s.team().Pipeline(pipeline).Job(job).ListBuilds(cmd.Context(), page)
	case opts.pipeline != "":
		return s.team().Pipeline(opts.pipeline).ListBuilds(cmd.Context(), page)
	case opts.all:
		return s.client.ListBuilds(cmd.Context(), page)
	default:
		return s.team().ListBuilds(cmd.Context(), page)
	}
}

func buildSource(build concourse.Build) string {
	switch {
	case build.JobName != "":
		return build.PipelineName + "/" + build.JobName
	case build.ResourceName != "":
		return build.PipelineName + "/" + build.ResourceName
	default:
		return "one-off"
	}
}

// NewAbortBuildCommand creates the abort-build command.
func NewAbortBuildCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "abort-build BUILD_ID",
		Short: "Abort a build",
		Long:  "Abort a running or pending build by its ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				return fmt.Errorf("%w: %q", constants.ErrInvalidBuildID, args[0])
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}

			err = s.client.Build(id).Abort(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to abort build %d: %w", id, err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "build %d aborted\n", id)

			return nil
		},
	}
}
