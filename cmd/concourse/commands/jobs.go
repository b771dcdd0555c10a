package commands

import (
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/fivetwenty-io/concourse-client/internal/constants"
	"github.com/fivetwenty-io/concourse-client/pkg/concourse"
)

// NewJobsCommand creates the jobs command.
func NewJobsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "jobs PIPELINE",
		Short: "List jobs of a pipeline",
		Long:  "List the jobs of a pipeline with their latest and pending builds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}

			jobs, err := s.team().Pipeline(args[0]).ListJobs(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list jobs: %w", err)
			}

			return render(cmd.OutOrStdout(), outputFormat(), jobs, func(table *tablewriter.Table) {
				table.Header("Name", "Paused", "Status", "Next")

				for _, job := range jobs {
					_ = table.Append(job.Name, yesNo(job.Paused), buildStatus(job.FinishedBuild), buildStatus(job.NextBuild))
				}
			})
		},
	}
}

func buildStatus(build *concourse.Build) string {
	if build == nil {
		return constants.NotAvailable
	}

	return build.Status
}

// NewJobActionCommands creates trigger-job, pause-job and unpause-job.
func NewJobActionCommands() []*cobra.Command {
	return []*cobra.Command{
		newTriggerJobCommand(),
		newJobToggleCommand("pause", concourse.JobClient.Pause),
		newJobToggleCommand("unpause", concourse.JobClient.Unpause),
	}
}

func newTriggerJobCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "trigger-job PIPELINE/JOB",
		Short: "Start a new build of a job",
		Long:  "Start a new build of a job and print its name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, job, err := splitPath(args[0])
			if err != nil {
				return err
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}

			build, err := s.team().Pipeline(pipeline).Job(job).Trigger(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to trigger %s: %w", args[0], err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "started %s/%s #%s (build %d)\n", pipeline, job, build.Name, build.ID)

			return nil
		},
	}
}

// newJobToggleCommand builds "<verb>-job", e.g. pause-job.
func newJobToggleCommand(verb string, action func(concourse.JobClient, context.Context) error) *cobra.Command {
	short := cases.Title(language.English).String(verb) + " a job"

	return &cobra.Command{
		Use:   verb + "-job PIPELINE/JOB",
		Short: short,
		Long:  short + " of the target's team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, job, err := splitPath(args[0])
			if err != nil {
				return err
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}

			err = action(s.team().Pipeline(pipeline).Job(job), cmd.Context())
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%sd job %s\n", verb, args[0])

			return nil
		},
	}
}
