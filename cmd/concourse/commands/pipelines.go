package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/concourse-client/pkg/concourse"
)

// NewPipelinesCommand creates the pipelines command.
func NewPipelinesCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:     "pipelines",
		Aliases: []string{"ps"},
		Short:   "List pipelines",
		Long:    "List the pipelines of the target's team, or of every visible team with --all",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}

			var pipelines []concourse.Pipeline
			if all {
				pipelines, err = s.client.ListPipelines(cmd.Context())
			} else {
				pipelines, err = s.team().ListPipelines(cmd.Context())
			}

			if err != nil {
				return fmt.Errorf("failed to list pipelines: %w", err)
			}

			return render(cmd.OutOrStdout(), outputFormat(), pipelines, func(table *tablewriter.Table) {
				table.Header("ID", "Name", "Team", "Paused", "Public", "Archived", "Last Updated")

				for _, pipeline := range pipelines {
					_ = table.Append(strconv.Itoa(pipeline.ID), pipeline.Name, pipeline.TeamName,
						yesNo(pipeline.Paused), yesNo(pipeline.Public), yesNo(pipeline.Archived),
						formatUnix(pipeline.LastUpdated))
				}
			})
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "list pipelines of all teams")

	return cmd
}

type pipelineAction struct {
	use    string
	short  string
	done   string
	// action is a PipelineClient method expression.
	action func(concourse.PipelineClient, context.Context) error
}

var pipelineActions = []pipelineAction{
	{"pause-pipeline", "Pause a pipeline", "paused", concourse.PipelineClient.Pause},
	{"unpause-pipeline", "Unpause a pipeline", "unpaused", concourse.PipelineClient.Unpause},
	{"expose-pipeline", "Make a pipeline publicly viewable", "exposed", concourse.PipelineClient.Expose},
	{"hide-pipeline", "Hide a pipeline from the public", "hidden", concourse.PipelineClient.Hide},
}

// NewPipelineActionCommands creates the pause, unpause, expose and hide
// pipeline commands.
func NewPipelineActionCommands() []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(pipelineActions))
	for _, action := range pipelineActions {
		cmds = append(cmds, newPipelineActionCommand(action))
	}

	return cmds
}

func newPipelineActionCommand(action pipelineAction) *cobra.Command {
	return &cobra.Command{
		Use:   action.use + " PIPELINE",
		Short: action.short,
		Long:  action.short + " of the target's team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}

			err = action.action(s.team().Pipeline(args[0]), cmd.Context())
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s pipeline %s\n", action.done, args[0])

			return nil
		},
	}
}
