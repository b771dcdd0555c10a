package commands

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/concourse-client/internal/constants"
)

// NewResourcesCommand creates the resources command.
func NewResourcesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resources PIPELINE",
		Short: "List resources of a pipeline",
		Long:  "List the resources of a pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}

			resources, err := s.team().Pipeline(args[0]).ListResources(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list resources: %w", err)
			}

			return render(cmd.OutOrStdout(), outputFormat(), resources, func(table *tablewriter.Table) {
				table.Header("Name", "Type", "Pinned", "Last Checked")

				for _, resource := range resources {
					_ = table.Append(resource.Name, resource.Type, yesNo(len(resource.PinnedVersion) > 0),
						formatUnix(resource.LastChecked))
				}
			})
		},
	}
}

// NewCheckResourceCommand creates the check-resource command.
func NewCheckResourceCommand() *cobra.Command {
	var from []string

	cmd := &cobra.Command{
		Use:   "check-resource PIPELINE/RESOURCE",
		Short: "Check a resource for new versions",
		Long:  "Ask the server to check a resource, optionally starting from a given version",
		Example: `  concourse check-resource app/repo
  concourse check-resource app/repo --from ref=abc123`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, resource, err := splitPath(args[0])
			if err != nil {
				return err
			}

			version, err := parseVersion(from)
			if err != nil {
				return err
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}

			build, err := s.team().Pipeline(pipeline).Resource(resource).Check(cmd.Context(), version)
			if err != nil {
				return fmt.Errorf("failed to check %s: %w", args[0], err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "checking %s in build %d (%s)\n", args[0], build.ID, build.Status)

			return nil
		},
	}

	cmd.Flags().StringSliceVar(&from, "from", nil, "version to check from, as KEY=VALUE (repeatable)")

	return cmd
}

// parseVersion turns KEY=VALUE pairs into a version. No pairs means nil.
func parseVersion(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil //nolint:nilnil // no starting version
	}

	version := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidVersionPair, pair)
		}

		version[key] = value
	}

	return version, nil
}
