package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/concourse-client/internal/constants"
)

// NewInfoCommand creates the info command.
func NewInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Display server information",
		Long:  "Display the version information reported by the Concourse server",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}

			info, err := s.client.Info(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get server info: %w", err)
			}

			return render(cmd.OutOrStdout(), outputFormat(), info, func(table *tablewriter.Table) {
				table.Header("Property", "Value")
				_ = table.Append("Target", s.name)
				_ = table.Append("Version", info.Version)
				_ = table.Append("Worker Version", info.WorkerVersion)
				_ = table.Append("External URL", valueOr(info.ExternalURL, constants.NotAvailable))
				_ = table.Append("Cluster Name", valueOr(info.ClusterName, constants.NotAvailable))
			})
		},
	}
}

// NewTeamsCommand creates the teams command.
func NewTeamsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "teams",
		Short: "List teams",
		Long:  "List the teams visible to the current user",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}

			teams, err := s.client.ListTeams(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list teams: %w", err)
			}

			return render(cmd.OutOrStdout(), outputFormat(), teams, func(table *tablewriter.Table) {
				table.Header("ID", "Name")

				for _, team := range teams {
					_ = table.Append(strconv.Itoa(team.ID), team.Name)
				}
			})
		},
	}
}

// NewWorkersCommand creates the workers command.
func NewWorkersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "workers",
		Short: "List workers",
		Long:  "List the workers registered with the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}

			workers, err := s.client.ListWorkers(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list workers: %w", err)
			}

			return render(cmd.OutOrStdout(), outputFormat(), workers, func(table *tablewriter.Table) {
				table.Header("Name", "Containers", "Platform", "Tags", "Team", "State", "Version")

				for _, worker := range workers {
					_ = table.Append(worker.Name, strconv.Itoa(worker.ActiveContainers), worker.Platform,
						valueOr(strings.Join(worker.Tags, ","), constants.None),
						valueOr(worker.Team, constants.None), worker.State,
						valueOr(worker.Version, constants.NotAvailable))
				}
			})
		},
	}
}
