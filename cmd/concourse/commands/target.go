package commands

import (
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/concourse-client/internal/constants"
)

// targetSummary is the printable view of a saved target.
type targetSummary struct {
	Name      string `json:"name"                 yaml:"name"`
	URL       string `json:"url"                  yaml:"url"`
	Team      string `json:"team"                 yaml:"team"`
	Username  string `json:"username,omitempty"   yaml:"username,omitempty"`
	Current   bool   `json:"current"              yaml:"current"`
	LoggedIn  bool   `json:"logged_in"            yaml:"logged_in"`
	ExpiresAt string `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
}

func summarizeTargets(config *Config) []targetSummary {
	summaries := make([]targetSummary, 0, len(config.Targets))

	for _, name := range config.TargetNames() {
		target := config.Targets[name]
		summary := targetSummary{
			Name:     name,
			URL:      target.URL,
			Team:     target.Team,
			Username: target.Username,
			Current:  name == config.CurrentTarget,
			LoggedIn: target.Session != nil,
		}

		if target.Session != nil {
			summary.ExpiresAt = target.Session.Expiry().UTC().Format(time.RFC3339)
		}

		summaries = append(summaries, summary)
	}

	return summaries
}

// NewTargetsCommand creates the targets command.
func NewTargetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List saved targets",
		Long:  "List the saved Concourse targets and their session state",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, _, err := loadConfig()
			if err != nil {
				return err
			}

			summaries := summarizeTargets(config)

			return render(cmd.OutOrStdout(), outputFormat(), summaries, func(table *tablewriter.Table) {
				table.Header("", "Name", "URL", "Team", "User", "Expires")

				for _, summary := range summaries {
					current := ""
					if summary.Current {
						current = constants.CheckMarkSymbol
					}

					_ = table.Append(current, summary.Name, summary.URL, summary.Team,
						valueOr(summary.Username, constants.NotAvailable),
						valueOr(summary.ExpiresAt, constants.None))
				}
			})
		},
	}
}

// NewTargetCommand creates the target command.
func NewTargetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "target [NAME]",
		Short: "Show or switch the current target",
		Long:  "Print the current target, or make NAME the current target",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, path, err := loadConfig()
			if err != nil {
				return err
			}

			if len(args) == 0 {
				name, target, err := config.Lookup("")
				if err != nil {
					return err
				}

				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (team %s)\n", name, target.URL, target.Team)

				return nil
			}

			err = setConfigValue(config, keyCurrentTarget, args[0])
			if err != nil {
				return err
			}

			err = saveConfigFile(path, config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Switched to target %s\n", args[0])

			return nil
		},
	}
}
