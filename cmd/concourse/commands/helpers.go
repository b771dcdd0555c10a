package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/concourse-client/internal/constants"
)

// outputFormat returns the selected output format.
func outputFormat() string {
	format := viper.GetString("output")
	if format == "" {
		return constants.FormatTable
	}

	return format
}

// render writes data as json or yaml, or as a table filled in by fill.
func render(w io.Writer, format string, data interface{}, fill func(table *tablewriter.Table)) error {
	switch format {
	case constants.FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

		return encoder.Encode(data)
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(w)

		err := encoder.Encode(data)
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}

		return encoder.Close()
	case constants.FormatTable:
		table := tablewriter.NewWriter(w)
		fill(table)

		err := table.Render()
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		return nil
	default:
		return fmt.Errorf("%w: %s", constants.ErrInvalidOutputFormat, format)
	}
}

// splitPath splits "PIPELINE/NAME" at the first slash.
func splitPath(arg string) (string, string, error) {
	pipeline, name, found := strings.Cut(arg, "/")
	if !found || pipeline == "" || name == "" {
		return "", "", fmt.Errorf("%w, got %q", constants.ErrInvalidPipelinePath, arg)
	}

	return pipeline, name, nil
}

// formatUnix renders a Unix timestamp, or N/A when unset.
func formatUnix(seconds int64) string {
	if seconds == 0 {
		return constants.NotAvailable
	}

	return time.Unix(seconds, 0).Local().Format(time.DateTime)
}

// formatDuration renders the time between two Unix timestamps.
func formatDuration(start, end int64) string {
	if start == 0 || end == 0 {
		return constants.NotAvailable
	}

	return (time.Duration(end-start) * time.Second).String()
}

func truncate(value string) string {
	if len(value) <= constants.StringTruncationLength {
		return value
	}

	return value[:constants.StringTruncationLength-3] + "..."
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}

	return "no"
}
