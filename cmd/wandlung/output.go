package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

func validateOutputFormat(value string) error {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", outputTable, outputJSON, outputYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (want table, json or yaml)", value)
	}
}

// outputFormat resolves --output, falling back to a table on terminals and
// JSON when stdout is piped or captured.
func (c *commandContext) outputFormat(cmd *cobra.Command) string {
	if c.outputFlag != nil {
		if value := strings.ToLower(strings.TrimSpace(*c.outputFlag)); value != "" {
			return value
		}
	}
	if f, ok := cmd.OutOrStdout().(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return outputTable
	}
	return outputJSON
}

// render writes v in the selected format. table is called only for table output.
func (c *commandContext) render(cmd *cobra.Command, v any, table func() string) error {
	switch c.outputFormat(cmd) {
	case outputJSON:
		return writeJSON(cmd, v)
	case outputYAML:
		return writeYAML(cmd, v)
	default:
		fmt.Fprintln(cmd.OutOrStdout(), table())
		return nil
	}
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(cmd *cobra.Command, v any) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
