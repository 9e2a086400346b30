// Package deps locates the external media tools and reports their versions.
package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Tool is an external binary the pipeline shells out to.
type Tool struct {
	Name     string
	Binary   string
	Purpose  string
	Optional bool
	// VersionArgs, when set, are passed to the binary to read its version.
	VersionArgs []string
}

// Availability is what Probe learned about one Tool.
type Availability struct {
	Tool
	Path    string
	Version string
	Problem string
}

// Found reports whether the binary resolved to a path.
func (a Availability) Found() bool { return a.Path != "" }

// Summary is a one-line description for status output.
func (a Availability) Summary() string {
	if !a.Found() {
		return a.Problem
	}
	if a.Version == "" {
		return a.Path
	}
	return fmt.Sprintf("%s (%s)", a.Path, a.Version)
}

// Probe resolves every tool on PATH. Version lookups run only for tools that
// were found.
func Probe(ctx context.Context, tools []Tool) []Availability {
	out := make([]Availability, 0, len(tools))
	for _, tool := range tools {
		tool.Binary = strings.TrimSpace(tool.Binary)
		item := Availability{Tool: tool}
		switch path, err := lookup(tool.Binary); {
		case tool.Binary == "":
			item.Problem = "command not configured"
		case err != nil:
			item.Problem = fmt.Sprintf("binary %q not found", tool.Binary)
		default:
			item.Path = path
			if len(tool.VersionArgs) > 0 {
				item.Version = Version(ctx, path, tool.VersionArgs...)
			}
		}
		out = append(out, item)
	}
	return out
}

func lookup(binary string) (string, error) {
	if binary == "" {
		return "", exec.ErrNotFound
	}
	return exec.LookPath(binary)
}
