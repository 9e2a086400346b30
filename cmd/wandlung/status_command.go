package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"wandlung/internal/pipeline"
	"wandlung/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var reachability bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check directories, external tools, credentials and the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(cmd, func(runCtx context.Context, pipe *pipeline.Pipeline) error {
				results := pipe.Health(runCtx, reachability)
				if err := ctx.render(cmd, results, func() string { return renderChecks(results) }); err != nil {
					return err
				}
				if failed := preflight.Failed(results); len(failed) > 0 {
					return fmt.Errorf("%d check(s) failed", len(failed))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&reachability, "reachability", false, "Also probe the provider endpoints")
	return cmd
}

func renderChecks(results []preflight.Result) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		state := "ok"
		switch {
		case r.Passed:
		case r.Optional:
			state = "optional"
		default:
			state = "failed"
		}
		rows = append(rows, []string{r.Name, state, r.Detail})
	}
	return renderTable([]string{"Check", "Status", "Detail"}, rows, nil)
}
