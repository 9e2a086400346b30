package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wandlung/internal/notifications"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Publish a test message to the configured ntfy topic",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			topic := cfg.Notifications.NtfyTopic
			if topic == "" {
				fmt.Fprintln(out, "Notifications disabled: set notifications.ntfy_topic")
				return nil
			}

			payload := notifications.Payload{}
			if host, err := os.Hostname(); err == nil {
				payload["host"] = host
			}
			if err := notifications.NewService(cfg).Publish(cmd.Context(), notifications.EventTest, payload); err != nil {
				return fmt.Errorf("publish to %s: %w", topic, err)
			}
			fmt.Fprintf(out, "Test notification sent to %s\n", topic)
			return nil
		},
	}
}
