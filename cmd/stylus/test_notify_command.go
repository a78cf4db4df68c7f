package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"stylus/internal/notifications"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if cfg.Notifications.NtfyTopic == "" {
				fmt.Fprintln(out, "Notifications are disabled: set notifications.ntfy_topic first")
				return nil
			}

			notifyCtx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			if err := notifications.NewService(cfg).Publish(notifyCtx, notifications.EventTest, nil); err != nil {
				return fmt.Errorf("send test notification: %w", err)
			}

			fmt.Fprintf(out, "✅ Test notification sent to %s\n", cfg.Notifications.NtfyTopic)
			return nil
		},
	}
}
