package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"stylus/internal/library"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show library and configuration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			return ctx.withStore(func(store *library.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				health := store.Health(cmd.Context())

				out := cmd.OutOrStdout()
				summary := renderTable(
					[]string{"Metric", "Value"},
					[][]string{
						{"Total tracks", strconv.Itoa(stats.Total)},
						{"Linked", strconv.Itoa(stats.Linked)},
						{"Unlinked", strconv.Itoa(stats.Total - stats.Linked)},
						{"Missing BPM", strconv.Itoa(stats.MissingBPM)},
					},
					[]columnAlignment{alignLeft, alignRight},
				)
				fmt.Fprintln(out, summary)

				fmt.Fprintf(out, "Database: %s\n", health.DBPath)
				fmt.Fprintf(out, "  readable: %s  schema: %s  integrity: %s\n",
					yesNo(health.DatabaseReadable), yesNo(health.TableExists), yesNo(health.IntegrityCheck))
				if health.Error != "" {
					fmt.Fprintf(out, "  error: %s\n", health.Error)
				}

				configPath := ctx.configPath
				if !ctx.configExists {
					configPath += " (not found, defaults in use)"
				}
				fmt.Fprintf(out, "Config: %s\n", configPath)
				fmt.Fprintf(out, "Music dir: %s\n", cfg.Paths.MusicDir)
				fmt.Fprintf(out, "Log dir: %s\n", cfg.Paths.LogDir)

				topic := cfg.Notifications.NtfyTopic
				if topic == "" {
					topic = "disabled"
				}
				fmt.Fprintf(out, "Notifications: %s\n", topic)
				return nil
			})
		},
	}
}
