package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"stylus/internal/config"
	"stylus/internal/library"
	"stylus/internal/reconcile"
)

func newApplyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "apply <plan.json>",
		Short: "Apply catalog selections from an edited plan",
		Long: `Apply reads a selection plan produced by stylus search --out and applies
the chosen catalog entry to each track. Entries whose chosen_catalog_id is
still null are skipped; an id of 0 records the track as confirmed absent
from the catalog.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			plan, err := readPlan(args[0])
			if err != nil {
				return err
			}
			selections, skipped := planSelections(plan)

			out := cmd.OutOrStdout()
			if skipped > 0 {
				fmt.Fprintf(out, "Skipping %d tracks with no selection\n", skipped)
			}
			if len(selections) == 0 {
				fmt.Fprintln(out, "Plan contains no selections to apply")
				return nil
			}

			return ctx.withStore(func(store *library.Store) error {
				lock, err := acquireBatchLock(cfg)
				if err != nil {
					return err
				}
				defer lock.Unlock()

				var bar *progressbar.ProgressBar
				var sink reconcile.ProgressSink
				interactive := isTerminal(out)
				if interactive {
					bar = newBatchBar(len(selections), cmd.ErrOrStderr())
					sink = barSink(bar)
				}

				logger, err := batchLogger(cfg, interactive)
				if err != nil {
					return err
				}
				rec, err := buildReconciler(cfg, store, logger, sink)
				if err != nil {
					return err
				}

				start := time.Now()
				batch, err := rec.ApplySelections(cmd.Context(), selections)
				if err != nil {
					return err
				}
				if bar != nil {
					_ = bar.Finish()
				}

				printBatchSummary(out, batch, time.Since(start))
				if batch.FailedCount > 0 {
					return fmt.Errorf("%d of %d tracks failed", batch.FailedCount, batch.Total)
				}
				return nil
			})
		},
	}
}

func readPlan(path string) (*selectionPlan, error) {
	target, err := config.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(target)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	var plan selectionPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parse plan %s: %w", path, err)
	}
	return &plan, nil
}

// planSelections keeps entries with a decided chosen_catalog_id and counts
// the rest as skipped.
func planSelections(plan *selectionPlan) ([]reconcile.Selection, int) {
	selections := make([]reconcile.Selection, 0, len(plan.Tracks))
	skipped := 0
	for _, entry := range plan.Tracks {
		if entry.ChosenCatalogID == nil {
			skipped++
			continue
		}
		selections = append(selections, reconcile.Selection{
			TrackID:   entry.TrackID,
			CatalogID: *entry.ChosenCatalogID,
		})
	}
	return selections, skipped
}
