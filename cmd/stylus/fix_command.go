package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"stylus/internal/library"
	"stylus/internal/logging"
	"stylus/internal/notifications"
	"stylus/internal/reconcile"
)

func newFixCommand(ctx *commandContext) *cobra.Command {
	var fixAll bool
	var fixUnlinked bool
	var artworkOnly bool

	cmd := &cobra.Command{
		Use:   "fix [id...]",
		Short: "Reconcile tracks against the catalog",
		Long: `Fix searches the catalog for each track, picks the best candidate above the
score threshold, and writes the merged tags to the file and the library row.
Tracks already carrying a value keep it; only gaps are filled. With
--artwork-only the batch writes nothing but the artwork URL.

Examples:
  stylus fix 12 37 58         # reconcile three tracks
  stylus fix --unlinked       # reconcile everything without a catalog link
  stylus fix --all --artwork-only`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fixAll && fixUnlinked {
				return errors.New("specify only one of --all or --unlinked")
			}
			if len(args) > 0 && (fixAll || fixUnlinked) {
				return errors.New("track ids cannot be combined with --all or --unlinked")
			}
			if len(args) == 0 && !fixAll && !fixUnlinked {
				return errors.New("specify track ids or one of --all, --unlinked")
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			mode := reconcile.ModeAutomatic
			if artworkOnly {
				mode = reconcile.ModeArtworkOnly
			}

			return ctx.withStore(func(store *library.Store) error {
				ids, err := resolveTrackIDs(cmd.Context(), store, args, fixUnlinked)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(ids) == 0 {
					fmt.Fprintln(out, "No tracks to reconcile")
					return nil
				}

				lock, err := acquireBatchLock(cfg)
				if err != nil {
					return err
				}
				defer lock.Unlock()

				var bar *progressbar.ProgressBar
				var sink reconcile.ProgressSink
				interactive := isTerminal(out)
				if interactive {
					bar = newBatchBar(len(ids), cmd.ErrOrStderr())
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

				runCtx := cmd.Context()
				notifier := notifications.NewService(cfg)
				publishEvent(runCtx, logger, notifier, notifications.EventBatchStarted, notifications.Payload{
					"tracks": len(ids),
				})

				start := time.Now()
				batch, err := rec.ReconcileBatch(runCtx, ids, mode)
				if err != nil {
					return err
				}
				if bar != nil {
					_ = bar.Finish()
				}

				elapsed := time.Since(start)
				notifyBatchOutcome(runCtx, logger, notifier, store, batch, elapsed)
				printBatchSummary(out, batch, elapsed)
				if batch.FailedCount > 0 {
					return fmt.Errorf("%d of %d tracks failed", batch.FailedCount, batch.Total)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&fixAll, "all", false, "Reconcile every track in the library")
	cmd.Flags().BoolVar(&fixUnlinked, "unlinked", false, "Reconcile only tracks without a catalog link")
	cmd.Flags().BoolVar(&artworkOnly, "artwork-only", false, "Apply only the artwork URL tag")
	return cmd
}

// notifyBatchOutcome pushes one event per failed track plus the batch
// completion event. Delivery problems are logged and never fail the command.
func notifyBatchOutcome(ctx context.Context, logger *slog.Logger, notifier notifications.Service, store *library.Store, batch *reconcile.BatchResult, elapsed time.Duration) {
	for _, result := range batch.Results {
		if result.Success {
			continue
		}
		publishEvent(ctx, logger, notifier, notifications.EventTrackFailed, notifications.Payload{
			"trackTitle": storedTitle(ctx, store, result.TrackID),
			"error":      result.Error,
		})
	}
	publishEvent(ctx, logger, notifier, notifications.EventBatchCompleted, notifications.Payload{
		"succeeded": batch.SuccessCount,
		"failed":    batch.FailedCount,
		"duration":  elapsed,
	})
}

func publishEvent(ctx context.Context, logger *slog.Logger, notifier notifications.Service, event notifications.Event, payload notifications.Payload) {
	if err := notifier.Publish(ctx, event, payload); err != nil {
		logger.Warn("notification publish failed",
			logging.String("event", string(event)),
			logging.Error(err))
	}
}

func storedTitle(ctx context.Context, store *library.Store, trackID int64) string {
	track, err := store.GetTrack(ctx, trackID)
	if err != nil || track == nil {
		return fmt.Sprintf("track %d", trackID)
	}
	return track.DisplayTitle()
}
