package reconcile

import (
	"context"

	"github.com/google/uuid"

	"stylus/internal/logging"
	"stylus/internal/services"
	"stylus/internal/tagmerge"
)

// ApplySelections finalizes a manual batch. Selections carrying a catalog id
// are applied with the full merge policy; a zero id means the caller
// confirmed the track is absent from the catalog, which finalizes the track
// without contacting the catalog. Tracks omitted from selections do not
// appear in the result at all.
func (r *Reconciler) ApplySelections(ctx context.Context, selections []Selection) (*BatchResult, error) {
	if len(selections) == 0 {
		return nil, services.Wrap(services.ErrValidation, "reconcile", "apply selections", "no selections supplied", nil)
	}

	batchID := uuid.NewString()
	ctx = services.WithBatchID(ctx, batchID)
	logger := logging.WithContext(ctx, r.logger)
	logger.Info("selection batch started", logging.Int("selection_count", len(selections)))

	batch := &BatchResult{BatchID: batchID}
	for i, selection := range selections {
		if ctxErr := ctx.Err(); ctxErr != nil {
			logger.Warn("selection batch interrupted", logging.Error(ctxErr))
			remaining := make([]int64, 0, len(selections)-i)
			for _, sel := range selections[i:] {
				remaining = append(remaining, sel.TrackID)
			}
			r.failRemaining(batch, remaining, ctxErr)
			break
		}
		batch.add(r.applySelection(ctx, i+1, len(selections), selection))
	}

	logger.Info(
		"selection batch completed",
		logging.Int("succeeded", batch.SuccessCount),
		logging.Int("failed", batch.FailedCount),
	)
	return batch, nil
}

func (r *Reconciler) applySelection(ctx context.Context, index, total int, selection Selection) Result {
	ctx = services.WithTrackID(ctx, selection.TrackID)
	logger := logging.WithContext(ctx, r.logger)

	if selection.CatalogID == 0 {
		logger.Info("track confirmed absent from catalog")
		r.publish(ProgressEvent{Index: index, Total: total, TrackTitle: trackLabel(selection.TrackID), Phase: PhaseComplete})
		return Result{TrackID: selection.TrackID, Error: "not selected"}
	}

	track, err := r.loadTrack(ctx, selection.TrackID)
	if err != nil {
		logger.Warn("track load failed", logging.Error(err))
		r.publish(ProgressEvent{Index: index, Total: total, TrackTitle: trackLabel(selection.TrackID), Phase: PhaseComplete})
		return Result{TrackID: selection.TrackID, Error: err.Error()}
	}

	return r.finish(index, total, track, r.applyCandidate(ctx, logger, index, total, track, selection.CatalogID, tagmerge.ScopeFull))
}
