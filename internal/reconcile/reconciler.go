package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"stylus/internal/catalog"
	"stylus/internal/config"
	"stylus/internal/library"
	"stylus/internal/logging"
	"stylus/internal/services"
	"stylus/internal/tagmerge"
)

// TrackStore is the slice of the library store the pipeline needs. The full
// store satisfies it; tests substitute fakes.
type TrackStore interface {
	GetTrack(ctx context.Context, id int64) (*library.Track, error)
	UpdateTrackTags(ctx context.Context, id int64, patch library.TagPatch, catalogID int64) error
}

// TagWriter persists merge patches into audio files.
type TagWriter interface {
	WriteTags(path string, patch library.TagPatch) error
}

// Reconciler drives track batches through search, selection, and apply. One
// track is fully resolved before the next begins; pacing between remote
// calls is owned by the catalog client.
type Reconciler struct {
	cfg      *config.Config
	store    TrackStore
	searcher catalog.Searcher
	writer   TagWriter
	sink     ProgressSink
	logger   *slog.Logger
}

// New constructs a reconciler that discards progress events.
func New(cfg *config.Config, store TrackStore, searcher catalog.Searcher, writer TagWriter, logger *slog.Logger) *Reconciler {
	return NewWithProgress(cfg, store, searcher, writer, logger, nil)
}

// NewWithProgress constructs a reconciler that publishes progress events to
// sink. A nil sink disables progress reporting.
func NewWithProgress(cfg *config.Config, store TrackStore, searcher catalog.Searcher, writer TagWriter, logger *slog.Logger, sink ProgressSink) *Reconciler {
	if sink == nil {
		sink = NopSink{}
	}
	return &Reconciler{
		cfg:      cfg,
		store:    store,
		searcher: searcher,
		writer:   writer,
		sink:     sink,
		logger:   logging.NewComponentLogger(logger, "reconcile"),
	}
}

// ReconcileBatch resolves every track in trackIDs against the catalog and
// applies the best-ranked candidate according to mode. Tracks fail
// individually; the batch runs to the end of the id list unless the context
// is canceled, in which case unprocessed tracks are finalized as failed.
func (r *Reconciler) ReconcileBatch(ctx context.Context, trackIDs []int64, mode Mode) (*BatchResult, error) {
	if len(trackIDs) == 0 {
		return nil, services.Wrap(services.ErrValidation, "reconcile", "batch", "no track ids supplied", nil)
	}

	batchID := uuid.NewString()
	ctx = services.WithBatchID(ctx, batchID)
	logger := logging.WithContext(ctx, r.logger)
	batchStart := time.Now()
	logger.Info(
		"batch started",
		logging.Int("track_count", len(trackIDs)),
		logging.String("mode", string(mode)),
	)

	batch := &BatchResult{BatchID: batchID}
	for i, trackID := range trackIDs {
		if ctxErr := ctx.Err(); ctxErr != nil {
			logger.Warn("batch interrupted", logging.Error(ctxErr))
			r.failRemaining(batch, trackIDs[i:], ctxErr)
			break
		}
		batch.add(r.reconcileTrack(ctx, i+1, len(trackIDs), trackID, mode))
	}

	logger.Info(
		"batch completed",
		logging.Int("succeeded", batch.SuccessCount),
		logging.Int("failed", batch.FailedCount),
		logging.Duration("batch_duration", time.Since(batchStart)),
	)
	return batch, nil
}

func (r *Reconciler) reconcileTrack(ctx context.Context, index, total int, trackID int64, mode Mode) Result {
	ctx = services.WithTrackID(ctx, trackID)
	logger := logging.WithContext(ctx, r.logger)

	track, err := r.loadTrack(ctx, trackID)
	if err != nil {
		logger.Warn("track load failed", logging.Error(err))
		r.publish(ProgressEvent{Index: index, Total: total, TrackTitle: trackLabel(trackID), Phase: PhaseComplete})
		return Result{TrackID: trackID, Error: err.Error()}
	}

	r.publish(ProgressEvent{Index: index, Total: total, TrackTitle: track.DisplayTitle(), Phase: PhaseSearching})
	candidates, err := r.searcher.SearchCandidates(ctx, r.query(track))
	if err != nil {
		logger.Warn("candidate search failed", logging.String("kind", services.Kind(err)), logging.Error(err))
		return r.finish(index, total, track, Result{TrackID: trackID, Error: err.Error()})
	}
	if len(candidates) == 0 {
		logger.Info("no candidates above score threshold")
		return r.finish(index, total, track, Result{TrackID: trackID, Error: "no catalog match above score threshold"})
	}

	logger.Debug(
		"best candidate selected",
		logging.Int("candidate_count", len(candidates)),
		logging.Int64(logging.FieldCatalogID, candidates[0].ID),
		logging.Float64("score", candidates[0].Score),
	)
	return r.finish(index, total, track, r.applyCandidate(ctx, logger, index, total, track, candidates[0].ID, mode.mergeScope()))
}

// applyCandidate fetches full catalog details for catalogID and writes the
// merged patch into the file and the library row. Shared by automatic
// batches and manual selection apply.
func (r *Reconciler) applyCandidate(ctx context.Context, logger *slog.Logger, index, total int, track *library.Track, catalogID int64, scope tagmerge.Scope) Result {
	result := Result{TrackID: track.ID}

	r.publish(ProgressEvent{Index: index, Total: total, TrackTitle: track.DisplayTitle(), Phase: PhaseDownloading})
	details, err := r.searcher.TrackDetails(ctx, catalogID)
	if err != nil {
		logger.Warn("catalog details fetch failed",
			logging.Int64(logging.FieldCatalogID, catalogID),
			logging.String("kind", services.Kind(err)),
			logging.Error(err))
		result.Error = err.Error()
		return result
	}

	r.publish(ProgressEvent{Index: index, Total: total, TrackTitle: track.DisplayTitle(), Phase: PhaseApplyingTags})
	patch := tagmerge.Merge(*track, *details, scope)
	if patch.IsEmpty() && track.CatalogID == details.ID {
		logger.Info("track already reconciled", logging.Int64(logging.FieldCatalogID, details.ID))
		result.Success = true
		result.CatalogID = details.ID
		return result
	}

	tagsWritten := false
	if !patch.IsEmpty() {
		if err := r.writer.WriteTags(track.Path, patch); err != nil {
			logger.Error("tag write failed", logging.String("path", track.Path), logging.Error(err))
			result.Error = err.Error()
			return result
		}
		tagsWritten = true
	}

	if err := r.store.UpdateTrackTags(ctx, track.ID, patch, details.ID); err != nil {
		wrapped := services.Wrap(services.ErrStore, "reconcile", "update track", fmt.Sprintf("track %d", track.ID), err)
		if !tagsWritten {
			logger.Error("store update failed", logging.Error(wrapped))
			result.Error = wrapped.Error()
			return result
		}
		// The file already carries the new tags; the row catches up on the
		// next run over the same ids.
		logger.Warn("store update failed after tag write", logging.Error(wrapped))
		result.Error = wrapped.Error()
	}

	result.Success = true
	result.CatalogID = details.ID
	result.Applied = patch
	logger.Info(
		"track reconciled",
		logging.Int64(logging.FieldCatalogID, details.ID),
		logging.String("fields", strings.Join(patch.Fields(), ",")),
	)
	return result
}

func (r *Reconciler) loadTrack(ctx context.Context, trackID int64) (*library.Track, error) {
	track, err := r.store.GetTrack(ctx, trackID)
	if err != nil {
		return nil, services.Wrap(services.ErrStore, "reconcile", "load track", fmt.Sprintf("track %d", trackID), err)
	}
	if track == nil {
		return nil, services.Wrap(services.ErrValidation, "reconcile", "load track", fmt.Sprintf("track %d is not in the library", trackID), nil)
	}
	return track, nil
}

func (r *Reconciler) query(track *library.Track) catalog.Query {
	return catalog.Query{
		Title:               track.Title,
		Artist:              track.Artist,
		DurationHintSeconds: track.DurationSeconds,
		MaxResults:          r.cfg.Matcher.MaxCandidates,
		MinScore:            r.cfg.Matcher.MinScore,
	}
}

// finish publishes the terminal progress event for a track and passes the
// result through.
func (r *Reconciler) finish(index, total int, track *library.Track, result Result) Result {
	r.publish(ProgressEvent{Index: index, Total: total, TrackTitle: track.DisplayTitle(), Phase: PhaseComplete})
	return result
}

func (r *Reconciler) failRemaining(batch *BatchResult, trackIDs []int64, cause error) {
	for _, trackID := range trackIDs {
		batch.add(Result{
			TrackID: trackID,
			Error:   services.Wrap(services.ErrTransient, "reconcile", "batch", "canceled before track was processed", cause).Error(),
		})
	}
}

func trackLabel(trackID int64) string {
	return fmt.Sprintf("track %d", trackID)
}
