package reconcile

import (
	"context"
	"path/filepath"

	"github.com/google/uuid"

	"stylus/internal/logging"
	"stylus/internal/services"
)

// SearchBatch runs the search phase for every track and returns the ranked
// candidate sets for manual review. Nothing is written: pair it with
// ApplySelections once the caller has decided.
func (r *Reconciler) SearchBatch(ctx context.Context, trackIDs []int64) (*SearchSummary, error) {
	if len(trackIDs) == 0 {
		return nil, services.Wrap(services.ErrValidation, "reconcile", "search batch", "no track ids supplied", nil)
	}

	batchID := uuid.NewString()
	ctx = services.WithBatchID(ctx, batchID)
	logger := logging.WithContext(ctx, r.logger)
	logger.Info("search batch started", logging.Int("track_count", len(trackIDs)))

	summary := &SearchSummary{BatchID: batchID}
	for i, trackID := range trackIDs {
		if ctxErr := ctx.Err(); ctxErr != nil {
			logger.Warn("search batch interrupted", logging.Error(ctxErr))
			for _, remaining := range trackIDs[i:] {
				summary.add(CandidateSet{
					TrackID:     remaining,
					SearchError: services.Wrap(services.ErrTransient, "reconcile", "search batch", "canceled before track was searched", ctxErr).Error(),
				})
			}
			break
		}
		summary.add(r.searchTrack(ctx, i+1, len(trackIDs), trackID))
	}

	logger.Info(
		"search batch completed",
		logging.Int("with_candidates", summary.WithCandidates),
		logging.Int("without_candidates", summary.WithoutCandidates),
	)
	return summary, nil
}

func (r *Reconciler) searchTrack(ctx context.Context, index, total int, trackID int64) CandidateSet {
	ctx = services.WithTrackID(ctx, trackID)
	logger := logging.WithContext(ctx, r.logger)

	track, err := r.loadTrack(ctx, trackID)
	if err != nil {
		logger.Warn("track load failed", logging.Error(err))
		r.publish(ProgressEvent{Index: index, Total: total, TrackTitle: trackLabel(trackID), Phase: PhaseComplete})
		return CandidateSet{TrackID: trackID, SearchError: err.Error()}
	}

	set := CandidateSet{
		TrackID:         trackID,
		Title:           track.Title,
		Artist:          track.Artist,
		DurationSeconds: track.DurationSeconds,
	}
	if track.Path != "" {
		set.Filename = filepath.Base(track.Path)
	}

	r.publish(ProgressEvent{Index: index, Total: total, TrackTitle: track.DisplayTitle(), Phase: PhaseSearching})
	candidates, err := r.searcher.SearchCandidates(ctx, r.query(track))
	switch {
	case err != nil:
		logger.Warn("candidate search failed", logging.Error(err))
		set.SearchError = err.Error()
	case len(candidates) == 0:
		logger.Info("no candidates above score threshold")
	default:
		logger.Debug("candidates found", logging.Int("candidate_count", len(candidates)))
		set.Candidates = candidates
	}
	r.publish(ProgressEvent{Index: index, Total: total, TrackTitle: track.DisplayTitle(), Phase: PhaseComplete})
	return set
}
