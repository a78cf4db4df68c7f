package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"stylus/internal/catalog"
	"stylus/internal/config"
	"stylus/internal/library"
	"stylus/internal/logging"
	"stylus/internal/match"
	"stylus/internal/reconcile"
	"stylus/internal/tagfile"
)

func parseTrackIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid track id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// resolveTrackIDs turns command arguments or a library filter into the track
// ids a batch will process. Explicit ids win over filters.
func resolveTrackIDs(ctx context.Context, store *library.Store, args []string, unlinkedOnly bool) ([]int64, error) {
	if len(args) > 0 {
		return parseTrackIDs(args)
	}
	filter := library.FilterAll
	if unlinkedOnly {
		filter = library.FilterUnlinked
	}
	tracks, err := store.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(tracks))
	for _, track := range tracks {
		ids = append(ids, track.ID)
	}
	return ids, nil
}

// buildReconciler wires the catalog client, scorer, and tag writer into a
// reconciler around the already open store.
func buildReconciler(cfg *config.Config, store *library.Store, logger *slog.Logger, sink reconcile.ProgressSink) (*reconcile.Reconciler, error) {
	searcher, err := catalog.New(cfg.Catalog, match.NewScorer(cfg.Matcher))
	if err != nil {
		return nil, fmt.Errorf("create catalog client: %w", err)
	}
	return reconcile.NewWithProgress(cfg, store, searcher, tagfile.NewWriter(), logger, sink), nil
}

// batchLogger builds the logger for one command run. With quietTerminal set
// the log stream goes to the log file only, leaving stdout to tables and
// progress bars; otherwise log lines land on stdout plus the log file.
func batchLogger(cfg *config.Config, quietTerminal bool) (*slog.Logger, error) {
	if !quietTerminal {
		return logging.NewFromConfig(cfg)
	}
	if err := os.MkdirAll(cfg.Paths.LogDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure log directory: %w", err)
	}
	logPath := filepath.Join(cfg.Paths.LogDir, "stylus.log")
	return logging.New(logging.Options{
		Level:            cfg.Logging.Level,
		Format:           cfg.Logging.Format,
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	})
}

// acquireBatchLock takes the library-wide file lock that keeps concurrent
// tag-writing batches from interleaving. Callers must Unlock the result.
func acquireBatchLock(cfg *config.Config) (*flock.Flock, error) {
	lock := flock.New(filepath.Join(cfg.Paths.LogDir, "stylus.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire library lock: %w", err)
	}
	if !ok {
		return nil, errors.New("another stylus batch is already running")
	}
	return lock, nil
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func newBatchBar(total int, w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("reconciling"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
	)
}

// barSink advances the bar once per finished track and shows the title of
// the track currently being searched.
func barSink(bar *progressbar.ProgressBar) reconcile.ProgressSink {
	return reconcile.SinkFunc(func(event reconcile.ProgressEvent) {
		switch event.Phase {
		case reconcile.PhaseSearching:
			bar.Describe(event.TrackTitle)
		case reconcile.PhaseComplete:
			_ = bar.Add(1)
		}
	})
}

func printBatchSummary(out io.Writer, batch *reconcile.BatchResult, elapsed time.Duration) {
	rows := make([][]string, 0, len(batch.Results))
	for _, result := range batch.Results {
		status := "ok"
		if !result.Success {
			status = "failed"
		}
		applied := strings.Join(result.AppliedFields(), ", ")
		if applied == "" && result.Success {
			applied = "up to date"
		}
		rows = append(rows, []string{
			strconv.FormatInt(result.TrackID, 10),
			status,
			formatCatalogID(result.CatalogID),
			applied,
			result.Error,
		})
	}
	summary := renderTable(
		[]string{"Track", "Status", "Catalog", "Applied", "Error"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft},
	)
	fmt.Fprintln(out, summary)

	if batch.FailedCount == 0 {
		fmt.Fprintf(out, "✅ Reconciled %d tracks in %s\n", batch.SuccessCount, elapsed.Round(time.Millisecond))
		return
	}
	fmt.Fprintf(out, "⚠️  Reconciled %d of %d tracks (%d failed) in %s\n",
		batch.SuccessCount, batch.Total, batch.FailedCount, elapsed.Round(time.Millisecond))
}

func formatCatalogID(id int64) string {
	if id == 0 {
		return "-"
	}
	return strconv.FormatInt(id, 10)
}

func formatBPM(bpm float64) string {
	if bpm <= 0 {
		return ""
	}
	return strconv.FormatFloat(bpm, 'f', -1, 64)
}

// formatTrackLength renders seconds as m:ss the way track lists print it.
func formatTrackLength(seconds float64) string {
	if seconds <= 0 {
		return ""
	}
	total := int(seconds + 0.5)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
