package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"stylus/internal/config"
	"stylus/internal/library"
	"stylus/internal/logging"
	"stylus/internal/tagfile"
)

type scanOutcome int

const (
	scanAdded scanOutcome = iota
	scanUpdated
	scanUnchanged
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan [dir...]",
		Short: "Import audio files into the library",
		Long: `Scan walks the given directories (or the configured music_dir) for audio
files, reads their tags, and inserts or refreshes library rows keyed by file
path. Catalog links on existing rows are preserved.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			roots := args
			if len(roots) == 0 {
				if strings.TrimSpace(cfg.Paths.MusicDir) == "" {
					return errors.New("no directories given and paths.music_dir is not configured")
				}
				roots = []string{cfg.Paths.MusicDir}
			}

			logger, err := batchLogger(cfg, true)
			if err != nil {
				return err
			}

			lock, err := acquireBatchLock(cfg)
			if err != nil {
				return err
			}
			defer lock.Unlock()

			return ctx.withStore(func(store *library.Store) error {
				scanCtx := cmd.Context()
				var added, updated, unchanged, failed int

				for _, root := range roots {
					expanded, err := config.ExpandPath(root)
					if err != nil {
						return err
					}
					walkErr := filepath.WalkDir(expanded, func(path string, entry fs.DirEntry, err error) error {
						if err != nil {
							return err
						}
						if scanCtx.Err() != nil {
							return scanCtx.Err()
						}
						if entry.IsDir() || !tagfile.IsAudioFile(path) {
							return nil
						}
						outcome, importErr := importFile(scanCtx, store, path)
						if importErr != nil {
							failed++
							logger.Warn("file skipped",
								logging.String("path", path),
								logging.Error(importErr))
							return nil
						}
						switch outcome {
						case scanAdded:
							added++
						case scanUpdated:
							updated++
						default:
							unchanged++
						}
						return nil
					})
					if walkErr != nil {
						return fmt.Errorf("scan %s: %w", root, walkErr)
					}
				}

				logger.Info("scan completed",
					logging.Int("added", added),
					logging.Int("updated", updated),
					logging.Int("unchanged", unchanged),
					logging.Int("failed", failed))

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "✅ Scan complete: %d added, %d updated, %d unchanged\n", added, updated, unchanged)
				if failed > 0 {
					fmt.Fprintf(out, "⚠️  %d files could not be read (see log)\n", failed)
				}
				return nil
			})
		},
	}
}

// importFile inserts a new row for the path or refreshes an existing one
// from the tags on disk.
func importFile(ctx context.Context, store *library.Store, path string) (scanOutcome, error) {
	read, err := tagfile.ReadTrack(path)
	if err != nil {
		return scanUnchanged, err
	}

	existing, err := store.FindByPath(ctx, path)
	if err != nil {
		return scanUnchanged, err
	}
	if existing == nil {
		if _, err := store.AddTrack(ctx, read); err != nil {
			return scanUnchanged, err
		}
		return scanAdded, nil
	}

	merged, changed := refreshFromFile(existing, read)
	if !changed {
		return scanUnchanged, nil
	}
	if err := store.UpdateTrack(ctx, &merged); err != nil {
		return scanUnchanged, err
	}
	return scanUpdated, nil
}

// refreshFromFile copies the file-derived fields onto the stored row while
// keeping its identity and catalog link.
func refreshFromFile(existing *library.Track, read *library.Track) (library.Track, bool) {
	merged := *existing
	merged.Title = read.Title
	merged.Artist = read.Artist
	merged.Album = read.Album
	merged.Genre = read.Genre
	merged.Label = read.Label
	merged.Year = read.Year
	merged.BPM = read.BPM
	merged.Key = read.Key
	merged.ISRC = read.ISRC
	merged.CatalogNumber = read.CatalogNumber
	merged.ArtworkURL = read.ArtworkURL
	merged.DurationSeconds = read.DurationSeconds
	return merged, merged != *existing
}
