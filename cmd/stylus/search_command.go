package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"stylus/internal/config"
	"stylus/internal/library"
	"stylus/internal/reconcile"
)

// selectionPlan is the editable file the search command writes and the apply
// command reads back. chosen_catalog_id starts null on every entry; the user
// fills in a candidate id, sets 0 for "confirmed not in catalog", or deletes
// the entry to skip the track.
type selectionPlan struct {
	GeneratedAt string      `json:"generated_at"`
	Tracks      []planEntry `json:"tracks"`
}

type planEntry struct {
	TrackID         int64           `json:"track_id"`
	Title           string          `json:"title"`
	Artist          string          `json:"artist"`
	Filename        string          `json:"filename,omitempty"`
	DurationSeconds float64         `json:"duration_seconds,omitempty"`
	Candidates      []planCandidate `json:"candidates"`
	SearchError     string          `json:"search_error,omitempty"`
	ChosenCatalogID *int64          `json:"chosen_catalog_id"`
}

type planCandidate struct {
	CatalogID       int64   `json:"catalog_id"`
	Title           string  `json:"title"`
	Artists         string  `json:"artists"`
	BPM             float64 `json:"bpm,omitempty"`
	Key             string  `json:"key,omitempty"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
	Label           string  `json:"label,omitempty"`
	Score           float64 `json:"score"`
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var outPath string
	var searchUnlinked bool

	cmd := &cobra.Command{
		Use:   "search [id...]",
		Short: "Search catalog candidates for manual review",
		Long: `Search runs the catalog lookup for each track and prints the scored
candidates without changing anything. With --out it also writes an editable
selection plan for stylus apply.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 && searchUnlinked {
				return errors.New("track ids cannot be combined with --unlinked")
			}
			if len(args) == 0 && !searchUnlinked {
				return errors.New("specify track ids or --unlinked")
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			return ctx.withStore(func(store *library.Store) error {
				ids, err := resolveTrackIDs(cmd.Context(), store, args, searchUnlinked)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(ids) == 0 {
					fmt.Fprintln(out, "No tracks to search")
					return nil
				}

				logger, err := batchLogger(cfg, true)
				if err != nil {
					return err
				}
				rec, err := buildReconciler(cfg, store, logger, nil)
				if err != nil {
					return err
				}

				summary, err := rec.SearchBatch(cmd.Context(), ids)
				if err != nil {
					return err
				}

				printSearchSummary(out, summary)

				if outPath != "" {
					target, err := writePlan(outPath, buildPlan(summary))
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "\n📝 Selection plan written to %s\n", target)
					fmt.Fprintf(out, "Edit chosen_catalog_id per track (0 = not in catalog, delete the entry to skip), then run: stylus apply %s\n", target)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write an editable selection plan to this path")
	cmd.Flags().BoolVar(&searchUnlinked, "unlinked", false, "Search every track without a catalog link")
	return cmd
}

func printSearchSummary(out io.Writer, summary *reconcile.SearchSummary) {
	for _, set := range summary.Tracks {
		fmt.Fprintf(out, "\nTrack %d: %s\n", set.TrackID, searchLabel(set))
		switch {
		case set.SearchError != "":
			fmt.Fprintf(out, "  ⚠️  search failed: %s\n", set.SearchError)
		case len(set.Candidates) == 0:
			fmt.Fprintln(out, "  no candidates above the score threshold")
		default:
			rows := make([][]string, 0, len(set.Candidates))
			for _, candidate := range set.Candidates {
				rows = append(rows, []string{
					strconv.FormatInt(candidate.ID, 10),
					candidate.FullTitle(),
					candidate.Artists,
					formatBPM(candidate.BPM),
					candidate.Key,
					formatTrackLength(candidate.DurationSeconds),
					fmt.Sprintf("%.2f", candidate.Score),
				})
			}
			listing := renderTable(
				[]string{"Catalog", "Title", "Artists", "BPM", "Key", "Length", "Score"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignRight},
			)
			fmt.Fprintln(out, listing)
		}
	}
	fmt.Fprintf(out, "\nSearched %d tracks: %d with candidates, %d without\n",
		summary.Total, summary.WithCandidates, summary.WithoutCandidates)
}

func searchLabel(set reconcile.CandidateSet) string {
	label := strings.TrimSpace(set.Title)
	if label == "" {
		label = set.Filename
	}
	if set.Artist != "" {
		label = set.Artist + " - " + label
	}
	return label
}

func buildPlan(summary *reconcile.SearchSummary) selectionPlan {
	plan := selectionPlan{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Tracks:      make([]planEntry, 0, len(summary.Tracks)),
	}
	for _, set := range summary.Tracks {
		entry := planEntry{
			TrackID:         set.TrackID,
			Title:           set.Title,
			Artist:          set.Artist,
			Filename:        set.Filename,
			DurationSeconds: set.DurationSeconds,
			Candidates:      make([]planCandidate, 0, len(set.Candidates)),
			SearchError:     set.SearchError,
		}
		for _, candidate := range set.Candidates {
			entry.Candidates = append(entry.Candidates, planCandidate{
				CatalogID:       candidate.ID,
				Title:           candidate.FullTitle(),
				Artists:         candidate.Artists,
				BPM:             candidate.BPM,
				Key:             candidate.Key,
				DurationSeconds: candidate.DurationSeconds,
				Label:           candidate.Label,
				Score:           candidate.Score,
			})
		}
		plan.Tracks = append(plan.Tracks, entry)
	}
	return plan
}

func writePlan(path string, plan selectionPlan) (string, error) {
	target, err := config.ExpandPath(path)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode plan: %w", err)
	}
	if err := os.WriteFile(target, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write plan: %w", err)
	}
	return target, nil
}
