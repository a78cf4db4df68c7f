package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"stylus/internal/library"
)

func newTracksCommand(ctx *commandContext) *cobra.Command {
	var unlinkedOnly bool
	var missingBPMOnly bool

	cmd := &cobra.Command{
		Use:   "tracks",
		Short: "List library tracks",
		RunE: func(cmd *cobra.Command, args []string) error {
			if unlinkedOnly && missingBPMOnly {
				return errors.New("specify only one of --unlinked or --missing-bpm")
			}
			filter := library.FilterAll
			switch {
			case unlinkedOnly:
				filter = library.FilterUnlinked
			case missingBPMOnly:
				filter = library.FilterMissingBPM
			}

			return ctx.withStore(func(store *library.Store) error {
				tracks, err := store.List(cmd.Context(), filter)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(tracks) == 0 {
					fmt.Fprintln(out, "No tracks in the library")
					return nil
				}

				rows := make([][]string, 0, len(tracks))
				for _, track := range tracks {
					rows = append(rows, []string{
						strconv.FormatInt(track.ID, 10),
						track.DisplayTitle(),
						track.Artist,
						track.Album,
						formatBPM(track.BPM),
						track.Key,
						formatTrackLength(track.DurationSeconds),
						yesNo(track.Linked()),
					})
				}
				listing := renderTable(
					[]string{"ID", "Title", "Artist", "Album", "BPM", "Key", "Length", "Linked"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignLeft},
				)
				fmt.Fprintln(out, listing)
				fmt.Fprintf(out, "%d tracks\n", len(tracks))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&unlinkedOnly, "unlinked", false, "Show only tracks without a catalog link")
	cmd.Flags().BoolVar(&missingBPMOnly, "missing-bpm", false, "Show only tracks without a BPM tag")
	return cmd
}
