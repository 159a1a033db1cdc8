package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"autotag/internal/pipeline"
	"autotag/internal/record"
)

func newIdentifyCommand(ctx *commandContext) *cobra.Command {
	var apply bool
	var fpcalcBin string

	cmd := &cobra.Command{
		Use:   "identify FILE",
		Short: "Identify a single MP3 and show the consolidated record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			app, err := newApp(cfg, pipeline.Options{Apply: apply, FpcalcBinary: fpcalcBin})
			if err != nil {
				return err
			}
			defer app.Close()

			outcome := app.pipeline.Process(cmd.Context(), args[0])
			if outcome.Err != nil {
				return outcome.Err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderRecord(outcome))
			if outcome.State == pipeline.StateRejected {
				fmt.Fprintf(out, "Rejected: %s\n", outcome.Reason)
			} else if apply {
				fmt.Fprintln(out, "Tags written")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Write the accepted record into the file's tags")
	cmd.Flags().StringVar(&fpcalcBin, "fpcalc", "", "Path to the fpcalc binary (defaults to PATH lookup)")
	return cmd
}

func renderRecord(outcome pipeline.Outcome) string {
	rec := outcome.Record
	if rec == nil {
		return "No record produced"
	}
	rows := [][]string{
		{"Artist", rec.Artist},
		{"Title", rec.Title},
		{"Album", rec.Album},
		{"Album artist", rec.AlbumArtist},
		{"Genre", rec.Genre},
		{"Year", rec.Year},
		{"Track", numberCell(rec.TrackNumber, rec.DiscNumber)},
		{"Publisher", rec.Editorial.Publisher},
		{"Catalog number", rec.Editorial.CatalogNumber},
		{"Country", rec.Editorial.Country},
		{"Styles", strings.Join(rec.Editorial.Styles, ", ")},
		{"Confidence", fmt.Sprintf("%.2f (%s)", rec.Confidence, rec.Label)},
	}
	for _, row := range idRows(rec.IDs) {
		rows = append(rows, row)
	}
	filled := rows[:0]
	for _, row := range rows {
		if strings.TrimSpace(row[1]) != "" {
			filled = append(filled, row)
		}
	}
	return renderColumns([]column{{name: "Field"}, {name: "Value"}}, filled)
}

func numberCell(track, disc int) string {
	switch {
	case track > 0 && disc > 0:
		return fmt.Sprintf("%d (disc %d)", track, disc)
	case track > 0:
		return fmt.Sprintf("%d", track)
	default:
		return ""
	}
}

func idRows(ids record.ExternalIDs) [][]string {
	rows := map[string]string{
		"MusicBrainz recording": ids.MusicBrainzTrack,
		"MusicBrainz release":   ids.MusicBrainzRelease,
		"Discogs release":       ids.DiscogsRelease,
		"Spotify track":         ids.Spotify,
		"AcoustID":              ids.AcoustID,
		"ISRC":                  ids.ISRC,
	}
	names := make([]string, 0, len(rows))
	for name, value := range rows {
		if value != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	out := make([][]string, 0, len(names))
	for _, name := range names {
		out = append(out, []string{name, rows[name]})
	}
	return out
}
