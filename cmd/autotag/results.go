package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"autotag/internal/pipeline"
	"autotag/internal/record"
)

func renderOutcomes(out io.Writer, outcomes []pipeline.Outcome) string {
	colorize := shouldColorize(out)
	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		rows = append(rows, outcomeRow(o, colorize))
	}
	return renderColumns([]column{
		{name: "File"},
		{name: "Artist"},
		{name: "Title"},
		{name: "Label"},
		{name: "Confidence", numeric: true},
		{name: "Status"},
	}, rows)
}

func outcomeRow(o pipeline.Outcome, colorize bool) []string {
	artist, title, label, confidence := "", "", "", ""
	if o.Record != nil {
		artist = o.Record.Artist
		title = o.Record.Title
		label = string(o.Record.Label)
		confidence = fmt.Sprintf("%.2f", o.Record.Confidence)
	}
	return []string{
		filepath.Base(o.Path),
		artist,
		title,
		label,
		confidence,
		statusCell(o, colorize),
	}
}

func statusCell(o pipeline.Outcome, colorize bool) string {
	switch {
	case o.Err != nil:
		return paint(colorize, text.FgRed, "error: "+o.Err.Error())
	case o.State == pipeline.StateRejected:
		status := "rejected"
		if o.Reason != "" {
			status += ": " + o.Reason
		}
		return paint(colorize, text.FgYellow, status)
	case o.State == pipeline.StateFinalized:
		if o.Record != nil && o.Record.Label == record.LabelHigh {
			return paint(colorize, text.FgGreen, "tagged")
		}
		return paint(colorize, text.FgGreen, "tagged (review advised)")
	default:
		return string(o.State)
	}
}

func paint(colorize bool, color text.Color, s string) string {
	if !colorize {
		return s
	}
	return color.Sprint(s)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
