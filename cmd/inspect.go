package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/geotagger/internal/geo"
	"github.com/sells-group/geotagger/internal/takeout"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Summarise a timeline export",
	Long:  "Counts segment and signal kinds, and reports the usable fixes, skipped records, covered time span and bounding box of each position stream.",
	RunE:  runInspect,
}

func init() {
	addTimelineFlags(inspectCmd)
	inspectCmd.Flags().String("format", formatText, "output format: text, json or yaml")

	rootCmd.AddCommand(inspectCmd)
}

// inspectReport is the output of the inspect command.
type inspectReport struct {
	Timeline string          `json:"timeline" yaml:"timeline"`
	Summary  takeout.Summary `json:"summary" yaml:"summary"`
	Streams  []streamReport  `json:"streams" yaml:"streams"`
}

// streamReport describes one position stream.
type streamReport struct {
	Name    string     `json:"name" yaml:"name"`
	Usable  int        `json:"usable" yaml:"usable"`
	Skipped int        `json:"skipped" yaml:"skipped"`
	First   *time.Time `json:"first,omitempty" yaml:"first,omitempty"`
	Last    *time.Time `json:"last,omitempty" yaml:"last,omitempty"`
	// BBox is [min lng, min lat, max lng, max lat].
	BBox []float64 `json:"bbox,omitempty" yaml:"bbox,omitempty"`
}

func runInspect(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	if err := checkFormat("inspect", format, formatText, formatJSON, formatYAML); err != nil {
		return err
	}

	tl, path, loc, err := loadTimeline(cmd)
	if err != nil {
		return err
	}

	report := buildInspectReport(path, tl, tl.Resolver(loc))
	switch format {
	case formatJSON:
		return writeJSON(cmd.OutOrStdout(), report)
	case formatYAML:
		return writeYAML(cmd.OutOrStdout(), report)
	default:
		return writeInspectText(cmd.OutOrStdout(), report)
	}
}

func buildInspectReport(path string, tl *takeout.Timeline, resolver *geo.Resolver) inspectReport {
	report := inspectReport{Timeline: path, Summary: tl.Summary()}
	for _, s := range resolver.Streams() {
		sr := streamReport{Name: s.Name(), Usable: s.Len(), Skipped: s.Skipped()}
		if first, last, ok := s.Span(); ok {
			sr.First, sr.Last = &first, &last
		}
		if b := s.Bounds(); b != nil {
			sr.BBox = []float64{b.Min(0), b.Min(1), b.Max(0), b.Max(1)}
		}
		report.Streams = append(report.Streams, sr)
	}
	return report
}

func writeInspectText(out io.Writer, r inspectReport) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Timeline:\t%s\n", r.Timeline)
	_, _ = fmt.Fprintf(w, "Path points:\t%d\n", r.Summary.PathPoints)
	_, _ = fmt.Fprintf(w, "Frequent places:\t%d\n", r.Summary.FrequentPlaces)
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintln(w, "SEGMENT\tCOUNT")
	for _, kind := range slices.Sorted(maps.Keys(r.Summary.Segments)) {
		_, _ = fmt.Fprintf(w, "%s\t%d\n", kind, r.Summary.Segments[kind])
	}
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintln(w, "SIGNAL\tCOUNT")
	for _, kind := range slices.Sorted(maps.Keys(r.Summary.Signals)) {
		_, _ = fmt.Fprintf(w, "%s\t%d\n", kind, r.Summary.Signals[kind])
	}
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintln(w, "STREAM\tUSABLE\tSKIPPED\tFIRST\tLAST")
	for _, s := range r.Streams {
		first, last := "-", "-"
		if s.First != nil {
			first = s.First.UTC().Format(time.RFC3339)
			last = s.Last.UTC().Format(time.RFC3339)
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n", s.Name, s.Usable, s.Skipped, first, last)
	}
	if err := w.Flush(); err != nil {
		return eris.Wrap(err, "inspect: write output")
	}
	return nil
}
