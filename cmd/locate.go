package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/sells-group/geotagger/internal/geo"
)

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Estimate the position at an instant",
	Long:  "Brackets the instant with the nearest fixes from the timeline (raw signals first, path waypoints second) and interpolates between them.",
	Example: `  geotagger locate --timeline Timeline.json --at 2025-08-11T16:26:00+01:00
  geotagger locate --timeline Timeline.json --at 2025-08-11T15:26:00Z --format geojson`,
	RunE: runLocate,
}

func init() {
	addTimelineFlags(locateCmd)
	f := locateCmd.Flags()
	f.String("at", "", "instant to locate, RFC 3339 (required)")
	f.String("format", formatText, "output format: text, json, yaml or geojson")
	_ = locateCmd.MarkFlagRequired("at")

	rootCmd.AddCommand(locateCmd)
}

func runLocate(cmd *cobra.Command, _ []string) error {
	at, _ := cmd.Flags().GetString("at")
	format, _ := cmd.Flags().GetString("format")

	if err := checkFormat("locate", format, formatText, formatJSON, formatYAML, formatGeoJSON); err != nil {
		return err
	}
	query, err := time.Parse(time.RFC3339Nano, at)
	if err != nil {
		return eris.Wrapf(err, "locate: --at %q is not an RFC 3339 timestamp", at)
	}

	tl, _, loc, err := loadTimeline(cmd)
	if err != nil {
		return err
	}
	resolver := tl.Resolver(loc)

	pos, b, err := resolver.Resolve(query)
	if err != nil {
		return eris.Wrap(err, "locate")
	}

	zap.L().Debug("locate: bracket selected",
		zap.String("source", pos.Source),
		zap.Int64("before_offset_seconds", b.Before.OffsetSeconds),
		zap.Int64("after_offset_seconds", b.After.OffsetSeconds),
	)

	return renderLocate(cmd.OutOrStdout(), format, pos, b)
}

func renderLocate(w io.Writer, format string, pos geo.EstimatedPosition, b geo.Bracket) error {
	switch format {
	case formatJSON:
		return writeJSON(w, pos)
	case formatYAML:
		return writeYAML(w, pos)
	case formatGeoJSON:
		return writeJSON(w, locateFeatures(pos, b))
	default:
		return writeLocateText(w, pos, b)
	}
}

// locateFeatures renders the estimate and the bracket it came from.
func locateFeatures(pos geo.EstimatedPosition, b geo.Bracket) *geojson.FeatureCollection {
	return &geojson.FeatureCollection{
		Features: []*geojson.Feature{
			{
				ID:       "estimate",
				Geometry: pos.Point(),
				Properties: map[string]interface{}{
					"instant": pos.Instant.UTC().Format(time.RFC3339),
					"source":  pos.Source,
				},
			},
			{
				ID:       "bracket",
				Geometry: b.LineString(),
				Properties: map[string]interface{}{
					"before":                b.Before.Instant.Format(time.RFC3339),
					"after":                 b.After.Instant.Format(time.RFC3339),
					"before_offset_seconds": b.Before.OffsetSeconds,
					"after_offset_seconds":  b.After.OffsetSeconds,
					"progress":              geo.Progress(b),
				},
			},
		},
	}
}

func writeLocateText(out io.Writer, pos geo.EstimatedPosition, b geo.Bracket) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Instant:\t%s\n", pos.Instant.UTC().Format(time.RFC3339))
	_, _ = fmt.Fprintf(w, "Latitude:\t%.7f\n", pos.Latitude)
	_, _ = fmt.Fprintf(w, "Longitude:\t%.7f\n", pos.Longitude)
	_, _ = fmt.Fprintf(w, "Altitude:\t%s\n", formatAltitude(pos.Altitude))
	_, _ = fmt.Fprintf(w, "Source:\t%s\n", pos.Source)
	_, _ = fmt.Fprintf(w, "Bracket:\t%+ds / %+ds\n", b.Before.OffsetSeconds, b.After.OffsetSeconds)
	if err := w.Flush(); err != nil {
		return eris.Wrap(err, "locate: write output")
	}
	return nil
}
