package main

import (
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/geotagger/internal/exif"
	"github.com/sells-group/geotagger/internal/photos"
)

var geotagCmd = &cobra.Command{
	Use:   "geotag",
	Short: "Write GPS tags into a directory of photos",
	Long: `Reads each photo's DateTimeOriginal, interprets it in --timezone, locates
that instant in the timeline and writes the GPS tags with exiftool.

Photos that cannot be located are reported as unresolved and left untouched.
A failure on one photo never stops the others.`,
	Example: `  geotagger geotag --timeline Timeline.json --photos ./DCIM --timezone Europe/London
  geotagger geotag --timeline Timeline.json --photos ./DCIM --timezone +01:00 --dry-run --format csv`,
	RunE: runGeotag,
}

func init() {
	addTimelineFlags(geotagCmd)
	f := geotagCmd.Flags()
	f.String("photos", "", "directory of photos to tag, not descended (overrides config)")
	f.Int("concurrency", 0, "photos processed in parallel (overrides config)")
	f.Bool("dry-run", false, "locate photos without writing tags")
	f.String("format", formatText, "output format: text, json, yaml or csv")

	rootCmd.AddCommand(geotagCmd)
}

func runGeotag(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	format, _ := cmd.Flags().GetString("format")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if err := checkFormat("geotag", format, formatText, formatJSON, formatYAML, formatCSV); err != nil {
		return err
	}

	dir := flagOrConfig(cmd, "photos", cfg.Photos.Dir)
	if dir == "" {
		return eris.New("geotag: --photos is required")
	}
	concurrency := cfg.Batch.Concurrency
	if cmd.Flags().Changed("concurrency") {
		concurrency, _ = cmd.Flags().GetInt("concurrency")
	}
	if concurrency < 1 {
		return eris.Errorf("geotag: --concurrency must be at least 1 (got %d)", concurrency)
	}

	tl, timelinePath, loc, err := loadTimeline(cmd)
	if err != nil {
		return err
	}
	resolver := tl.Resolver(loc)

	log := zap.L().With(zap.String("command", "geotag"))
	for _, s := range resolver.Stats() {
		log.Info("timeline stream loaded",
			zap.String("timeline", timelinePath),
			zap.String("stream", s.Name),
			zap.Int("usable", s.Usable),
			zap.Int("skipped", s.Skipped),
		)
	}

	paths, err := photos.Scan(dir, cfg.Photos.Extensions)
	if err != nil {
		return eris.Wrap(err, "geotag")
	}

	rw, err := exif.NewReadWriter(cfg.Exif)
	if err != nil {
		return eris.Wrap(err, "geotag")
	}

	tagger := photos.NewTagger(resolver, rw, photos.Options{
		Timezone:    loc,
		Concurrency: concurrency,
		DryRun:      dryRun,
	})
	sum, runErr := tagger.Run(ctx, paths)
	if sum == nil {
		return runErr
	}

	if err := renderGeotag(cmd.OutOrStdout(), format, sum); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}
	if sum.Failed > 0 {
		return eris.Errorf("geotag: %d of %d photos failed", sum.Failed, sum.Total)
	}
	return nil
}

func renderGeotag(w io.Writer, format string, sum *photos.Summary) error {
	switch format {
	case formatJSON:
		return writeJSON(w, sum)
	case formatYAML:
		return writeYAML(w, sum)
	case formatCSV:
		if err := gocsv.Marshal(outcomeRows(sum), w); err != nil {
			return eris.Wrap(err, "geotag: write csv")
		}
		return nil
	default:
		return writeGeotagText(w, sum)
	}
}

// outcomeRow is the flat CSV view of one photo outcome.
type outcomeRow struct {
	Photo       string `csv:"photo"`
	Status      string `csv:"status"`
	CaptureTime string `csv:"capture_time"`
	Latitude    string `csv:"latitude"`
	Longitude   string `csv:"longitude"`
	Altitude    string `csv:"altitude"`
	Source      string `csv:"source"`
	Error       string `csv:"error"`
}

func outcomeRows(sum *photos.Summary) []*outcomeRow {
	rows := make([]*outcomeRow, 0, len(sum.Outcomes))
	for _, out := range sum.Outcomes {
		row := &outcomeRow{
			Photo:  out.Path,
			Status: string(out.Status),
			Error:  out.Error,
		}
		if !out.CaptureTime.IsZero() {
			row.CaptureTime = out.CaptureTime.Format(time.RFC3339)
		}
		if p := out.Position; p != nil {
			row.Latitude = strconv.FormatFloat(p.Latitude, 'f', -1, 64)
			row.Longitude = strconv.FormatFloat(p.Longitude, 'f', -1, 64)
			if p.Altitude != nil {
				row.Altitude = strconv.FormatFloat(*p.Altitude, 'f', -1, 64)
			}
			row.Source = p.Source
		}
		rows = append(rows, row)
	}
	return rows
}

// writeGeotagText writes a tabular list of outcomes followed by totals.
func writeGeotagText(out io.Writer, sum *photos.Summary) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "PHOTO\tSTATUS\tCAPTURED (UTC)\tLAT\tLNG\tALT\tSOURCE\tERROR")
	_, _ = fmt.Fprintln(w, "-----\t------\t--------------\t---\t---\t---\t------\t-----")

	for _, o := range sum.Outcomes {
		captured, lat, lng, alt, source := "-", "-", "-", "-", "-"
		if !o.CaptureTime.IsZero() {
			captured = o.CaptureTime.Format("2006-01-02 15:04:05")
		}
		if p := o.Position; p != nil {
			lat = strconv.FormatFloat(p.Latitude, 'f', 7, 64)
			lng = strconv.FormatFloat(p.Longitude, 'f', 7, 64)
			alt = formatAltitude(p.Altitude)
			source = p.Source
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			filepath.Base(o.Path), o.Status, captured, lat, lng, alt, source, truncate(o.Error, 60))
	}
	if err := w.Flush(); err != nil {
		return eris.Wrap(err, "geotag: write output")
	}

	_, err := fmt.Fprintf(out, "\nrun %s: %d photos, %d tagged, %d dry-run, %d unresolved, %d failed\n",
		sum.RunID, sum.Total, sum.Tagged, sum.DryRun, sum.Unresolved, sum.Failed)
	if err != nil {
		return eris.Wrap(err, "geotag: write output")
	}
	return nil
}

// truncate shortens s to at most limit runes, cutting on a rune boundary.
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}
