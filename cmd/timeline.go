package main

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/geotagger/internal/photos"
	"github.com/sells-group/geotagger/internal/takeout"
)

// addTimelineFlags registers the flags every timeline-reading command shares.
func addTimelineFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("timeline", "", "path to the Timeline.json export (overrides config)")
	f.String("timezone", "", "zone for timestamps without an offset: IANA name, UTC or +HH:MM (overrides config)")
}

// flagOrConfig returns the flag value when it was set on the command line,
// otherwise the configured fallback.
func flagOrConfig(cmd *cobra.Command, name, fallback string) string {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return fallback
}

// loadTimeline resolves --timeline and --timezone and decodes the export.
func loadTimeline(cmd *cobra.Command) (*takeout.Timeline, string, *time.Location, error) {
	command := cmd.Name()

	path := flagOrConfig(cmd, "timeline", cfg.Timeline.Path)
	if path == "" {
		return nil, "", nil, eris.Errorf("%s: --timeline is required", command)
	}

	loc, err := photos.LoadTimezone(flagOrConfig(cmd, "timezone", cfg.Photos.Timezone))
	if err != nil {
		return nil, "", nil, eris.Wrap(err, command)
	}

	tl, err := takeout.Load(path)
	if err != nil {
		return nil, "", nil, eris.Wrap(err, command)
	}
	return tl, path, loc, nil
}
