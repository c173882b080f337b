package photos

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/geotagger/internal/exif"
	"github.com/sells-group/geotagger/internal/geo"
)

// Locator estimates a position at an instant.
type Locator interface {
	Locate(query time.Time) (geo.EstimatedPosition, error)
}

// Status is the result of tagging one photo.
type Status string

// Photo statuses.
const (
	StatusTagged     Status = "tagged"
	StatusUnresolved Status = "unresolved"
	StatusFailed     Status = "failed"
	StatusDryRun     Status = "dry-run"
)

// Outcome records what happened to one photo.
type Outcome struct {
	Path   string `json:"path" yaml:"path"`
	Status Status `json:"status" yaml:"status"`
	// CaptureTime is the UTC capture instant; zero if it could not be read.
	CaptureTime time.Time              `json:"capture_time,omitzero" yaml:"capture_time,omitempty"`
	Position    *geo.EstimatedPosition `json:"position,omitempty" yaml:"position,omitempty"`
	Error       string                 `json:"error,omitempty" yaml:"error,omitempty"`
	Err         error                  `json:"-" yaml:"-"`
}

// Summary aggregates a batch run. Outcomes are in input order.
type Summary struct {
	RunID      string    `json:"run_id" yaml:"run_id"`
	Total      int       `json:"total" yaml:"total"`
	Tagged     int64     `json:"tagged" yaml:"tagged"`
	Unresolved int64     `json:"unresolved" yaml:"unresolved"`
	Failed     int64     `json:"failed" yaml:"failed"`
	DryRun     int64     `json:"dry_run" yaml:"dry_run"`
	Outcomes   []Outcome `json:"outcomes" yaml:"outcomes"`
}

// Options configures a Tagger.
type Options struct {
	// Timezone the cameras' wall clocks were set to. Nil means UTC.
	Timezone    *time.Location
	Concurrency int
	DryRun      bool
}

// Tagger geotags photos: read capture time, locate, write GPS tags.
type Tagger struct {
	locator     Locator
	exif        exif.ReadWriter
	loc         *time.Location
	concurrency int
	dryRun      bool
}

// NewTagger creates a Tagger.
func NewTagger(locator Locator, rw exif.ReadWriter, opts Options) *Tagger {
	if opts.Timezone == nil {
		opts.Timezone = time.UTC
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Tagger{
		locator:     locator,
		exif:        rw,
		loc:         opts.Timezone,
		concurrency: opts.Concurrency,
		dryRun:      opts.DryRun,
	}
}

// Run tags every photo concurrently. A photo that fails or cannot be located
// is recorded in the summary and never stops the others. When ctx is
// canceled, photos not yet started are marked failed and the context error
// is returned alongside the summary.
func (t *Tagger) Run(ctx context.Context, paths []string) (*Summary, error) {
	sum := &Summary{
		RunID:    uuid.NewString(),
		Total:    len(paths),
		Outcomes: make([]Outcome, len(paths)),
	}
	log := zap.L().With(zap.String("component", "photos.tagger"), zap.String("run_id", sum.RunID))
	log.Info("processing batch",
		zap.Int("photos", len(paths)),
		zap.Int("concurrency", t.concurrency),
		zap.Bool("dry_run", t.dryRun),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.concurrency)

	var tagged, unresolved, failed, dryRun atomic.Int64

	for i, path := range paths {
		g.Go(func() error {
			out := t.tag(gctx, path)
			sum.Outcomes[i] = out

			plog := log.With(zap.String("photo", filepath.Base(path)))
			switch out.Status {
			case StatusTagged:
				tagged.Add(1)
				plog.Info("photo tagged",
					zap.Float64("lat", out.Position.Latitude),
					zap.Float64("lng", out.Position.Longitude),
					zap.String("source", out.Position.Source),
				)
			case StatusDryRun:
				dryRun.Add(1)
				plog.Info("photo located (dry run)",
					zap.Float64("lat", out.Position.Latitude),
					zap.Float64("lng", out.Position.Longitude),
					zap.String("source", out.Position.Source),
				)
			case StatusUnresolved:
				unresolved.Add(1)
				plog.Warn("no location for photo", zap.Time("capture_time", out.CaptureTime))
			default:
				failed.Add(1)
				plog.Error("photo failed", zap.Error(out.Err))
			}
			return nil // don't abort batch on individual failure
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "photos: batch processing")
	}

	sum.Tagged = tagged.Load()
	sum.Unresolved = unresolved.Load()
	sum.Failed = failed.Load()
	sum.DryRun = dryRun.Load()

	log.Info("batch complete",
		zap.Int64("tagged", sum.Tagged),
		zap.Int64("unresolved", sum.Unresolved),
		zap.Int64("failed", sum.Failed),
		zap.Int64("dry_run", sum.DryRun),
	)

	if err := ctx.Err(); err != nil {
		return sum, eris.Wrap(err, "photos: batch canceled")
	}
	return sum, nil
}

func (t *Tagger) tag(ctx context.Context, path string) Outcome {
	out := Outcome{Path: path}
	fail := func(err error) Outcome {
		out.Status = StatusFailed
		out.Err = err
		out.Error = err.Error()
		return out
	}

	if err := ctx.Err(); err != nil {
		return fail(eris.Wrapf(err, "photos: %s not started", path))
	}

	raw, err := t.exif.CaptureTime(ctx, path)
	if err != nil {
		return fail(err)
	}
	at, err := exif.ParseCaptureTime(raw, t.loc)
	if err != nil {
		return fail(err)
	}
	out.CaptureTime = at

	pos, err := t.locator.Locate(at)
	if errors.Is(err, geo.ErrUnresolved) {
		out.Status = StatusUnresolved
		out.Err = err
		out.Error = err.Error()
		return out
	}
	if err != nil {
		return fail(err)
	}
	out.Position = &pos

	if t.dryRun {
		out.Status = StatusDryRun
		return out
	}

	if err := t.exif.WriteGPS(ctx, path, exif.NewGPSTag(pos)); err != nil {
		return fail(err)
	}
	out.Status = StatusTagged
	return out
}
