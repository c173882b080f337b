package geo

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// ErrUnresolved means neither stream could bracket the query instant. It is an
// expected outcome (e.g. a photo taken outside the recorded history).
var ErrUnresolved = eris.New("geo: no location available for instant")

// Stream names, in resolution priority order.
const (
	StreamSignals = "signals"
	StreamPaths   = "paths"
)

// Stream is an immutable pool of parsed observations. Records that fail to
// parse are dropped when the stream is built; scan order is preserved.
type Stream struct {
	name         string
	observations []Observation
	skipped      int
}

// NewStream parses records into a Stream, skipping malformed ones.
func NewStream(name string, records []Record) *Stream {
	s := &Stream{name: name, observations: make([]Observation, 0, len(records))}
	log := zap.L().With(zap.String("component", "geo.stream"), zap.String("stream", name))

	for i, rec := range records {
		o, err := ParseObservation(rec)
		if err != nil {
			s.skipped++
			log.Debug("skipping record", zap.Int("index", i), zap.Error(err))
			continue
		}
		s.observations = append(s.observations, o)
	}

	if s.skipped > 0 {
		log.Info("skipped malformed records",
			zap.Int("skipped", s.skipped),
			zap.Int("usable", len(s.observations)),
		)
	}
	return s
}

// Name returns the stream name.
func (s *Stream) Name() string { return s.name }

// Len returns the number of usable observations.
func (s *Stream) Len() int { return len(s.observations) }

// Skipped returns the number of records dropped as malformed.
func (s *Stream) Skipped() int { return s.skipped }

// Bracket selects a bracket for query from this stream.
func (s *Stream) Bracket(query time.Time) (Bracket, bool) {
	return SelectBracket(s.observations, query)
}

// Span returns the earliest and latest instants in the stream.
func (s *Stream) Span() (first, last time.Time, ok bool) {
	for i, o := range s.observations {
		if i == 0 || o.Instant.Before(first) {
			first = o.Instant
		}
		if i == 0 || o.Instant.After(last) {
			last = o.Instant
		}
	}
	return first, last, len(s.observations) > 0
}

// Bounds returns the lng/lat bounding box of the stream, nil when empty.
func (s *Stream) Bounds() *geom.Bounds {
	if len(s.observations) == 0 {
		return nil
	}
	b := geom.NewBounds(geom.XY)
	for _, o := range s.observations {
		b.Extend(o.Point())
	}
	return b
}

// StreamStats summarises one stream.
type StreamStats struct {
	Name    string
	Usable  int
	Skipped int
}

// Resolver locates query instants against the signal stream first and the
// path stream second. It holds no mutable state after construction; Locate is
// safe for concurrent use.
type Resolver struct {
	streams []*Stream
}

// NewResolver builds a Resolver from the raw signal and path records.
func NewResolver(signals, paths []Record) *Resolver {
	return &Resolver{streams: []*Stream{
		NewStream(StreamSignals, signals),
		NewStream(StreamPaths, paths),
	}}
}

// Bracket returns the first complete bracket in priority order and the name
// of the stream that produced it.
func (r *Resolver) Bracket(query time.Time) (Bracket, string, error) {
	for _, s := range r.streams {
		if b, ok := s.Bracket(query); ok {
			return b, s.name, nil
		}
	}
	return Bracket{}, "", eris.Wrapf(ErrUnresolved, "%s", query.UTC().Format(time.RFC3339))
}

// Locate estimates the position at query.
func (r *Resolver) Locate(query time.Time) (EstimatedPosition, error) {
	pos, _, err := r.Resolve(query)
	return pos, err
}

// Resolve estimates the position at query and also returns the bracket the
// estimate was interpolated from.
func (r *Resolver) Resolve(query time.Time) (EstimatedPosition, Bracket, error) {
	b, source, err := r.Bracket(query)
	if err != nil {
		return EstimatedPosition{}, Bracket{}, err
	}
	pos := Interpolate(b, query)
	pos.Source = source
	return pos, b, nil
}

// Stats reports usable and skipped counts per stream, in priority order.
func (r *Resolver) Stats() []StreamStats {
	out := make([]StreamStats, 0, len(r.streams))
	for _, s := range r.streams {
		out = append(out, StreamStats{Name: s.name, Usable: s.Len(), Skipped: s.Skipped()})
	}
	return out
}

// Streams returns the resolver's streams in priority order.
func (r *Resolver) Streams() []*Stream {
	return r.streams
}
