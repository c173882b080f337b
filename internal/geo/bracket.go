package geo

import (
	"time"

	"github.com/twpayne/go-geom"
)

// Bracket pairs the nearest observation at or before a query instant with the
// nearest observation at or after it.
type Bracket struct {
	Before Candidate
	After  Candidate
}

// Degenerate reports whether both sides sit at the same offset, in which case
// the bracket collapses to a single point.
func (b Bracket) Degenerate() bool {
	return b.Before.OffsetSeconds == b.After.OffsetSeconds
}

// Span is the time covered by the bracket.
func (b Bracket) Span() time.Duration {
	return time.Duration(b.After.OffsetSeconds-b.Before.OffsetSeconds) * time.Second
}

// LineString returns the bracket as a two-vertex line in lng/lat order.
func (b Bracket) LineString() *geom.LineString {
	return geom.NewLineStringFlat(geom.XY, []float64{
		b.Before.Longitude, b.Before.Latitude,
		b.After.Longitude, b.After.Latitude,
	}).SetSRID(4326)
}

// SelectBracket scans observations once and keeps the closest candidate on
// each side of query. Equal offsets resolve to the last one scanned, so input
// order is significant. An observation exactly at query fills both sides.
// ok is false when either side has no candidate.
func SelectBracket(observations []Observation, query time.Time) (b Bracket, ok bool) {
	var haveBefore, haveAfter bool

	for _, o := range observations {
		c := o.Relative(query)

		switch {
		case c.OffsetSeconds == 0:
			b.Before, b.After = c, c
			haveBefore, haveAfter = true, true
		case c.OffsetSeconds < 0:
			if !haveBefore || c.OffsetSeconds >= b.Before.OffsetSeconds {
				b.Before = c
				haveBefore = true
			}
		default:
			if !haveAfter || c.OffsetSeconds <= b.After.OffsetSeconds {
				b.After = c
				haveAfter = true
			}
		}
	}

	if !haveBefore || !haveAfter {
		return Bracket{}, false
	}
	return b, true
}
