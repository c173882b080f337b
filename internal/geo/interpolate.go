package geo

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// ErrOutOfBounds is returned by InterpolateBetween when the query instant
// falls outside the supplied pair.
var ErrOutOfBounds = eris.New("geo: query instant out of bounds")

// EstimatedPosition is an interpolated position at a query instant.
type EstimatedPosition struct {
	Latitude      float64   `json:"latitude" yaml:"latitude"`
	Longitude     float64   `json:"longitude" yaml:"longitude"`
	Altitude      *float64  `json:"altitude,omitempty" yaml:"altitude,omitempty"`
	Instant       time.Time `json:"instant" yaml:"instant"`
	OffsetSeconds int64     `json:"offset_seconds" yaml:"offset_seconds"`
	// Source names the stream the bracket came from, empty for direct pairs.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// Point returns the estimate as a go-geom point (XY, or XYZ with altitude).
func (p EstimatedPosition) Point() *geom.Point {
	return newPoint(p.Longitude, p.Latitude, p.Altitude)
}

// Progress is the fraction of the bracket elapsed at the query instant.
// It is 0 for a degenerate bracket.
func Progress(b Bracket) float64 {
	if b.Degenerate() {
		return 0
	}
	return float64(-b.Before.OffsetSeconds) / float64(b.After.OffsetSeconds-b.Before.OffsetSeconds)
}

// Interpolate estimates the position at query by straight-line interpolation
// between the bracket ends. Latitude and longitude are treated as planar;
// brackets span seconds to minutes.
func Interpolate(b Bracket, query time.Time) EstimatedPosition {
	if b.Degenerate() {
		return EstimatedPosition{
			Latitude:  b.Before.Latitude,
			Longitude: b.Before.Longitude,
			Altitude:  copyAltitude(b.Before.Altitude),
			Instant:   query,
		}
	}

	progress := Progress(b)
	pos := EstimatedPosition{
		Latitude:  lerp(b.Before.Latitude, b.After.Latitude, progress),
		Longitude: lerp(b.Before.Longitude, b.After.Longitude, progress),
		Instant:   query,
	}
	if b.Before.Altitude != nil && b.After.Altitude != nil {
		alt := lerp(*b.Before.Altitude, *b.After.Altitude, progress)
		pos.Altitude = &alt
	}
	return pos
}

// InterpolateBetween interpolates between an arbitrary pair of observations.
// Unlike Interpolate it does not trust its input: a query outside
// [before.Instant, after.Instant] fails with ErrOutOfBounds.
func InterpolateBetween(before, after Observation, query time.Time) (EstimatedPosition, error) {
	b := Bracket{Before: before.Relative(query), After: after.Relative(query)}
	if b.Degenerate() {
		return Interpolate(b, query), nil
	}

	if query.Before(before.Instant) || query.After(after.Instant) {
		return EstimatedPosition{}, eris.Wrapf(ErrOutOfBounds, "%s not within [%s, %s]",
			query.UTC().Format(time.RFC3339), before.Instant.Format(time.RFC3339), after.Instant.Format(time.RFC3339))
	}
	return Interpolate(b, query), nil
}

func lerp(from, to, progress float64) float64 {
	return from + (to-from)*progress
}

func copyAltitude(alt *float64) *float64 {
	if alt == nil {
		return nil
	}
	v := *alt
	return &v
}
