// Package geo estimates where someone was at a given instant from a sparse
// location history: bracket selection over timestamped observations followed
// by linear interpolation, with a fixed fallback order between streams.
package geo

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"golang.org/x/text/encoding/charmap"
)

// Typed parse failures. A record that fails with either is skipped, never fatal.
var (
	ErrMalformedCoordinate = eris.New("geo: malformed coordinate")
	ErrMalformedTimestamp  = eris.New("geo: malformed timestamp")
)

// Degree domains.
const (
	maxLatitude  = 90.0
	maxLongitude = 180.0
)

const degreeGlyph = "°"

// Record is a raw sample as handed over by the schema layer.
type Record struct {
	Coordinate string
	Timestamp  string
	Altitude   *float64
}

// Observation is a single timestamped position. It is never mutated after
// construction and may be shared between concurrent queries.
type Observation struct {
	Latitude  float64
	Longitude float64
	Altitude  *float64
	Instant   time.Time
}

// Candidate is an Observation seen from one query instant.
type Candidate struct {
	Observation
	// OffsetSeconds is round(Instant - query) in whole seconds.
	OffsetSeconds int64
}

// ParseCoordinate parses "lat, lng" where each number may carry a trailing
// degree glyph, e.g. "54.7973628°, -1.5921431°".
func ParseCoordinate(raw string) (float64, float64, error) {
	parts := strings.Split(repairMojibake(raw), ",")
	if len(parts) != 2 {
		return 0, 0, eris.Wrapf(ErrMalformedCoordinate, "expected two fields in %q", raw)
	}

	lat, ok := parseDegrees(parts[0], maxLatitude)
	if !ok {
		return 0, 0, eris.Wrapf(ErrMalformedCoordinate, "latitude in %q", raw)
	}
	lng, ok := parseDegrees(parts[1], maxLongitude)
	if !ok {
		return 0, 0, eris.Wrapf(ErrMalformedCoordinate, "longitude in %q", raw)
	}
	return lat, lng, nil
}

// parseDegrees parses one field with at most one trailing degree glyph. The
// value must be finite and within [-limit, limit].
func parseDegrees(field string, limit float64) (float64, bool) {
	s := strings.TrimSuffix(strings.TrimSpace(field), degreeGlyph)
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || v < -limit || v > limit {
		return 0, false
	}
	return v, true
}

// repairMojibake undoes the common UTF-8-read-as-Latin-1 corruption where "°"
// arrives as "Â°". Strings that are not Latin-1 representable are returned as-is.
func repairMojibake(s string) string {
	if !strings.Contains(s, "Â") {
		return s
	}
	latin, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil {
		return strings.ReplaceAll(s, "Â", "")
	}
	return latin
}

// ParseTimestamp parses an RFC 3339 timestamp with an explicit offset and
// returns it in UTC.
func ParseTimestamp(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, eris.Wrapf(ErrMalformedTimestamp, "%q", raw)
	}
	return t.UTC(), nil
}

// ParseObservation builds an Observation from a raw record.
func ParseObservation(rec Record) (Observation, error) {
	instant, err := ParseTimestamp(rec.Timestamp)
	if err != nil {
		return Observation{}, err
	}
	lat, lng, err := ParseCoordinate(rec.Coordinate)
	if err != nil {
		return Observation{}, err
	}

	o := Observation{Latitude: lat, Longitude: lng, Instant: instant}
	if rec.Altitude != nil {
		alt := *rec.Altitude
		o.Altitude = &alt
	}
	return o, nil
}

// NewCandidate parses a record and immediately positions it relative to query.
func NewCandidate(rec Record, query time.Time) (Candidate, error) {
	o, err := ParseObservation(rec)
	if err != nil {
		return Candidate{}, err
	}
	return o.Relative(query), nil
}

// Relative returns the observation with its offset from query.
func (o Observation) Relative(query time.Time) Candidate {
	return Candidate{
		Observation:   o,
		OffsetSeconds: offsetSeconds(o.Instant, query),
	}
}

func offsetSeconds(instant, query time.Time) int64 {
	return int64(instant.Sub(query).Round(time.Second) / time.Second)
}

// Point returns the observation as a go-geom point (XY, or XYZ with altitude).
func (o Observation) Point() *geom.Point {
	return newPoint(o.Longitude, o.Latitude, o.Altitude)
}

func newPoint(lng, lat float64, alt *float64) *geom.Point {
	if alt != nil {
		return geom.NewPointFlat(geom.XYZ, []float64{lng, lat, *alt}).SetSRID(4326)
	}
	return geom.NewPointFlat(geom.XY, []float64{lng, lat}).SetSRID(4326)
}
