package takeout

import (
	"strings"
	"time"

	"github.com/sells-group/geotagger/internal/geo"
)

// Zone-less layouts seen in exports, tried in order.
var looseLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// NormalizeTimestamp rewrites a timestamp lacking a zone as RFC 3339 in loc.
// Timestamps that already carry an offset, and strings that match no known
// layout, are returned unchanged.
func NormalizeTimestamp(raw string, loc *time.Location) string {
	s := strings.TrimSpace(raw)
	if _, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return raw
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range looseLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.Format(time.RFC3339Nano)
		}
	}
	return raw
}

// SignalRecords returns the position fixes from rawSignals, in file order.
// Other signal kinds are ignored.
func (t *Timeline) SignalRecords(loc *time.Location) []geo.Record {
	var out []geo.Record
	for _, s := range t.RawSignals {
		if s.Kind != RawSignalPosition || s.Position == nil {
			continue
		}
		out = append(out, geo.Record{
			Coordinate: s.Position.LatLng,
			Timestamp:  NormalizeTimestamp(s.Position.Timestamp, loc),
			Altitude:   s.Position.AltitudeMeters,
		})
	}
	return out
}

// PathRecords flattens the waypoints of every path segment into one pool, in
// file order. Path waypoints never carry altitude.
func (t *Timeline) PathRecords(loc *time.Location) []geo.Record {
	var out []geo.Record
	for _, seg := range t.SemanticSegments {
		if seg.Kind != SegmentPath {
			continue
		}
		for _, p := range seg.TimelinePath {
			out = append(out, geo.Record{
				Coordinate: p.Point,
				Timestamp:  NormalizeTimestamp(p.Time, loc),
			})
		}
	}
	return out
}

// Resolver builds a geo.Resolver over this timeline.
func (t *Timeline) Resolver(loc *time.Location) *geo.Resolver {
	return geo.NewResolver(t.SignalRecords(loc), t.PathRecords(loc))
}

// Summary counts the variants present in a timeline.
type Summary struct {
	Segments       map[SegmentKind]int   `json:"segments" yaml:"segments"`
	Signals        map[RawSignalKind]int `json:"signals" yaml:"signals"`
	PathPoints     int                   `json:"path_points" yaml:"path_points"`
	FrequentPlaces int                   `json:"frequent_places" yaml:"frequent_places"`
}

// Summary tallies segment and signal kinds.
func (t *Timeline) Summary() Summary {
	sum := Summary{
		Segments: make(map[SegmentKind]int),
		Signals:  make(map[RawSignalKind]int),
	}
	for _, seg := range t.SemanticSegments {
		sum.Segments[seg.Kind]++
		sum.PathPoints += len(seg.TimelinePath)
	}
	for _, s := range t.RawSignals {
		sum.Signals[s.Kind]++
	}
	if t.UserLocationProfile != nil {
		sum.FrequentPlaces = len(t.UserLocationProfile.FrequentPlaces)
	}
	return sum
}
