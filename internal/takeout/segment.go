package takeout

import (
	"encoding/json"

	"github.com/rotisserie/eris"
)

// SegmentKind discriminates the SemanticSegment variants.
type SegmentKind string

// Segment kinds, identified by which payload key is present.
const (
	SegmentPath     SegmentKind = "path"
	SegmentActivity SegmentKind = "activity"
	SegmentVisit    SegmentKind = "visit"
	SegmentMemory   SegmentKind = "memory"
	SegmentUnknown  SegmentKind = "unknown"
)

// SemanticSegment is one entry of semanticSegments. The common time range is
// always decoded; exactly one payload matching Kind is set.
type SemanticSegment struct {
	Kind                              SegmentKind
	StartTime                         string
	EndTime                           string
	StartTimeTimezoneUTCOffsetMinutes *int
	EndTimeTimezoneUTCOffsetMinutes   *int

	TimelinePath []PathPoint
	Activity     *Activity
	Visit        *Visit
	Memory       *Memory
}

// PathPoint is one waypoint of a path segment.
type PathPoint struct {
	Point string `json:"point"`
	Time  string `json:"time"`
}

// LatLngLocation wraps a coordinate string in the export's "latLng" form.
type LatLngLocation struct {
	LatLng string `json:"latLng"`
}

// Activity is a movement between two places with its inferred mode.
type Activity struct {
	Start          LatLngLocation    `json:"start"`
	End            LatLngLocation    `json:"end"`
	DistanceMeters float64           `json:"distanceMeters"`
	TopCandidate   ActivityCandidate `json:"topCandidate"`
}

// ActivityCandidate is one inferred travel mode and its probability.
type ActivityCandidate struct {
	Type        string  `json:"type"`
	Probability float64 `json:"probability"`
}

// Visit is a stay at a single place.
type Visit struct {
	HierarchyLevel int            `json:"hierarchyLevel"`
	Probability    float64        `json:"probability"`
	TopCandidate   PlaceCandidate `json:"topCandidate"`
}

// PlaceCandidate is the place a visit most likely happened at.
type PlaceCandidate struct {
	PlaceID       string         `json:"placeId"`
	SemanticType  string         `json:"semanticType"`
	Probability   float64        `json:"probability"`
	PlaceLocation LatLngLocation `json:"placeLocation"`
}

// Memory is either a trip or a note.
type Memory struct {
	Trip *Trip `json:"trip,omitempty"`
	Note *Note `json:"note,omitempty"`
}

// Trip is a memory spanning several destinations away from home.
type Trip struct {
	DistanceFromOriginKms int               `json:"distanceFromOriginKms"`
	Destinations          []PlaceIdentifier `json:"destinations"`
}

// PlaceIdentifier names a trip destination by place ID.
type PlaceIdentifier struct {
	Identifier struct {
		PlaceID string `json:"placeId"`
	} `json:"identifier"`
}

// Note is a free-text memory.
type Note struct {
	Note string `json:"note"`
}

type semanticSegmentJSON struct {
	StartTime                         string      `json:"startTime"`
	EndTime                           string      `json:"endTime"`
	StartTimeTimezoneUTCOffsetMinutes *int        `json:"startTimeTimezoneUtcOffsetMinutes,omitempty"`
	EndTimeTimezoneUTCOffsetMinutes   *int        `json:"endTimeTimezoneUtcOffsetMinutes,omitempty"`
	TimelinePath                      []PathPoint `json:"timelinePath,omitempty"`
	Activity                          *Activity   `json:"activity,omitempty"`
	Visit                             *Visit      `json:"visit,omitempty"`
	TimelineMemory                    *Memory     `json:"timelineMemory,omitempty"`
}

// UnmarshalJSON decodes the segment and records which variant it is.
func (s *SemanticSegment) UnmarshalJSON(data []byte) error {
	var raw semanticSegmentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return eris.Wrap(err, "takeout: decode semantic segment")
	}

	*s = SemanticSegment{
		Kind:                              SegmentUnknown,
		StartTime:                         raw.StartTime,
		EndTime:                           raw.EndTime,
		StartTimeTimezoneUTCOffsetMinutes: raw.StartTimeTimezoneUTCOffsetMinutes,
		EndTimeTimezoneUTCOffsetMinutes:   raw.EndTimeTimezoneUTCOffsetMinutes,
	}

	switch {
	case raw.TimelinePath != nil:
		s.Kind, s.TimelinePath = SegmentPath, raw.TimelinePath
	case raw.Activity != nil:
		s.Kind, s.Activity = SegmentActivity, raw.Activity
	case raw.Visit != nil:
		s.Kind, s.Visit = SegmentVisit, raw.Visit
	case raw.TimelineMemory != nil:
		s.Kind, s.Memory = SegmentMemory, raw.TimelineMemory
	}
	return nil
}

// MarshalJSON encodes the segment with its variant payload.
func (s SemanticSegment) MarshalJSON() ([]byte, error) {
	return json.Marshal(semanticSegmentJSON{
		StartTime:                         s.StartTime,
		EndTime:                           s.EndTime,
		StartTimeTimezoneUTCOffsetMinutes: s.StartTimeTimezoneUTCOffsetMinutes,
		EndTimeTimezoneUTCOffsetMinutes:   s.EndTimeTimezoneUTCOffsetMinutes,
		TimelinePath:                      s.TimelinePath,
		Activity:                          s.Activity,
		Visit:                             s.Visit,
		TimelineMemory:                    s.Memory,
	})
}
