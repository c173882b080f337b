// Package takeout decodes a Google Timeline export into typed records and
// splits it into the raw position streams consumed by the geo resolver.
package takeout

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Timeline is the root of a Timeline.json export.
type Timeline struct {
	SemanticSegments    []SemanticSegment    `json:"semanticSegments"`
	RawSignals          []RawSignal          `json:"rawSignals"`
	UserLocationProfile *UserLocationProfile `json:"userLocationProfile,omitempty"`
}

// Load opens and decodes a timeline export.
func Load(path string) (*Timeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "takeout: open %s", path)
	}
	defer f.Close()

	tl, err := Decode(f)
	if err != nil {
		return nil, eris.Wrapf(err, "takeout: load %s", path)
	}

	zap.L().Debug("takeout: timeline loaded",
		zap.String("path", path),
		zap.Int("semantic_segments", len(tl.SemanticSegments)),
		zap.Int("raw_signals", len(tl.RawSignals)),
	)
	return tl, nil
}

// Decode reads a timeline export from r.
func Decode(r io.Reader) (*Timeline, error) {
	var tl Timeline
	if err := json.NewDecoder(r).Decode(&tl); err != nil {
		return nil, eris.Wrap(err, "takeout: decode timeline")
	}
	return &tl, nil
}

// UserLocationProfile is carried through but never used for positioning.
type UserLocationProfile struct {
	FrequentPlaces []FrequentPlace `json:"frequentPlaces"`
	FrequentTrips  []FrequentTrip  `json:"frequentTrips"`
	Persona        *Persona        `json:"persona,omitempty"`
}

// FrequentPlace is a place the user returns to, such as home or work.
type FrequentPlace struct {
	PlaceID       string `json:"placeId"`
	PlaceLocation string `json:"placeLocation"`
	Label         string `json:"label,omitempty"`
}

// FrequentTrip is a commute-like trip between frequent places.
type FrequentTrip struct {
	WaypointIDs      []string           `json:"waypointIds"`
	ModeDistribution []ModeDistribution `json:"modeDistribution"`
	StartTimeMinutes int                `json:"startTimeMinutes"`
	EndTimeMinutes   int                `json:"endTimeMinutes"`
	DurationMinutes  int                `json:"durationMinutes"`
	Confidence       float64            `json:"confidence"`
	CommuteDirection string             `json:"commuteDirection"`
}

// ModeDistribution is the share of a frequent trip taken in one mode.
type ModeDistribution struct {
	Mode string  `json:"mode"`
	Rate float64 `json:"rate"`
}

// Persona summarises how the user tends to travel.
type Persona struct {
	TravelModeAffinities []ModeAffinity `json:"travelModeAffinities"`
}

// ModeAffinity is the user's affinity for one travel mode.
type ModeAffinity struct {
	Mode     string  `json:"mode"`
	Affinity float64 `json:"affinity"`
}
