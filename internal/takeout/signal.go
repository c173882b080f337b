package takeout

import (
	"encoding/json"

	"github.com/rotisserie/eris"
)

// RawSignalKind discriminates the RawSignal variants.
type RawSignalKind string

// Raw signal kinds. The JSON key of the single wrapped object names the kind.
const (
	RawSignalPosition RawSignalKind = "position"
	RawSignalWifiScan RawSignalKind = "wifiScan"
	RawSignalActivity RawSignalKind = "activityRecord"
	RawSignalUnknown  RawSignalKind = "unknown"
)

// RawSignal is one entry of rawSignals. Exactly one variant pointer is set,
// matching Kind; Unknown kinds carry no payload.
type RawSignal struct {
	Kind     RawSignalKind
	Position *Position
	WifiScan *WifiScan
	Activity *ActivityRecord
}

// Position is a raw location fix.
type Position struct {
	LatLng               string   `json:"LatLng"`
	AccuracyMeters       int      `json:"accuracyMeters"`
	AltitudeMeters       *float64 `json:"altitudeMeters,omitempty"`
	Source               string   `json:"source"`
	Timestamp            string   `json:"timestamp"`
	SpeedMetersPerSecond *float64 `json:"speedMetersPerSecond,omitempty"`
}

// WifiScan is a batch of nearby access points seen at one delivery time.
type WifiScan struct {
	DeliveryTime   string             `json:"deliveryTime"`
	DevicesRecords []WifiDeviceRecord `json:"devicesRecords"`
}

// WifiDeviceRecord is one access point and its signal strength.
type WifiDeviceRecord struct {
	MAC     uint64 `json:"mac"`
	RawRSSI int    `json:"rawRssi"`
}

// ActivityRecord is the device's activity classification at an instant.
type ActivityRecord struct {
	ProbableActivities []ProbableActivity `json:"probableActivities"`
	Timestamp          string             `json:"timestamp"`
}

// ProbableActivity is one activity type with its confidence.
type ProbableActivity struct {
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

type rawSignalJSON struct {
	Position *Position       `json:"position,omitempty"`
	WifiScan *WifiScan       `json:"wifiScan,omitempty"`
	Activity *ActivityRecord `json:"activityRecord,omitempty"`
}

// UnmarshalJSON decodes the externally tagged variant.
func (s *RawSignal) UnmarshalJSON(data []byte) error {
	var raw rawSignalJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return eris.Wrap(err, "takeout: decode raw signal")
	}

	*s = RawSignal{Kind: RawSignalUnknown}
	switch {
	case raw.Position != nil:
		s.Kind, s.Position = RawSignalPosition, raw.Position
	case raw.WifiScan != nil:
		s.Kind, s.WifiScan = RawSignalWifiScan, raw.WifiScan
	case raw.Activity != nil:
		s.Kind, s.Activity = RawSignalActivity, raw.Activity
	}
	return nil
}

// MarshalJSON encodes the variant back under its tag.
func (s RawSignal) MarshalJSON() ([]byte, error) {
	return json.Marshal(rawSignalJSON{
		Position: s.Position,
		WifiScan: s.WifiScan,
		Activity: s.Activity,
	})
}
