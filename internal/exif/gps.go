package exif

import (
	"math"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/geotagger/internal/geo"
)

// CaptureTimeLayout is the EXIF DateTimeOriginal layout.
const CaptureTimeLayout = "2006:01:02 15:04:05"

// GPSDateLayout is the EXIF GPSDateStamp layout.
const GPSDateLayout = "2006:01:02"

// ErrMalformedCaptureTime is returned when DateTimeOriginal does not parse.
var ErrMalformedCaptureTime = eris.New("exif: malformed capture time")

// GPSVersion is written as GPSVersionID.
var GPSVersion = [4]byte{2, 2, 0, 0}

// ParseCaptureTime interprets a DateTimeOriginal value as wall-clock time in
// loc and returns the UTC instant.
func ParseCaptureTime(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(CaptureTimeLayout, strings.TrimSpace(raw), loc)
	if err != nil {
		return time.Time{}, eris.Wrapf(ErrMalformedCaptureTime, "%q", raw)
	}
	return t.UTC(), nil
}

// DMS is an unsigned angle in degrees, minutes and seconds.
type DMS struct {
	Degrees uint32
	Minutes uint32
	Seconds float64
}

// DecimalToDMS converts decimal degrees to DMS, ignoring the sign. Seconds are
// rounded to 1/10000 and carried so that minutes and seconds stay below 60.
func DecimalToDMS(decimal float64) DMS {
	total := math.Round(math.Abs(decimal)*3600*1e4) / 1e4
	deg := math.Floor(total / 3600)
	rem := total - deg*3600
	mins := math.Floor(rem / 60)
	return DMS{
		Degrees: uint32(deg),
		Minutes: uint32(mins),
		Seconds: math.Round((rem-mins*60)*1e4) / 1e4,
	}
}

// LatitudeRef returns "N" for lat >= 0, otherwise "S".
func LatitudeRef(lat float64) string {
	if lat >= 0 {
		return "N"
	}
	return "S"
}

// LongitudeRef returns "E" for lng >= 0, otherwise "W".
func LongitudeRef(lng float64) string {
	if lng >= 0 {
		return "E"
	}
	return "W"
}

// GPSTag is the set of GPS tags written for one estimate.
type GPSTag struct {
	Latitude     DMS
	LatitudeRef  string
	Longitude    DMS
	LongitudeRef string
	// Altitude is the magnitude in meters; nil when the estimate has none.
	Altitude    *float64
	AltitudeRef uint8
	// TimeStamp is the UTC hour, minute and second of the estimate.
	TimeStamp [3]int
	DateStamp string
	VersionID [4]byte
}

// NewGPSTag converts an estimate into EXIF GPS tags.
func NewGPSTag(pos geo.EstimatedPosition) GPSTag {
	at := pos.Instant.UTC()
	tag := GPSTag{
		Latitude:     DecimalToDMS(pos.Latitude),
		LatitudeRef:  LatitudeRef(pos.Latitude),
		Longitude:    DecimalToDMS(pos.Longitude),
		LongitudeRef: LongitudeRef(pos.Longitude),
		TimeStamp:    [3]int{at.Hour(), at.Minute(), at.Second()},
		DateStamp:    at.Format(GPSDateLayout),
		VersionID:    GPSVersion,
	}
	if pos.Altitude != nil {
		alt := math.Abs(*pos.Altitude)
		tag.Altitude = &alt
		if *pos.Altitude < 0 {
			tag.AltitudeRef = 1
		}
	}
	return tag
}
