package geo

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339Nano, s)
	require.NoError(t, err)
	return ts
}

func floatPtr(v float64) *float64 { return &v }

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		lat     float64
		lng     float64
		wantErr bool
	}{
		{name: "degree glyphs", raw: "54.7973628°, -1.5921431°", lat: 54.7973628, lng: -1.5921431},
		{name: "plain numbers", raw: "50.1451596,5.6022914", lat: 50.1451596, lng: 5.6022914},
		{name: "surrounding whitespace", raw: "  -33.86 ,  151.2  ", lat: -33.86, lng: 151.2},
		{name: "mojibake degree glyph", raw: "54.7973628Â°, -1.5921431Â°", lat: 54.7973628, lng: -1.5921431},
		{name: "single field", raw: "54.79", wantErr: true},
		{name: "three fields", raw: "1, 2, 3", wantErr: true},
		{name: "not a number", raw: "north, -1.59", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
		{name: "latitude out of range", raw: "91.0, 10.0", wantErr: true},
		{name: "longitude out of range", raw: "10.0, -180.5", wantErr: true},
		{name: "nan latitude", raw: "NaN, 1.0", wantErr: true},
		{name: "nan longitude", raw: "1.0, NaN", wantErr: true},
		{name: "infinite latitude", raw: "+Inf, 1.0", wantErr: true},
		{name: "leading degree glyph", raw: "°54.1, 1", wantErr: true},
		{name: "doubled degree glyph", raw: "54.1°°, 1", wantErr: true},
		{name: "glyph between fields only", raw: "54.1, °1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lng, err := ParseCoordinate(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMalformedCoordinate))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.lat, lat)
			assert.Equal(t, tt.lng, lng)
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	ts, err := ParseTimestamp("2025-08-11T16:26:00.000+01:00")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, ts.Location())
	assert.Equal(t, time.Date(2025, 8, 11, 15, 26, 0, 0, time.UTC), ts)

	_, err = ParseTimestamp("2025-08-11T16:26:00.000")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedTimestamp))

	_, err = ParseTimestamp("yesterday")
	assert.True(t, errors.Is(err, ErrMalformedTimestamp))
}

func TestParseObservation_CopiesAltitude(t *testing.T) {
	alt := 75.6
	rec := Record{Coordinate: "54.79°, -1.59°", Timestamp: "2025-08-11T16:25:50Z", Altitude: &alt}

	o, err := ParseObservation(rec)
	require.NoError(t, err)
	require.NotNil(t, o.Altitude)
	assert.Equal(t, 75.6, *o.Altitude)

	alt = 0
	assert.Equal(t, 75.6, *o.Altitude, "observation must not alias the record altitude")
}

func TestParseObservation_TimestampCheckedFirst(t *testing.T) {
	_, err := ParseObservation(Record{Coordinate: "bad", Timestamp: "bad"})
	assert.True(t, errors.Is(err, ErrMalformedTimestamp))
}

func TestNewCandidate_Offset(t *testing.T) {
	query := mustTime(t, "2025-08-11T16:26:00+01:00")

	tests := []struct {
		name   string
		ts     string
		offset int64
	}{
		{name: "before", ts: "2025-08-11T16:25:50+01:00", offset: -10},
		{name: "after in another zone", ts: "2025-08-11T15:26:39Z", offset: 39},
		{name: "exact", ts: "2025-08-11T15:26:00Z", offset: 0},
		{name: "rounds half away from zero", ts: "2025-08-11T15:26:02.5Z", offset: 3},
		{name: "rounds down", ts: "2025-08-11T15:25:57.6Z", offset: -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCandidate(Record{Coordinate: "1, 2", Timestamp: tt.ts}, query)
			require.NoError(t, err)
			assert.Equal(t, tt.offset, c.OffsetSeconds)
		})
	}
}

func TestObservation_Relative_DoesNotMutate(t *testing.T) {
	o := Observation{Latitude: 1, Longitude: 2, Instant: mustTime(t, "2025-01-01T00:00:10Z")}

	a := o.Relative(mustTime(t, "2025-01-01T00:00:00Z"))
	b := o.Relative(mustTime(t, "2025-01-01T00:00:20Z"))

	assert.Equal(t, int64(10), a.OffsetSeconds)
	assert.Equal(t, int64(-10), b.OffsetSeconds)
	assert.Equal(t, o, a.Observation)
	assert.Equal(t, o, b.Observation)
}

func TestObservation_Point(t *testing.T) {
	o := Observation{Latitude: 54.5, Longitude: -1.5}
	p := o.Point()
	assert.Equal(t, []float64{-1.5, 54.5}, p.FlatCoords())
	assert.Equal(t, 4326, p.SRID())

	o.Altitude = floatPtr(12)
	assert.Equal(t, []float64{-1.5, 54.5, 12}, o.Point().FlatCoords())
}
