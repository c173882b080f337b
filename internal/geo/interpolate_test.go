package geo

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioBracket(t *testing.T) (Bracket, time.Time) {
	t.Helper()
	query := mustTime(t, "2025-07-11T16:21:00.000+01:00")
	before := Observation{
		Latitude: 55.0, Longitude: -1.5, Altitude: floatPtr(75.0),
		Instant: mustTime(t, "2025-07-11T16:20:00.000+01:00"),
	}
	after := Observation{
		Latitude: 57.0, Longitude: -2.0, Altitude: floatPtr(76.0),
		Instant: mustTime(t, "2025-07-11T16:25:00.000+01:00"),
	}
	return Bracket{Before: before.Relative(query), After: after.Relative(query)}, query
}

func TestInterpolate_Scenario(t *testing.T) {
	b, query := scenarioBracket(t)
	require.Equal(t, int64(-60), b.Before.OffsetSeconds)
	require.Equal(t, int64(240), b.After.OffsetSeconds)
	assert.InDelta(t, 0.2, Progress(b), 1e-12)

	pos := Interpolate(b, query)
	assert.InDelta(t, 55.4, pos.Latitude, 1e-9)
	assert.InDelta(t, -1.6, pos.Longitude, 1e-9)
	require.NotNil(t, pos.Altitude)
	assert.InDelta(t, 75.2, *pos.Altitude, 1e-9)
	assert.Equal(t, int64(0), pos.OffsetSeconds)
	assert.True(t, query.Equal(pos.Instant))
}

func TestInterpolate_AltitudeRequiresBothSides(t *testing.T) {
	tests := []struct {
		name   string
		before *float64
		after  *float64
	}{
		{name: "before missing", before: nil, after: floatPtr(76)},
		{name: "after missing", before: floatPtr(75), after: nil},
		{name: "both missing", before: nil, after: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, query := scenarioBracket(t)
			b.Before.Altitude = tt.before
			b.After.Altitude = tt.after

			pos := Interpolate(b, query)
			assert.Nil(t, pos.Altitude)
			assert.InDelta(t, 55.4, pos.Latitude, 1e-9)
		})
	}
}

func TestInterpolate_Degenerate(t *testing.T) {
	query := bracketQuery
	o := Observation{Latitude: 50.1, Longitude: 5.6, Altitude: floatPtr(12), Instant: query}
	b := Bracket{Before: o.Relative(query), After: o.Relative(query)}

	pos := Interpolate(b, query)
	assert.Equal(t, 50.1, pos.Latitude)
	assert.Equal(t, 5.6, pos.Longitude)
	require.NotNil(t, pos.Altitude)
	assert.Equal(t, 12.0, *pos.Altitude)
	assert.Equal(t, int64(0), pos.OffsetSeconds)
	assert.Equal(t, 0.0, Progress(b))
}

func TestInterpolate_EndpointsExact(t *testing.T) {
	b, _ := scenarioBracket(t)
	before := b.Before.Observation
	after := b.After.Observation

	atStart := Interpolate(Bracket{Before: before.Relative(before.Instant), After: after.Relative(before.Instant)}, before.Instant)
	assert.Equal(t, before.Latitude, atStart.Latitude)
	assert.Equal(t, before.Longitude, atStart.Longitude)

	atEnd := Interpolate(Bracket{Before: before.Relative(after.Instant), After: after.Relative(after.Instant)}, after.Instant)
	assert.Equal(t, after.Latitude, atEnd.Latitude)
	assert.Equal(t, after.Longitude, atEnd.Longitude)
}

func TestInterpolate_StaysOnSegment(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		before := at(-(rng.Intn(600) + 1), rng.Float64()*180-90, rng.Float64()*360-180)
		after := at(rng.Intn(600)+1, rng.Float64()*180-90, rng.Float64()*360-180)
		b := Bracket{Before: before.Relative(bracketQuery), After: after.Relative(bracketQuery)}

		p := Progress(b)
		require.GreaterOrEqual(t, p, 0.0)
		require.LessOrEqual(t, p, 1.0)

		pos := Interpolate(b, bracketQuery)
		assert.InDelta(t, before.Latitude+(after.Latitude-before.Latitude)*p, pos.Latitude, 1e-9)
		assert.InDelta(t, before.Longitude+(after.Longitude-before.Longitude)*p, pos.Longitude, 1e-9)
		assert.True(t, between(pos.Latitude, before.Latitude, after.Latitude))
		assert.True(t, between(pos.Longitude, before.Longitude, after.Longitude))
	}
}

func between(v, a, b float64) bool {
	const eps = 1e-9
	if a > b {
		a, b = b, a
	}
	return v >= a-eps && v <= b+eps
}

func TestInterpolateBetween(t *testing.T) {
	b, query := scenarioBracket(t)
	before, after := b.Before.Observation, b.After.Observation

	pos, err := InterpolateBetween(before, after, query)
	require.NoError(t, err)
	assert.InDelta(t, 55.4, pos.Latitude, 1e-9)
	assert.Empty(t, pos.Source)

	_, err = InterpolateBetween(before, after, before.Instant.Add(-time.Minute))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfBounds))

	_, err = InterpolateBetween(before, after, after.Instant.Add(time.Second))
	assert.True(t, errors.Is(err, ErrOutOfBounds))

	_, err = InterpolateBetween(after, before, query)
	assert.True(t, errors.Is(err, ErrOutOfBounds), "reversed pair has an empty span")

	pos, err = InterpolateBetween(before, after, after.Instant)
	require.NoError(t, err)
	assert.Equal(t, after.Latitude, pos.Latitude)
}

func TestInterpolateBetween_Degenerate(t *testing.T) {
	o := Observation{Latitude: 1, Longitude: 2, Instant: bracketQuery}

	pos, err := InterpolateBetween(o, o, bracketQuery)
	require.NoError(t, err)
	assert.Equal(t, 1.0, pos.Latitude)
	assert.Equal(t, 2.0, pos.Longitude)
}

func TestEstimatedPosition_Point(t *testing.T) {
	pos := EstimatedPosition{Latitude: 10, Longitude: 20}
	assert.Equal(t, []float64{20, 10}, pos.Point().FlatCoords())

	pos.Altitude = floatPtr(-3)
	assert.Equal(t, []float64{20, 10, -3}, pos.Point().FlatCoords())
}
