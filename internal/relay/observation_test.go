package relay

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marinebus/noaa-weather-relay/internal/domain"
)

type mockObservations struct {
	obs domain.Observation
	err error
}

func (m *mockObservations) LatestObservation(_ context.Context, _ string) (domain.Observation, error) {
	return m.obs, m.err
}

func fixedResolver(id, name string) *StationResolver {
	lookup := &mockLookup{byID: map[string]domain.Station{id: {ID: id, Name: name}}}
	return NewStationResolver(lookup, noPosition{}, id)
}

func testObservation() domain.Observation {
	return domain.Observation{
		Timestamp:   time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC),
		Description: "Partly Cloudy",
		Fields: []domain.ObservationField{
			{Path: "environment.outside.temperature", QuantitativeValue: domain.QuantitativeValue{Value: ptr(21.5), UnitCode: "wmoUnit:degC"}},
			{Path: "environment.outside.dewPoint", QuantitativeValue: domain.QuantitativeValue{Value: nil, UnitCode: "wmoUnit:degC"}},
			{Path: "environment.outside.humidity", QuantitativeValue: domain.QuantitativeValue{Value: ptr(45), UnitCode: "wmoUnit:percent"}},
			{Path: "environment.wind.speed", QuantitativeValue: domain.QuantitativeValue{Value: ptr(36), UnitCode: "wmoUnit:km_h-1"}},
			{Path: "environment.outside.ceiling", QuantitativeValue: domain.QuantitativeValue{Value: ptr(1200), UnitCode: "wmoUnit:ft"}},
		},
	}
}

func TestObservationPublisher_ConvertsAndPublishes(t *testing.T) {
	bus := &capturePublisher{}
	p := NewObservationPublisher(
		&mockObservations{obs: testObservation()},
		fixedResolver("KDMH", "Baltimore Inner Harbor"),
		bus, NewMetaTracker(), discardLogger(), testMetrics(),
	)

	require.NoError(t, p.RunCycle(context.Background()))
	require.Len(t, bus.updates, 1)

	u := bus.updates[0]
	assert.Equal(t, "observations.KDMH", u.Source)
	assert.Equal(t, time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC), u.Timestamp)

	temp, ok := bus.deltaValue("environment.outside.temperature")
	require.True(t, ok)
	assert.InDelta(t, 294.65, temp.(float64), 1e-9)

	humidity, _ := bus.deltaValue("environment.outside.humidity")
	assert.InDelta(t, 0.45, humidity.(float64), 1e-9)

	speed, _ := bus.deltaValue("environment.wind.speed")
	assert.InDelta(t, 10.0, speed.(float64), 1e-9)

	_, ok = bus.deltaValue("environment.outside.dewPoint")
	assert.False(t, ok, "null values are skipped")

	// Unrecognized unit: value passes through, no meta.
	ceiling, ok := bus.deltaValue("environment.outside.ceiling")
	require.True(t, ok)
	assert.Equal(t, 1200.0, ceiling.(float64))
	assert.NotContains(t, bus.metaPaths(), "environment.outside.ceiling")

	desc, _ := bus.deltaValue("environment.outside.description")
	assert.Equal(t, "Partly Cloudy", desc)

	station, _ := bus.deltaValue("environment.observation.station")
	assert.Equal(t, "Baltimore Inner Harbor", station)
}

func TestObservationPublisher_MetaEmittedOnce(t *testing.T) {
	bus := &capturePublisher{}
	p := NewObservationPublisher(
		&mockObservations{obs: testObservation()},
		fixedResolver("KDMH", ""),
		bus, NewMetaTracker(), discardLogger(), testMetrics(),
	)

	require.NoError(t, p.RunCycle(context.Background()))
	require.NoError(t, p.RunCycle(context.Background()))

	require.Len(t, bus.updates, 2)
	assert.NotEmpty(t, bus.updates[0].Meta)
	assert.Empty(t, bus.updates[1].Meta, "meta is once per path per process")

	paths := bus.metaPaths()
	assert.Contains(t, paths, "environment.outside.temperature")
	seen := map[string]int{}
	for _, p := range paths {
		seen[p]++
	}
	for p, count := range seen {
		assert.Equal(t, 1, count, "meta for %s emitted more than once", p)
	}
}

func TestObservationPublisher_FetchFailureAbortsCycle(t *testing.T) {
	bus := &capturePublisher{}
	p := NewObservationPublisher(
		&mockObservations{err: errors.New("status 503")},
		fixedResolver("KDMH", ""),
		bus, NewMetaTracker(), discardLogger(), testMetrics(),
	)

	err := p.RunCycle(context.Background())
	require.Error(t, err)
	assert.Empty(t, bus.updates, "no partial data on failure")
}

func TestObservationPublisher_ResolveFailureAbortsCycle(t *testing.T) {
	bus := &capturePublisher{}
	resolver := NewStationResolver(&mockLookup{}, noPosition{}, "")
	p := NewObservationPublisher(
		&mockObservations{obs: testObservation()},
		resolver, bus, NewMetaTracker(), discardLogger(), testMetrics(),
	)

	err := p.RunCycle(context.Background())
	assert.ErrorIs(t, err, ErrNoPosition)
	assert.Empty(t, bus.updates)
}
