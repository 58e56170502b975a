package relay

import (
	"context"
	"log/slog"

	"github.com/marinebus/noaa-weather-relay/internal/domain"
	"github.com/marinebus/noaa-weather-relay/internal/observability"
)

// ObservationSource is the subset of the NWS client the observation
// publisher needs.
type ObservationSource interface {
	LatestObservation(ctx context.Context, stationID string) (domain.Observation, error)
}

// ObservationPublisher fetches a station's latest observation each cycle,
// converts every reported value to SI, and publishes one update batch.
type ObservationPublisher struct {
	source    ObservationSource
	resolver  *StationResolver
	publisher Publisher
	meta      *MetaTracker
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewObservationPublisher wires an observation cycle.
func NewObservationPublisher(source ObservationSource, resolver *StationResolver, publisher Publisher, meta *MetaTracker, logger *slog.Logger, metrics *observability.Metrics) *ObservationPublisher {
	return &ObservationPublisher{
		source:    source,
		resolver:  resolver,
		publisher: publisher,
		meta:      meta,
		logger:    logger,
		metrics:   metrics,
	}
}

// RunCycle performs one fetch-convert-publish cycle. Any failure aborts
// the cycle without publishing partial data; the next tick retries.
func (p *ObservationPublisher) RunCycle(ctx context.Context) error {
	station, err := p.resolver.Resolve(ctx)
	if err != nil {
		return err
	}

	obs, err := p.source.LatestObservation(ctx, station.ID)
	if err != nil {
		return err
	}

	u := domain.Update{
		Source:    "observations." + station.ID,
		Timestamp: obs.Timestamp,
	}
	if u.Timestamp.IsZero() {
		u.Timestamp = domain.Now()
	}

	for _, f := range obs.Fields {
		if f.Value == nil {
			continue
		}
		value, units := domain.ConvertUnit(f.UnitCode, *f.Value)
		u.Deltas = append(u.Deltas, domain.Delta{Path: f.Path, Value: value})
		if units != "" && p.meta.FirstSeen(f.Path) {
			u.Meta = append(u.Meta, domain.MetaRecord{Path: f.Path, Units: units})
		}
	}
	if obs.Description != "" {
		u.Deltas = append(u.Deltas, domain.Delta{
			Path:  "environment.outside.description",
			Value: obs.Description,
		})
	}
	if station.Name != "" {
		u.Deltas = append(u.Deltas, domain.Delta{
			Path:  "environment.observation.station",
			Value: station.Name,
		})
	}

	if err := p.publisher.Publish(ctx, u); err != nil {
		return err
	}

	p.metrics.DeltasPublished.Add(float64(len(u.Deltas)))
	p.metrics.MetaPublished.Add(float64(len(u.Meta)))
	p.logger.Debug("observation published",
		"station", station.ID, "deltas", len(u.Deltas), "meta", len(u.Meta))
	return nil
}
