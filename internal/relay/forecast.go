package relay

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/marinebus/noaa-weather-relay/internal/domain"
	"github.com/marinebus/noaa-weather-relay/internal/observability"
)

// ForecastSource is the subset of the NWS client the forecast publisher needs.
type ForecastSource interface {
	Forecast(ctx context.Context, lat, lon float64) ([]domain.ForecastPeriod, error)
}

// ForecastPublisher fetches the point forecast each cycle and publishes
// one update batch with a sub-tree per period. Forecast documents are
// always point-addressed; a configured name only changes the source label.
type ForecastPublisher struct {
	source    ForecastSource
	positions PositionProvider
	publisher Publisher
	meta      *MetaTracker
	name      string
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewForecastPublisher wires a forecast cycle.
func NewForecastPublisher(source ForecastSource, positions PositionProvider, publisher Publisher, meta *MetaTracker, name string, logger *slog.Logger, metrics *observability.Metrics) *ForecastPublisher {
	return &ForecastPublisher{
		source:    source,
		positions: positions,
		publisher: publisher,
		meta:      meta,
		name:      name,
		logger:    logger,
		metrics:   metrics,
	}
}

// RunCycle performs one forecast fetch-convert-publish cycle.
func (p *ForecastPublisher) RunCycle(ctx context.Context) error {
	pos, ok := p.positions.Position()
	if !ok {
		return ErrNoPosition
	}

	periods, err := p.source.Forecast(ctx, pos.Latitude, pos.Longitude)
	if err != nil {
		return err
	}

	source := p.name
	if source == "" {
		source = fmt.Sprintf("%.4f,%.4f", pos.Latitude, pos.Longitude)
	}
	u := domain.Update{
		Source:    "forecast." + source,
		Timestamp: domain.Now(),
	}

	for _, period := range periods {
		p.appendPeriod(&u, period)
	}

	if err := p.publisher.Publish(ctx, u); err != nil {
		return err
	}

	p.metrics.DeltasPublished.Add(float64(len(u.Deltas)))
	p.metrics.MetaPublished.Add(float64(len(u.Meta)))
	p.logger.Debug("forecast published",
		"source", u.Source, "periods", len(periods), "deltas", len(u.Deltas))
	return nil
}

// appendPeriod emits one period's fixed set of sub-paths.
func (p *ForecastPublisher) appendPeriod(u *domain.Update, period domain.ForecastPeriod) {
	prefix := "environment.forecast." + periodSegment(period.Name) + "."

	add := func(suffix string, value any) {
		u.Deltas = append(u.Deltas, domain.Delta{Path: prefix + suffix, Value: value})
	}
	addWithUnits := func(suffix string, value float64, units string) {
		add(suffix, value)
		if p.meta.FirstSeen(prefix + suffix) {
			u.Meta = append(u.Meta, domain.MetaRecord{Path: prefix + suffix, Units: units})
		}
	}

	add("name", period.Name)
	addWithUnits("temperature", domain.FahrenheitToKelvin(period.Temperature), "K")
	if period.TemperatureTrend != "" {
		add("temperatureTrend", period.TemperatureTrend)
	}
	if speed, ok := domain.ParseWindSpeed(period.WindSpeed); ok {
		addWithUnits("windSpeed", speed, "m/s")
	}
	if dir, ok := domain.CompassToRadians(period.WindDirection); ok {
		addWithUnits("windDirection", dir, "rad")
	}
	add("shortForecast", period.ShortForecast)
	add("detailedForecast", period.DetailedForecast)
	add("startTime", period.StartTime)
	add("endTime", period.EndTime)
}

// periodSegment case-normalizes a period display name into a path
// segment: "Washington's Birthday" → "washingtonsbirthday".
func periodSegment(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
