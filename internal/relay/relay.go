// Package relay holds the fetch-convert-publish cycles: the station
// resolver, the observation and forecast publishers, and the alert
// notifier that reconciles active alerts into stateful notifications.
// Each component is wired from small consumer-side interfaces so the
// cycles can be tested against fakes.
package relay

import (
	"context"

	"github.com/marinebus/noaa-weather-relay/internal/domain"
)

// Publisher delivers one update batch to the data bus.
type Publisher interface {
	Publish(ctx context.Context, u domain.Update) error
}

// Fanout publishes to every member in order, stopping at the first error.
// The live tree comes before the bus writer so reconciliation state is
// current even when the broker is down.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, u domain.Update) error {
	for _, p := range f {
		if err := p.Publish(ctx, u); err != nil {
			return err
		}
	}
	return nil
}

// PositionProvider answers the current position, if one is known.
type PositionProvider interface {
	Position() (domain.Position, bool)
}

// StaticPosition is a PositionProvider pinned to a configured point.
type StaticPosition domain.Position

func (s StaticPosition) Position() (domain.Position, bool) {
	return domain.Position(s), true
}
