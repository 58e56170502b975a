package relay

import (
	"context"
	"io"
	"log/slog"

	"github.com/marinebus/noaa-weather-relay/internal/domain"
	"github.com/marinebus/noaa-weather-relay/internal/observability"
)

// capturePublisher records every published update for assertions.
type capturePublisher struct {
	updates []domain.Update
	err     error
}

func (c *capturePublisher) Publish(_ context.Context, u domain.Update) error {
	if c.err != nil {
		return c.err
	}
	c.updates = append(c.updates, u)
	return nil
}

// deltaValue returns the last published value for a path across all
// captured updates.
func (c *capturePublisher) deltaValue(path string) (any, bool) {
	var value any
	var found bool
	for _, u := range c.updates {
		for _, d := range u.Deltas {
			if d.Path == path {
				value, found = d.Value, true
			}
		}
	}
	return value, found
}

// metaPaths returns every path that received a meta record, in order.
func (c *capturePublisher) metaPaths() []string {
	var paths []string
	for _, u := range c.updates {
		for _, m := range u.Meta {
			paths = append(paths, m.Path)
		}
	}
	return paths
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func ptr(v float64) *float64 { return &v }
