// Command probe performs one fetch cycle against the NWS API and prints
// the resulting update batches as JSON, without touching Kafka. Useful
// for checking what the relay would publish for a point or station.
//
// Usage:
//
//	go run ./cmd/probe -lat 39.29 -lon -76.61
//	go run ./cmd/probe -station KDMH -regions MD,VA
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/marinebus/noaa-weather-relay/internal/adapter/nws"
	"github.com/marinebus/noaa-weather-relay/internal/config"
	"github.com/marinebus/noaa-weather-relay/internal/domain"
	"github.com/marinebus/noaa-weather-relay/internal/observability"
	"github.com/marinebus/noaa-weather-relay/internal/relay"
	"github.com/marinebus/noaa-weather-relay/internal/tree"
)

// printPublisher writes each update batch to stdout as indented JSON.
type printPublisher struct {
	enc *json.Encoder
}

func (p *printPublisher) Publish(_ context.Context, u domain.Update) error {
	return p.enc.Encode(u)
}

func main() {
	lat := flag.Float64("lat", 0, "latitude of the point to probe")
	lon := flag.Float64("lon", 0, "longitude of the point to probe")
	station := flag.String("station", "", "fixed station identifier (overrides nearest-station lookup)")
	regions := flag.String("regions", "", "comma-separated alert regions to reconcile")
	timeout := flag.Duration("timeout", 30*time.Second, "overall probe timeout")
	flag.Parse()

	if *station == "" && *lat == 0 && *lon == 0 {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*lat, *lon, *station, *regions, *timeout); code != 0 {
		os.Exit(code)
	}
}

func run(lat, lon float64, station, regions string, timeout time.Duration) int {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()
	client := nws.NewClient(cfg, metrics, logger)

	liveTree := tree.New()
	liveTree.SetPosition(domain.Position{Latitude: lat, Longitude: lon})

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	out := &printPublisher{enc: enc}
	bus := relay.Fanout{liveTree, out}
	meta := relay.NewMetaTracker()

	code := 0

	obs := relay.NewObservationPublisher(
		client,
		relay.NewStationResolver(client, liveTree, station),
		bus, meta, logger, metrics,
	)
	if err := obs.RunCycle(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "observations:", err)
		code = 1
	}

	forecast := relay.NewForecastPublisher(client, liveTree, bus, meta, "", logger, metrics)
	if err := forecast.RunCycle(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "forecast:", err)
		code = 1
	}

	if regions != "" {
		notifier := relay.NewAlertNotifier(
			client, liveTree, bus,
			strings.Split(regions, ","), cfg.Method(), cfg.ActiveState,
			logger, metrics,
		)
		if err := notifier.RunCycle(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "alerts:", err)
			code = 1
		}
	}

	return code
}
