package relay

import (
	"context"
	"errors"
	"sync"

	"github.com/marinebus/noaa-weather-relay/internal/domain"
)

// Resolver failure modes for the missing-precondition cases.
var (
	ErrNoPosition = errors.New("no position available")
	ErrNoStations = errors.New("no stations found")
)

// StationLookup is the subset of the NWS client the resolver needs.
type StationLookup interface {
	StationsNear(ctx context.Context, lat, lon float64) ([]domain.Station, error)
	Station(ctx context.Context, id string) (domain.Station, error)
}

// StationResolver turns configuration plus the current position into a
// concrete station. Resolution happens fresh on every cycle unless a
// fixed name is configured, in which case the display name is looked up
// once and cached for the life of the resolver.
type StationResolver struct {
	lookup     StationLookup
	positions  PositionProvider
	configured string

	mu         sync.Mutex
	cachedName string
}

// NewStationResolver creates a resolver. An empty configured name means
// resolve the nearest station to the current position.
func NewStationResolver(lookup StationLookup, positions PositionProvider, configured string) *StationResolver {
	return &StationResolver{
		lookup:     lookup,
		positions:  positions,
		configured: configured,
	}
}

// Resolve returns the station to fetch from.
func (r *StationResolver) Resolve(ctx context.Context) (domain.Station, error) {
	if r.configured != "" {
		return r.resolveConfigured(ctx)
	}

	pos, ok := r.positions.Position()
	if !ok {
		return domain.Station{}, ErrNoPosition
	}

	stations, err := r.lookup.StationsNear(ctx, pos.Latitude, pos.Longitude)
	if err != nil {
		return domain.Station{}, err
	}
	if len(stations) == 0 {
		return domain.Station{}, ErrNoStations
	}
	return stations[0], nil
}

func (r *StationResolver) resolveConfigured(ctx context.Context) (domain.Station, error) {
	r.mu.Lock()
	cached := r.cachedName
	r.mu.Unlock()

	if cached != "" {
		return domain.Station{ID: r.configured, Name: cached}, nil
	}

	st, err := r.lookup.Station(ctx, r.configured)
	if err != nil {
		return domain.Station{}, err
	}

	name := st.Name
	if name == "" {
		name = r.configured
	}
	r.mu.Lock()
	r.cachedName = name
	r.mu.Unlock()

	return domain.Station{ID: r.configured, Name: name}, nil
}
