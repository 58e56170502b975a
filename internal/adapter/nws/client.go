// Package nws is a read-only client for the National Weather Service API
// at api.weather.gov. No authentication; the API only requires a
// descriptive User-Agent. A circuit breaker short-circuits calls while
// the upstream is failing so a dead API does not burn every timer tick;
// there are no retries — the next scheduled cycle is the retry.
package nws

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/marinebus/noaa-weather-relay/internal/config"
	"github.com/marinebus/noaa-weather-relay/internal/domain"
	"github.com/marinebus/noaa-weather-relay/internal/observability"
)

// Client calls the NWS API.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an NWS API client.
func NewClient(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.NWSBaseURL, "/"),
		userAgent: cfg.NWSUserAgent,
		httpClient: &http.Client{
			Timeout: cfg.NWSTimeout,
		},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:     "nws",
			Interval: time.Minute,
			Timeout:  30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
		metrics: metrics,
		logger:  logger,
	}
}

// StationsNear returns the observation stations closest to a point,
// nearest first.
func (c *Client) StationsNear(ctx context.Context, lat, lon float64) ([]domain.Station, error) {
	var resp stationsResponse
	u := fmt.Sprintf("%s/points/%.4f,%.4f/stations", c.baseURL, lat, lon)
	if err := c.getJSON(ctx, "stations_near", u, &resp); err != nil {
		return nil, err
	}

	stations := make([]domain.Station, 0, len(resp.Features))
	for _, f := range resp.Features {
		stations = append(stations, domain.Station{
			ID:   f.Properties.StationIdentifier,
			Name: f.Properties.Name,
		})
	}
	return stations, nil
}

// Station looks up a station's display name by identifier.
func (c *Client) Station(ctx context.Context, id string) (domain.Station, error) {
	var resp stationFeature
	u := fmt.Sprintf("%s/stations/%s", c.baseURL, url.PathEscape(id))
	if err := c.getJSON(ctx, "station", u, &resp); err != nil {
		return domain.Station{}, err
	}
	return domain.Station{
		ID:   resp.Properties.StationIdentifier,
		Name: resp.Properties.Name,
	}, nil
}

// LatestObservation fetches a station's most recent report, mapped to
// bus paths in a fixed order.
func (c *Client) LatestObservation(ctx context.Context, stationID string) (domain.Observation, error) {
	var resp observationResponse
	u := fmt.Sprintf("%s/stations/%s/observations/latest", c.baseURL, url.PathEscape(stationID))
	if err := c.getJSON(ctx, "latest_observation", u, &resp); err != nil {
		return domain.Observation{}, err
	}

	p := resp.Properties
	obs := domain.Observation{
		Timestamp:   p.Timestamp,
		Description: p.TextDescription,
		Fields: []domain.ObservationField{
			{Path: "environment.outside.temperature", QuantitativeValue: p.Temperature},
			{Path: "environment.outside.dewPoint", QuantitativeValue: p.Dewpoint},
			{Path: "environment.outside.humidity", QuantitativeValue: p.RelativeHumidity},
			{Path: "environment.outside.pressure", QuantitativeValue: p.BarometricPressure},
			{Path: "environment.outside.visibility", QuantitativeValue: p.Visibility},
			{Path: "environment.wind.direction", QuantitativeValue: p.WindDirection},
			{Path: "environment.wind.speed", QuantitativeValue: p.WindSpeed},
			{Path: "environment.wind.gust", QuantitativeValue: p.WindGust},
		},
	}
	return obs, nil
}

// Forecast fetches the multi-period forecast document for a point. The
// points endpoint names the forecast document URL, which is then followed.
func (c *Client) Forecast(ctx context.Context, lat, lon float64) ([]domain.ForecastPeriod, error) {
	var point pointResponse
	u := fmt.Sprintf("%s/points/%.4f,%.4f", c.baseURL, lat, lon)
	if err := c.getJSON(ctx, "point", u, &point); err != nil {
		return nil, err
	}
	if point.Properties.Forecast == "" {
		return nil, fmt.Errorf("points response for %.4f,%.4f has no forecast URL", lat, lon)
	}

	var doc forecastResponse
	if err := c.getJSON(ctx, "forecast", point.Properties.Forecast, &doc); err != nil {
		return nil, err
	}
	if len(doc.Properties.Periods) == 0 {
		return nil, fmt.Errorf("forecast document has no periods")
	}

	periods := make([]domain.ForecastPeriod, 0, len(doc.Properties.Periods))
	for _, p := range doc.Properties.Periods {
		periods = append(periods, domain.ForecastPeriod{
			Name:             p.Name,
			Temperature:      p.Temperature,
			TemperatureUnit:  p.TemperatureUnit,
			TemperatureTrend: p.TemperatureTrend,
			WindSpeed:        p.WindSpeed,
			WindDirection:    p.WindDirection,
			ShortForecast:    p.ShortForecast,
			DetailedForecast: p.DetailedForecast,
			StartTime:        p.StartTime,
			EndTime:          p.EndTime,
		})
	}
	return periods, nil
}

// ActiveAlerts fetches the alerts currently in force for an area code
// (US state/territory abbreviation or marine zone).
func (c *Client) ActiveAlerts(ctx context.Context, region string) ([]domain.Alert, error) {
	var resp alertsResponse
	u := fmt.Sprintf("%s/alerts/active?area=%s", c.baseURL, url.QueryEscape(region))
	if err := c.getJSON(ctx, "active_alerts", u, &resp); err != nil {
		return nil, err
	}

	alerts := make([]domain.Alert, 0, len(resp.Features))
	for _, f := range resp.Features {
		alerts = append(alerts, f.Properties)
	}
	return alerts, nil
}

// getJSON performs one GET through the circuit breaker and decodes the
// response into out.
func (c *Client) getJSON(ctx context.Context, endpoint, fullURL string, out any) error {
	body, err := c.breaker.Execute(func() (any, error) {
		return c.doRequest(ctx, fullURL)
	})
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		c.logger.Warn("nws request failed", "endpoint", endpoint, "error", err)
		return fmt.Errorf("nws %s: %w", endpoint, err)
	}

	if err := json.Unmarshal(body.([]byte), out); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("nws %s: decode response: %w", endpoint, err)
	}

	c.metrics.UpstreamRequests.WithLabelValues(endpoint, "success").Inc()
	return nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/geo+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return io.ReadAll(resp.Body)
}

// NWS API response types.

type stationsResponse struct {
	Features []stationFeature `json:"features"`
}

type stationFeature struct {
	Properties struct {
		StationIdentifier string `json:"stationIdentifier"`
		Name              string `json:"name"`
	} `json:"properties"`
}

type observationResponse struct {
	Properties struct {
		Timestamp          time.Time                `json:"timestamp"`
		TextDescription    string                   `json:"textDescription"`
		Temperature        domain.QuantitativeValue `json:"temperature"`
		Dewpoint           domain.QuantitativeValue `json:"dewpoint"`
		WindDirection      domain.QuantitativeValue `json:"windDirection"`
		WindSpeed          domain.QuantitativeValue `json:"windSpeed"`
		WindGust           domain.QuantitativeValue `json:"windGust"`
		BarometricPressure domain.QuantitativeValue `json:"barometricPressure"`
		RelativeHumidity   domain.QuantitativeValue `json:"relativeHumidity"`
		Visibility         domain.QuantitativeValue `json:"visibility"`
	} `json:"properties"`
}

type pointResponse struct {
	Properties struct {
		Forecast string `json:"forecast"`
	} `json:"properties"`
}

type forecastResponse struct {
	Properties struct {
		Periods []struct {
			Name             string  `json:"name"`
			StartTime        string  `json:"startTime"`
			EndTime          string  `json:"endTime"`
			Temperature      float64 `json:"temperature"`
			TemperatureUnit  string  `json:"temperatureUnit"`
			TemperatureTrend string  `json:"temperatureTrend"`
			WindSpeed        string  `json:"windSpeed"`
			WindDirection    string  `json:"windDirection"`
			ShortForecast    string  `json:"shortForecast"`
			DetailedForecast string  `json:"detailedForecast"`
		} `json:"periods"`
	} `json:"properties"`
}

type alertsResponse struct {
	Features []struct {
		Properties domain.Alert `json:"properties"`
	} `json:"features"`
}
