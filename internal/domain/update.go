package domain

import "time"

// Delta is a single timestamped key/value assignment on the data tree.
type Delta struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// MetaRecord declares the unit label for a path. Emitted at most once per
// path for the lifetime of the process.
type MetaRecord struct {
	Path  string `json:"path"`
	Units string `json:"units"`
}

// Update is one fetch cycle's output batch.
type Update struct {
	Source    string       `json:"source"`
	Timestamp time.Time    `json:"timestamp"`
	Deltas    []Delta      `json:"deltas"`
	Meta      []MetaRecord `json:"meta,omitempty"`
}

// Position is a WGS-84 latitude/longitude pair.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PositionPath is where the host position feed lands in the live tree.
const PositionPath = "navigation.position"

// Station is a fixed NWS observation or forecast reporting point.
type Station struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// QuantitativeValue mirrors the NWS observation value shape. Value is nil
// when the station did not report the field.
type QuantitativeValue struct {
	Value    *float64 `json:"value"`
	UnitCode string   `json:"unitCode"`
}

// ObservationField pairs a bus path with the reported value for it.
type ObservationField struct {
	Path string
	QuantitativeValue
}

// Observation is a station's latest report, already mapped to bus paths.
type Observation struct {
	Timestamp   time.Time
	Description string
	Fields      []ObservationField
}

// ForecastPeriod is one entry of a point forecast, in source units:
// temperature in °F, wind speed as a prose mph string, wind direction as
// a compass abbreviation.
type ForecastPeriod struct {
	Name             string
	Temperature      float64
	TemperatureUnit  string
	TemperatureTrend string
	WindSpeed        string
	WindDirection    string
	ShortForecast    string
	DetailedForecast string
	StartTime        string
	EndTime          string
}
