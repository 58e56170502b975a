// Package domain models National Weather Service (NWS) weather data and
// the update batches the relay publishes onto the data bus.
//
// # Data Source
//
// Observations, forecasts, and alerts come from the NWS public API at
// https://api.weather.gov (JSON over HTTPS, no authentication). The relay
// polls three read paths: station latest-observation, point forecast
// periods, and per-area active alerts.
//
// # Unit Conventions
//
// Everything published to the bus is SI. The API reports observation
// values with a namespaced unit code ("wmoUnit:degC", older responses use
// "unit:degC"); the namespace is stripped before lookup. Conversion table:
//
//	percent         value / 100      → "ratio"
//	degC            value + 273.15   → "K"
//	km_h-1          value / 3.6      → "m/s"
//	degree_(angle)  value · π / 180  → "rad"
//	Pa              unchanged        → "Pa"
//	m               unchanged        → "m"
//
// Unrecognized codes pass the value through unchanged with no unit label,
// and no unit metadata is emitted for that path. Not an error: the API
// adds codes over time and a raw value beats a dropped one.
//
// Forecast periods use customary units instead of unit codes: temperature
// in °F (converted via (F−32)·5/9 + 273.15), wind speed as a prose string
// like "10 to 15 mph" (leading number ÷ 2.237 → m/s), wind direction as an
// 8-point compass abbreviation (N at 0, 45° steps, → radians).
//
// # Update Batches
//
// An [Update] is one fetch cycle's output: an ordered list of path/value
// deltas plus unit metadata for paths seen for the first time in the
// process lifetime. Paths are dotted keys ("environment.outside.temperature").
// Meta records are emitted at most once per path; the once-only set is
// owned by the publishers, not this package.
//
// # Notifications
//
// Active alerts are projected into [Notification] records keyed by a
// sanitized alert identifier under the fixed "notifications.weather."
// namespace. A notification is created in the configured active state
// when an alert with messageType "Alert" first appears for an area,
// refreshed in place while it stays active, and set to state "normal"
// when a "Cancel" arrives or the identifier drops out of the area's
// active feed. Records are never deleted — only the state field changes —
// so identifier reuse is handled by overwrite, not recreation.
package domain
