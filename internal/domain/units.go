package domain

import (
	"math"
	"strconv"
	"strings"
)

// ConvertUnit normalizes an NWS observation value to SI given its unit
// code. The code may carry a namespace prefix ("wmoUnit:degC", "unit:degC")
// which is stripped before lookup. Unrecognized codes return the value
// unchanged with an empty label; callers suppress unit metadata for those.
func ConvertUnit(unitCode string, value float64) (float64, string) {
	switch stripUnitNamespace(unitCode) {
	case "percent":
		return value / 100, "ratio"
	case "degC":
		return value + 273.15, "K"
	case "km_h-1":
		return value / 3.6, "m/s"
	case "degree_(angle)":
		return value * math.Pi / 180, "rad"
	case "Pa":
		return value, "Pa"
	case "m":
		return value, "m"
	default:
		return value, ""
	}
}

// stripUnitNamespace drops everything up to and including the first colon.
func stripUnitNamespace(code string) string {
	if i := strings.IndexByte(code, ':'); i >= 0 {
		return code[i+1:]
	}
	return code
}

// compassDegrees maps the 8-point rose to degrees, N at 0.
var compassDegrees = map[string]float64{
	"N":  0,
	"NE": 45,
	"E":  90,
	"SE": 135,
	"S":  180,
	"SW": 225,
	"W":  270,
	"NW": 315,
}

// CompassToRadians converts an 8-point compass abbreviation to radians.
// Unrecognized abbreviations return ok=false; not an error.
func CompassToRadians(abbr string) (float64, bool) {
	deg, ok := compassDegrees[strings.ToUpper(strings.TrimSpace(abbr))]
	if !ok {
		return 0, false
	}
	return deg * math.Pi / 180, true
}

// FahrenheitToKelvin converts a forecast temperature to kelvin.
func FahrenheitToKelvin(f float64) float64 {
	return (f-32)*5/9 + 273.15
}

// MilesPerHourToMetersPerSecond converts a forecast wind speed to m/s.
func MilesPerHourToMetersPerSecond(mph float64) float64 {
	return mph / 2.237
}

// ParseWindSpeed extracts the leading number from a forecast wind speed
// string like "10 mph" or "10 to 15 mph" and converts it to m/s.
func ParseWindSpeed(s string) (float64, bool) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) == 0 {
		return 0, false
	}
	mph, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, false
	}
	return MilesPerHourToMetersPerSecond(mph), true
}
