package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers       []string `validate:"min=1"`
	KafkaSinkTopic     string   `validate:"required"`
	KafkaPositionTopic string
	KafkaGroupID       string `validate:"required"`

	HTTPAddr        string        `validate:"required"`
	LogLevel        string        `validate:"oneof=debug info warn error"`
	LogFormat       string        `validate:"oneof=json text"`
	ShutdownTimeout time.Duration `validate:"gt=0"`

	// NWS API client settings.
	NWSBaseURL   string        `validate:"required,url"`
	NWSUserAgent string        `validate:"required"`
	NWSTimeout   time.Duration `validate:"gt=0"`

	// Station overrides. Empty means resolve from the current position.
	StationName  string
	ForecastName string

	// Alert notification settings.
	NotificationsEnabled bool
	Regions              []string
	MethodVisual         bool
	MethodSound          bool
	ActiveState          string `validate:"oneof=alert warn alarm emergency"`

	// Fetch intervals.
	ObservationInterval  time.Duration `validate:"gt=0"`
	ForecastInterval     time.Duration `validate:"gt=0"`
	NotificationInterval time.Duration `validate:"gt=0"`

	// Static position fallback when no position feed is configured.
	PositionLat *float64
	PositionLon *float64
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		KafkaBrokers:       splitList(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic:     envOrDefault("KAFKA_SINK_TOPIC", "weather-updates"),
		KafkaPositionTopic: os.Getenv("KAFKA_POSITION_TOPIC"),
		KafkaGroupID:       envOrDefault("KAFKA_GROUP_ID", "noaa-weather-relay"),
		HTTPAddr:           envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           envOrDefault("LOG_LEVEL", "info"),
		LogFormat:          envOrDefault("LOG_FORMAT", "json"),

		NWSBaseURL:   envOrDefault("NWS_BASE_URL", "https://api.weather.gov"),
		NWSUserAgent: envOrDefault("NWS_USER_AGENT", "noaa-weather-relay (github.com/marinebus/noaa-weather-relay)"),

		StationName:  os.Getenv("STATION_NAME"),
		ForecastName: os.Getenv("FORECAST_STATION_NAME"),

		NotificationsEnabled: envBool("NOTIFICATIONS_ENABLED", false),
		Regions:              splitList(os.Getenv("NOTIFICATION_REGIONS")),
		MethodVisual:         envBool("NOTIFICATION_METHOD_VISUAL", true),
		MethodSound:          envBool("NOTIFICATION_METHOD_SOUND", true),
		ActiveState:          envOrDefault("NOTIFICATION_ACTIVE_STATE", "alert"),
	}

	var err error
	if cfg.ShutdownTimeout, err = envDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.NWSTimeout, err = envDuration("NWS_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.ObservationInterval, err = envDuration("OBSERVATION_INTERVAL", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.ForecastInterval, err = envDuration("FORECAST_INTERVAL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.NotificationInterval, err = envDuration("NOTIFICATION_INTERVAL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.PositionLat, err = envFloat("POSITION_LAT"); err != nil {
		return nil, err
	}
	if cfg.PositionLon, err = envFloat("POSITION_LON"); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.NotificationsEnabled && len(cfg.Regions) == 0 {
		return nil, fmt.Errorf("NOTIFICATIONS_ENABLED is true but NOTIFICATION_REGIONS is empty")
	}
	if (cfg.PositionLat == nil) != (cfg.PositionLon == nil) {
		return nil, fmt.Errorf("POSITION_LAT and POSITION_LON must be set together")
	}

	return cfg, nil
}

// Method returns the configured default notification delivery methods.
func (c *Config) Method() []string {
	var m []string
	if c.MethodVisual {
		m = append(m, "visual")
	}
	if c.MethodSound {
		m = append(m, "sound")
	}
	return m
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v == "true" || v == "1"
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return d, nil
}

func envFloat(key string) (*float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", key, v)
	}
	return &f, nil
}

// splitList splits a comma-separated list, trimming whitespace and
// dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
