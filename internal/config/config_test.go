package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "weather-updates", cfg.KafkaSinkTopic)
	assert.Empty(t, cfg.KafkaPositionTopic)
	assert.Equal(t, "noaa-weather-relay", cfg.KafkaGroupID)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "https://api.weather.gov", cfg.NWSBaseURL)
	assert.Equal(t, 15*time.Second, cfg.NWSTimeout)
	assert.Empty(t, cfg.StationName)
	assert.False(t, cfg.NotificationsEnabled)
	assert.Equal(t, "alert", cfg.ActiveState)
	assert.Equal(t, 60*time.Second, cfg.ObservationInterval)
	assert.Equal(t, time.Hour, cfg.ForecastInterval)
	assert.Equal(t, time.Hour, cfg.NotificationInterval)
	assert.Equal(t, []string{"visual", "sound"}, cfg.Method())
	assert.Nil(t, cfg.PositionLat)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("KAFKA_POSITION_TOPIC", "vessel-position")
	t.Setenv("STATION_NAME", "KBWI")
	t.Setenv("FORECAST_STATION_NAME", "Baltimore")
	t.Setenv("NOTIFICATIONS_ENABLED", "true")
	t.Setenv("NOTIFICATION_REGIONS", "MD, VA")
	t.Setenv("NOTIFICATION_METHOD_SOUND", "false")
	t.Setenv("NOTIFICATION_ACTIVE_STATE", "warn")
	t.Setenv("OBSERVATION_INTERVAL", "30s")
	t.Setenv("FORECAST_INTERVAL", "2h")
	t.Setenv("POSITION_LAT", "39.29")
	t.Setenv("POSITION_LON", "-76.61")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, "vessel-position", cfg.KafkaPositionTopic)
	assert.Equal(t, "KBWI", cfg.StationName)
	assert.Equal(t, "Baltimore", cfg.ForecastName)
	assert.True(t, cfg.NotificationsEnabled)
	assert.Equal(t, []string{"MD", "VA"}, cfg.Regions)
	assert.Equal(t, []string{"visual"}, cfg.Method())
	assert.Equal(t, "warn", cfg.ActiveState)
	assert.Equal(t, 30*time.Second, cfg.ObservationInterval)
	assert.Equal(t, 2*time.Hour, cfg.ForecastInterval)
	require.NotNil(t, cfg.PositionLat)
	assert.Equal(t, 39.29, *cfg.PositionLat)
}

func TestLoad_InvalidActiveState(t *testing.T) {
	t.Setenv("NOTIFICATION_ACTIVE_STATE", "panic")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoad_NotificationsWithoutRegions(t *testing.T) {
	t.Setenv("NOTIFICATIONS_ENABLED", "true")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOTIFICATION_REGIONS")
}

func TestLoad_InvalidInterval(t *testing.T) {
	t.Setenv("OBSERVATION_INTERVAL", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OBSERVATION_INTERVAL")
}

func TestLoad_LonWithoutLat(t *testing.T) {
	t.Setenv("POSITION_LON", "-76.61")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSITION_LAT")
}
