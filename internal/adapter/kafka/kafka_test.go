package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marinebus/noaa-weather-relay/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 10, 0, 0, time.UTC)
	u := domain.Update{
		Source:    "observations.KDMH",
		Timestamp: now,
		Deltas: []domain.Delta{
			{Path: "environment.outside.temperature", Value: 294.65},
		},
		Meta: []domain.MetaRecord{
			{Path: "environment.outside.temperature", Units: "K"},
		},
	}

	msg, err := serializeToMessage(u)
	require.NoError(t, err)

	assert.Equal(t, []byte("observations.KDMH"), msg.Key)
	assert.Contains(t, string(msg.Value), `"path":"environment.outside.temperature"`)
	assert.Contains(t, string(msg.Value), `"units":"K"`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "source", msg.Headers[0].Key)
	assert.Equal(t, []byte("observations.KDMH"), msg.Headers[0].Value)
	assert.Equal(t, "timestamp", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestSerializeToMessage_OmitsEmptyMeta(t *testing.T) {
	u := domain.Update{
		Source: "forecast.39.2900,-76.6100",
		Deltas: []domain.Delta{{Path: "environment.forecast.tonight.name", Value: "Tonight"}},
	}

	msg, err := serializeToMessage(u)
	require.NoError(t, err)
	assert.NotContains(t, string(msg.Value), `"meta"`)
}
