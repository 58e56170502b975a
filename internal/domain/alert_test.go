package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{"urn", "urn:oid:2.49.0.1.840.0.abc123", "urn-oid-2-49-0-1-840-0-abc123"},
		{"url", "https://api.weather.gov/alerts/NWS-IDP-PROD-1", "https---api-weather-gov-alerts-NWS-IDP-PROD-1"},
		{"already clean", "A123", "A123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeID(tt.id))
		})
	}
}

func TestNotificationPath(t *testing.T) {
	assert.Equal(t, "notifications.weather.A-123", NotificationPath("A.123"))
}

func TestNotificationFromAlert(t *testing.T) {
	sent := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	expires := sent.Add(6 * time.Hour)
	a := Alert{
		ID:          "A123",
		Event:       "Gale Warning",
		Headline:    "Gale Warning issued March 14",
		AreaDesc:    "Chesapeake Bay",
		Severity:    "Severe",
		Certainty:   "Likely",
		Urgency:     "Expected",
		Description: "Winds 35 kt.",
		MessageType: MessageTypeAlert,
		Sent:        sent,
		Expires:     expires,
	}

	n := NotificationFromAlert(a, "MD", StateAlert, []string{MethodVisual, MethodSound})

	assert.Equal(t, "A123", n.ID)
	assert.Equal(t, "notifications.weather.A123", n.Path)
	assert.Equal(t, "Gale Warning issued March 14 (Chesapeake Bay)", n.Message)
	assert.Equal(t, StateAlert, n.State)
	assert.Equal(t, []string{MethodVisual, MethodSound}, n.Method)
	assert.Equal(t, "MD", n.Region)
	assert.Equal(t, "Severe", n.Severity)
	assert.Equal(t, sent, n.Sent)
	assert.Equal(t, expires, n.Expires)
}

func TestNotificationFromAlert_FallsBackToEvent(t *testing.T) {
	a := Alert{ID: "A1", Event: "Small Craft Advisory"}
	n := NotificationFromAlert(a, "VA", StateWarn, []string{MethodVisual})
	assert.Equal(t, "Small Craft Advisory", n.Message)
}
