package domain

import (
	"strings"
	"time"
)

// Alert message types from the NWS active-alert feed. Only Alert and
// Cancel drive notification transitions; New and Update are ignored.
const (
	MessageTypeAlert  = "Alert"
	MessageTypeUpdate = "Update"
	MessageTypeCancel = "Cancel"
	MessageTypeNew    = "New"
)

// Alert is one entry of an area's active-alert feed.
type Alert struct {
	ID          string    `json:"id"`
	Event       string    `json:"event"`
	Headline    string    `json:"headline"`
	AreaDesc    string    `json:"areaDesc"`
	Category    string    `json:"category"`
	Severity    string    `json:"severity"`
	Certainty   string    `json:"certainty"`
	Urgency     string    `json:"urgency"`
	Description string    `json:"description"`
	Instruction string    `json:"instruction"`
	MessageType string    `json:"messageType"`
	Sent        time.Time `json:"sent"`
	Effective   time.Time `json:"effective"`
	Onset       time.Time `json:"onset"`
	Expires     time.Time `json:"expires"`
	Ends        time.Time `json:"ends"`
}

// Notification states. StateNormal is the quiescent state; the active
// state label is configurable and is not itself a state machine — the
// only modeled transition is normal vs non-normal.
const (
	StateNormal    = "normal"
	StateAlert     = "alert"
	StateWarn      = "warn"
	StateAlarm     = "alarm"
	StateEmergency = "emergency"
)

// Delivery methods for a notification.
const (
	MethodVisual = "visual"
	MethodSound  = "sound"
)

// NotificationNamespace is the fixed path prefix for alert notifications.
const NotificationNamespace = "notifications.weather."

// Notification is the stateful projection of an alert. Once created its
// record persists in the live tree indefinitely; only State changes.
// Method is preserved across refreshes while the record is non-normal so
// a user's acknowledgement (muting sound) survives repeated fetches of
// the same ongoing alert.
type Notification struct {
	ID          string    `json:"id"`
	Path        string    `json:"path"`
	Message     string    `json:"message"`
	State       string    `json:"state"`
	Method      []string  `json:"method"`
	Region      string    `json:"region"`
	Event       string    `json:"event,omitempty"`
	Severity    string    `json:"severity,omitempty"`
	Certainty   string    `json:"certainty,omitempty"`
	Urgency     string    `json:"urgency,omitempty"`
	Description string    `json:"description,omitempty"`
	Sent        time.Time `json:"sent"`
	Effective   time.Time `json:"effective"`
	Onset       time.Time `json:"onset"`
	Expires     time.Time `json:"expires"`
	Ends        time.Time `json:"ends"`
}

// NotificationFromAlert builds an active notification for an alert seen
// in the given region's feed.
func NotificationFromAlert(a Alert, region, state string, method []string) Notification {
	return Notification{
		ID:          a.ID,
		Path:        NotificationPath(a.ID),
		Message:     composeMessage(a),
		State:       state,
		Method:      method,
		Region:      region,
		Event:       a.Event,
		Severity:    a.Severity,
		Certainty:   a.Certainty,
		Urgency:     a.Urgency,
		Description: a.Description,
		Sent:        a.Sent,
		Effective:   a.Effective,
		Onset:       a.Onset,
		Expires:     a.Expires,
		Ends:        a.Ends,
	}
}

// NotificationPath keys a notification under the fixed namespace by its
// sanitized alert identifier.
func NotificationPath(alertID string) string {
	return NotificationNamespace + SanitizeID(alertID)
}

// SanitizeID collapses an alert identifier (a URN or URL) into a single
// path segment: every character outside [A-Za-z0-9] becomes '-'.
func SanitizeID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, id)
}

func composeMessage(a Alert) string {
	msg := a.Headline
	if msg == "" {
		msg = a.Event
	}
	if a.AreaDesc != "" {
		msg += " (" + a.AreaDesc + ")"
	}
	return msg
}
