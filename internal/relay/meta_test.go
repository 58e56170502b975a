package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetaTracker_FirstSeenOnce(t *testing.T) {
	tracker := NewMetaTracker()

	assert.True(t, tracker.FirstSeen("environment.outside.temperature"))
	assert.False(t, tracker.FirstSeen("environment.outside.temperature"))
	assert.False(t, tracker.FirstSeen("environment.outside.temperature"))

	assert.True(t, tracker.FirstSeen("environment.wind.speed"))
}

func TestMetaTracker_IndependentInstances(t *testing.T) {
	a := NewMetaTracker()
	b := NewMetaTracker()

	assert.True(t, a.FirstSeen("a.b"))
	assert.True(t, b.FirstSeen("a.b"), "trackers must not share state")
}
