package orders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/voltmart/storefront-gateway/internal/backend"
)

func TestBuildTimeline(t *testing.T) {
	now := time.Now()
	events := []backend.TrackingEvent{
		{Status: "ordered", Completed: true, Timestamp: &now},
		{Status: "packed", Completed: true, Timestamp: &now},
		{Status: "shipped", Completed: false, Timestamp: nil},
		{Status: "delivered", Completed: false, Timestamp: nil},
	}
	tl := BuildTimeline(events)
	assert.Equal(t, 2, tl.Current, "first incomplete step")
	assert.False(t, tl.Delivered)
	assert.Len(t, tl.Steps, 4, "event order preserved")
	assert.Nil(t, tl.Steps[2].Timestamp, "pending steps keep null timestamps")
}

func TestBuildTimeline_AllCompleted(t *testing.T) {
	tl := BuildTimeline([]backend.TrackingEvent{
		{Status: "ordered", Completed: true},
		{Status: "delivered", Completed: true},
	})
	assert.Equal(t, -1, tl.Current)
	assert.True(t, tl.Delivered)
}

func TestBuildTimeline_Empty(t *testing.T) {
	tl := BuildTimeline(nil)
	assert.Equal(t, -1, tl.Current)
	assert.False(t, tl.Delivered)
}
