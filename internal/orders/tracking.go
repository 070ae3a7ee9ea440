// Package orders shapes backend order data for the tracking views.
package orders

import "github.com/voltmart/storefront-gateway/internal/backend"

// Timeline is the display form of an order's tracking events. Event order is
// preserved as delivered by the backend; timestamps may be null for steps
// that have not happened yet.
type Timeline struct {
	Steps     []backend.TrackingEvent `json:"steps"`
	Current   int                     `json:"current"` // index of the first incomplete step, -1 when done
	Delivered bool                    `json:"delivered"`
}

func BuildTimeline(events []backend.TrackingEvent) Timeline {
	t := Timeline{Steps: events, Current: -1, Delivered: len(events) > 0}
	for i, ev := range events {
		if !ev.Completed {
			t.Current = i
			t.Delivered = false
			break
		}
	}
	return t
}
