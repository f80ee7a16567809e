package domain

import "time"

// ScheduledOccurrence is one concrete future instance of a recurring session
type ScheduledOccurrence struct {
	At                time.Time // absolute instant, UTC
	AuthoringTimezone string    // zone the slot was picked in
	ViewerTimezone    string    // optional zone of the person looking at it
}

// HasViewer returns true if a second display timezone is attached
func (o ScheduledOccurrence) HasViewer() bool {
	return o.ViewerTimezone != ""
}

// WithViewer returns a copy with the viewer timezone attached
func (o ScheduledOccurrence) WithViewer(tz string) ScheduledOccurrence {
	o.ViewerTimezone = tz
	return o
}
