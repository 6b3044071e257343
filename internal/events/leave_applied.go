package events

import "time"

const LeaveAppliedTopic = "leave.notifications.v1"

// LeaveAppliedEvent carries the confirmation text for one applied leave
// request to whatever channel ultimately delivers it.
type LeaveAppliedEvent struct {
	EventType  string    `json:"event_type"`
	Address    string    `json:"address"`
	Body       string    `json:"body"`
	OccurredAt time.Time `json:"occurred_at"`
}
