package events

import "time"

const LeaveLifecycleTopic = "dayflow.leave.lifecycle.v1"

// LeaveReviewedEvent is published after an admin decides a leave request.
// Downstream consumers (notifications, reporting) attach to the topic without
// schema changes on our side.
type LeaveReviewedEvent struct {
	EventType      string    `json:"event_type"`
	LeaveRequestID string    `json:"leave_request_id"`
	UserID         string    `json:"user_id"`
	ReviewerID     string    `json:"reviewer_id"`
	Status         string    `json:"status"`
	OccurredAt     time.Time `json:"occurred_at"`
}
