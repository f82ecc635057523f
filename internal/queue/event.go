// Package queue defines message payloads exchanged over the message broker.
package queue

// EngagementQueueName is the single queue all engagement side-channel
// events flow through.  Consumers dispatch on the Kind field.
const EngagementQueueName = "engagement.events"

// Event kinds.
const (
	KindAnnouncementCreated    = "announcement.created"
	KindNotificationDispatched = "notification.dispatched"
)

// AnnouncementCreatedEvent is published when an organizer posts an
// announcement.  It carries enough information for downstream consumers
// to log or trigger follow-up delivery without querying the database.
type AnnouncementCreatedEvent struct {
	Kind           string `json:"kind"`
	AnnouncementID uint64 `json:"announcement_id"`
	EventID        uint64 `json:"event_id"`
	EventName      string `json:"event_name"`
	Type           string `json:"type"`
	Message        string `json:"message"`
	CreatedAt      string `json:"created_at"`
}

// NotificationDispatchedEvent is published after a push fan-out
// completes, summarizing the delivery outcome.
type NotificationDispatchedEvent struct {
	Kind         string `json:"kind"`
	EventID      uint64 `json:"event_id"`
	Title        string `json:"title"`
	Sent         int    `json:"sent"`
	Total        int    `json:"total"`
	DispatchedAt string `json:"dispatched_at"`
}
