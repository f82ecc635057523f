package model

import "time"

// Announcement types control how clients render the banner.
const (
	AnnouncementInfo    = "info"
	AnnouncementWarning = "warning"
	AnnouncementSuccess = "success"
)

// Announcement is an organizer-authored message scoped to one event.
//
// Fields:
//  ID        – primary key identifier.
//  EventID   – event the announcement belongs to.
//  Message   – announcement body.
//  Type      – info, warning or success.
//  CreatedAt – creation timestamp.
type Announcement struct {
	ID        uint64    // announcements.id
	EventID   uint64    // announcements.event_id
	Message   string    // announcements.message
	Type      string    // announcements.type
	CreatedAt time.Time // announcements.created_at
}
