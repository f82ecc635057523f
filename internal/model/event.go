package model

import "time"

// Event status values derived from the event's time window.  Status is
// never stored; it is always computed from StartsAt/EndsAt at read time
// so that every call site agrees on the same definition.
const (
	EventStatusUpcoming = "upcoming"
	EventStatusLive     = "live"
	EventStatusEnded    = "ended"
)

// Event represents a single organized event.  Events own announcements,
// participants, access codes and live activities.  This struct corresponds
// to a row in the `events` table.
//
// Fields:
//  ID               – primary key identifier.
//  Name             – display name of the event.
//  Description      – longer free-form description.
//  ImageURL         – optional cover image reference (nullable).
//  StartsAt         – when the event begins (UTC).
//  EndsAt           – when the event ends (UTC, after StartsAt).
//  OrganizerMessage – optional message shown to participants (nullable).
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Event struct {
	ID               uint64     // events.id
	Name             string     // events.name
	Description      string     // events.description
	ImageURL         *string    // events.image_url (nullable)
	StartsAt         time.Time  // events.starts_at
	EndsAt           time.Time  // events.ends_at
	OrganizerMessage *string    // events.organizer_message (nullable)
	CreatedAt        time.Time  // events.created_at
	UpdatedAt        time.Time  // events.updated_at
}

// EventStatus derives the lifecycle status of an event at the given
// instant.  Before StartsAt the event is upcoming, between StartsAt and
// EndsAt it is live, and from EndsAt onward it is ended.  This is the
// only place the derivation lives; handlers and repositories must call
// it rather than re-deriving the comparison themselves.
func EventStatus(now, startsAt, endsAt time.Time) string {
	if now.Before(startsAt) {
		return EventStatusUpcoming
	}
	if now.Before(endsAt) {
		return EventStatusLive
	}
	return EventStatusEnded
}

// Status is a convenience wrapper around EventStatus for a loaded event.
func (e Event) Status(now time.Time) string {
	return EventStatus(now, e.StartsAt, e.EndsAt)
}
