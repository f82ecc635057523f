package model

import (
	"encoding/json"
	"time"
)

// Live activity types.  Each type interprets the Config column
// differently; only anonymous_chat accepts chat messages.
const (
	ActivityTypePoll          = "poll"
	ActivityTypeWordCloud     = "word_cloud"
	ActivityTypeReactionSpeed = "reaction_speed"
	ActivityTypeAnonymousChat = "anonymous_chat"
	ActivityTypeGuessLogo     = "guess_logo"
)

// Live activity statuses.  Transitions are linear:
// draft -> scheduled -> live -> ended.  Only a live activity accepts
// reactions and chat messages.
const (
	ActivityStatusDraft     = "draft"
	ActivityStatusScheduled = "scheduled"
	ActivityStatusLive      = "live"
	ActivityStatusEnded     = "ended"
)

// LiveActivity is a time-boxed interactive widget scoped to one event.
// The type-specific configuration is stored as a JSON document in the
// Config column and decoded on demand.  This struct corresponds to a row
// in the `live_activities` table.
//
// Fields:
//  ID          – primary key identifier.
//  EventID     – owning event.
//  Type        – activity type (poll, word_cloud, reaction_speed,
//                anonymous_chat, guess_logo).
//  Status      – lifecycle status (draft, scheduled, live, ended).
//  Title       – display title.
//  Config      – raw JSON configuration document.
//  ScheduledAt – optional time the activity is planned to start (nullable).
//  StartedAt   – when the organizer started it (nullable).
//  EndedAt     – when the organizer ended it (nullable).
//  CreatedAt   – creation timestamp.
type LiveActivity struct {
	ID          uint64     // live_activities.id
	EventID     uint64     // live_activities.event_id
	Type        string     // live_activities.type
	Status      string     // live_activities.status
	Title       string     // live_activities.title
	Config      string     // live_activities.config (JSON)
	ScheduledAt *time.Time // live_activities.scheduled_at (nullable)
	StartedAt   *time.Time // live_activities.started_at (nullable)
	EndedAt     *time.Time // live_activities.ended_at (nullable)
	CreatedAt   time.Time  // live_activities.created_at
}

// ChatConfig holds the settings honored by the anonymous chat write
// path.  Zero values disable the corresponding check: a zero
// MaxMessageLength falls back to the server default and a zero
// SlowModeSeconds disables slow mode entirely.
type ChatConfig struct {
	MaxMessageLength int `json:"maxMessageLength"`
	SlowModeSeconds  int `json:"slowModeSeconds"`
}

// DefaultMaxMessageLength bounds chat messages when the activity config
// does not set its own limit.
const DefaultMaxMessageLength = 280

// ChatConfig decodes the activity's JSON config into the chat settings.
// Unknown fields are ignored so poll and word cloud configs can share
// the column.  A malformed document yields the zero config rather than
// an error; the write path then applies server defaults.
func (a LiveActivity) ChatConfig() ChatConfig {
	var cfg ChatConfig
	if a.Config != "" {
		_ = json.Unmarshal([]byte(a.Config), &cfg)
	}
	return cfg
}

// NextStatus reports the status that follows s in the linear activity
// lifecycle, or "" when s is terminal or unknown.
func NextStatus(s string) string {
	switch s {
	case ActivityStatusDraft:
		return ActivityStatusScheduled
	case ActivityStatusScheduled:
		return ActivityStatusLive
	case ActivityStatusLive:
		return ActivityStatusEnded
	}
	return ""
}
