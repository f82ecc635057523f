package model

import "time"

// ChatMessage is one message in an anonymous chat activity.  The sender
// is shown only under their per-activity anonymous name; the participant
// reference exists for slow-mode enforcement and moderation.
//
// Fields:
//  ID            – primary key identifier.
//  ActivityID    – chat activity the message belongs to.
//  ParticipantID – sender (never exposed to other participants).
//  AnonymousName – display name assigned to the sender for this activity.
//  Message       – message body.
//  SentAt        – send timestamp.
type ChatMessage struct {
	ID            uint64    // chat_messages.id
	ActivityID    uint64    // chat_messages.activity_id
	ParticipantID uint64    // chat_messages.participant_id
	AnonymousName string    // chat_messages.anonymous_name
	Message       string    // chat_messages.message
	SentAt        time.Time // chat_messages.sent_at
}

// ChatIdentity is the per-(participant, activity) anonymous name
// mapping.  It is created lazily on the participant's first message in
// an activity and stays stable for the rest of that activity.
//
// Fields:
//  ID            – primary key identifier.
//  ActivityID    – activity scope of the name.
//  ParticipantID – participant the name is assigned to.
//  AnonymousName – assigned adjective+animal+number name.
//  CreatedAt     – when the name was minted.
type ChatIdentity struct {
	ID            uint64    // chat_identities.id
	ActivityID    uint64    // chat_identities.activity_id
	ParticipantID uint64    // chat_identities.participant_id
	AnonymousName string    // chat_identities.anonymous_name
	CreatedAt     time.Time // chat_identities.created_at
}
