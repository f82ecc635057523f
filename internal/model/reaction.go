package model

import "time"

// ReactionCooldown is the minimum gap between two reactions from the
// same participant on the same activity.
const ReactionCooldown = 1000 * time.Millisecond

// ActivityReaction records a single tap reaction on a live activity.
// Reactions are intentionally anonymous on the read side: queries that
// feed the participant UI strip the participant reference.
//
// Fields:
//  ID            – primary key identifier.
//  ActivityID    – activity the reaction belongs to.
//  ParticipantID – participant who reacted (write side only).
//  CreatedAt     – when the reaction was recorded.
type ActivityReaction struct {
	ID            uint64    // activity_reactions.id
	ActivityID    uint64    // activity_reactions.activity_id
	ParticipantID uint64    // activity_reactions.participant_id
	CreatedAt     time.Time // activity_reactions.created_at
}
