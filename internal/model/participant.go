package model

import "time"

// Access methods recorded when a participant joins an event.
const (
	AccessMethodQRCode     = "qr_code"
	AccessMethodAccessCode = "access_code"
)

// Participant represents a person who joined an event.  At most one
// participant exists per (email, event) pair; joining twice with the same
// email returns the existing record.  This struct corresponds to a row in
// the `participants` table.
//
// Fields:
//  ID           – primary key identifier.
//  EventID      – event the participant joined.
//  UserID       – optional external account identifier (nullable).
//  Name         – display name.
//  Email        – normalized email address, unique per event.
//  AvatarSeed   – seed string used by clients to render an avatar.
//  AccessMethod – how the participant got in (qr_code or access_code).
//  JoinedAt     – when the participant joined.
type Participant struct {
	ID           uint64    // participants.id
	EventID      uint64    // participants.event_id
	UserID       *string   // participants.user_id (nullable)
	Name         string    // participants.name
	Email        string    // participants.email
	AvatarSeed   string    // participants.avatar_seed
	AccessMethod string    // participants.access_method
	JoinedAt     time.Time // participants.joined_at
}

// DeviceToken stores a push notification token registered by a
// participant's device.  Tokens are unique per participant so
// re-registering the same token is idempotent.
//
// Fields:
//  ID            – primary key identifier.
//  ParticipantID – owner of the token.
//  Token         – provider push token (e.g. ExponentPushToken[...]).
//  Platform      – "ios" or "android".
//  CreatedAt     – registration timestamp.
type DeviceToken struct {
	ID            uint64    // device_tokens.id
	ParticipantID uint64    // device_tokens.participant_id
	Token         string    // device_tokens.token
	Platform      string    // device_tokens.platform
	CreatedAt     time.Time // device_tokens.created_at
}
