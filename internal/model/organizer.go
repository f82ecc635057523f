package model

import "time"

// Organizer represents a dashboard account allowed to manage events.
// Participants never have organizer rows; they join events through
// access codes or QR scans without a password.
//
// Fields:
//  ID           – primary key identifier of the organizer.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type Organizer struct {
	ID           uint64    // organizers.id
	Email        string    // organizers.email
	PasswordHash string    // organizers.password_hash
	IsActive     bool      // organizers.is_active
	CreatedAt    time.Time // organizers.created_at
	UpdatedAt    time.Time // organizers.updated_at
}

// Session models an entry in the `sessions` table.  Each session belongs
// to an organizer and carries the SHA-256 hash of the refresh token; the
// plain token is never stored.
//
// Fields:
//  ID          – primary key identifier.
//  OrganizerID – owner of the session.
//  TokenHash   – SHA-256 hex digest of the refresh token value.
//  ExpiresAt   – expiration timestamp of the session.
//  RevokedAt   – when the session was revoked (null if still active).
//  CreatedAt   – timestamp of creation.
type Session struct {
	ID          uint64     // sessions.id
	OrganizerID uint64     // sessions.organizer_id
	TokenHash   string     // sessions.token_hash
	ExpiresAt   time.Time  // sessions.expires_at
	RevokedAt   *time.Time // sessions.revoked_at (nullable)
	CreatedAt   time.Time  // sessions.created_at
}
