package repository

import (
	"context"
	"database/sql"
	"time"
)

// SessionRepo persists/validates organizer sessions (single 'token_hash' column).
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// StoreRefresh inserts a session row for a hashed refresh token.
func (r *SessionRepo) StoreRefresh(ctx context.Context, organizerID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO sessions (organizer_id, token_hash, expires_at) VALUES (?,?,?)",
		organizerID, tokenHash, exp)
	return err
}

// ValidateRefresh returns organizerID if a non-revoked, non-expired session exists.
func (r *SessionRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	var (
		organizerID uint64
		expiresAt   time.Time
		revokedAt   sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT organizer_id, expires_at, revoked_at FROM sessions WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&organizerID, &expiresAt, &revokedAt)
	if err != nil {
		return 0, err
	}
	if revokedAt.Valid {
		return 0, sql.ErrNoRows
	}
	if time.Now().UTC().After(expiresAt) {
		return 0, sql.ErrNoRows
	}
	return organizerID, nil
}

// RevokeByHash marks a session as revoked.
func (r *SessionRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE sessions SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash)
	return err
}

// RevokeAllForOrganizer revokes all of an organizer's active sessions.
func (r *SessionRepo) RevokeAllForOrganizer(ctx context.Context, organizerID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE sessions SET revoked_at=NOW() WHERE organizer_id=? AND revoked_at IS NULL",
		organizerID)
	return err
}
