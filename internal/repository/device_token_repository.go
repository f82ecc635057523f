package repository

import (
	"context"
	"database/sql"
	"strings"
)

// DeviceTokenRepo manages push token registrations for participants.
type DeviceTokenRepo struct{ DB *sql.DB }

func NewDeviceTokenRepo(db *sql.DB) *DeviceTokenRepo { return &DeviceTokenRepo{DB: db} }

// Register stores a push token for a participant. Re-registering the
// same token is idempotent thanks to the unique index on
// (participant_id, token).
func (r *DeviceTokenRepo) Register(ctx context.Context, participantID uint64, token, platform string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO device_tokens (participant_id, token, platform) VALUES (?,?,?)",
		participantID, strings.TrimSpace(token), platform)
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "1062") {
		return nil
	}
	return err
}

// Remove drops a token, typically after the provider reports it as no
// longer registered.
func (r *DeviceTokenRepo) Remove(ctx context.Context, token string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM device_tokens WHERE token=?", token)
	return err
}

// TokensByEvent returns the distinct push tokens of every participant in
// an event.
func (r *DeviceTokenRepo) TokensByEvent(ctx context.Context, eventID uint64) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT DISTINCT d.token
		 FROM device_tokens d
		 JOIN participants p ON p.id = d.participant_id
		 WHERE p.event_id = ?`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
