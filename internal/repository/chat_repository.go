package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/crowdpulse/event-engagement/internal/model"
)

const chatMessageColumns = "id, activity_id, participant_id, anonymous_name, message, sent_at"

// ChatRepo manages persistence for chat messages and the per-activity
// anonymous identities of their senders.
type ChatRepo struct{ DB *sql.DB }

func NewChatRepo(db *sql.DB) *ChatRepo { return &ChatRepo{DB: db} }

func scanChatMessage(row interface{ Scan(...any) error }) (model.ChatMessage, error) {
	var m model.ChatMessage
	err := row.Scan(&m.ID, &m.ActivityID, &m.ParticipantID, &m.AnonymousName, &m.Message, &m.SentAt)
	return m, err
}

// GetIdentity returns the participant's anonymous name for an activity.
// Returns sql.ErrNoRows when no name has been minted yet.
func (r *ChatRepo) GetIdentity(ctx context.Context, activityID, participantID uint64) (string, error) {
	var name string
	err := r.DB.QueryRowContext(ctx,
		"SELECT anonymous_name FROM chat_identities WHERE activity_id=? AND participant_id=? LIMIT 1",
		activityID, participantID).Scan(&name)
	return name, err
}

// CreateIdentity stores a freshly minted anonymous name. On a unique
// index collision (two first messages racing) the already stored name
// wins and is returned.
func (r *ChatRepo) CreateIdentity(ctx context.Context, activityID, participantID uint64, name string) (string, error) {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO chat_identities (activity_id, participant_id, anonymous_name) VALUES (?,?,?)",
		activityID, participantID, name)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return r.GetIdentity(ctx, activityID, participantID)
		}
		return "", err
	}
	return name, nil
}

// LastMessageAt returns when the participant last posted in the
// activity. Returns sql.ErrNoRows when they have not posted.
func (r *ChatRepo) LastMessageAt(ctx context.Context, activityID, participantID uint64) (time.Time, error) {
	var t time.Time
	err := r.DB.QueryRowContext(ctx,
		"SELECT sent_at FROM chat_messages WHERE activity_id=? AND participant_id=? ORDER BY sent_at DESC LIMIT 1",
		activityID, participantID).Scan(&t)
	return t, err
}

// InsertMessage stores a chat message and returns the persisted row.
func (r *ChatRepo) InsertMessage(ctx context.Context, m model.ChatMessage) (model.ChatMessage, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO chat_messages (activity_id, participant_id, anonymous_name, message, sent_at) VALUES (?,?,?,?,?)",
		m.ActivityID, m.ParticipantID, m.AnonymousName, m.Message, m.SentAt.UTC())
	if err != nil {
		return model.ChatMessage{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.ChatMessage{}, err
	}
	m.ID = uint64(id)
	return m, nil
}

// RecentByActivity fetches the newest limit messages and returns them
// in chronological order for display.
func (r *ChatRepo) RecentByActivity(ctx context.Context, activityID uint64, limit int) ([]model.ChatMessage, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+chatMessageColumns+" FROM chat_messages WHERE activity_id=? ORDER BY sent_at DESC LIMIT ?",
		activityID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.ChatMessage
	for rows.Next() {
		m, err := scanChatMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Reverse newest-first into oldest-first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
