package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/crowdpulse/event-engagement/internal/model"
)

// ReactionRepo manages persistence for activity reactions.
type ReactionRepo struct{ DB *sql.DB }

func NewReactionRepo(db *sql.DB) *ReactionRepo { return &ReactionRepo{DB: db} }

// AnonymousReaction is the read-side projection handed to clients. The
// participant reference is deliberately absent so the UI cannot
// attribute a reaction to a person.
type AnonymousReaction struct {
	ID        uint64    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// LastReactionAt returns the timestamp of the participant's most recent
// reaction on the activity. Returns sql.ErrNoRows when they have none.
func (r *ReactionRepo) LastReactionAt(ctx context.Context, activityID, participantID uint64) (time.Time, error) {
	var t time.Time
	err := r.DB.QueryRowContext(ctx,
		"SELECT created_at FROM activity_reactions WHERE activity_id=? AND participant_id=? ORDER BY created_at DESC LIMIT 1",
		activityID, participantID).Scan(&t)
	return t, err
}

// Insert records a reaction stamped with the given time and returns its id.
func (r *ReactionRepo) Insert(ctx context.Context, activityID, participantID uint64, at time.Time) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO activity_reactions (activity_id, participant_id, created_at) VALUES (?,?,?)",
		activityID, participantID, at.UTC())
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Count returns the total number of reactions on an activity. The scan
// is unbounded, which is fine for the short lifetime and low volume of
// a live activity.
func (r *ReactionRepo) Count(ctx context.Context, activityID uint64) (uint64, error) {
	var n uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM activity_reactions WHERE activity_id=?", activityID).Scan(&n)
	return n, err
}

// RecentSince returns up to limit reactions newer than since, newest
// first, reduced to the anonymous projection. Pass the zero time to
// fetch from the beginning.
func (r *ReactionRepo) RecentSince(ctx context.Context, activityID uint64, since time.Time, limit int) ([]AnonymousReaction, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, created_at FROM activity_reactions WHERE activity_id=? AND created_at > ? ORDER BY created_at DESC LIMIT ?",
		activityID, since.UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]AnonymousReaction, 0, limit)
	for rows.Next() {
		var a AnonymousReaction
		if err := rows.Scan(&a.ID, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// cooldownPassed applies the reaction cooldown rule to a pair of
// timestamps. Split out so the rule itself is testable without a DB.
func cooldownPassed(last, now time.Time, cooldown time.Duration) bool {
	return now.Sub(last) >= cooldown
}

// CheckCooldown looks up the participant's most recent reaction and
// returns ErrRateLimited when it is younger than the model cooldown.
// This is the database fallback path; when Redis is available the
// handler uses an atomic SET NX key instead.
func (r *ReactionRepo) CheckCooldown(ctx context.Context, activityID, participantID uint64, now time.Time) error {
	last, err := r.LastReactionAt(ctx, activityID, participantID)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}
	if !cooldownPassed(last, now, model.ReactionCooldown) {
		return ErrRateLimited
	}
	return nil
}
