package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/crowdpulse/event-engagement/internal/model"
)

// ErrInvalidTransition indicates the activity exists but is not in the
// status the transition expects (e.g. starting an ended activity).
var ErrInvalidTransition = errors.New("activity is not in the expected status")

const activityColumns = "id, event_id, type, status, title, config, scheduled_at, started_at, ended_at, created_at"

// ActivityRepo manages persistence for live activities.
type ActivityRepo struct{ DB *sql.DB }

func NewActivityRepo(db *sql.DB) *ActivityRepo { return &ActivityRepo{DB: db} }

func scanActivity(row interface{ Scan(...any) error }) (model.LiveActivity, error) {
	var a model.LiveActivity
	err := row.Scan(&a.ID, &a.EventID, &a.Type, &a.Status, &a.Title, &a.Config,
		&a.ScheduledAt, &a.StartedAt, &a.EndedAt, &a.CreatedAt)
	return a, err
}

// Create inserts an activity in draft status and returns the stored row.
func (r *ActivityRepo) Create(ctx context.Context, a model.LiveActivity) (model.LiveActivity, error) {
	if a.Config == "" {
		a.Config = "{}"
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO live_activities (event_id, type, status, title, config, scheduled_at) VALUES (?,?,?,?,?,?)",
		a.EventID, a.Type, model.ActivityStatusDraft, a.Title, a.Config, a.ScheduledAt)
	if err != nil {
		return model.LiveActivity{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.LiveActivity{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches an activity by id.
func (r *ActivityRepo) GetByID(ctx context.Context, id uint64) (model.LiveActivity, error) {
	a, err := scanActivity(r.DB.QueryRowContext(ctx,
		"SELECT "+activityColumns+" FROM live_activities WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return model.LiveActivity{}, ErrActivityNotFound
	}
	return a, err
}

// ListByEvent returns an event's activities, newest first.
func (r *ActivityRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.LiveActivity, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+activityColumns+" FROM live_activities WHERE event_id=? ORDER BY created_at DESC", eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.LiveActivity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Transition moves an activity from one status to the next. The guard
// on the current status in the WHERE clause keeps the lifecycle linear
// under concurrent organizer clicks: only one of two simultaneous
// transitions can win.
func (r *ActivityRepo) Transition(ctx context.Context, id uint64, from, to string) error {
	var stampCol string
	switch to {
	case model.ActivityStatusLive:
		stampCol = "started_at"
	case model.ActivityStatusEnded:
		stampCol = "ended_at"
	}
	var (
		res sql.Result
		err error
	)
	if stampCol != "" {
		res, err = r.DB.ExecContext(ctx,
			"UPDATE live_activities SET status=?, "+stampCol+"=? WHERE id=? AND status=?",
			to, time.Now().UTC(), id, from)
	} else {
		res, err = r.DB.ExecContext(ctx,
			"UPDATE live_activities SET status=? WHERE id=? AND status=?",
			to, id, from)
	}
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrInvalidTransition
	}
	return nil
}

// Delete removes an activity row. Reactions and messages referencing it
// are left in place (no cascade).
func (r *ActivityRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM live_activities WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrActivityNotFound
	}
	return nil
}
