package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/crowdpulse/event-engagement/internal/model"
)

// ErrAnnouncementNotFound indicates that an announcement id did not
// resolve to a row.
var ErrAnnouncementNotFound = errors.New("announcement not found")

// AnnouncementRepo manages persistence for announcements.
type AnnouncementRepo struct{ DB *sql.DB }

func NewAnnouncementRepo(db *sql.DB) *AnnouncementRepo { return &AnnouncementRepo{DB: db} }

// Create inserts an announcement and returns its ID.
func (r *AnnouncementRepo) Create(ctx context.Context, a model.Announcement) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO announcements (event_id, message, type) VALUES (?,?,?)",
		a.EventID, a.Message, a.Type)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListByEvent returns an event's announcements, newest first.
func (r *AnnouncementRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.Announcement, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, event_id, message, type, created_at FROM announcements WHERE event_id=? ORDER BY created_at DESC",
		eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Announcement
	for rows.Next() {
		var a model.Announcement
		if err := rows.Scan(&a.ID, &a.EventID, &a.Message, &a.Type, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Delete removes an announcement.
func (r *AnnouncementRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM announcements WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAnnouncementNotFound
	}
	return nil
}
