// Package repository contains data access logic for the event domain.
// This file covers the events table and the single-row app_settings
// table that holds the "current event" pointer. Storing the pointer in
// its own row avoids the find-and-clear scan a per-event boolean flag
// would need.
package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/crowdpulse/event-engagement/internal/model"
)

const eventColumns = "id, name, description, image_url, starts_at, ends_at, organizer_message, created_at, updated_at"

// EventRepo manages persistence for events and the current-event pointer.
type EventRepo struct{ DB *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{DB: db} }

func scanEvent(row interface{ Scan(...any) error }) (model.Event, error) {
	var e model.Event
	err := row.Scan(&e.ID, &e.Name, &e.Description, &e.ImageURL,
		&e.StartsAt, &e.EndsAt, &e.OrganizerMessage, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// Create inserts an event and returns its ID.
func (r *EventRepo) Create(ctx context.Context, e model.Event) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO events (name, description, image_url, starts_at, ends_at, organizer_message) VALUES (?,?,?,?,?,?)",
		e.Name, e.Description, e.ImageURL, e.StartsAt.UTC(), e.EndsAt.UTC(), e.OrganizerMessage)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches an event by id.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (model.Event, error) {
	e, err := scanEvent(r.DB.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return model.Event{}, ErrEventNotFound
	}
	return e, err
}

// ListAll returns all events ordered by start time descending.
func (r *EventRepo) ListAll(ctx context.Context) ([]model.Event, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+eventColumns+" FROM events ORDER BY starts_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// EventPatch carries the optional fields of a partial event update. Nil
// fields are left untouched.
type EventPatch struct {
	Name             *string
	Description      *string
	ImageURL         *string
	StartsAt         *time.Time
	EndsAt           *time.Time
	OrganizerMessage *string
}

// Update applies a partial update to an event. It returns
// ErrEventNotFound when the id does not exist and is a no-op when the
// patch is empty.
func (r *EventRepo) Update(ctx context.Context, id uint64, p EventPatch) error {
	sets := make([]string, 0, 6)
	args := make([]any, 0, 7)
	if p.Name != nil {
		sets = append(sets, "name=?")
		args = append(args, *p.Name)
	}
	if p.Description != nil {
		sets = append(sets, "description=?")
		args = append(args, *p.Description)
	}
	if p.ImageURL != nil {
		sets = append(sets, "image_url=?")
		args = append(args, *p.ImageURL)
	}
	if p.StartsAt != nil {
		sets = append(sets, "starts_at=?")
		args = append(args, p.StartsAt.UTC())
	}
	if p.EndsAt != nil {
		sets = append(sets, "ends_at=?")
		args = append(args, p.EndsAt.UTC())
	}
	if p.OrganizerMessage != nil {
		sets = append(sets, "organizer_message=?")
		args = append(args, *p.OrganizerMessage)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE events SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
	if err != nil {
		return err
	}
	// RowsAffected is 0 both for a missing row and for a no-op update;
	// distinguish by probing for the row.
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes an event. Dependent rows (participants, codes,
// activities) are not cascaded; see the announcements and codes
// repositories for their own delete paths.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM events WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrEventNotFound
	}
	return nil
}

// SetCurrent points the app_settings row at the given event. The row is
// created on first use; subsequent calls overwrite the pointer in place.
func (r *EventRepo) SetCurrent(ctx context.Context, id uint64) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO app_settings (id, current_event_id) VALUES (1, ?) ON DUPLICATE KEY UPDATE current_event_id=VALUES(current_event_id)",
		id)
	return err
}

// ClearCurrent drops the current-event pointer if it points at the given
// event. Used when deleting the event that is currently active.
func (r *EventRepo) ClearCurrent(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE app_settings SET current_event_id=NULL WHERE id=1 AND current_event_id=?", id)
	return err
}

// GetCurrent resolves the app_settings pointer to its event. It returns
// ErrEventNotFound when no pointer is set or the pointed-at event no
// longer exists.
func (r *EventRepo) GetCurrent(ctx context.Context) (model.Event, error) {
	e, err := scanEvent(r.DB.QueryRowContext(ctx,
		"SELECT e."+strings.ReplaceAll(eventColumns, ", ", ", e.")+
			" FROM app_settings s JOIN events e ON e.id = s.current_event_id WHERE s.id=1 LIMIT 1"))
	if err == sql.ErrNoRows {
		return model.Event{}, ErrEventNotFound
	}
	return e, err
}

// Seed inserts a demo event with an open access code and marks it
// current when the events table is empty. Idempotent: it does nothing
// once any event exists.
func (r *EventRepo) Seed(ctx context.Context) (model.Event, bool, error) {
	var count int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM events").Scan(&count); err != nil {
		return model.Event{}, false, err
	}
	if count > 0 {
		e, err := r.GetCurrent(ctx)
		if err == ErrEventNotFound {
			// Events exist but none is marked current; hand back the
			// most recent one without touching the pointer.
			all, err := r.ListAll(ctx)
			if err != nil || len(all) == 0 {
				return model.Event{}, false, err
			}
			return all[0], false, nil
		}
		return e, false, err
	}
	now := time.Now().UTC()
	demo := model.Event{
		Name:        "Demo Conference",
		Description: "Seeded demo event for local development",
		StartsAt:    now.Add(-time.Hour),
		EndsAt:      now.Add(8 * time.Hour),
	}
	id, err := r.Create(ctx, demo)
	if err != nil {
		return model.Event{}, false, err
	}
	if err := r.SetCurrent(ctx, id); err != nil {
		return model.Event{}, false, err
	}
	if _, err := (&AccessCodeRepo{DB: r.DB}).Generate(ctx, id, nil); err != nil {
		return model.Event{}, false, err
	}
	e, err := r.GetByID(ctx, id)
	return e, true, err
}
