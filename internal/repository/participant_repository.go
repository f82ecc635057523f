package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/crowdpulse/event-engagement/internal/model"
)

const participantColumns = "id, event_id, user_id, name, email, avatar_seed, access_method, joined_at"

// ParticipantRepo manages persistence for event participants.
type ParticipantRepo struct{ DB *sql.DB }

func NewParticipantRepo(db *sql.DB) *ParticipantRepo { return &ParticipantRepo{DB: db} }

func scanParticipant(row interface{ Scan(...any) error }) (model.Participant, error) {
	var p model.Participant
	err := row.Scan(&p.ID, &p.EventID, &p.UserID, &p.Name, &p.Email,
		&p.AvatarSeed, &p.AccessMethod, &p.JoinedAt)
	return p, err
}

// Join inserts a participant or returns the existing row for the same
// (email, event) pair. The second return value reports whether a new
// row was created.
func (r *ParticipantRepo) Join(ctx context.Context, p model.Participant) (model.Participant, bool, error) {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	existing, err := r.GetByEmailAndEvent(ctx, p.Email, p.EventID)
	if err == nil {
		return existing, false, nil
	}
	if err != sql.ErrNoRows {
		return model.Participant{}, false, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO participants (event_id, user_id, name, email, avatar_seed, access_method) VALUES (?,?,?,?,?,?)",
		p.EventID, p.UserID, p.Name, p.Email, p.AvatarSeed, p.AccessMethod)
	if err != nil {
		// A concurrent join with the same email hit the unique index
		// first; return that row instead.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			existing, err2 := r.GetByEmailAndEvent(ctx, p.Email, p.EventID)
			if err2 != nil {
				return model.Participant{}, false, err
			}
			return existing, false, nil
		}
		return model.Participant{}, false, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Participant{}, false, err
	}
	created, err := r.GetByID(ctx, uint64(id))
	return created, true, err
}

// GetByID fetches a participant by id.
func (r *ParticipantRepo) GetByID(ctx context.Context, id uint64) (model.Participant, error) {
	p, err := scanParticipant(r.DB.QueryRowContext(ctx,
		"SELECT "+participantColumns+" FROM participants WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return model.Participant{}, ErrParticipantNotFound
	}
	return p, err
}

// GetByEmailAndEvent fetches the participant row for one normalized
// email inside one event. Returns sql.ErrNoRows when absent.
func (r *ParticipantRepo) GetByEmailAndEvent(ctx context.Context, email string, eventID uint64) (model.Participant, error) {
	return scanParticipant(r.DB.QueryRowContext(ctx,
		"SELECT "+participantColumns+" FROM participants WHERE email=? AND event_id=? LIMIT 1",
		strings.ToLower(strings.TrimSpace(email)), eventID))
}

// GetByEmail returns all participant rows for an email across events,
// most recent join first.
func (r *ParticipantRepo) GetByEmail(ctx context.Context, email string) ([]model.Participant, error) {
	return r.list(ctx,
		"SELECT "+participantColumns+" FROM participants WHERE email=? ORDER BY joined_at DESC",
		strings.ToLower(strings.TrimSpace(email)))
}

// GetByUser returns all participant rows linked to an external user id.
func (r *ParticipantRepo) GetByUser(ctx context.Context, userID string) ([]model.Participant, error) {
	return r.list(ctx,
		"SELECT "+participantColumns+" FROM participants WHERE user_id=? ORDER BY joined_at DESC", userID)
}

// GetByEvent returns all participants of an event in join order.
func (r *ParticipantRepo) GetByEvent(ctx context.Context, eventID uint64) ([]model.Participant, error) {
	return r.list(ctx,
		"SELECT "+participantColumns+" FROM participants WHERE event_id=? ORDER BY joined_at ASC", eventID)
}

func (r *ParticipantRepo) list(ctx context.Context, query string, args ...any) ([]model.Participant, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdateProfile changes a participant's display name.
func (r *ParticipantRepo) UpdateProfile(ctx context.Context, id uint64, name string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE participants SET name=? WHERE id=?", name, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// SetAvatarSeed stores a newly rolled avatar seed.
func (r *ParticipantRepo) SetAvatarSeed(ctx context.Context, id uint64, seed string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE participants SET avatar_seed=? WHERE id=?", seed, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
