package repository

import (
	"context"
	"crypto/rand"
	"database/sql"
	"strings"
	"time"

	"github.com/crowdpulse/event-engagement/internal/model"
)

// codeAlphabet is the 32 symbol alphabet access codes are drawn from.
// 0, 1, I and O are excluded because they are easy to misread on a
// printed badge or a projected slide.
const codeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// codeLength is the fixed length of generated access codes.
const codeLength = 6

// Validation failure reasons returned by Validate. These are
// human-readable and shown to participants as-is.
const (
	ReasonCodeNotFound = "Invalid access code"
	ReasonCodeInactive = "This code has been deactivated"
	ReasonEventMissing = "Event for this code no longer exists"
	ReasonEventEnded   = "This event has already ended"
	ReasonMaxUses      = "This code has reached its maximum uses"
)

// ValidationResult is the outcome of checking a code. Valid is false
// with Reason set on any failure; on success AccessCode and Event are
// populated and EventStatus carries the derived status.
type ValidationResult struct {
	Valid       bool
	Reason      string
	AccessCode  model.AccessCode
	Event       model.Event
	EventStatus string
}

// AccessCodeRepo manages persistence for access codes.
type AccessCodeRepo struct{ DB *sql.DB }

func NewAccessCodeRepo(db *sql.DB) *AccessCodeRepo { return &AccessCodeRepo{DB: db} }

const accessCodeColumns = "id, event_id, code, is_active, max_uses, use_count, created_at"

func scanAccessCode(row interface{ Scan(...any) error }) (model.AccessCode, error) {
	var a model.AccessCode
	err := row.Scan(&a.ID, &a.EventID, &a.Code, &a.IsActive, &a.MaxUses, &a.UseCount, &a.CreatedAt)
	return a, err
}

// NormalizeCode trims surrounding whitespace and upper-cases a
// user-entered code so lookups are case and whitespace insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// randomCode draws codeLength characters from codeAlphabet using
// crypto/rand. The alphabet has 32 symbols so each random byte maps
// uniformly via masking.
func randomCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, codeLength)
	for i, b := range buf {
		out[i] = codeAlphabet[int(b)&31]
	}
	return string(out), nil
}

// Generate creates a unique code for the event and persists it with a
// zero use count. Collisions are resolved by regenerating; the code
// space (32^6) is large relative to expected row counts so the loop has
// no retry cap.
func (r *AccessCodeRepo) Generate(ctx context.Context, eventID uint64, maxUses *uint32) (model.AccessCode, error) {
	for {
		code, err := randomCode()
		if err != nil {
			return model.AccessCode{}, err
		}
		var exists bool
		err = r.DB.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM access_codes WHERE code=?)", code).Scan(&exists)
		if err != nil {
			return model.AccessCode{}, err
		}
		if exists {
			continue
		}
		res, err := r.DB.ExecContext(ctx,
			"INSERT INTO access_codes (event_id, code, is_active, max_uses, use_count) VALUES (?,?,1,?,0)",
			eventID, code, maxUses)
		if err != nil {
			// Unique index race with a concurrent generate; try again.
			if strings.Contains(strings.ToLower(err.Error()), "1062") {
				continue
			}
			return model.AccessCode{}, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return model.AccessCode{}, err
		}
		return r.GetByID(ctx, uint64(id))
	}
}

// GetByID fetches a code row by primary key.
func (r *AccessCodeRepo) GetByID(ctx context.Context, id uint64) (model.AccessCode, error) {
	return scanAccessCode(r.DB.QueryRowContext(ctx,
		"SELECT "+accessCodeColumns+" FROM access_codes WHERE id=? LIMIT 1", id))
}

// GetByCode fetches a code row by its normalized code string.
func (r *AccessCodeRepo) GetByCode(ctx context.Context, code string) (model.AccessCode, error) {
	return scanAccessCode(r.DB.QueryRowContext(ctx,
		"SELECT "+accessCodeColumns+" FROM access_codes WHERE code=? LIMIT 1",
		NormalizeCode(code)))
}

// ListByEvent returns all codes for an event, newest first.
func (r *AccessCodeRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.AccessCode, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+accessCodeColumns+" FROM access_codes WHERE event_id=? ORDER BY created_at DESC", eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.AccessCode
	for rows.Next() {
		a, err := scanAccessCode(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Deactivate sets is_active to false. Idempotent: deactivating an
// already inactive or missing code is not an error.
func (r *AccessCodeRepo) Deactivate(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE access_codes SET is_active=0 WHERE id=?", id)
	return err
}

// Validate checks a user-entered code without consuming a use. It never
// returns an error for business failures; only infrastructure problems
// (a broken DB connection) surface as errors.
func (r *AccessCodeRepo) Validate(ctx context.Context, code string) (ValidationResult, error) {
	ac, err := r.GetByCode(ctx, code)
	if err == sql.ErrNoRows {
		return ValidationResult{Reason: ReasonCodeNotFound}, nil
	}
	if err != nil {
		return ValidationResult{}, err
	}
	if !ac.IsActive {
		return ValidationResult{Reason: ReasonCodeInactive}, nil
	}
	ev, err := scanEvent(r.DB.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id=? LIMIT 1", ac.EventID))
	if err == sql.ErrNoRows {
		return ValidationResult{Reason: ReasonEventMissing}, nil
	}
	if err != nil {
		return ValidationResult{}, err
	}
	status := ev.Status(time.Now().UTC())
	if status == model.EventStatusEnded {
		return ValidationResult{Reason: ReasonEventEnded}, nil
	}
	if ac.Exhausted() {
		return ValidationResult{Reason: ReasonMaxUses}, nil
	}
	return ValidationResult{Valid: true, AccessCode: ac, Event: ev, EventStatus: status}, nil
}

// Use re-runs the Validate checks and consumes one use. The increment is
// a single conditional UPDATE guarded on is_active and the max_uses cap,
// so two concurrent uses of a nearly exhausted code cannot both succeed.
func (r *AccessCodeRepo) Use(ctx context.Context, code string) (ValidationResult, error) {
	res, err := r.Validate(ctx, code)
	if err != nil || !res.Valid {
		return res, err
	}
	upd, err := r.DB.ExecContext(ctx,
		"UPDATE access_codes SET use_count=use_count+1 WHERE id=? AND is_active=1 AND (max_uses IS NULL OR use_count < max_uses)",
		res.AccessCode.ID)
	if err != nil {
		return ValidationResult{}, err
	}
	if n, _ := upd.RowsAffected(); n == 0 {
		// Lost a race with a concurrent use or deactivation.
		return ValidationResult{Reason: ReasonMaxUses}, nil
	}
	res.AccessCode.UseCount++
	return res, nil
}
