package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/crowdpulse/event-engagement/internal/model"
	"github.com/crowdpulse/event-engagement/internal/utils"
)

// OrganizerRepo mirrors the 'organizers' table.
type OrganizerRepo struct{ DB *sql.DB }

func NewOrganizerRepo(db *sql.DB) *OrganizerRepo { return &OrganizerRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

// Create inserts an organizer and returns its ID.
func (r *OrganizerRepo) Create(ctx context.Context, email, password string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO organizers (email, password_hash) VALUES (?,?)",
		email, hash)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches an organizer by normalized email.
func (r *OrganizerRepo) GetByEmail(ctx context.Context, email string) (model.Organizer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var o model.Organizer
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,is_active,created_at,updated_at FROM organizers WHERE email=? LIMIT 1",
		email).Scan(&o.ID, &o.Email, &o.PasswordHash, &o.IsActive, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

// GetByID fetches an organizer by id.
func (r *OrganizerRepo) GetByID(ctx context.Context, id uint64) (model.Organizer, error) {
	var o model.Organizer
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,is_active,created_at,updated_at FROM organizers WHERE id=? LIMIT 1",
		id).Scan(&o.ID, &o.Email, &o.PasswordHash, &o.IsActive, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}
