package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/crowdpulse/event-engagement/internal/model"
)

const selectParticipantByEmailAndEvent = "SELECT " + participantColumns +
	" FROM participants WHERE email=? AND event_id=? LIMIT 1"

func participantRows(id, eventID uint64, email string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "event_id", "user_id", "name", "email",
		"avatar_seed", "access_method", "joined_at",
	}).AddRow(id, eventID, nil, "Ada", email, "seed-1", model.AccessMethodAccessCode, time.Now().UTC())
}

func TestJoinReturnsExistingParticipant(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	mock.ExpectQuery(regexp.QuoteMeta(selectParticipantByEmailAndEvent)).
		WithArgs("ada@example.com", uint64(7)).
		WillReturnRows(participantRows(42, 7, "ada@example.com"))

	p, created, err := NewParticipantRepo(db).Join(context.Background(), model.Participant{
		EventID:      7,
		Name:         "Ada",
		Email:        "  Ada@Example.COM ",
		AvatarSeed:   "seed-2",
		AccessMethod: model.AccessMethodAccessCode,
	})
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if created {
		t.Error("joining twice reported a new row")
	}
	if p.ID != 42 {
		t.Errorf("participant id = %d, want 42", p.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestJoinInsertsNewParticipant(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	mock.ExpectQuery(regexp.QuoteMeta(selectParticipantByEmailAndEvent)).
		WithArgs("ada@example.com", uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO participants (event_id, user_id, name, email, avatar_seed, access_method) VALUES (?,?,?,?,?,?)")).
		WithArgs(uint64(7), nil, "Ada", "ada@example.com", "seed-2", model.AccessMethodAccessCode).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT "+participantColumns+" FROM participants WHERE id=? LIMIT 1")).
		WithArgs(uint64(42)).
		WillReturnRows(participantRows(42, 7, "ada@example.com"))

	p, created, err := NewParticipantRepo(db).Join(context.Background(), model.Participant{
		EventID:      7,
		Name:         "Ada",
		Email:        "Ada@Example.com",
		AvatarSeed:   "seed-2",
		AccessMethod: model.AccessMethodAccessCode,
	})
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if !created {
		t.Error("first join did not report a new row")
	}
	if p.ID != 42 {
		t.Errorf("participant id = %d, want 42", p.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
