package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestRecentByActivityReturnsChronologicalOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "activity_id", "participant_id", "anonymous_name", "message", "sent_at",
	}).
		AddRow(5, 3, 9, "SwiftOtter7", "newest", now).
		AddRow(4, 3, 8, "CalmHeron2", "middle", now.Add(-time.Minute)).
		AddRow(3, 3, 9, "SwiftOtter7", "oldest", now.Add(-2*time.Minute))
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT "+chatMessageColumns+" FROM chat_messages WHERE activity_id=? ORDER BY sent_at DESC LIMIT ?")).
		WithArgs(uint64(3), 3).
		WillReturnRows(rows)

	out, err := NewChatRepo(db).RecentByActivity(context.Background(), 3, 3)
	if err != nil {
		t.Fatalf("RecentByActivity: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d messages, want 3", len(out))
	}
	if out[0].Message != "oldest" || out[2].Message != "newest" {
		t.Errorf("order = %q,%q,%q, want oldest first", out[0].Message, out[1].Message, out[2].Message)
	}
}

func TestCreateIdentityKeepsExistingOnCollision(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO chat_identities (activity_id, participant_id, anonymous_name) VALUES (?,?,?)")).
		WithArgs(uint64(3), uint64(9), "BoldLynx4").
		WillReturnError(errDuplicateKey{})
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT anonymous_name FROM chat_identities WHERE activity_id=? AND participant_id=? LIMIT 1")).
		WithArgs(uint64(3), uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"anonymous_name"}).AddRow("SwiftOtter7"))

	name, err := NewChatRepo(db).CreateIdentity(context.Background(), 3, 9, "BoldLynx4")
	if err != nil {
		t.Fatalf("CreateIdentity: %v", err)
	}
	if name != "SwiftOtter7" {
		t.Errorf("name = %q, want the stored identity to win", name)
	}
}

// errDuplicateKey mimics the mysql driver's duplicate entry error text.
type errDuplicateKey struct{}

func (errDuplicateKey) Error() string {
	return "Error 1062 (23000): Duplicate entry '3-9' for key 'uq_chat_identity'"
}
