package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/crowdpulse/event-engagement/internal/model"
)

func TestCooldownPassed(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name  string
		delta time.Duration
		want  bool
	}{
		{"immediately after", 0, false},
		{"just inside window", model.ReactionCooldown - time.Millisecond, false},
		{"exactly at window", model.ReactionCooldown, true},
		{"well past window", 5 * time.Second, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cooldownPassed(base, base.Add(tc.delta), model.ReactionCooldown); got != tc.want {
				t.Errorf("cooldownPassed(+%v) = %v, want %v", tc.delta, got, tc.want)
			}
		})
	}
}

const selectLastReaction = "SELECT created_at FROM activity_reactions" +
	" WHERE activity_id=? AND participant_id=? ORDER BY created_at DESC LIMIT 1"

func TestCheckCooldownBlocksRecentReaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(selectLastReaction)).
		WithArgs(uint64(3), uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now.Add(-200 * time.Millisecond)))

	err = NewReactionRepo(db).CheckCooldown(context.Background(), 3, 9, now)
	if err != ErrRateLimited {
		t.Fatalf("CheckCooldown = %v, want ErrRateLimited", err)
	}
}

func TestCheckCooldownAllowsAfterWindow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(selectLastReaction)).
		WithArgs(uint64(3), uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now.Add(-model.ReactionCooldown)))

	if err := NewReactionRepo(db).CheckCooldown(context.Background(), 3, 9, now); err != nil {
		t.Fatalf("CheckCooldown = %v, want nil", err)
	}
}

func TestCheckCooldownAllowsFirstReaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	mock.ExpectQuery(regexp.QuoteMeta(selectLastReaction)).
		WithArgs(uint64(3), uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}))

	if err := NewReactionRepo(db).CheckCooldown(context.Background(), 3, 9, time.Now().UTC()); err != nil {
		t.Fatalf("CheckCooldown = %v, want nil", err)
	}
}

func TestRecentSinceProjectsAnonymously(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, created_at FROM activity_reactions WHERE activity_id=? AND created_at > ? ORDER BY created_at DESC LIMIT ?")).
		WithArgs(uint64(3), sqlmock.AnyArg(), 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).
			AddRow(12, now).
			AddRow(11, now.Add(-time.Second)))

	out, err := NewReactionRepo(db).RecentSince(context.Background(), 3, time.Time{}, 2)
	if err != nil {
		t.Fatalf("RecentSince: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d reactions, want 2", len(out))
	}
	if out[0].ID != 12 || out[1].ID != 11 {
		t.Errorf("ids = %d,%d, want newest first 12,11", out[0].ID, out[1].ID)
	}
}
