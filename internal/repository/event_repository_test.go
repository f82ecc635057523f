package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/crowdpulse/event-engagement/internal/model"
)

func TestSetCurrentUpsertsPointerRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(selectEventByID)).
		WithArgs(uint64(7)).
		WillReturnRows(eventRows(7, now, now.Add(time.Hour)))
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO app_settings (id, current_event_id) VALUES (1, ?) ON DUPLICATE KEY UPDATE current_event_id=VALUES(current_event_id)")).
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := NewEventRepo(db).SetCurrent(context.Background(), 7); err != nil {
		t.Fatalf("SetCurrent: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSetCurrentRejectsMissingEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	mock.ExpectQuery(regexp.QuoteMeta(selectEventByID)).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if err := NewEventRepo(db).SetCurrent(context.Background(), 99); err != ErrEventNotFound {
		t.Fatalf("SetCurrent = %v, want ErrEventNotFound", err)
	}
}

func TestGetCurrentWithoutPointer(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	mock.ExpectQuery("FROM app_settings s JOIN events e").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := NewEventRepo(db).GetCurrent(context.Background()); err != ErrEventNotFound {
		t.Fatalf("GetCurrent = %v, want ErrEventNotFound", err)
	}
}

func TestUpdateSkipsEmptyPatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	if err := NewEventRepo(db).Update(context.Background(), 7, EventPatch{}); err != nil {
		t.Fatalf("Update with empty patch: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestTransitionGuardsCurrentStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE live_activities SET status=?, started_at=? WHERE id=? AND status=?")).
		WithArgs(model.ActivityStatusLive, sqlmock.AnyArg(), uint64(3), model.ActivityStatusScheduled).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT "+activityColumns+" FROM live_activities WHERE id=? LIMIT 1")).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "event_id", "type", "status", "title", "config",
			"scheduled_at", "started_at", "ended_at", "created_at",
		}).AddRow(3, 7, model.ActivityTypePoll, model.ActivityStatusEnded, "Poll", "{}",
			nil, nil, nil, time.Now().UTC()))

	err = NewActivityRepo(db).Transition(context.Background(), 3, model.ActivityStatusScheduled, model.ActivityStatusLive)
	if err != ErrInvalidTransition {
		t.Fatalf("Transition = %v, want ErrInvalidTransition", err)
	}
}
