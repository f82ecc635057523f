package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/crowdpulse/event-engagement/internal/handler"
	"github.com/crowdpulse/event-engagement/internal/limiter"
	"github.com/crowdpulse/event-engagement/internal/model"
	"github.com/crowdpulse/event-engagement/internal/repository"
)

func newReactionHandler(t *testing.T) (*handler.ReactionHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return handler.NewReactionHandler(
		repository.NewReactionRepo(db),
		repository.NewActivityRepo(db),
		repository.NewParticipantRepo(db),
		limiter.NewCooldown(nil, "test"),
	), mock
}

func sendReaction(t *testing.T, h *handler.ReactionHandler, activityID string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/activities/"+activityID+"/reactions",
		strings.NewReader(`{"participant_id":9}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(activityID)
	if err := h.Send(c); err != nil {
		t.Fatalf("Send handler: %v", err)
	}
	return rec
}

func liveActivityRows(status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "event_id", "type", "status", "title", "config",
		"scheduled_at", "started_at", "ended_at", "created_at",
	}).AddRow(3, 7, model.ActivityTypeReactionSpeed, status, "Clap battle", "{}",
		nil, nil, nil, time.Now().UTC())
}

func participantRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "event_id", "user_id", "name", "email",
		"avatar_seed", "access_method", "joined_at",
	}).AddRow(9, 7, nil, "Ada", "ada@example.com", "seed-1",
		model.AccessMethodAccessCode, time.Now().UTC())
}

func TestSendReactionInsideCooldownAnswers429(t *testing.T) {
	h, mock := newReactionHandler(t)
	mock.ExpectQuery("SELECT .+ FROM live_activities WHERE id=").
		WillReturnRows(liveActivityRows(model.ActivityStatusLive))
	mock.ExpectQuery("SELECT .+ FROM participants WHERE id=").
		WillReturnRows(participantRow())
	mock.ExpectQuery("SELECT created_at FROM activity_reactions").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).
			AddRow(time.Now().UTC().Add(-100 * time.Millisecond)))

	rec := sendReaction(t, h, "3")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Rate limited") {
		t.Errorf("body %q does not carry the rate limit message", rec.Body.String())
	}
}

func TestSendReactionOnEndedActivityConflicts(t *testing.T) {
	h, mock := newReactionHandler(t)
	mock.ExpectQuery("SELECT .+ FROM live_activities WHERE id=").
		WillReturnRows(liveActivityRows(model.ActivityStatusEnded))

	rec := sendReaction(t, h, "3")
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestSendReactionAfterCooldownSucceeds(t *testing.T) {
	h, mock := newReactionHandler(t)
	mock.ExpectQuery("SELECT .+ FROM live_activities WHERE id=").
		WillReturnRows(liveActivityRows(model.ActivityStatusLive))
	mock.ExpectQuery("SELECT .+ FROM participants WHERE id=").
		WillReturnRows(participantRow())
	mock.ExpectQuery("SELECT created_at FROM activity_reactions").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).
			AddRow(time.Now().UTC().Add(-2 * time.Second)))
	mock.ExpectExec("INSERT INTO activity_reactions").
		WillReturnResult(sqlmock.NewResult(12, 1))

	rec := sendReaction(t, h, "3")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"id":12`) {
		t.Errorf("body %q does not carry the new reaction id", rec.Body.String())
	}
}
