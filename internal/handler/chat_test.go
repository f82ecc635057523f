package handler_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/crowdpulse/event-engagement/internal/handler"
	"github.com/crowdpulse/event-engagement/internal/limiter"
	"github.com/crowdpulse/event-engagement/internal/model"
	"github.com/crowdpulse/event-engagement/internal/repository"
)

func newChatHandler(t *testing.T, cd *limiter.Cooldown) (*handler.ChatHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return handler.NewChatHandler(
		repository.NewChatRepo(db),
		repository.NewActivityRepo(db),
		repository.NewParticipantRepo(db),
		cd,
	), mock
}

func redisCooldown(t *testing.T) *limiter.Cooldown {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return limiter.NewCooldown(rdb, "test")
}

func sendMessage(t *testing.T, h *handler.ChatHandler, activityID, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/activities/"+activityID+"/messages",
		strings.NewReader(body))
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

func chatActivityRows(config string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "event_id", "type", "status", "title", "config",
		"scheduled_at", "started_at", "ended_at", "created_at",
	}).AddRow(4, 7, model.ActivityTypeAnonymousChat, model.ActivityStatusLive,
		"Backstage chat", config, nil, nil, nil, time.Now().UTC())
}

func identityRow(name string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"anonymous_name"}).AddRow(name)
}

func TestSendOverlongMessageRejectedWithoutInsert(t *testing.T) {
	h, mock := newChatHandler(t, limiter.NewCooldown(nil, "test"))
	mock.ExpectQuery("SELECT .+ FROM live_activities WHERE id=").
		WillReturnRows(chatActivityRows(`{"maxMessageLength":5}`))
	mock.ExpectQuery("SELECT .+ FROM participants WHERE id=").
		WillReturnRows(participantRow())

	rec := sendMessage(t, h, "4", `{"participant_id":9,"message":"way past five"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "maximum length of 5") {
		t.Errorf("body %q does not name the length limit", rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected database activity: %v", err)
	}
}

func TestSendKeepsAnonymousNameAcrossMessages(t *testing.T) {
	h, mock := newChatHandler(t, limiter.NewCooldown(nil, "test"))
	for i := 0; i < 2; i++ {
		mock.ExpectQuery("SELECT .+ FROM live_activities WHERE id=").
			WillReturnRows(chatActivityRows("{}"))
		mock.ExpectQuery("SELECT .+ FROM participants WHERE id=").
			WillReturnRows(participantRow())
		mock.ExpectQuery("SELECT anonymous_name FROM chat_identities").
			WillReturnRows(identityRow("SwiftOtter7"))
		mock.ExpectExec("INSERT INTO chat_messages").
			WillReturnResult(sqlmock.NewResult(int64(20+i), 1))
	}

	for _, msg := range []string{"first", "second"} {
		rec := sendMessage(t, h, "4", `{"participant_id":9,"message":"`+msg+`"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), `"anonymous_name":"SwiftOtter7"`) {
			t.Errorf("body %q does not reuse the stored name", rec.Body.String())
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSendFailedInsertFreesSlowModeSlot(t *testing.T) {
	h, mock := newChatHandler(t, redisCooldown(t))
	cfg := `{"slowModeSeconds":60}`

	mock.ExpectQuery("SELECT .+ FROM live_activities WHERE id=").
		WillReturnRows(chatActivityRows(cfg))
	mock.ExpectQuery("SELECT .+ FROM participants WHERE id=").
		WillReturnRows(participantRow())
	mock.ExpectQuery("SELECT anonymous_name FROM chat_identities").
		WillReturnRows(identityRow("SwiftOtter7"))
	mock.ExpectExec("INSERT INTO chat_messages").
		WillReturnError(errors.New("connection reset"))

	rec := sendMessage(t, h, "4", `{"participant_id":9,"message":"hello"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500, body %s", rec.Code, rec.Body.String())
	}

	// The slot must be free again, so an immediate retry is not 429.
	mock.ExpectQuery("SELECT .+ FROM live_activities WHERE id=").
		WillReturnRows(chatActivityRows(cfg))
	mock.ExpectQuery("SELECT .+ FROM participants WHERE id=").
		WillReturnRows(participantRow())
	mock.ExpectQuery("SELECT anonymous_name FROM chat_identities").
		WillReturnRows(identityRow("SwiftOtter7"))
	mock.ExpectExec("INSERT INTO chat_messages").
		WillReturnResult(sqlmock.NewResult(21, 1))

	rec = sendMessage(t, h, "4", `{"participant_id":9,"message":"hello again"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("retry status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}
}

func TestSendWithinSlowModeWindowAnswers429(t *testing.T) {
	h, mock := newChatHandler(t, redisCooldown(t))
	cfg := `{"slowModeSeconds":60}`

	mock.ExpectQuery("SELECT .+ FROM live_activities WHERE id=").
		WillReturnRows(chatActivityRows(cfg))
	mock.ExpectQuery("SELECT .+ FROM participants WHERE id=").
		WillReturnRows(participantRow())
	mock.ExpectQuery("SELECT anonymous_name FROM chat_identities").
		WillReturnRows(identityRow("SwiftOtter7"))
	mock.ExpectExec("INSERT INTO chat_messages").
		WillReturnResult(sqlmock.NewResult(20, 1))

	rec := sendMessage(t, h, "4", `{"participant_id":9,"message":"hello"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}

	mock.ExpectQuery("SELECT .+ FROM live_activities WHERE id=").
		WillReturnRows(chatActivityRows(cfg))
	mock.ExpectQuery("SELECT .+ FROM participants WHERE id=").
		WillReturnRows(participantRow())

	rec = sendMessage(t, h, "4", `{"participant_id":9,"message":"too soon"}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Rate limited") {
		t.Errorf("body %q does not carry the rate limit message", rec.Body.String())
	}
}
