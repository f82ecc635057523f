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
	"github.com/crowdpulse/event-engagement/internal/repository"
)

func newCodeHandler(t *testing.T) (*handler.AccessCodeHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return handler.NewAccessCodeHandler(
		repository.NewAccessCodeRepo(db),
		repository.NewEventRepo(db),
	), mock
}

func TestValidateAnswersOKForUnknownCode(t *testing.T) {
	h, mock := newCodeHandler(t)
	mock.ExpectQuery("SELECT .+ FROM access_codes WHERE code=").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/access-codes/validate",
		strings.NewReader(`{"code":"NOPE22"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Validate(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Validate handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even for an invalid code", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"valid":false`) {
		t.Errorf("body %q does not report valid=false", body)
	}
	if !strings.Contains(body, repository.ReasonCodeNotFound) {
		t.Errorf("body %q does not carry the not-found reason", body)
	}
}

func TestGenerateRejectsEndedEvent(t *testing.T) {
	h, mock := newCodeHandler(t)
	past := time.Now().UTC().Add(-48 * time.Hour)
	mock.ExpectQuery("SELECT .+ FROM events WHERE id=").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "description", "image_url", "starts_at",
			"ends_at", "organizer_message", "created_at", "updated_at",
		}).AddRow(7, "Old Conf", "", nil, past, past.Add(time.Hour), nil, past, past))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/access-codes",
		strings.NewReader(`{"event_id":7}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Generate(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Generate handler: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Cannot create code for ended event") {
		t.Errorf("body %q does not carry the ended-event message", rec.Body.String())
	}
}

func TestGenerateRequiresEventID(t *testing.T) {
	h, _ := newCodeHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/access-codes", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Generate(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Generate handler: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
