package repository

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestNormalizeCode(t *testing.T) {
	cases := map[string]string{
		"abc234":    "ABC234",
		"  XY23ZZ ": "XY23ZZ",
		"hJkLmN":    "HJKLMN",
	}
	for in, want := range cases {
		if got := NormalizeCode(in); got != want {
			t.Errorf("NormalizeCode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRandomCodeShape(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := randomCode()
		if err != nil {
			t.Fatalf("randomCode: %v", err)
		}
		if len(code) != codeLength {
			t.Fatalf("code %q has length %d, want %d", code, len(code), codeLength)
		}
		for _, ch := range code {
			if !strings.ContainsRune(codeAlphabet, ch) {
				t.Fatalf("code %q contains %q, not in alphabet", code, ch)
			}
		}
		if strings.ContainsAny(code, "01IO") {
			t.Fatalf("code %q contains an ambiguous character", code)
		}
	}
}

func accessCodeRows(id, eventID uint64, code string, active bool, maxUses any, useCount uint32) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "event_id", "code", "is_active", "max_uses", "use_count", "created_at"}).
		AddRow(id, eventID, code, active, maxUses, useCount, time.Now().UTC())
}

func eventRows(id uint64, startsAt, endsAt time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "description", "image_url", "starts_at",
		"ends_at", "organizer_message", "created_at", "updated_at",
	}).AddRow(id, "Conf", "desc", nil, startsAt, endsAt, nil, startsAt, startsAt)
}

const selectCodeByCode = "SELECT " + accessCodeColumns + " FROM access_codes WHERE code=? LIMIT 1"
const selectEventByID = "SELECT " + eventColumns + " FROM events WHERE id=? LIMIT 1"

func TestValidateUnknownCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	mock.ExpectQuery(regexp.QuoteMeta(selectCodeByCode)).
		WithArgs("ZZZZZZ").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewAccessCodeRepo(db)
	res, err := repo.Validate(context.Background(), "zzzzzz")
	if err != nil {
		t.Fatalf("Validate returned error for unknown code: %v", err)
	}
	if res.Valid {
		t.Fatal("unknown code reported valid")
	}
	if res.Reason != ReasonCodeNotFound {
		t.Errorf("reason = %q, want %q", res.Reason, ReasonCodeNotFound)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestValidateInactiveCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	mock.ExpectQuery(regexp.QuoteMeta(selectCodeByCode)).
		WithArgs("AB23CD").
		WillReturnRows(accessCodeRows(1, 7, "AB23CD", false, nil, 0))

	res, err := NewAccessCodeRepo(db).Validate(context.Background(), "ab23cd")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if res.Valid || res.Reason != ReasonCodeInactive {
		t.Errorf("got valid=%v reason=%q, want inactive reason", res.Valid, res.Reason)
	}
}

func TestValidateEndedEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	past := time.Now().UTC().Add(-48 * time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta(selectCodeByCode)).
		WithArgs("AB23CD").
		WillReturnRows(accessCodeRows(1, 7, "AB23CD", true, nil, 0))
	mock.ExpectQuery(regexp.QuoteMeta(selectEventByID)).
		WithArgs(uint64(7)).
		WillReturnRows(eventRows(7, past, past.Add(time.Hour)))

	res, err := NewAccessCodeRepo(db).Validate(context.Background(), "AB23CD")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if res.Valid || res.Reason != ReasonEventEnded {
		t.Errorf("got valid=%v reason=%q, want ended reason", res.Valid, res.Reason)
	}
}

func TestValidateExhaustedCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(selectCodeByCode)).
		WithArgs("AB23CD").
		WillReturnRows(accessCodeRows(1, 7, "AB23CD", true, uint32(1), 1))
	mock.ExpectQuery(regexp.QuoteMeta(selectEventByID)).
		WithArgs(uint64(7)).
		WillReturnRows(eventRows(7, now.Add(-time.Hour), now.Add(time.Hour)))

	res, err := NewAccessCodeRepo(db).Validate(context.Background(), "AB23CD")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if res.Valid || res.Reason != ReasonMaxUses {
		t.Errorf("got valid=%v reason=%q, want max-uses reason", res.Valid, res.Reason)
	}
}

func TestUseConsumesOneUse(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(selectCodeByCode)).
		WithArgs("AB23CD").
		WillReturnRows(accessCodeRows(1, 7, "AB23CD", true, uint32(5), 2))
	mock.ExpectQuery(regexp.QuoteMeta(selectEventByID)).
		WithArgs(uint64(7)).
		WillReturnRows(eventRows(7, now.Add(-time.Hour), now.Add(time.Hour)))
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE access_codes SET use_count=use_count+1 WHERE id=? AND is_active=1 AND (max_uses IS NULL OR use_count < max_uses)")).
		WithArgs(uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	res, err := NewAccessCodeRepo(db).Use(context.Background(), "AB23CD")
	if err != nil {
		t.Fatalf("Use: %v", err)
	}
	if !res.Valid {
		t.Fatalf("Use reported invalid: %q", res.Reason)
	}
	if res.AccessCode.UseCount != 3 {
		t.Errorf("use count = %d, want 3", res.AccessCode.UseCount)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestUseLosesRaceOnLastUse(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(selectCodeByCode)).
		WithArgs("AB23CD").
		WillReturnRows(accessCodeRows(1, 7, "AB23CD", true, uint32(1), 0))
	mock.ExpectQuery(regexp.QuoteMeta(selectEventByID)).
		WithArgs(uint64(7)).
		WillReturnRows(eventRows(7, now.Add(-time.Hour), now.Add(time.Hour)))
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE access_codes SET use_count=use_count+1 WHERE id=? AND is_active=1 AND (max_uses IS NULL OR use_count < max_uses)")).
		WithArgs(uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	res, err := NewAccessCodeRepo(db).Use(context.Background(), "AB23CD")
	if err != nil {
		t.Fatalf("Use: %v", err)
	}
	if res.Valid || res.Reason != ReasonMaxUses {
		t.Errorf("got valid=%v reason=%q, want max-uses reason", res.Valid, res.Reason)
	}
}
