package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/crowdpulse/event-engagement/internal/model"
)

// reqCtx derives a bounded context for database calls from the request.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// parseID extracts a positive uint64 path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// Timestamps travel as epoch milliseconds on the wire; the database
// stores DATETIME values in UTC.

func msToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func timeToMs(t time.Time) int64 {
	return t.UnixMilli()
}

// eventResp is the JSON shape of an event, including the derived status.
type eventResp struct {
	ID               uint64  `json:"id"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	ImageURL         *string `json:"image_url,omitempty"`
	StartsAt         int64   `json:"starts_at"`
	EndsAt           int64   `json:"ends_at"`
	OrganizerMessage *string `json:"organizer_message,omitempty"`
	Status           string  `json:"status"`
}

func toEventResp(e model.Event, now time.Time) eventResp {
	return eventResp{
		ID:               e.ID,
		Name:             e.Name,
		Description:      e.Description,
		ImageURL:         e.ImageURL,
		StartsAt:         timeToMs(e.StartsAt),
		EndsAt:           timeToMs(e.EndsAt),
		OrganizerMessage: e.OrganizerMessage,
		Status:           e.Status(now),
	}
}

// participantResp is the JSON shape of a participant.
type participantResp struct {
	ID           uint64  `json:"id"`
	EventID      uint64  `json:"event_id"`
	UserID       *string `json:"user_id,omitempty"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	AvatarSeed   string  `json:"avatar_seed"`
	AccessMethod string  `json:"access_method"`
	JoinedAt     int64   `json:"joined_at"`
}

func toParticipantResp(p model.Participant) participantResp {
	return participantResp{
		ID:           p.ID,
		EventID:      p.EventID,
		UserID:       p.UserID,
		Name:         p.Name,
		Email:        p.Email,
		AvatarSeed:   p.AvatarSeed,
		AccessMethod: p.AccessMethod,
		JoinedAt:     timeToMs(p.JoinedAt),
	}
}
