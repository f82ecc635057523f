package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/crowdpulse/event-engagement/internal/model"
	"github.com/crowdpulse/event-engagement/internal/repository"
)

// ActivityHandler serves the organizer lifecycle operations on live
// activities. Participant interaction (reactions, chat) lives in its
// own handlers.
type ActivityHandler struct {
	Activities *repository.ActivityRepo
	Events     *repository.EventRepo
}

func NewActivityHandler(a *repository.ActivityRepo, e *repository.EventRepo) *ActivityHandler {
	return &ActivityHandler{Activities: a, Events: e}
}

var validActivityTypes = map[string]bool{
	model.ActivityTypePoll:          true,
	model.ActivityTypeWordCloud:     true,
	model.ActivityTypeReactionSpeed: true,
	model.ActivityTypeAnonymousChat: true,
	model.ActivityTypeGuessLogo:     true,
}

type createActivityReq struct {
	EventID     uint64          `json:"event_id"`
	Type        string          `json:"type"`
	Title       string          `json:"title"`
	Config      json.RawMessage `json:"config"`
	ScheduledAt *int64          `json:"scheduled_at"`
}

type activityResp struct {
	ID          uint64          `json:"id"`
	EventID     uint64          `json:"event_id"`
	Type        string          `json:"type"`
	Status      string          `json:"status"`
	Title       string          `json:"title"`
	Config      json.RawMessage `json:"config"`
	ScheduledAt *int64          `json:"scheduled_at,omitempty"`
	StartedAt   *int64          `json:"started_at,omitempty"`
	EndedAt     *int64          `json:"ended_at,omitempty"`
	CreatedAt   int64           `json:"created_at"`
}

func toActivityResp(a model.LiveActivity) activityResp {
	resp := activityResp{
		ID:        a.ID,
		EventID:   a.EventID,
		Type:      a.Type,
		Status:    a.Status,
		Title:     a.Title,
		Config:    json.RawMessage(a.Config),
		CreatedAt: timeToMs(a.CreatedAt),
	}
	if a.ScheduledAt != nil {
		ms := timeToMs(*a.ScheduledAt)
		resp.ScheduledAt = &ms
	}
	if a.StartedAt != nil {
		ms := timeToMs(*a.StartedAt)
		resp.StartedAt = &ms
	}
	if a.EndedAt != nil {
		ms := timeToMs(*a.EndedAt)
		resp.EndedAt = &ms
	}
	return resp
}

// Create handles POST /v1/activities. New activities start in draft.
func (h *ActivityHandler) Create(c echo.Context) error {
	var req createActivityReq
	if err := c.Bind(&req); err != nil || req.EventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id is required"})
	}
	req.Type = strings.ToLower(strings.TrimSpace(req.Type))
	if !validActivityTypes[req.Type] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid activity type"})
	}
	if strings.TrimSpace(req.Title) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Events.GetByID(ctx, req.EventID); err != nil {
		if err == repository.ErrEventNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}

	a := model.LiveActivity{
		EventID: req.EventID,
		Type:    req.Type,
		Title:   strings.TrimSpace(req.Title),
		Config:  string(req.Config),
	}
	if req.ScheduledAt != nil {
		t := msToTime(*req.ScheduledAt)
		a.ScheduledAt = &t
	}
	created, err := h.Activities.Create(ctx, a)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create activity failed"})
	}
	return c.JSON(http.StatusCreated, toActivityResp(created))
}

// ListByEvent handles GET /v1/events/:id/activities.
func (h *ActivityHandler) ListByEvent(c echo.Context) error {
	eventID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Activities.ListByEvent(ctx, eventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list activities failed"})
	}
	out := make([]activityResp, 0, len(list))
	for _, a := range list {
		out = append(out, toActivityResp(a))
	}
	return c.JSON(http.StatusOK, out)
}

// GetByID handles GET /v1/activities/:id.
func (h *ActivityHandler) GetByID(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid activity id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	a, err := h.Activities.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrActivityNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load activity failed"})
	}
	return c.JSON(http.StatusOK, toActivityResp(a))
}

// transition is shared by Schedule, Start and End.
func (h *ActivityHandler) transition(c echo.Context, from, to string) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid activity id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Activities.Transition(ctx, id, from, to); err != nil {
		switch err {
		case repository.ErrActivityNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		case repository.ErrInvalidTransition:
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transition failed"})
		}
	}
	a, err := h.Activities.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load activity failed"})
	}
	return c.JSON(http.StatusOK, toActivityResp(a))
}

// Schedule handles POST /v1/activities/:id/schedule (draft -> scheduled).
func (h *ActivityHandler) Schedule(c echo.Context) error {
	return h.transition(c, model.ActivityStatusDraft, model.ActivityStatusScheduled)
}

// Start handles POST /v1/activities/:id/start (scheduled -> live).
func (h *ActivityHandler) Start(c echo.Context) error {
	return h.transition(c, model.ActivityStatusScheduled, model.ActivityStatusLive)
}

// End handles POST /v1/activities/:id/end (live -> ended).
func (h *ActivityHandler) End(c echo.Context) error {
	return h.transition(c, model.ActivityStatusLive, model.ActivityStatusEnded)
}

// Remove handles DELETE /v1/activities/:id.
func (h *ActivityHandler) Remove(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid activity id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Activities.Delete(ctx, id); err != nil {
		if err == repository.ErrActivityNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete activity failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
