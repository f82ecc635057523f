package handler

import (
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/crowdpulse/event-engagement/internal/model"
	"github.com/crowdpulse/event-engagement/internal/repository"
)

// EventHandler serves the organizer event CRUD surface and the public
// event reads consumed by the participant app.
type EventHandler struct {
	Events         *repository.EventRepo
	DeepLinkScheme string
}

func NewEventHandler(events *repository.EventRepo, deepLinkScheme string) *EventHandler {
	return &EventHandler{Events: events, DeepLinkScheme: deepLinkScheme}
}

type createEventReq struct {
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	ImageURL         *string `json:"image_url"`
	StartsAt         int64   `json:"starts_at"`
	EndsAt           int64   `json:"ends_at"`
	OrganizerMessage *string `json:"organizer_message"`
}

type updateEventReq struct {
	Name             *string `json:"name"`
	Description      *string `json:"description"`
	ImageURL         *string `json:"image_url"`
	StartsAt         *int64  `json:"starts_at"`
	EndsAt           *int64  `json:"ends_at"`
	OrganizerMessage *string `json:"organizer_message"`
}

// Create handles POST /v1/events.
func (h *EventHandler) Create(c echo.Context) error {
	var req createEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.EndsAt <= req.StartsAt {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must be after starts_at"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Events.Create(ctx, model.Event{
		Name:             req.Name,
		Description:      req.Description,
		ImageURL:         req.ImageURL,
		StartsAt:         msToTime(req.StartsAt),
		EndsAt:           msToTime(req.EndsAt),
		OrganizerMessage: req.OrganizerMessage,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create event failed"})
	}
	ev, err := h.Events.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}
	return c.JSON(http.StatusCreated, toEventResp(ev, time.Now().UTC()))
}

// GetAll handles GET /v1/events.
func (h *EventHandler) GetAll(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	events, err := h.Events.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list events failed"})
	}
	now := time.Now().UTC()
	out := make([]eventResp, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResp(e, now))
	}
	return c.JSON(http.StatusOK, out)
}

// GetByID handles GET /v1/events/:id.
func (h *EventHandler) GetByID(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	ev, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrEventNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}
	return c.JSON(http.StatusOK, toEventResp(ev, time.Now().UTC()))
}

// GetCurrent handles GET /v1/events/current.
func (h *EventHandler) GetCurrent(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	ev, err := h.Events.GetCurrent(ctx)
	if err != nil {
		if err == repository.ErrEventNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no current event"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}
	return c.JSON(http.StatusOK, toEventResp(ev, time.Now().UTC()))
}

// Update handles PATCH /v1/events/:id with a partial body.
func (h *EventHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var req updateEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	patch := repository.EventPatch{
		Name:             req.Name,
		Description:      req.Description,
		ImageURL:         req.ImageURL,
		OrganizerMessage: req.OrganizerMessage,
	}
	if req.StartsAt != nil {
		t := msToTime(*req.StartsAt)
		patch.StartsAt = &t
	}
	if req.EndsAt != nil {
		t := msToTime(*req.EndsAt)
		patch.EndsAt = &t
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Events.Update(ctx, id, patch); err != nil {
		if err == repository.ErrEventNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update event failed"})
	}
	ev, err := h.Events.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}
	return c.JSON(http.StatusOK, toEventResp(ev, time.Now().UTC()))
}

// SetCurrent handles PUT /v1/events/:id/current.
func (h *EventHandler) SetCurrent(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Events.SetCurrent(ctx, id); err != nil {
		if err == repository.ErrEventNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "set current event failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Remove handles DELETE /v1/events/:id. The current-event pointer is
// cleared when it references the deleted event; dependent rows are left
// in place.
func (h *EventHandler) Remove(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Events.ClearCurrent(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "clear current event failed"})
	}
	if err := h.Events.Delete(ctx, id); err != nil {
		if err == repository.ErrEventNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete event failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Seed handles POST /v1/events/seed. Idempotent; used for local
// development and demos.
func (h *EventHandler) Seed(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	ev, created, err := h.Events.Seed(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "seed failed"})
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, toEventResp(ev, time.Now().UTC()))
}

// JoinRedirect handles GET /join?code=. It forwards the browser into
// the mobile app via the deep link scheme; the app store fallback is
// handled client side.
func (h *EventHandler) JoinRedirect(c echo.Context) error {
	code := c.QueryParam("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code is required"})
	}
	target := h.DeepLinkScheme + "://join?code=" + url.QueryEscape(repository.NormalizeCode(code))
	return c.Redirect(http.StatusFound, target)
}
