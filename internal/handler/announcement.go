package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/crowdpulse/event-engagement/internal/model"
	"github.com/crowdpulse/event-engagement/internal/queue"
	"github.com/crowdpulse/event-engagement/internal/repository"
	queue_publisher "github.com/crowdpulse/event-engagement/internal/service"
)

// AnnouncementHandler serves organizer announcements.
type AnnouncementHandler struct {
	Announcements *repository.AnnouncementRepo
	Events        *repository.EventRepo
}

func NewAnnouncementHandler(a *repository.AnnouncementRepo, e *repository.EventRepo) *AnnouncementHandler {
	return &AnnouncementHandler{Announcements: a, Events: e}
}

type createAnnouncementReq struct {
	EventID uint64 `json:"event_id"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

type announcementResp struct {
	ID        uint64 `json:"id"`
	EventID   uint64 `json:"event_id"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	CreatedAt int64  `json:"created_at"`
}

func toAnnouncementResp(a model.Announcement) announcementResp {
	return announcementResp{
		ID:        a.ID,
		EventID:   a.EventID,
		Message:   a.Message,
		Type:      a.Type,
		CreatedAt: timeToMs(a.CreatedAt),
	}
}

// Create handles POST /v1/announcements. A side-channel event is
// published to the broker; publish failures are ignored so the
// announcement itself still lands.
func (h *AnnouncementHandler) Create(c echo.Context) error {
	var req createAnnouncementReq
	if err := c.Bind(&req); err != nil || req.EventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id is required"})
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "message is required"})
	}
	switch req.Type {
	case model.AnnouncementInfo, model.AnnouncementWarning, model.AnnouncementSuccess:
	case "":
		req.Type = model.AnnouncementInfo
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid announcement type"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ev, err := h.Events.GetByID(ctx, req.EventID)
	if err != nil {
		if err == repository.ErrEventNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}

	id, err := h.Announcements.Create(ctx, model.Announcement{
		EventID: req.EventID,
		Message: req.Message,
		Type:    req.Type,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create announcement failed"})
	}

	_ = queue_publisher.PublishAnnouncementCreated(ctx, queue.AnnouncementCreatedEvent{
		AnnouncementID: id,
		EventID:        ev.ID,
		EventName:      ev.Name,
		Type:           req.Type,
		Message:        req.Message,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, announcementResp{
		ID:        id,
		EventID:   req.EventID,
		Message:   req.Message,
		Type:      req.Type,
		CreatedAt: timeToMs(time.Now().UTC()),
	})
}

// GetByEvent handles GET /v1/events/:id/announcements.
func (h *AnnouncementHandler) GetByEvent(c echo.Context) error {
	eventID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Announcements.ListByEvent(ctx, eventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list announcements failed"})
	}
	out := make([]announcementResp, 0, len(list))
	for _, a := range list {
		out = append(out, toAnnouncementResp(a))
	}
	return c.JSON(http.StatusOK, out)
}

// Remove handles DELETE /v1/announcements/:id.
func (h *AnnouncementHandler) Remove(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid announcement id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Announcements.Delete(ctx, id); err != nil {
		if err == repository.ErrAnnouncementNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete announcement failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
