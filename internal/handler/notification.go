package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/crowdpulse/event-engagement/internal/push"
	"github.com/crowdpulse/event-engagement/internal/queue"
	"github.com/crowdpulse/event-engagement/internal/repository"
	queue_publisher "github.com/crowdpulse/event-engagement/internal/service"
)

// NotificationHandler fans a push message out to every registered
// device of an event's participants.
type NotificationHandler struct {
	Devices *repository.DeviceTokenRepo
	Events  *repository.EventRepo
	Push    *push.Client
}

func NewNotificationHandler(d *repository.DeviceTokenRepo, e *repository.EventRepo, client *push.Client) *NotificationHandler {
	return &NotificationHandler{Devices: d, Events: e, Push: client}
}

type sendNotificationReq struct {
	EventID uint64            `json:"event_id"`
	Title   string            `json:"title"`
	Body    string            `json:"body"`
	Data    map[string]string `json:"data"`
}

// Send handles POST /v1/notifications. Delivery is best effort: a chunk
// that fails at the provider is logged and skipped while the remaining
// chunks still go out. The response reports accepted tickets against
// targeted tokens.
func (h *NotificationHandler) Send(c echo.Context) error {
	var req sendNotificationReq
	if err := c.Bind(&req); err != nil || req.EventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id is required"})
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Body = strings.TrimSpace(req.Body)
	if req.Title == "" || req.Body == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and body are required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Events.GetByID(ctx, req.EventID); err != nil {
		if err == repository.ErrEventNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}

	tokens, err := h.Devices.TokensByEvent(ctx, req.EventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load device tokens failed"})
	}

	sent, total := h.Push.Send(ctx, tokens, req.Title, req.Body, req.Data)

	_ = queue_publisher.PublishNotificationDispatched(ctx, queue.NotificationDispatchedEvent{
		EventID:      req.EventID,
		Title:        req.Title,
		Sent:         sent,
		Total:        total,
		DispatchedAt: time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{"sent": sent, "total": total})
}
