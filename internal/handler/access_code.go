package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/crowdpulse/event-engagement/internal/model"
	"github.com/crowdpulse/event-engagement/internal/repository"
)

// AccessCodeHandler serves code generation for organizers and
// validation/consumption for participants.
type AccessCodeHandler struct {
	Codes  *repository.AccessCodeRepo
	Events *repository.EventRepo
}

func NewAccessCodeHandler(codes *repository.AccessCodeRepo, events *repository.EventRepo) *AccessCodeHandler {
	return &AccessCodeHandler{Codes: codes, Events: events}
}

type generateCodeReq struct {
	EventID uint64  `json:"event_id"`
	MaxUses *uint32 `json:"max_uses"`
}

type codeReq struct {
	Code string `json:"code"`
}

type accessCodeResp struct {
	ID        uint64  `json:"id"`
	EventID   uint64  `json:"event_id"`
	Code      string  `json:"code"`
	IsActive  bool    `json:"is_active"`
	MaxUses   *uint32 `json:"max_uses,omitempty"`
	UseCount  uint32  `json:"use_count"`
	CreatedAt int64   `json:"created_at"`
}

func toAccessCodeResp(a model.AccessCode) accessCodeResp {
	return accessCodeResp{
		ID:        a.ID,
		EventID:   a.EventID,
		Code:      a.Code,
		IsActive:  a.IsActive,
		MaxUses:   a.MaxUses,
		UseCount:  a.UseCount,
		CreatedAt: timeToMs(a.CreatedAt),
	}
}

// validationResp mirrors the repository ValidationResult: valid plus
// either an error string or the code and event payloads.
type validationResp struct {
	Valid      bool            `json:"valid"`
	Error      string          `json:"error,omitempty"`
	AccessCode *accessCodeResp `json:"access_code,omitempty"`
	Event      *eventResp      `json:"event,omitempty"`
}

func toValidationResp(res repository.ValidationResult) validationResp {
	if !res.Valid {
		return validationResp{Valid: false, Error: res.Reason}
	}
	code := toAccessCodeResp(res.AccessCode)
	event := toEventResp(res.Event, time.Now().UTC())
	event.Status = res.EventStatus
	return validationResp{Valid: true, AccessCode: &code, Event: &event}
}

// Generate handles POST /v1/access-codes. Organizer only. Fails when
// the event is missing or already over.
func (h *AccessCodeHandler) Generate(c echo.Context) error {
	var req generateCodeReq
	if err := c.Bind(&req); err != nil || req.EventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id is required"})
	}
	if req.MaxUses != nil && *req.MaxUses == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "max_uses must be positive"})
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
	if ev.Status(time.Now().UTC()) == model.EventStatusEnded {
		return c.JSON(http.StatusConflict, echo.Map{"error": repository.ErrEventEnded.Error()})
	}
	code, err := h.Codes.Generate(ctx, req.EventID, req.MaxUses)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "generate code failed"})
	}
	return c.JSON(http.StatusCreated, toAccessCodeResp(code))
}

// Validate handles POST /v1/access-codes/validate. Read-only; always
// answers 200 with a valid flag so client read paths are error-safe.
func (h *AccessCodeHandler) Validate(c echo.Context) error {
	var req codeReq
	if err := c.Bind(&req); err != nil || req.Code == "" {
		return c.JSON(http.StatusOK, validationResp{Valid: false, Error: repository.ReasonCodeNotFound})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Codes.Validate(ctx, req.Code)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "validate failed"})
	}
	return c.JSON(http.StatusOK, toValidationResp(res))
}

// Use handles POST /v1/access-codes/use. Re-runs all validation checks
// and consumes one use when they pass.
func (h *AccessCodeHandler) Use(c echo.Context) error {
	var req codeReq
	if err := c.Bind(&req); err != nil || req.Code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code is required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Codes.Use(ctx, req.Code)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "use code failed"})
	}
	if !res.Valid {
		return c.JSON(http.StatusConflict, validationResp{Valid: false, Error: res.Reason})
	}
	return c.JSON(http.StatusOK, toValidationResp(res))
}

// ListByEvent handles GET /v1/events/:id/access-codes. Organizer only.
func (h *AccessCodeHandler) ListByEvent(c echo.Context) error {
	eventID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	codes, err := h.Codes.ListByEvent(ctx, eventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list codes failed"})
	}
	out := make([]accessCodeResp, 0, len(codes))
	for _, a := range codes {
		out = append(out, toAccessCodeResp(a))
	}
	return c.JSON(http.StatusOK, out)
}

// Deactivate handles POST /v1/access-codes/:id/deactivate. Idempotent.
func (h *AccessCodeHandler) Deactivate(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid code id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Codes.Deactivate(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "deactivate failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
