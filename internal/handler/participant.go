package handler

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/crowdpulse/event-engagement/internal/model"
	"github.com/crowdpulse/event-engagement/internal/repository"
)

// ParticipantHandler serves the join flow and participant profile
// operations.
type ParticipantHandler struct {
	Participants *repository.ParticipantRepo
	Codes        *repository.AccessCodeRepo
	Events       *repository.EventRepo
	Devices      *repository.DeviceTokenRepo
}

func NewParticipantHandler(p *repository.ParticipantRepo, codes *repository.AccessCodeRepo, events *repository.EventRepo, devices *repository.DeviceTokenRepo) *ParticipantHandler {
	return &ParticipantHandler{Participants: p, Codes: codes, Events: events, Devices: devices}
}

type joinReq struct {
	EventID uint64  `json:"event_id"` // required for qr_code joins
	Code    string  `json:"code"`     // required for access_code joins
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	UserID  *string `json:"user_id"`
}

// Join handles POST /v1/participants/join. A participant enters either
// through an access code (which is consumed here) or a QR scan carrying
// the event id. Joining twice with the same email is idempotent.
func (h *ParticipantHandler) Join(c echo.Context) error {
	var req joinReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and email are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	eventID := req.EventID
	accessMethod := model.AccessMethodQRCode

	if req.Code != "" {
		// An existing participant re-entering with the same code must
		// not burn another use.
		res, err := h.Codes.Validate(ctx, req.Code)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "validate code failed"})
		}
		if !res.Valid {
			return c.JSON(http.StatusConflict, echo.Map{"error": res.Reason})
		}
		if existing, err := h.Participants.GetByEmailAndEvent(ctx, req.Email, res.Event.ID); err == nil {
			return c.JSON(http.StatusOK, toParticipantResp(existing))
		}
		used, err := h.Codes.Use(ctx, req.Code)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "use code failed"})
		}
		if !used.Valid {
			return c.JSON(http.StatusConflict, echo.Map{"error": used.Reason})
		}
		eventID = used.Event.ID
		accessMethod = model.AccessMethodAccessCode
	}

	if eventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id or code is required"})
	}
	if _, err := h.Events.GetByID(ctx, eventID); err != nil {
		if err == repository.ErrEventNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}

	p, created, err := h.Participants.Join(ctx, model.Participant{
		EventID:      eventID,
		UserID:       req.UserID,
		Name:         req.Name,
		Email:        req.Email,
		AvatarSeed:   uuid.NewString(),
		AccessMethod: accessMethod,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "join failed"})
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, toParticipantResp(p))
}

// GetByEvent handles GET /v1/events/:id/participants.
func (h *ParticipantHandler) GetByEvent(c echo.Context) error {
	eventID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Participants.GetByEvent(ctx, eventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list participants failed"})
	}
	out := make([]participantResp, 0, len(list))
	for _, p := range list {
		out = append(out, toParticipantResp(p))
	}
	return c.JSON(http.StatusOK, out)
}

// Lookup handles GET /v1/participants?email= and ?user_id=, returning
// all of a person's participant rows across events.
func (h *ParticipantHandler) Lookup(c echo.Context) error {
	email := strings.TrimSpace(c.QueryParam("email"))
	userID := strings.TrimSpace(c.QueryParam("user_id"))

	ctx, cancel := reqCtx(c)
	defer cancel()

	var (
		list []model.Participant
		err  error
	)
	switch {
	case email != "":
		list, err = h.Participants.GetByEmail(ctx, email)
	case userID != "":
		list, err = h.Participants.GetByUser(ctx, userID)
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email or user_id is required"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	out := make([]participantResp, 0, len(list))
	for _, p := range list {
		out = append(out, toParticipantResp(p))
	}
	return c.JSON(http.StatusOK, out)
}

type updateProfileReq struct {
	Name string `json:"name"`
}

// UpdateProfile handles PATCH /v1/participants/:id.
func (h *ParticipantHandler) UpdateProfile(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid participant id"})
	}
	var req updateProfileReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Participants.UpdateProfile(ctx, id, strings.TrimSpace(req.Name)); err != nil {
		if err == repository.ErrParticipantNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update profile failed"})
	}
	p, err := h.Participants.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load participant failed"})
	}
	return c.JSON(http.StatusOK, toParticipantResp(p))
}

// RandomizeAvatar handles POST /v1/participants/:id/avatar. It rolls a
// fresh avatar seed and returns the updated participant.
func (h *ParticipantHandler) RandomizeAvatar(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid participant id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Participants.SetAvatarSeed(ctx, id, uuid.NewString()); err != nil {
		if err == repository.ErrParticipantNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "randomize avatar failed"})
	}
	p, err := h.Participants.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load participant failed"})
	}
	return c.JSON(http.StatusOK, toParticipantResp(p))
}

type registerDeviceReq struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

// RegisterDevice handles POST /v1/participants/:id/devices. Storing the
// same token twice is a no-op.
func (h *ParticipantHandler) RegisterDevice(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid participant id"})
	}
	var req registerDeviceReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token is required"})
	}
	platform := strings.ToLower(strings.TrimSpace(req.Platform))
	if platform != "ios" && platform != "android" {
		platform = "unknown"
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Participants.GetByID(ctx, id); err != nil {
		if err == repository.ErrParticipantNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load participant failed"})
	}
	if err := h.Devices.Register(ctx, id, req.Token, platform); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "register device failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
