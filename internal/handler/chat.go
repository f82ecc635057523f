package handler

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/crowdpulse/event-engagement/internal/limiter"
	"github.com/crowdpulse/event-engagement/internal/model"
	"github.com/crowdpulse/event-engagement/internal/repository"
	"github.com/crowdpulse/event-engagement/internal/utils"
)

// ChatHandler serves the anonymous chat write and read paths.
type ChatHandler struct {
	Chat         *repository.ChatRepo
	Activities   *repository.ActivityRepo
	Participants *repository.ParticipantRepo
	Cooldown     *limiter.Cooldown
}

func NewChatHandler(chat *repository.ChatRepo, a *repository.ActivityRepo, p *repository.ParticipantRepo, cd *limiter.Cooldown) *ChatHandler {
	return &ChatHandler{Chat: chat, Activities: a, Participants: p, Cooldown: cd}
}

type sendMessageReq struct {
	ParticipantID uint64 `json:"participant_id"`
	Message       string `json:"message"`
}

type chatMessageResp struct {
	ID            uint64 `json:"id"`
	ActivityID    uint64 `json:"activity_id"`
	AnonymousName string `json:"anonymous_name"`
	Message       string `json:"message"`
	SentAt        int64  `json:"sent_at"`
}

func toChatMessageResp(m model.ChatMessage) chatMessageResp {
	return chatMessageResp{
		ID:            m.ID,
		ActivityID:    m.ActivityID,
		AnonymousName: m.AnonymousName,
		Message:       m.Message,
		SentAt:        timeToMs(m.SentAt),
	}
}

// Send handles POST /v1/activities/:id/messages. The activity must be a
// live anonymous_chat; the message must fit the configured length; slow
// mode, when configured, enforces a minimum gap between a participant's
// messages. The sender's anonymous name is minted on their first
// message and reused afterwards.
func (h *ChatHandler) Send(c echo.Context) error {
	activityID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid activity id"})
	}
	var req sendMessageReq
	if err := c.Bind(&req); err != nil || req.ParticipantID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "participant_id is required"})
	}
	if req.Message == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "message is required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	a, err := h.Activities.GetByID(ctx, activityID)
	if err != nil {
		if err == repository.ErrActivityNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load activity failed"})
	}
	if a.Type != model.ActivityTypeAnonymousChat {
		return c.JSON(http.StatusConflict, echo.Map{"error": "activity is not a chat"})
	}
	if a.Status != model.ActivityStatusLive {
		return c.JSON(http.StatusConflict, echo.Map{"error": repository.ErrActivityNotLive.Error()})
	}
	if _, err := h.Participants.GetByID(ctx, req.ParticipantID); err != nil {
		if err == repository.ErrParticipantNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load participant failed"})
	}

	cfg := a.ChatConfig()
	maxLen := cfg.MaxMessageLength
	if maxLen <= 0 {
		maxLen = model.DefaultMaxMessageLength
	}
	if len([]rune(req.Message)) > maxLen {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": fmt.Sprintf("message exceeds maximum length of %d characters", maxLen),
		})
	}

	now := time.Now().UTC()
	claimedRedis := false
	if cfg.SlowModeSeconds > 0 {
		gap := time.Duration(cfg.SlowModeSeconds) * time.Second
		allowed, usedRedis := h.Cooldown.Acquire(ctx, "chat", activityID, req.ParticipantID, gap)
		if usedRedis {
			claimedRedis = allowed
			if !allowed {
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error": fmt.Sprintf("Rate limited: slow mode is on, wait %d seconds between messages", cfg.SlowModeSeconds),
				})
			}
		} else {
			last, err := h.Chat.LastMessageAt(ctx, activityID, req.ParticipantID)
			if err != nil && err != sql.ErrNoRows {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "slow mode check failed"})
			}
			if err == nil {
				if wait := gap - now.Sub(last); wait > 0 {
					secs := int(wait.Seconds()) + 1
					return c.JSON(http.StatusTooManyRequests, echo.Map{
						"error": fmt.Sprintf("Rate limited: slow mode is on, wait %d more seconds", secs),
					})
				}
			}
		}
	}

	name, err := h.Chat.GetIdentity(ctx, activityID, req.ParticipantID)
	if err == sql.ErrNoRows {
		minted, err := utils.AnonymousName()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "mint name failed"})
		}
		name, err = h.Chat.CreateIdentity(ctx, activityID, req.ParticipantID, minted)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save name failed"})
		}
	} else if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load name failed"})
	}

	m, err := h.Chat.InsertMessage(ctx, model.ChatMessage{
		ActivityID:    activityID,
		ParticipantID: req.ParticipantID,
		AnonymousName: name,
		Message:       req.Message,
		SentAt:        now,
	})
	if err != nil {
		if claimedRedis {
			h.Cooldown.Release(ctx, "chat", activityID, req.ParticipantID)
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save message failed"})
	}
	return c.JSON(http.StatusCreated, toChatMessageResp(m))
}

// Recent handles GET /v1/activities/:id/messages?limit=. Messages come
// back in chronological order, capped at the newest limit entries.
func (h *ChatHandler) Recent(c echo.Context) error {
	activityID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid activity id"})
	}
	limit := 50
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Chat.RecentByActivity(ctx, activityID, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list messages failed"})
	}
	out := make([]chatMessageResp, 0, len(list))
	for _, m := range list {
		out = append(out, toChatMessageResp(m))
	}
	return c.JSON(http.StatusOK, out)
}
