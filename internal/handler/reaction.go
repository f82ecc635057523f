package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/crowdpulse/event-engagement/internal/limiter"
	"github.com/crowdpulse/event-engagement/internal/model"
	"github.com/crowdpulse/event-engagement/internal/repository"
)

// ReactionHandler serves the participant reaction write path and the
// polling reads behind the animated reaction overlay.
type ReactionHandler struct {
	Reactions    *repository.ReactionRepo
	Activities   *repository.ActivityRepo
	Participants *repository.ParticipantRepo
	Cooldown     *limiter.Cooldown
}

func NewReactionHandler(r *repository.ReactionRepo, a *repository.ActivityRepo, p *repository.ParticipantRepo, cd *limiter.Cooldown) *ReactionHandler {
	return &ReactionHandler{Reactions: r, Activities: a, Participants: p, Cooldown: cd}
}

type sendReactionReq struct {
	ParticipantID uint64 `json:"participant_id"`
}

// Send handles POST /v1/activities/:id/reactions. The activity must be
// live and the participant outside their cooldown window. The cooldown
// is claimed atomically in Redis when available; otherwise the
// most-recent-row check in the repository applies.
func (h *ReactionHandler) Send(c echo.Context) error {
	activityID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid activity id"})
	}
	var req sendReactionReq
	if err := c.Bind(&req); err != nil || req.ParticipantID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "participant_id is required"})
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
	if a.Status != model.ActivityStatusLive {
		return c.JSON(http.StatusConflict, echo.Map{"error": repository.ErrActivityNotLive.Error()})
	}
	if _, err := h.Participants.GetByID(ctx, req.ParticipantID); err != nil {
		if err == repository.ErrParticipantNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load participant failed"})
	}

	now := time.Now().UTC()
	allowed, usedRedis := h.Cooldown.Acquire(ctx, "reaction", activityID, req.ParticipantID, model.ReactionCooldown)
	if usedRedis {
		if !allowed {
			return c.JSON(http.StatusTooManyRequests, echo.Map{"error": repository.ErrRateLimited.Error()})
		}
	} else {
		if err := h.Reactions.CheckCooldown(ctx, activityID, req.ParticipantID, now); err != nil {
			if err == repository.ErrRateLimited {
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": err.Error()})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cooldown check failed"})
		}
	}

	id, err := h.Reactions.Insert(ctx, activityID, req.ParticipantID, now)
	if err != nil {
		if usedRedis {
			h.Cooldown.Release(ctx, "reaction", activityID, req.ParticipantID)
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save reaction failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "created_at": timeToMs(now)})
}

// Count handles GET /v1/activities/:id/reactions/count.
func (h *ReactionHandler) Count(c echo.Context) error {
	activityID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid activity id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	n, err := h.Reactions.Count(ctx, activityID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "count failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"count": n})
}

// Recent handles GET /v1/activities/:id/reactions/recent?limit=&since=.
// since is epoch milliseconds; the response strips participant
// identity so reactions stay anonymous on screen.
func (h *ReactionHandler) Recent(c echo.Context) error {
	activityID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid activity id"})
	}
	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	var since time.Time
	if v := c.QueryParam("since"); v != "" {
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
			since = msToTime(ms)
		}
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Reactions.RecentSince(ctx, activityID, since, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list reactions failed"})
	}
	type anonResp struct {
		ID        uint64 `json:"id"`
		CreatedAt int64  `json:"created_at"`
	}
	out := make([]anonResp, 0, len(list))
	for _, r := range list {
		out = append(out, anonResp{ID: r.ID, CreatedAt: timeToMs(r.CreatedAt)})
	}
	return c.JSON(http.StatusOK, out)
}
