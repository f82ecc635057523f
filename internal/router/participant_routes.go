package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/crowdpulse/event-engagement/internal/config"
	"github.com/crowdpulse/event-engagement/internal/handler"
	"github.com/crowdpulse/event-engagement/internal/middleware"
)

// ParticipantHandlers bundles the handlers serving the attendee apps.
type ParticipantHandlers struct {
	Events        *handler.EventHandler
	Codes         *handler.AccessCodeHandler
	Participants  *handler.ParticipantHandler
	Activities    *handler.ActivityHandler
	Reactions     *handler.ReactionHandler
	Chat          *handler.ChatHandler
	Announcements *handler.AnnouncementHandler
}

// RegisterParticipant registers the public read surface and the
// participant write surface. Write routes sit behind the token
// bucket limiter so a misbehaving client cannot flood the engine.
func RegisterParticipant(e *echo.Echo, h ParticipantHandlers, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/v1")

	// Reads.
	g.GET("/events", h.Events.GetAll)
	g.GET("/events/current", h.Events.GetCurrent)
	g.GET("/events/:id", h.Events.GetByID)
	g.GET("/events/:id/participants", h.Participants.GetByEvent)
	g.GET("/events/:id/activities", h.Activities.ListByEvent)
	g.GET("/events/:id/announcements", h.Announcements.GetByEvent)
	g.GET("/activities/:id", h.Activities.GetByID)
	g.GET("/activities/:id/reactions/count", h.Reactions.Count)
	g.GET("/activities/:id/reactions/recent", h.Reactions.Recent)
	g.GET("/activities/:id/messages", h.Chat.Recent)
	g.GET("/participants", h.Participants.Lookup)

	// Writes.
	w := e.Group("/v1")
	if rlCfg.Enabled {
		w.Use(middleware.NewTokenBucket(rlCfg, rdb))
	}
	w.POST("/access-codes/validate", h.Codes.Validate)
	w.POST("/access-codes/use", h.Codes.Use)
	w.POST("/participants/join", h.Participants.Join)
	w.PATCH("/participants/:id", h.Participants.UpdateProfile)
	w.POST("/participants/:id/avatar", h.Participants.RandomizeAvatar)
	w.POST("/participants/:id/devices", h.Participants.RegisterDevice)
	w.POST("/activities/:id/reactions", h.Reactions.Send)
	w.POST("/activities/:id/messages", h.Chat.Send)
}
