package router

import (
	"github.com/labstack/echo/v4"

	"github.com/crowdpulse/event-engagement/internal/handler"
	"github.com/crowdpulse/event-engagement/internal/middleware"
)

// OrganizerHandlers bundles every handler mounted under the protected
// organizer group.
type OrganizerHandlers struct {
	Events        *handler.EventHandler
	Codes         *handler.AccessCodeHandler
	Activities    *handler.ActivityHandler
	Announcements *handler.AnnouncementHandler
	Notifications *handler.NotificationHandler
}

// RegisterOrganizer registers the dashboard-facing mutation surface.
// Every route requires a valid organizer JWT.
func RegisterOrganizer(e *echo.Echo, h OrganizerHandlers, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ORGANIZER"))

	// Event CRUD and the current-event pointer.
	g.POST("/events", h.Events.Create)
	g.PATCH("/events/:id", h.Events.Update)
	g.PUT("/events/:id/current", h.Events.SetCurrent)
	g.DELETE("/events/:id", h.Events.Remove)
	g.POST("/events/seed", h.Events.Seed)

	// Access code issuance and management.
	g.POST("/access-codes", h.Codes.Generate)
	g.GET("/events/:id/access-codes", h.Codes.ListByEvent)
	g.POST("/access-codes/:id/deactivate", h.Codes.Deactivate)

	// Live activity lifecycle.
	g.POST("/activities", h.Activities.Create)
	g.POST("/activities/:id/schedule", h.Activities.Schedule)
	g.POST("/activities/:id/start", h.Activities.Start)
	g.POST("/activities/:id/end", h.Activities.End)
	g.DELETE("/activities/:id", h.Activities.Remove)

	// Announcements.
	g.POST("/announcements", h.Announcements.Create)
	g.DELETE("/announcements/:id", h.Announcements.Remove)

	// Push fan-out.
	g.POST("/notifications", h.Notifications.Send)
}
