package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/crowdpulse/event-engagement/internal/handler"    // import the handlers that implement business logic
	"github.com/crowdpulse/event-engagement/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance: the health check and the mobile deep link
// redirect used by printed QR codes.
func RegisterRoutes(e *echo.Echo, ev *handler.EventHandler) {
	// The health endpoint can be used by load balancers or monitoring
	// systems to verify that the service is up and running.
	e.GET("/healthz", handler.Health)
	// Browser landing for invitation links; bounces into the app.
	e.GET("/join", ev.JoinRedirect)
}

// RegisterAuth registers all organizer authentication routes and applies
// the necessary middleware.  Unauthenticated operations live under
// /v1/auth, while the protected /v1/me endpoint demonstrates a session.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the session; logout revokes it.
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("ORGANIZER"))
	auth.GET("/me", a.Me)
}
