package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv" // Loads .env files into the environment
	"github.com/labstack/echo/v4"

	"github.com/crowdpulse/event-engagement/internal/config"
	"github.com/crowdpulse/event-engagement/internal/database"
	"github.com/crowdpulse/event-engagement/internal/handler"
	"github.com/crowdpulse/event-engagement/internal/limiter"
	"github.com/crowdpulse/event-engagement/internal/push"
	"github.com/crowdpulse/event-engagement/internal/queue"
	"github.com/crowdpulse/event-engagement/internal/repository"
	"github.com/crowdpulse/event-engagement/internal/router"
)

func main() {
	// A missing .env is fine in production, where variables come from the
	// process environment.
	_ = godotenv.Load()

	cfg := config.Load()
	rlCfg := config.LoadRateLimitConfig()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: the rate limiter falls back to allowing traffic
	// and the cooldowns fall back to their database checks.
	rdb := config.NewRedisClient()
	cooldown := limiter.NewCooldown(rdb, "cooldown")
	pusher := push.NewClient(cfg.PushEndpoint)

	events := repository.NewEventRepo(db)
	codes := repository.NewAccessCodeRepo(db)
	participants := repository.NewParticipantRepo(db)
	activities := repository.NewActivityRepo(db)
	reactions := repository.NewReactionRepo(db)
	chat := repository.NewChatRepo(db)
	announcements := repository.NewAnnouncementRepo(db)
	devices := repository.NewDeviceTokenRepo(db)
	organizers := repository.NewOrganizerRepo(db)
	sessions := repository.NewSessionRepo(db)

	authH := handler.NewAuthHandler(cfg, organizers, sessions)
	eventH := handler.NewEventHandler(events, cfg.DeepLinkScheme)
	codeH := handler.NewAccessCodeHandler(codes, events)
	participantH := handler.NewParticipantHandler(participants, codes, events, devices)
	activityH := handler.NewActivityHandler(activities, events)
	reactionH := handler.NewReactionHandler(reactions, activities, participants, cooldown)
	chatH := handler.NewChatHandler(chat, activities, participants, cooldown)
	announcementH := handler.NewAnnouncementHandler(announcements, events)
	notificationH := handler.NewNotificationHandler(devices, events, pusher)

	e := echo.New()
	router.RegisterRoutes(e, eventH)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterOrganizer(e, router.OrganizerHandlers{
		Events:        eventH,
		Codes:         codeH,
		Activities:    activityH,
		Announcements: announcementH,
		Notifications: notificationH,
	}, cfg.JWTSecret)
	router.RegisterParticipant(e, router.ParticipantHandlers{
		Events:        eventH,
		Codes:         codeH,
		Participants:  participantH,
		Activities:    activityH,
		Reactions:     reactionH,
		Chat:          chatH,
		Announcements: announcementH,
	}, rlCfg, rdb)

	// Drain announcement and notification events into the engagement log.
	go func() {
		if err := queue.StartEngagementConsumer(); err != nil {
			log.Printf("engagement consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
