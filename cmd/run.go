package cmd

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"clicker/bot"
	"clicker/config"
	"clicker/database"
	"clicker/events"
	"clicker/repository"
	"clicker/service"
)

// Run wires up and starts the application, blocking until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetLevel(log.DebugLevel)
	}

	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	eventBus := events.NewBus()

	scoreRepo := repository.NewUserScoreRepository(db)
	userService := service.NewUserService(scoreRepo, eventBus)
	leaderboardService := service.NewLeaderboardService(scoreRepo)

	// Observability subscriptions, useful when chasing session bugs
	eventBus.Subscribe(events.EventTypeSessionClosed, func(ctx context.Context, event events.Event) {
		if closed, ok := event.(events.SessionClosedEvent); ok {
			log.WithFields(log.Fields{
				"userID":     closed.UserID,
				"finalScore": closed.FinalScore,
				"timedOut":   closed.TimedOut,
			}).Debug("Play session closed")
		}
	})
	eventBus.Subscribe(events.EventTypeProfileSynced, func(ctx context.Context, event events.Event) {
		if synced, ok := event.(events.ProfileSyncedEvent); ok {
			log.WithFields(log.Fields{
				"userID":   synced.UserID,
				"username": synced.Username,
			}).Debug("Profile synced")
		}
	})

	discordBot, err := bot.New(ctx, bot.Config{
		Token:              cfg.DiscordToken,
		LogChannelID:       cfg.LogChannelID,
		SessionTimeout:     time.Duration(cfg.SessionTimeoutSeconds) * time.Second,
		LeaderboardTimeout: time.Duration(cfg.LeaderboardTimeoutSeconds) * time.Second,
		StartTime:          time.Now(),
	}, userService, leaderboardService, eventBus)
	if err != nil {
		return fmt.Errorf("failed to start bot: %w", err)
	}

	log.Info("Bot is running. Press CTRL-C to exit.")

	<-ctx.Done()

	log.Info("Shutting down...")
	if err := discordBot.Close(); err != nil {
		log.Errorf("Error closing bot: %v", err)
	}

	return nil
}
