package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken string

	// Optional channel that receives guild join/leave notifications
	LogChannelID string

	// Database configuration
	DatabaseURL string

	// Session configuration
	SessionTimeoutSeconds     int // Inactivity timeout for play sessions
	LeaderboardTimeoutSeconds int // Inactivity timeout for leaderboard views

	// Environment
	Environment string // "development", "production" or "test"
}

// Load reads configuration from environment variables. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	// Missing .env is fine, real deployments set the environment directly
	_ = godotenv.Load()

	config := &Config{
		DiscordToken: os.Getenv("DISCORD_TOKEN"),
		LogChannelID: os.Getenv("LOG_CHANNEL_ID"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),

		// 1 hour of idle play, 10 minutes for an untouched leaderboard
		SessionTimeoutSeconds:     3600,
		LeaderboardTimeoutSeconds: 600,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if timeout := os.Getenv("SESSION_TIMEOUT_SECONDS"); timeout != "" {
		if parsed, err := strconv.Atoi(timeout); err == nil && parsed > 0 {
			config.SessionTimeoutSeconds = parsed
		}
	}
	if timeout := os.Getenv("LEADERBOARD_TIMEOUT_SECONDS"); timeout != "" {
		if parsed, err := strconv.Atoi(timeout); err == nil && parsed > 0 {
			config.LeaderboardTimeoutSeconds = parsed
		}
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
