package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "play",
			Description: "Create a play session",
		},
		{
			Name:        "profile",
			Description: "View the profile of yourself or a user",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "username",
					Description: "(Optional) The username to view the profile of",
					Required:    false,
				},
			},
		},
		{
			Name:        "leaderboard",
			Description: "View the global leaderboard",
		},
		{
			Name:        "sync",
			Description: "Fix your account if it appears \"broken\"",
		},
		{
			Name:        "ping",
			Description: "Check the bot's latency",
		},
		{
			Name:        "info",
			Description: "Show bot uptime and stats",
		},
	}

	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}

	return nil
}
