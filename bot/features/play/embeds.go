package play

import (
	"fmt"

	"clicker/bot/common"
	"clicker/session"

	"github.com/bwmarrin/discordgo"
)

func sessionEmbed(username, avatarURL string, counter int64) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("__%s's session__", username),
		Description: fmt.Sprintf("Current Score: **%s**", common.FormatCounter(counter)),
		Color:       common.EmbedColor,
		Thumbnail: &discordgo.MessageEmbedThumbnail{
			URL: common.AvatarURL(avatarURL),
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Click the button to increase your score!",
		},
	}
}

func sessionButtons() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		&discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				&discordgo.Button{
					CustomID: session.CustomIDIncrement,
					Label:    "🔘",
					Style:    discordgo.PrimaryButton,
				},
				&discordgo.Button{
					CustomID: session.CustomIDStop,
					Label:    "✖️",
					Style:    discordgo.DangerButton,
				},
			},
		},
	}
}
