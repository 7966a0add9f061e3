package leaderboard

import (
	"fmt"
	"strings"

	"clicker/bot/common"
	"clicker/models"
	"clicker/session"

	"github.com/bwmarrin/discordgo"
)

// medals decorate the first three positions of the rendered page only
var medals = [3]string{"🥇 ", "🥈 ", "🥉 "}

func leaderboardEmbed(lb *models.LeaderboardView) *discordgo.MessageEmbed {
	var footer string
	if lb.Ranked() {
		footer = fmt.Sprintf("You are #%d on the leaderboard.", lb.ViewerRank)
	} else {
		footer = "You are not on the leaderboard."
	}

	thumbnail := common.DefaultAvatarURL
	if len(lb.Entries) > 0 && lb.Entries[0].AvatarURL != "" {
		thumbnail = lb.Entries[0].AvatarURL
	}

	var description strings.Builder
	for i, entry := range lb.Entries {
		medal := ""
		if entry.Position < len(medals) {
			medal = medals[entry.Position]
		}

		description.WriteString(fmt.Sprintf("%s%s: **%s**", medal, entry.Username, common.FormatCounter(entry.Counter)))
		if i != len(lb.Entries)-1 {
			description.WriteByte('\n')
		}
	}

	if len(lb.Entries) == 0 {
		description.WriteString("Nobody has played yet.")
	}

	return &discordgo.MessageEmbed{
		Title:       "__Leaderboard__",
		Description: description.String(),
		Color:       common.EmbedColor,
		Thumbnail: &discordgo.MessageEmbedThumbnail{
			URL: thumbnail,
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: footer,
		},
	}
}

func toggleButtons() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		&discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				&discordgo.Button{
					CustomID: session.CustomIDSortAscending,
					Label:    "⬆️",
					Style:    discordgo.SecondaryButton,
				},
				&discordgo.Button{
					CustomID: session.CustomIDSortDescending,
					Label:    "⬇️",
					Style:    discordgo.SecondaryButton,
				},
			},
		},
	}
}
