package bot

import (
	"fmt"
	"time"

	"clicker/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleGuildCreate posts a notification when the bot joins a new guild
func (b *Bot) handleGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	// GuildCreate also fires for every known guild on connect; only the
	// genuinely new ones are worth logging
	if g.Unavailable || b.config.LogChannelID == "" {
		return
	}
	if time.Since(g.JoinedAt) > time.Minute {
		return
	}

	log.Infof("Guild %s joined || total %d", g.Name, len(s.State.Guilds))

	b.sendGuildNotification(s, "**Joined a new guild**", g.Guild)
}

// handleGuildDelete posts a notification when the bot is removed from a guild
func (b *Bot) handleGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	// Discord also sends guild_delete for outages, which isn't a kick
	if g.Unavailable || b.config.LogChannelID == "" {
		return
	}

	log.Infof("Guild %s left || total %d", g.ID, len(s.State.Guilds))

	guild := g.BeforeDelete
	if guild == nil {
		guild = g.Guild
	}
	b.sendGuildNotification(s, "**Left a guild**", guild)
}

func (b *Bot) sendGuildNotification(s *discordgo.Session, title string, guild *discordgo.Guild) {
	thumbnail := common.DefaultAvatarURL
	if guild.Icon != "" {
		thumbnail = guild.IconURL("")
	}

	embed := &discordgo.MessageEmbed{
		Description: title,
		Color:       common.EmbedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "__Name__", Value: guild.Name, Inline: true},
			{Name: "__ID__", Value: guild.ID, Inline: true},
			{Name: "__Members__", Value: fmt.Sprintf("%d", guild.MemberCount), Inline: true},
			{Name: "__Owner__", Value: fmt.Sprintf("<@%s>", guild.OwnerID), Inline: true},
		},
		Thumbnail: &discordgo.MessageEmbedThumbnail{
			URL: thumbnail,
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Now in %d guilds", len(s.State.Guilds)),
		},
	}

	_, err := s.ChannelMessageSendEmbed(b.config.LogChannelID, embed)
	if err != nil {
		log.Errorf("Failed to send guild notification: %v", err)
	}
}
