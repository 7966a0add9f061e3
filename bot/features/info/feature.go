package info

import (
	"fmt"
	"time"

	"clicker/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Version is stamped at build time via -ldflags
var Version = "dev"

// Feature owns the /ping and /info commands
type Feature struct {
	startTime time.Time
}

func New(startTime time.Time) *Feature {
	return &Feature{
		startTime: startTime,
	}
}

// HandlePing reports the gateway heartbeat latency
func (f *Feature) HandlePing(s *discordgo.Session, i *discordgo.InteractionCreate) {
	latency := s.HeartbeatLatency().Round(time.Millisecond)

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("🏓 Pong! Gateway latency: **%s**", latency),
		},
	})
	if err != nil {
		log.Errorf("Error responding to ping command: %v", err)
	}
}

// HandleInfo shows uptime, guild count and version
func (f *Feature) HandleInfo(s *discordgo.Session, i *discordgo.InteractionCreate) {
	embed := &discordgo.MessageEmbed{
		Title: "__Bot Info__",
		Color: common.EmbedColor,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "__Uptime__",
				Value:  common.FormatUptime(time.Since(f.startTime)),
				Inline: true,
			},
			{
				Name:   "__Guilds__",
				Value:  fmt.Sprintf("%d", len(s.State.Guilds)),
				Inline: true,
			},
			{
				Name:   "__Version__",
				Value:  Version,
				Inline: true,
			},
		},
	}

	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to info command: %v", err)
	}
}
