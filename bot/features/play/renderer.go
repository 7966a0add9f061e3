package play

import (
	"fmt"

	"clicker/bot/common"

	"github.com/bwmarrin/discordgo"
)

// messageRenderer implements session.Renderer against the one Discord
// message a play session lives in
type messageRenderer struct {
	session   *discordgo.Session
	channelID string
	messageID string
	username  string
	avatarURL string
}

func (r *messageRenderer) Render(counter int64) error {
	embed := sessionEmbed(r.username, r.avatarURL, counter)
	_, err := r.session.ChannelMessageEditEmbed(r.channelID, r.messageID, embed)
	if err != nil {
		return fmt.Errorf("failed to edit session message: %w", err)
	}
	return nil
}

func (r *messageRenderer) RenderFailure(message string) error {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("__%s's session__", r.username),
		Description: message,
		Color:       common.EmbedColor,
	}
	_, err := r.session.ChannelMessageEditEmbed(r.channelID, r.messageID, embed)
	if err != nil {
		return fmt.Errorf("failed to render session failure: %w", err)
	}
	return nil
}

func (r *messageRenderer) Delete() error {
	if err := r.session.ChannelMessageDelete(r.channelID, r.messageID); err != nil {
		return fmt.Errorf("failed to delete session message: %w", err)
	}
	return nil
}
