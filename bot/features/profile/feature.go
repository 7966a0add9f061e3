package profile

import (
	"context"
	"errors"
	"fmt"

	"clicker/bot/common"
	"clicker/models"
	"clicker/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature owns the /profile command
type Feature struct {
	userService service.UserService
}

func New(userService service.UserService) *Feature {
	return &Feature{
		userService: userService,
	}
}

// HandleCommand shows the invoker's profile, or another player's when a
// username option is given
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	user := common.InteractionUser(i)

	var username string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "username" {
			username = opt.StringValue()
		}
	}

	var score *models.UserScore
	var err error
	if username == "" {
		// Self lookups go by user ID so a recent rename can't make the
		// invoker's own account look broken
		score, err = f.userService.GetProfileByUserID(ctx, user.ID)
	} else {
		score, err = f.userService.GetProfileByUsername(ctx, username)
	}

	if errors.Is(err, service.ErrNotFound) {
		common.RespondWithError(s, i, "User not found.")
		return
	}
	if err != nil {
		log.Errorf("Error looking up profile: %v", err)
		common.RespondWithError(s, i, "Unable to retrieve profile. Please try again.")
		return
	}

	// Own profile gets the live avatar; someone else's uses the cached one
	thumbnail := score.AvatarURL
	if score.UserID == user.ID {
		thumbnail = user.AvatarURL("")
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("__%s's Profile__", score.Username),
		Description: fmt.Sprintf("Current score: **%s**", common.FormatCounter(score.Counter)),
		Color:       common.EmbedColor,
		Thumbnail: &discordgo.MessageEmbedThumbnail{
			URL: common.AvatarURL(thumbnail),
		},
	}

	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to profile command: %v", err)
	}
}
