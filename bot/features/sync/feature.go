package sync

import (
	"context"

	"clicker/bot/common"
	"clicker/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature owns the /sync command, the explicit repair path for accounts whose
// cached identity fields drifted from Discord
type Feature struct {
	userService service.UserService
}

func New(userService service.UserService) *Feature {
	return &Feature{
		userService: userService,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	user := common.InteractionUser(i)

	live := service.Identity{
		Username:  user.Username,
		AvatarURL: user.AvatarURL(""),
	}

	if err := f.userService.SyncProfile(ctx, user.ID, live); err != nil {
		log.Errorf("Error syncing profile for %s: %v", user.ID, err)
		common.RespondWithError(s, i, "Unable to synchronize your account. Please try again.")
		return
	}

	if err := common.RespondWithSuccess(s, i, "Your account has been synchronized and fixed!", true); err != nil {
		log.Errorf("Error responding to sync command: %v", err)
	}
}
