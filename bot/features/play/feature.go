package play

import (
	"context"
	"sync"
	"time"

	"clicker/bot/common"
	"clicker/service"
	"clicker/session"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature owns the /play command and the per-message play sessions it spawns
type Feature struct {
	userService service.UserService
	publisher   service.EventPublisher
	timeout     time.Duration

	// Root context for session loops, cancelled on shutdown
	ctx context.Context

	mu       sync.RWMutex
	sessions map[string]*session.Session // keyed by session message ID
}

func New(ctx context.Context, userService service.UserService, publisher service.EventPublisher, timeout time.Duration) *Feature {
	return &Feature{
		userService: userService,
		publisher:   publisher,
		timeout:     timeout,
		ctx:         ctx,
		sessions:    make(map[string]*session.Session),
	}
}

// HandleCommand starts a new play session for the invoking user
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	user := common.InteractionUser(i)

	live := service.Identity{
		Username:  user.Username,
		AvatarURL: user.AvatarURL(""),
	}

	// First contact creates the record; otherwise cached identity fields get
	// reconciled against the live profile
	score, err := f.userService.GetOrCreateUser(ctx, user.ID, live)
	if err != nil {
		log.Errorf("Error getting user %s: %v", user.ID, err)
		common.RespondWithError(s, i, "Unable to start a session. Please try again.")
		return
	}

	embed := sessionEmbed(user.Username, live.AvatarURL, score.Counter)
	err = common.RespondWithEmbed(s, i, embed, sessionButtons(), false)
	if err != nil {
		log.Errorf("Error responding to play command: %v", err)
		return
	}

	msg, err := s.InteractionResponse(i.Interaction)
	if err != nil {
		log.Errorf("Error fetching session message: %v", err)
		return
	}

	renderer := &messageRenderer{
		session:   s,
		channelID: msg.ChannelID,
		messageID: msg.ID,
		username:  user.Username,
		avatarURL: live.AvatarURL,
	}

	sess := session.New(user.ID, score.Counter, f.timeout, f.userService, renderer, f.publisher)

	f.mu.Lock()
	f.sessions[msg.ID] = sess
	f.mu.Unlock()

	go func() {
		sess.Run(f.ctx)
		f.mu.Lock()
		delete(f.sessions, msg.ID)
		f.mu.Unlock()
	}()
}

// HandleComponent routes a button press to the session that owns the message.
// It reports false when no play session is tied to the message.
func (f *Feature) HandleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if i.Message == nil {
		return false
	}

	f.mu.RLock()
	sess := f.sessions[i.Message.ID]
	f.mu.RUnlock()

	if sess == nil {
		return false
	}

	actor := common.InteractionUser(i)
	ev := session.Event{
		Action:  session.ParseAction(i.MessageComponentData().CustomID),
		ActorID: actor.ID,
		Ack: func() error {
			return common.AcknowledgeComponent(s, i)
		},
	}

	if !sess.Deliver(ev) {
		// Session closed between lookup and delivery; swallow the click
		_ = common.AcknowledgeComponent(s, i)
	}

	return true
}

// ActiveSessions returns the number of sessions currently running
func (f *Feature) ActiveSessions() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.sessions)
}
