package bot

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"clicker/bot/features/info"
	"clicker/bot/features/leaderboard"
	"clicker/bot/features/play"
	"clicker/bot/features/profile"
	syncfeature "clicker/bot/features/sync"
	"clicker/events"
	"clicker/service"

	"github.com/bwmarrin/discordgo"
)

// Config holds bot configuration
type Config struct {
	Token              string
	LogChannelID       string
	SessionTimeout     time.Duration
	LeaderboardTimeout time.Duration
	StartTime          time.Time
}

type Bot struct {
	config   Config
	session  *discordgo.Session
	eventBus *events.Bus
	cancel   context.CancelFunc

	play        *play.Feature
	leaderboard *leaderboard.Feature
	profile     *profile.Feature
	sync        *syncfeature.Feature
	info        *info.Feature
}

func New(ctx context.Context, config Config, userService service.UserService, leaderboardService service.LeaderboardService, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsGuildMembers

	// Session and view loops stop when this context is cancelled
	loopCtx, cancel := context.WithCancel(ctx)

	bot := &Bot{
		config:      config,
		session:     dg,
		eventBus:    eventBus,
		cancel:      cancel,
		play:        play.New(loopCtx, userService, eventBus, config.SessionTimeout),
		leaderboard: leaderboard.New(loopCtx, leaderboardService, config.LeaderboardTimeout),
		profile:     profile.New(userService),
		sync:        syncfeature.New(userService),
		info:        info.New(config.StartTime),
	}

	dg.AddHandler(bot.handleReady)
	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleComponents)
	dg.AddHandler(bot.handleGuildCreate)
	dg.AddHandler(bot.handleGuildDelete)

	// Log-channel notifications for noteworthy events
	if config.LogChannelID != "" {
		eventBus.Subscribe(events.EventTypeUserCreated, bot.notifyUserCreated)
	}

	// Open websocket connection
	if err := dg.Open(); err != nil {
		cancel()
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		cancel()
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	return bot, nil
}

func (b *Bot) Close() error {
	b.cancel()
	return b.session.Close()
}

func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Infof("Connected as %s#%s on %d guilds", r.User.Username, r.User.Discriminator, len(r.Guilds))

	if err := s.UpdateGameStatus(0, "/play to get started"); err != nil {
		log.Errorf("Failed to set presence: %v", err)
	}
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "play":
		b.play.HandleCommand(s, i)
	case "profile":
		b.profile.HandleCommand(s, i)
	case "leaderboard":
		b.leaderboard.HandleCommand(s, i)
	case "sync":
		b.sync.HandleCommand(s, i)
	case "ping":
		b.info.HandlePing(s, i)
	case "info":
		b.info.HandleInfo(s, i)
	}
}

// handleComponents routes button presses to whichever session or view owns
// the message they were clicked on
func (b *Bot) handleComponents(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	if b.play.HandleComponent(s, i) {
		return
	}
	if b.leaderboard.HandleComponent(s, i) {
		return
	}

	// Component on a message we no longer track (e.g. after a restart);
	// acknowledge so the user doesn't see an error
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		log.Errorf("Error acknowledging orphaned component: %v", err)
	}
}

func (b *Bot) notifyUserCreated(ctx context.Context, event events.Event) {
	created, ok := event.(events.UserCreatedEvent)
	if !ok {
		return
	}

	_, err := b.session.ChannelMessageSend(b.config.LogChannelID,
		fmt.Sprintf("🆕 New player: **%s** (`%s`)", created.Username, created.UserID))
	if err != nil {
		log.Errorf("Failed to send new-player notification: %v", err)
	}
}
