package leaderboard

import (
	"context"
	"sync"
	"time"

	"clicker/bot/common"
	"clicker/models"
	"clicker/service"
	"clicker/session"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature owns the /leaderboard command and its sort-toggleable views
type Feature struct {
	leaderboardService service.LeaderboardService
	timeout            time.Duration

	// Root context for view loops, cancelled on shutdown
	ctx context.Context

	mu    sync.RWMutex
	views map[string]*view // keyed by leaderboard message ID
}

// view is one rendered leaderboard message with its toggle loop
type view struct {
	viewerID  string
	channelID string
	messageID string
	events    chan session.Event
	done      chan struct{}
}

func New(ctx context.Context, leaderboardService service.LeaderboardService, timeout time.Duration) *Feature {
	return &Feature{
		leaderboardService: leaderboardService,
		timeout:            timeout,
		ctx:                ctx,
		views:              make(map[string]*view),
	}
}

// HandleCommand renders the leaderboard, descending by default, and starts a
// loop listening for sort toggles
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	user := common.InteractionUser(i)

	lb, err := f.leaderboardService.RenderTop(ctx, user.ID, models.SortDescending)
	if err != nil {
		log.Errorf("Error building leaderboard for %s: %v", user.ID, err)
		common.RespondWithError(s, i, "Unable to retrieve the leaderboard. Please try again.")
		return
	}

	embed := leaderboardEmbed(lb)
	if err := common.RespondWithEmbed(s, i, embed, toggleButtons(), false); err != nil {
		log.Errorf("Error responding to leaderboard command: %v", err)
		return
	}

	msg, err := s.InteractionResponse(i.Interaction)
	if err != nil {
		log.Errorf("Error fetching leaderboard message: %v", err)
		return
	}

	v := &view{
		viewerID:  user.ID,
		channelID: msg.ChannelID,
		messageID: msg.ID,
		events:    make(chan session.Event, 8),
		done:      make(chan struct{}),
	}

	f.mu.Lock()
	f.views[msg.ID] = v
	f.mu.Unlock()

	go f.run(s, v)
}

// HandleComponent routes a toggle press to the view that owns the message.
// It reports false when no leaderboard view is tied to the message.
func (f *Feature) HandleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if i.Message == nil {
		return false
	}

	f.mu.RLock()
	v := f.views[i.Message.ID]
	f.mu.RUnlock()

	if v == nil {
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

	select {
	case v.events <- ev:
	case <-v.done:
		_ = common.AcknowledgeComponent(s, i)
	}

	return true
}

// run drives one leaderboard view until it expires. Every toggle re-runs the
// full two-query computation; there is no incremental update. Unlike play
// sessions, any user may toggle the sort, but the footer rank always belongs
// to the original invoker.
func (f *Feature) run(s *discordgo.Session, v *view) {
	defer func() {
		close(v.done)
		f.mu.Lock()
		delete(f.views, v.messageID)
		f.mu.Unlock()
	}()

	timer := time.NewTimer(f.timeout)
	defer timer.Stop()

	for {
		select {
		case <-f.ctx.Done():
			return

		case <-timer.C:
			// Expired views keep their message but stop responding
			f.expire(s, v)
			return

		case ev := <-v.events:
			var direction models.SortDirection
			switch ev.Action {
			case session.ActionSortAscending:
				direction = models.SortAscending
			case session.ActionSortDescending:
				direction = models.SortDescending
			default:
				if ev.Ack != nil {
					_ = ev.Ack()
				}
				continue
			}

			lb, err := f.leaderboardService.RenderTop(context.Background(), v.viewerID, direction)
			if err != nil {
				log.Errorf("Error re-rendering leaderboard %s: %v", v.messageID, err)
				return
			}

			embed := leaderboardEmbed(lb)
			if _, err := s.ChannelMessageEditEmbed(v.channelID, v.messageID, embed); err != nil {
				log.Errorf("Error editing leaderboard message %s: %v", v.messageID, err)
			}

			if ev.Ack != nil {
				_ = ev.Ack()
			}

			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(f.timeout)
		}
	}
}

// expire disables the toggle buttons so stale clicks don't look broken
func (f *Feature) expire(s *discordgo.Session, v *view) {
	components := common.DisableComponents(toggleButtons())
	_, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    v.channelID,
		ID:         v.messageID,
		Components: &components,
	})
	if err != nil {
		log.Errorf("Error disabling leaderboard buttons %s: %v", v.messageID, err)
	}
}
