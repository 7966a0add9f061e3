package session

import (
	"context"
	"sync"
	"time"

	"clicker/events"

	log "github.com/sirupsen/logrus"
)

// State is the play-session lifecycle. Transitions only move forward:
// Active -> Terminating -> Closed.
type State int

const (
	StateActive State = iota
	StateTerminating
	StateClosed
)

// ScoreIncrementer is the slice of the user service a session needs. The
// returned value is always the store's post-increment counter.
type ScoreIncrementer interface {
	IncrementCounter(ctx context.Context, userID string) (int64, error)
}

// Renderer turns session state into platform messages. Implementations live
// at the Discord boundary; failures come back as errors, never panics.
type Renderer interface {
	// Render updates the session message with the current counter
	Render(counter int64) error

	// RenderFailure replaces the session message with an error notice
	RenderFailure(message string) error

	// Delete removes the session message
	Delete() error
}

// EventPublisher publishes session lifecycle events
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event)
}

// Session is one user's interactive play loop, tied to a single rendered
// message. Only the owner can drive it; everyone else's clicks are
// acknowledged and dropped.
type Session struct {
	ownerID string
	timeout time.Duration

	scores    ScoreIncrementer
	renderer  Renderer
	publisher EventPublisher

	eventCh chan Event
	done    chan struct{}

	mu             sync.Mutex
	state          State
	counter        int64 // render snapshot; only ever assigned from store returns
	startedAt      time.Time
	lastActivityAt time.Time
	timedOut       bool
}

// New creates a session in the Active state. counter is the owner's current
// score at session start, used for the initial render only.
func New(ownerID string, counter int64, timeout time.Duration, scores ScoreIncrementer, renderer Renderer, publisher EventPublisher) *Session {
	now := time.Now()
	return &Session{
		ownerID:        ownerID,
		timeout:        timeout,
		scores:         scores,
		renderer:       renderer,
		publisher:      publisher,
		eventCh:        make(chan Event, 8),
		done:           make(chan struct{}),
		state:          StateActive,
		counter:        counter,
		startedAt:      now,
		lastActivityAt: now,
	}
}

// OwnerID returns the only identity permitted to drive this session
func (s *Session) OwnerID() string {
	return s.ownerID
}

// State returns the current lifecycle state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Counter returns the last rendered counter snapshot
func (s *Session) Counter() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counter
}

// Done is closed once the session reaches Closed
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Deliver hands an interaction event to the session loop. It reports false
// when the session is no longer accepting events.
func (s *Session) Deliver(ev Event) bool {
	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.eventCh <- ev:
		return true
	case <-s.done:
		return false
	}
}

// Run drives the session until it closes. One event is handled to completion,
// including its render, before the next is accepted; there is no shared state
// with other users' sessions.
func (s *Session) Run(ctx context.Context) {
	log.WithField("userID", s.ownerID).Info("Play session started")

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			// Process shutdown: close without touching the message
			s.close(ctx, false)
			return

		case <-timer.C:
			s.terminate(ctx, true)
			return

		case ev := <-s.eventCh:
			if ev.ActorID != s.ownerID {
				// Deliberate no-op: acknowledge so the other user doesn't
				// see an interaction error, change nothing
				ev.acknowledge()
				continue
			}

			if ev.Action != ActionIncrement {
				ev.acknowledge()
				s.terminate(ctx, false)
				return
			}

			if !s.handleIncrement(ctx, ev) {
				return
			}

			// Accepted owner activity resets the inactivity window
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(s.timeout)
		}
	}
}

// handleIncrement applies one click. It reports false when the session ended
// because of a store failure.
func (s *Session) handleIncrement(ctx context.Context, ev Event) bool {
	counter, err := s.scores.IncrementCounter(ctx, s.ownerID)
	if err != nil {
		log.Errorf("Store failure during session for %s: %v", s.ownerID, err)
		// Best effort: tell the owner before tearing down. No retry loop.
		if renderErr := s.renderer.RenderFailure("Something went wrong, your session has ended."); renderErr != nil {
			log.Errorf("Failed to render session failure for %s: %v", s.ownerID, renderErr)
		}
		s.close(ctx, false)
		return false
	}

	s.mu.Lock()
	s.counter = counter
	s.lastActivityAt = time.Now()
	s.mu.Unlock()

	if err := s.renderer.Render(counter); err != nil {
		log.Errorf("Failed to render session for %s: %v", s.ownerID, err)
	}
	ev.acknowledge()

	return true
}

// terminate deletes the session message and closes the session. A delete
// failure is logged and does not keep the session from closing.
func (s *Session) terminate(ctx context.Context, timedOut bool) {
	s.mu.Lock()
	if s.state != StateActive {
		s.mu.Unlock()
		return
	}
	s.state = StateTerminating
	s.mu.Unlock()

	if err := s.renderer.Delete(); err != nil {
		log.Errorf("Failed to delete session message for %s: %v", s.ownerID, err)
	}

	s.close(ctx, timedOut)
}

func (s *Session) close(ctx context.Context, timedOut bool) {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	s.state = StateClosed
	s.timedOut = timedOut
	counter := s.counter
	startedAt := s.startedAt
	s.mu.Unlock()

	close(s.done)

	log.WithFields(log.Fields{
		"userID":   s.ownerID,
		"score":    counter,
		"duration": time.Since(startedAt),
		"timedOut": timedOut,
	}).Info("Play session closed")

	if s.publisher != nil {
		s.publisher.Publish(ctx, events.SessionClosedEvent{
			UserID:     s.ownerID,
			FinalScore: counter,
			TimedOut:   timedOut,
		})
	}
}
