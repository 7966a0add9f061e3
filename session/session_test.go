package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"clicker/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeScoreStore mimics the store's atomic increment contract: every call
// returns a unique post-increment value regardless of caller interleaving.
type fakeScoreStore struct {
	counter int64
	failErr error
}

func (f *fakeScoreStore) IncrementCounter(ctx context.Context, userID string) (int64, error) {
	if f.failErr != nil {
		return 0, f.failErr
	}
	return atomic.AddInt64(&f.counter, 1), nil
}

type fakeRenderer struct {
	mu          sync.Mutex
	rendered    []int64
	failures    []string
	deleteCalls int
}

func (f *fakeRenderer) Render(counter int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rendered = append(f.rendered, counter)
	return nil
}

func (f *fakeRenderer) RenderFailure(message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = append(f.failures, message)
	return nil
}

func (f *fakeRenderer) Delete() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	return nil
}

func (f *fakeRenderer) deleted() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deleteCalls
}

func (f *fakeRenderer) renderedCounters() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int64, len(f.rendered))
	copy(out, f.rendered)
	return out
}

type capturingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturingPublisher) Publish(ctx context.Context, event events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *capturingPublisher) captured() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Event, len(p.events))
	copy(out, p.events)
	return out
}

func waitClosed(t *testing.T, s *Session) {
	t.Helper()
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not close in time")
	}
}

func TestSessionIncrementsFromStoreReturns(t *testing.T) {
	store := &fakeScoreStore{counter: 10}
	renderer := &fakeRenderer{}
	sess := New("owner", 10, time.Second, store, renderer, nil)

	go sess.Run(context.Background())

	for i := 0; i < 5; i++ {
		ok := sess.Deliver(Event{Action: ActionIncrement, ActorID: "owner"})
		require.True(t, ok)
	}
	ok := sess.Deliver(Event{Action: ActionStop, ActorID: "owner"})
	require.True(t, ok)

	waitClosed(t, sess)

	assert.Equal(t, int64(15), sess.Counter())
	assert.Equal(t, []int64{11, 12, 13, 14, 15}, renderer.renderedCounters())
	assert.Equal(t, StateClosed, sess.State())
}

func TestSessionIgnoresNonOwnerEvents(t *testing.T) {
	store := &fakeScoreStore{}
	renderer := &fakeRenderer{}
	sess := New("owner", 0, time.Second, store, renderer, nil)

	go sess.Run(context.Background())

	acked := make(chan struct{}, 1)
	ok := sess.Deliver(Event{
		Action:  ActionIncrement,
		ActorID: "intruder",
		Ack: func() error {
			acked <- struct{}{}
			return nil
		},
	})
	require.True(t, ok)

	select {
	case <-acked:
	case <-time.After(time.Second):
		t.Fatal("non-owner event was not acknowledged")
	}

	// A stop from a non-owner must not end the session either
	ok = sess.Deliver(Event{Action: ActionStop, ActorID: "intruder"})
	require.True(t, ok)

	assert.Equal(t, StateActive, sess.State())
	assert.Equal(t, int64(0), sess.Counter())
	assert.Empty(t, renderer.renderedCounters())

	sess.Deliver(Event{Action: ActionStop, ActorID: "owner"})
	waitClosed(t, sess)
}

func TestSessionStopDeletesMessageOnce(t *testing.T) {
	store := &fakeScoreStore{}
	renderer := &fakeRenderer{}
	publisher := &capturingPublisher{}
	sess := New("owner", 0, time.Second, store, renderer, publisher)

	go sess.Run(context.Background())

	require.True(t, sess.Deliver(Event{Action: ActionStop, ActorID: "owner"}))
	waitClosed(t, sess)

	assert.Equal(t, 1, renderer.deleted())

	captured := publisher.captured()
	require.Len(t, captured, 1)
	closed, ok := captured[0].(events.SessionClosedEvent)
	require.True(t, ok)
	assert.Equal(t, "owner", closed.UserID)
	assert.False(t, closed.TimedOut)
}

func TestSessionTimesOutAfterInactivity(t *testing.T) {
	store := &fakeScoreStore{counter: 3}
	renderer := &fakeRenderer{}
	publisher := &capturingPublisher{}
	sess := New("owner", 3, 50*time.Millisecond, store, renderer, publisher)

	go sess.Run(context.Background())

	waitClosed(t, sess)

	assert.Equal(t, StateClosed, sess.State())
	assert.Equal(t, 1, renderer.deleted())

	captured := publisher.captured()
	require.Len(t, captured, 1)
	closed := captured[0].(events.SessionClosedEvent)
	assert.True(t, closed.TimedOut)
	assert.Equal(t, int64(3), closed.FinalScore)
}

func TestSessionActivityResetsTimeout(t *testing.T) {
	store := &fakeScoreStore{}
	renderer := &fakeRenderer{}
	sess := New("owner", 0, 150*time.Millisecond, store, renderer, nil)

	go sess.Run(context.Background())

	// Keep clicking at well under the timeout interval
	for i := 0; i < 4; i++ {
		time.Sleep(60 * time.Millisecond)
		require.True(t, sess.Deliver(Event{Action: ActionIncrement, ActorID: "owner"}))
	}
	assert.Equal(t, StateActive, sess.State())

	waitClosed(t, sess)
	assert.Equal(t, int64(4), sess.Counter())
}

func TestSessionStoreFailureEndsSession(t *testing.T) {
	store := &fakeScoreStore{failErr: errors.New("connection reset")}
	renderer := &fakeRenderer{}
	sess := New("owner", 0, time.Second, store, renderer, nil)

	go sess.Run(context.Background())

	require.True(t, sess.Deliver(Event{Action: ActionIncrement, ActorID: "owner"}))
	waitClosed(t, sess)

	renderer.mu.Lock()
	failures := len(renderer.failures)
	renderer.mu.Unlock()

	assert.Equal(t, 1, failures)
	// The message is replaced with the failure notice, never deleted
	assert.Equal(t, 0, renderer.deleted())
	assert.Equal(t, int64(0), sess.Counter())
}

func TestSessionContextCancelClosesWithoutDelete(t *testing.T) {
	store := &fakeScoreStore{}
	renderer := &fakeRenderer{}
	sess := New("owner", 0, time.Minute, store, renderer, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go sess.Run(ctx)

	cancel()
	waitClosed(t, sess)

	// Shutdown leaves the message alone so users aren't surprised mid-restart
	assert.Equal(t, 0, renderer.deleted())
	assert.Equal(t, StateClosed, sess.State())
}

func TestSessionDeliverAfterCloseReportsFalse(t *testing.T) {
	store := &fakeScoreStore{}
	renderer := &fakeRenderer{}
	sess := New("owner", 0, time.Second, store, renderer, nil)

	go sess.Run(context.Background())

	require.True(t, sess.Deliver(Event{Action: ActionStop, ActorID: "owner"}))
	waitClosed(t, sess)

	assert.False(t, sess.Deliver(Event{Action: ActionIncrement, ActorID: "owner"}))
}

func TestConcurrentSessionsShareOneStore(t *testing.T) {
	store := &fakeScoreStore{}
	rendererA := &fakeRenderer{}
	rendererB := &fakeRenderer{}

	// Two messages, same owner: each loop is serial but the store arbitrates
	sessA := New("owner", 0, time.Second, store, rendererA, nil)
	sessB := New("owner", 0, time.Second, store, rendererB, nil)

	go sessA.Run(context.Background())
	go sessB.Run(context.Background())

	var wg sync.WaitGroup
	for _, sess := range []*Session{sessA, sessB} {
		wg.Add(1)
		go func(s *Session) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				assert.True(t, s.Deliver(Event{Action: ActionIncrement, ActorID: "owner"}))
			}
			assert.True(t, s.Deliver(Event{Action: ActionStop, ActorID: "owner"}))
		}(sess)
	}
	wg.Wait()

	waitClosed(t, sessA)
	waitClosed(t, sessB)

	// No increment is ever lost, whatever the interleaving
	assert.Equal(t, int64(20), atomic.LoadInt64(&store.counter))
	assert.Equal(t, int64(20), max64(sessA.Counter(), sessB.Counter()))
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func TestParseAction(t *testing.T) {
	assert.Equal(t, ActionIncrement, ParseAction("click"))
	assert.Equal(t, ActionStop, ParseAction("delete"))
	assert.Equal(t, ActionSortAscending, ParseAction("asc"))
	assert.Equal(t, ActionSortDescending, ParseAction("desc"))
	assert.Equal(t, ActionUnknown, ParseAction("garbage"))
	assert.Equal(t, ActionUnknown, ParseAction(""))
}
