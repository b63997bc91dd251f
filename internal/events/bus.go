// Package events provides the publish-subscribe bus carrying board state
// snapshots to SSE clients.
package events

import (
	"sync"

	"github.com/farleyman/newsboard-go/internal/models"
)

const subBufferSize = 8

// EventType labels what changed since the previous snapshot.
type EventType string

const (
	EventState    EventType = "state"    // full snapshot, sent on subscribe
	EventTiles    EventType = "tiles"    // tile set, order, or playback change
	EventAudio    EventType = "audio"    // audio ownership or volume change
	EventLayout   EventType = "layout"   // grid geometry change
	EventFeeds    EventType = "feeds"    // feed list change
	EventSettings EventType = "settings" // settings change
)

// Event pairs a change label with the full board state after the change.
// Clients always receive a complete snapshot so a dropped event never
// leaves them stale forever.
type Event struct {
	Type  EventType    `json:"type"`
	State models.State `json:"state"`
}

// Bus is a non-blocking publish-subscribe bus. Slow subscribers have
// events dropped rather than blocking the board.
type Bus struct {
	mu   sync.Mutex
	subs map[string]chan Event
	last *models.State
}

// NewBus creates an event bus with no subscribers.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[string]chan Event),
	}
}

// Subscribe registers a subscriber under id. If a state has already been
// published the subscriber immediately receives it as an EventState, so
// late SSE clients render without waiting for the next change.
// Call Unsubscribe when done.
func (b *Bus) Subscribe(id string) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan Event, subBufferSize)
	b.subs[id] = ch
	if b.last != nil {
		ch <- Event{Type: EventState, State: *b.last}
	}
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish fans an event out to every subscriber without blocking.
func (b *Bus) Publish(t EventType, state models.State) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.last = &state
	ev := Event{Type: t, State: state}
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// Drop if subscriber is slow
		}
	}
}

// SubscriberCount returns the current number of subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
