package http

import (
	"sync"

	"github.com/vovakirdan/chirper-server/internal/event"
)

// Hint is a payload-free refresh trigger pushed to connected pages.
// Receivers re-fetch the feed; they never apply the hint directly.
type Hint struct {
	Event   string `json:"event"`
	ChirpID int64  `json:"chirp_id,omitempty"`
}

// Notifier fans bus events out to websocket subscribers. Each subscriber
// gets a small buffered channel; hints to a full channel are dropped, since
// the next poll tick re-fetches the feed anyway.
type Notifier struct {
	mu   sync.Mutex
	subs map[chan Hint]struct{}
}

// NewNotifier creates a Notifier subscribed to all feed topics.
func NewNotifier(bus *event.Bus) *Notifier {
	n := &Notifier{
		subs: make(map[chan Hint]struct{}),
	}

	for _, topic := range []string{
		event.ChirpCreated,
		event.ChirpUpdated,
		event.ChirpDeleted,
	} {
		topic := topic
		bus.Subscribe(topic, func(chirpID int64) {
			n.broadcast(Hint{Event: topic, ChirpID: chirpID})
		})
	}

	return n
}

// Subscribe registers a new hint channel.
func (n *Notifier) Subscribe() chan Hint {
	ch := make(chan Hint, 8)
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subs[ch] = struct{}{}
	return ch
}

// Unsubscribe removes the channel. Pending hints are discarded.
func (n *Notifier) Unsubscribe(ch chan Hint) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.subs, ch)
}

func (n *Notifier) broadcast(h Hint) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.subs {
		select {
		case ch <- h:
		default:
		}
	}
}
