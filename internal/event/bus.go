package event

import "sync"

// Topic names a kind of event
type Topic string

const (
	KeywordSubmitted Topic = "keyword-submitted"
	DataLoaded       Topic = "data-loaded"
	VideoSaved       Topic = "video-saved"
	VideoRemoved     Topic = "video-removed"
	WatchedToggled   Topic = "watched-toggled"
	LibraryCleared   Topic = "library-cleared"
)

// Event carries whatever fields its topic uses.
type Event struct {
	Topic   Topic
	VideoID string // VideoSaved, VideoRemoved, WatchedToggled
	Query   string // KeywordSubmitted, DataLoaded
	Watched bool   // WatchedToggled
	Count   int    // DataLoaded: items in the page; saved-list topics: saved count
}

// Handler receives published events
type Handler func(Event)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus delivers events synchronously to subscribers in subscription order.
// A nil *Bus drops everything, so components can be built without one.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[Topic][]subscription
}

func NewBus() *Bus {
	return &Bus{subs: make(map[Topic][]subscription)}
}

// Subscribe registers h for topic and returns a function that removes it
func (b *Bus) Subscribe(topic Topic, h Handler) (unsubscribe func()) {
	if b == nil {
		return func() {}
	}

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, handler: h})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(topic, id) })
	}
}

// SubscribeAll registers h for every topic in topics
func (b *Bus) SubscribeAll(h Handler, topics ...Topic) (unsubscribe func()) {
	unsubs := make([]func(), 0, len(topics))
	for _, t := range topics {
		unsubs = append(unsubs, b.Subscribe(t, h))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

func (b *Bus) remove(topic Topic, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[topic]
	for i, s := range subs {
		if s.id == id {
			// copy so in-flight Publish calls keep their snapshot intact
			next := make([]subscription, 0, len(subs)-1)
			next = append(next, subs[:i]...)
			b.subs[topic] = append(next, subs[i+1:]...)
			return
		}
	}
}

// Publish calls every handler subscribed to e.Topic. Handlers run on the
// caller's goroutine and may publish or subscribe themselves.
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}

	b.mu.RLock()
	subs := b.subs[e.Topic]
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(e)
	}
}
