package simulation

import "sync"

// Hub broadcasts events to subscribers. Slow subscribers miss events
// rather than stalling a run.
type Hub struct {
	mu     sync.Mutex
	next   int
	subs   map[int]chan Event
	buffer int
}

// NewHub creates a hub whose subscriber channels hold buffer events
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 64
	}
	return &Hub{subs: map[int]chan Event{}, buffer: buffer}
}

// Subscribe registers a new subscriber. The returned cancel func closes the channel.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++
	ch := make(chan Event, h.buffer)
	h.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

func (h *Hub) Notify(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
