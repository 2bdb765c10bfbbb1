package broadcast

import (
	"sync"

	"github.com/MKhiriev/go-church-sync/internal/logger"
)

// Hub connects channels living in one process. Channels opened with the same
// name on one Hub see each other's announcements.
type Hub struct {
	mu       sync.Mutex
	channels map[string]map[*hubChannel]struct{}
	logger   *logger.Logger
}

// NewHub returns an empty in-process hub.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		channels: make(map[string]map[*hubChannel]struct{}),
		logger:   log.Component("broadcast"),
	}
}

// Open returns a new endpoint on the named channel.
func (h *Hub) Open(name string) Channel {
	ch := &hubChannel{
		hub:       h,
		name:      name,
		origin:    newOrigin(),
		listeners: newListeners(),
	}

	h.mu.Lock()
	if h.channels[name] == nil {
		h.channels[name] = make(map[*hubChannel]struct{})
	}
	h.channels[name][ch] = struct{}{}
	h.mu.Unlock()

	return ch
}

func (h *Hub) publish(from *hubChannel, topic string) {
	h.mu.Lock()
	peers := make([]*hubChannel, 0, len(h.channels[from.name]))
	for ch := range h.channels[from.name] {
		if ch != from {
			peers = append(peers, ch)
		}
	}
	h.mu.Unlock()

	h.logger.Debug().
		Str("channel", from.name).
		Str("origin", from.origin).
		Str("topic", topic).
		Int("peers", len(peers)).
		Msg("announce")

	for _, ch := range peers {
		ch.listeners.deliver(topic)
	}
}

func (h *Hub) remove(ch *hubChannel) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.channels[ch.name], ch)
	if len(h.channels[ch.name]) == 0 {
		delete(h.channels, ch.name)
	}
}

type hubChannel struct {
	hub       *Hub
	name      string
	origin    string
	listeners *listeners
}

func (c *hubChannel) Announce(topic string) {
	if c.listeners.isClosed() {
		return
	}
	c.hub.publish(c, topic)
}

func (c *hubChannel) OnAnnounce(handler func(topic string)) func() {
	return c.listeners.add(handler)
}

func (c *hubChannel) Close() error {
	if c.listeners.close() {
		c.hub.remove(c)
	}
	return nil
}
