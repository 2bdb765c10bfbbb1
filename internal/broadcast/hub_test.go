package broadcast

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-church-sync/internal/config"
	"github.com/MKhiriev/go-church-sync/internal/logger"
)

type recorder struct {
	mu     sync.Mutex
	topics []string
}

func (r *recorder) handle(topic string) {
	r.mu.Lock()
	r.topics = append(r.topics, topic)
	r.mu.Unlock()
}

func (r *recorder) got() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.topics...)
}

func TestHub_DeliversToSiblingsOnly(t *testing.T) {
	hub := NewHub(logger.Nop())
	a := hub.Open("ieadban_global_sync")
	b := hub.Open("ieadban_global_sync")
	c := hub.Open("ieadban_global_sync")
	other := hub.Open("elsewhere")

	var ra, rb, rc, rother recorder
	a.OnAnnounce(ra.handle)
	b.OnAnnounce(rb.handle)
	c.OnAnnounce(rc.handle)
	other.OnAnnounce(rother.handle)

	a.Announce("members")

	assert.Empty(t, ra.got(), "own announcements are not delivered back")
	assert.Equal(t, []string{"members"}, rb.got())
	assert.Equal(t, []string{"members"}, rc.got())
	assert.Empty(t, rother.got())
}

func TestHub_UnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub(logger.Nop())
	a := hub.Open("x")
	b := hub.Open("x")

	var rb recorder
	unsubscribe := b.OnAnnounce(rb.handle)

	a.Announce("events")
	unsubscribe()
	a.Announce("media")

	assert.Equal(t, []string{"events"}, rb.got())
}

func TestHub_CloseStopsDeliveryAndSending(t *testing.T) {
	hub := NewHub(logger.Nop())
	a := hub.Open("x")
	b := hub.Open("x")

	var ra, rb recorder
	a.OnAnnounce(ra.handle)
	b.OnAnnounce(rb.handle)

	require.NoError(t, b.Close())
	require.NoError(t, b.Close())

	a.Announce("events")
	b.Announce("media")

	assert.Empty(t, rb.got())
	assert.Empty(t, ra.got())

	// registering after close is a no-op
	b.OnAnnounce(rb.handle)()
}

func TestNop(t *testing.T) {
	ch := Nop()
	ch.Announce("members")
	ch.OnAnnounce(func(string) { t.Fatal("nop must never deliver") })()
	assert.NoError(t, ch.Close())
}

func TestNew_SelectsByMode(t *testing.T) {
	assert.IsType(t, nopChannel{}, New(config.ClientBroadcast{Mode: config.BroadcastOff}, logger.Nop()))

	a := New(config.ClientBroadcast{Mode: config.BroadcastHub, Channel: "factory"}, logger.Nop())
	b := New(config.ClientBroadcast{Mode: config.BroadcastHub, Channel: "factory"}, logger.Nop())
	defer a.Close()
	defer b.Close()

	var rb recorder
	b.OnAnnounce(rb.handle)
	a.Announce("*")
	assert.Equal(t, []string{"*"}, rb.got())
}
