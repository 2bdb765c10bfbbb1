package adapter

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/MKhiriev/go-church-sync/internal/logger"
	"github.com/MKhiriev/go-church-sync/models"
)

var _ RemoteClient = (*MemoryRemote)(nil)

// MemoryRemote is an in-process [RemoteClient]. Pushes are stored and fanned
// out to subscribers of the same process. Connectivity is controlled with
// SetConnected and follows the same session rules as [Remote]: subscriptions
// made while disconnected bind on connect, live ones are dropped on
// disconnect.
type MemoryRemote struct {
	logger *logger.Logger

	mu        sync.Mutex
	connected bool
	pushErr   error
	pushes    int
	data      map[string]models.Snapshot
	subs      map[int]*memorySubscription
	watchers  map[int]func(bool)
	nextID    int
}

type memorySubscription struct {
	collection string
	onSnapshot func(models.Snapshot)
	onError    func(error)
	live       bool
}

// NewMemoryRemote returns a disconnected in-process remote.
func NewMemoryRemote(log *logger.Logger) *MemoryRemote {
	return &MemoryRemote{
		logger:   log.Component("memory-remote"),
		data:     make(map[string]models.Snapshot),
		subs:     make(map[int]*memorySubscription),
		watchers: make(map[int]func(bool)),
	}
}

// SetConnected toggles reachability and notifies connectivity watchers.
func (m *MemoryRemote) SetConnected(connected bool) {
	m.mu.Lock()
	if m.connected == connected {
		m.mu.Unlock()
		return
	}
	m.connected = connected

	var deliveries []func()
	for id, sub := range m.subs {
		switch {
		case connected && !sub.live:
			sub.live = true
			if snapshot, ok := m.data[sub.collection]; ok {
				deliveries = append(deliveries, deliver(sub.onSnapshot, snapshot))
			}
		case !connected && sub.live:
			delete(m.subs, id)
		}
	}
	watchers := slices.Collect(maps.Values(m.watchers))
	m.mu.Unlock()

	m.logger.Info().Bool("connected", connected).Msg("memory remote connectivity changed")

	for _, w := range watchers {
		w(connected)
	}
	for _, d := range deliveries {
		d()
	}
}

// SetPushError makes every following push fail until it is reset with nil.
func (m *MemoryRemote) SetPushError(err error) {
	m.mu.Lock()
	m.pushErr = err
	m.mu.Unlock()
}

// Set writes snapshot as another device would: it is stored and delivered to
// live subscribers whatever the local connectivity.
func (m *MemoryRemote) Set(collection string, snapshot models.Snapshot) {
	m.mu.Lock()
	m.data[collection] = snapshot.Clone()
	deliveries := m.liveDeliveriesLocked(collection, snapshot)
	m.mu.Unlock()

	for _, d := range deliveries {
		d()
	}
}

// Snapshot returns the stored value of collection.
func (m *MemoryRemote) Snapshot(collection string) (models.Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot, ok := m.data[collection]
	return snapshot.Clone(), ok
}

// Pushes returns the number of acknowledged pushes.
func (m *MemoryRemote) Pushes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pushes
}

// FailSubscriptions passes err to the error callback of every live
// subscription.
func (m *MemoryRemote) FailSubscriptions(err error) {
	m.mu.Lock()
	var callbacks []func(error)
	for _, sub := range m.subs {
		if sub.live && sub.onError != nil {
			callbacks = append(callbacks, sub.onError)
		}
	}
	m.mu.Unlock()

	for _, cb := range callbacks {
		cb(err)
	}
}

// Push implements [RemoteClient].
func (m *MemoryRemote) Push(_ context.Context, collection string, snapshot models.Snapshot) bool {
	m.mu.Lock()
	if !m.connected {
		m.mu.Unlock()
		return false
	}
	if m.pushErr != nil {
		err := m.pushErr
		m.mu.Unlock()
		logRemoteError(m.logger, err, "push rejected")
		return false
	}

	m.pushes++
	m.data[collection] = snapshot.Clone()
	deliveries := m.liveDeliveriesLocked(collection, snapshot)
	m.mu.Unlock()

	for _, d := range deliveries {
		d()
	}
	return true
}

// Subscribe implements [RemoteClient].
func (m *MemoryRemote) Subscribe(collection string, onSnapshot func(models.Snapshot), onError func(error)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	sub := &memorySubscription{
		collection: collection,
		onSnapshot: onSnapshot,
		onError:    onError,
		live:       m.connected,
	}
	m.subs[id] = sub

	var initial func()
	if snapshot, ok := m.data[collection]; ok && sub.live {
		initial = deliver(onSnapshot, snapshot)
	}
	m.mu.Unlock()

	if initial != nil {
		initial()
	}

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// WatchConnectivity implements [RemoteClient].
func (m *MemoryRemote) WatchConnectivity(onChange func(bool)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.watchers[id] = onChange
	connected := m.connected
	m.mu.Unlock()

	onChange(connected)

	return func() {
		m.mu.Lock()
		delete(m.watchers, id)
		m.mu.Unlock()
	}
}

func (m *MemoryRemote) liveDeliveriesLocked(collection string, snapshot models.Snapshot) []func() {
	var deliveries []func()
	for _, sub := range m.subs {
		if sub.live && sub.collection == collection {
			deliveries = append(deliveries, deliver(sub.onSnapshot, snapshot))
		}
	}
	return deliveries
}

func deliver(fn func(models.Snapshot), snapshot models.Snapshot) func() {
	snapshot = snapshot.Clone()
	return func() {
		if fn != nil {
			fn(snapshot)
		}
	}
}
