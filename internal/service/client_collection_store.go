// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/MKhiriev/go-church-sync/internal/adapter"
	"github.com/MKhiriev/go-church-sync/internal/broadcast"
	"github.com/MKhiriev/go-church-sync/internal/connection"
	"github.com/MKhiriev/go-church-sync/internal/logger"
	"github.com/MKhiriev/go-church-sync/internal/store"
	"github.com/MKhiriev/go-church-sync/internal/validators"
	"github.com/MKhiriev/go-church-sync/models"
)

type collectionStore struct {
	cache   store.LocalCache
	remote  adapter.RemoteClient
	machine *connection.Machine
	channel broadcast.Channel

	validator validators.Validator
	logger    *logger.Logger

	// applyMu serializes every memory write together with its cache write so
	// the two never disagree on the last value.
	applyMu sync.Mutex

	mu          sync.RWMutex
	memory      map[string]models.Snapshot
	watchers    map[int]func(string)
	nextWatcher int
	remoteSubs  map[string]func()
	started     bool
	closed      bool

	// pushes holds one slot per collection with a push in flight.
	pushes       map[string]*pushSlot
	inflight     int
	flushWaiters []chan struct{}

	stopConnectivity func()
	stopBroadcast    func()
}

// pushSlot tracks the snapshot in flight for one collection and parks the
// latest one replaced meanwhile.
type pushSlot struct {
	sent       models.Snapshot
	pending    models.Snapshot
	hasPending bool
}

// NewCollectionStore wires the store to its collaborators. Nothing is read
// or subscribed until Start.
func NewCollectionStore(
	cache store.LocalCache,
	remote adapter.RemoteClient,
	machine *connection.Machine,
	channel broadcast.Channel,
	log *logger.Logger,
) CollectionStore {
	memory := make(map[string]models.Snapshot, len(models.Collections))
	for _, c := range models.Collections {
		memory[c.Name] = c.Default.Clone()
	}

	return &collectionStore{
		cache:      cache,
		remote:     remote,
		machine:    machine,
		channel:    channel,
		validator:  validators.NewSnapshotValidator(),
		logger:     log.Component("collection-store"),
		memory:     memory,
		watchers:   make(map[int]func(string)),
		remoteSubs: make(map[string]func()),
		pushes:     make(map[string]*pushSlot),
	}
}

func (s *collectionStore) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStoreClosed
	}
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	s.mu.Unlock()

	cached := s.cache.LoadAll(ctx)
	loaded := 0
	for _, c := range models.Collections {
		snapshot, found := cached[c.Name]
		if !found {
			continue
		}
		s.setMemory(c.Name, snapshot)
		loaded++
	}
	s.logger.Info().Int("cached", loaded).Int("collections", len(models.Collections)).Msg("collections loaded from cache")

	// remote values only ever overwrite what the cache provided
	for _, c := range models.Collections {
		s.subscribe(c.Name)
	}

	s.machine.OnRegain(s.resubscribeAll)
	stopBroadcast := s.channel.OnAnnounce(s.onAnnounce)
	stopConnectivity := s.remote.WatchConnectivity(s.machine.ConnectivityChanged)

	s.mu.Lock()
	s.stopBroadcast = stopBroadcast
	s.stopConnectivity = stopConnectivity
	s.mu.Unlock()

	return nil
}

func (s *collectionStore) Get(collection string) models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.memory[collection]
	if !ok {
		return models.Snapshot{}
	}
	return snapshot.Clone()
}

func (s *collectionStore) Replace(ctx context.Context, collection string, snapshot models.Snapshot) error {
	cs := models.CollectionSnapshot{Collection: collection, Snapshot: snapshot}
	if err := s.validator.Validate(ctx, cs); err != nil {
		return validationError(err)
	}
	if s.isClosed() {
		return ErrStoreClosed
	}

	snapshot = snapshot.Clone()
	s.apply(ctx, collection, snapshot)
	s.schedulePush(collection, snapshot)
	s.channel.Announce(collection)

	return nil
}

func (s *collectionStore) Watch(fn func(string)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextWatcher
	s.nextWatcher++
	s.watchers[id] = fn

	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}

func (s *collectionStore) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.inflight == 0 {
		s.mu.Unlock()
		return nil
	}
	done := make(chan struct{})
	s.flushWaiters = append(s.flushWaiters, done)
	s.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *collectionStore) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	subs := slices.Collect(maps.Values(s.remoteSubs))
	s.remoteSubs = map[string]func(){}
	s.watchers = map[int]func(string){}
	stopBroadcast, stopConnectivity := s.stopBroadcast, s.stopConnectivity
	s.mu.Unlock()

	for _, unsubscribe := range subs {
		unsubscribe()
	}
	if stopBroadcast != nil {
		stopBroadcast()
	}
	if stopConnectivity != nil {
		stopConnectivity()
	}
	s.logger.Info().Msg("collection store closed")
}

// apply writes snapshot to memory and the cache and notifies watchers. Cache
// failures are logged; memory stays authoritative for this process.
func (s *collectionStore) apply(ctx context.Context, collection string, snapshot models.Snapshot) {
	s.applyMu.Lock()
	s.setMemory(collection, snapshot)
	if err := s.cache.Save(ctx, collection, snapshot); err != nil {
		s.logger.Error().Err(err).Str("collection", collection).Msg("cache save failed")
	}
	s.applyMu.Unlock()

	s.notify(collection)
}

func (s *collectionStore) setMemory(collection string, snapshot models.Snapshot) {
	s.mu.Lock()
	s.memory[collection] = snapshot
	s.mu.Unlock()
}

func (s *collectionStore) notify(collection string) {
	s.mu.RLock()
	watchers := slices.Collect(maps.Values(s.watchers))
	s.mu.RUnlock()

	for _, w := range watchers {
		w(collection)
	}
}

// schedulePush starts a push of collection when the state allows it. While a
// push of the same collection is in flight the snapshot replaces any parked
// one instead.
func (s *collectionStore) schedulePush(collection string, snapshot models.Snapshot) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if slot, ok := s.pushes[collection]; ok {
		slot.pending = snapshot
		slot.hasPending = true
		s.mu.Unlock()
		s.logger.Debug().Str("collection", collection).Msg("push parked behind in-flight push")
		return
	}
	s.pushes[collection] = &pushSlot{sent: snapshot}
	s.inflight++
	s.mu.Unlock()

	if !s.beginPush(collection) {
		return
	}
	go s.push(collection, snapshot)
}

func (s *collectionStore) push(collection string, snapshot models.Snapshot) {
	for {
		ok := s.remote.Push(context.Background(), collection, snapshot)
		s.machine.EndPush(ok)

		s.mu.Lock()
		slot := s.pushes[collection]
		if s.closed || !ok || !slot.hasPending {
			s.settlePushLocked(collection)
			s.mu.Unlock()
			return
		}
		snapshot = slot.pending
		slot.sent, slot.pending, slot.hasPending = snapshot, nil, false
		s.mu.Unlock()

		if !s.beginPush(collection) {
			return
		}
	}
}

// beginPush asks the machine for a push. On refusal the slot of collection
// is released together with anything parked in it.
func (s *collectionStore) beginPush(collection string) bool {
	if s.machine.BeginPush() {
		return true
	}

	s.mu.Lock()
	s.settlePushLocked(collection)
	s.mu.Unlock()

	s.logger.Debug().
		Str("collection", collection).
		Str("state", s.machine.State().String()).
		Msg("push skipped")
	return false
}

func (s *collectionStore) settlePushLocked(collection string) {
	delete(s.pushes, collection)
	s.inflight--
	if s.inflight > 0 {
		return
	}
	for _, done := range s.flushWaiters {
		close(done)
	}
	s.flushWaiters = nil
}

func (s *collectionStore) subscribe(collection string) {
	unsubscribe := s.remote.Subscribe(collection,
		func(snapshot models.Snapshot) { s.applyRemote(collection, snapshot) },
		s.machine.Fail,
	)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		unsubscribe()
		return
	}
	s.remoteSubs[collection] = unsubscribe
	s.mu.Unlock()
}

// applyRemote takes a remote snapshot unconditionally, even over a local
// write still in flight. A snapshot parked behind that write is dropped so
// it cannot overwrite the remote value later. The echo of our own in-flight
// push is the exception: the parked snapshot is newer and stays.
func (s *collectionStore) applyRemote(collection string, snapshot models.Snapshot) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if slot, ok := s.pushes[collection]; ok && slot.hasPending {
		if slot.sent.Equal(snapshot) {
			s.mu.Unlock()
			s.logger.Debug().Str("collection", collection).Msg("echo of in-flight push ignored, newer snapshot parked")
			return
		}
		slot.pending, slot.hasPending = nil, false
		s.logger.Debug().Str("collection", collection).Msg("parked push superseded by remote snapshot")
	}
	s.mu.Unlock()

	s.logger.Debug().Str("collection", collection).Int("records", len(snapshot)).Msg("remote snapshot received")
	s.apply(context.Background(), collection, snapshot)
}

func (s *collectionStore) resubscribeAll() {
	s.logger.Info().Msg("connectivity regained, resubscribing collections")

	for _, c := range models.Collections {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		old := s.remoteSubs[c.Name]
		delete(s.remoteSubs, c.Name)
		s.mu.Unlock()

		if old != nil {
			old()
		}
		s.subscribe(c.Name)
	}
}

func (s *collectionStore) onAnnounce(topic string) {
	if s.isClosed() {
		return
	}

	if topic == models.RefreshAllTopic {
		for _, c := range models.Collections {
			s.reload(c.Name)
		}
		return
	}
	if _, ok := models.LookupCollection(topic); !ok {
		s.logger.Warn().Str("topic", topic).Msg("ignoring broadcast for unknown collection")
		return
	}
	s.reload(topic)
}

// reload re-reads collection from the cache after a sibling wrote it. It
// neither pushes nor announces.
func (s *collectionStore) reload(collection string) {
	s.applyMu.Lock()
	snapshot, found := s.cache.Load(context.Background(), collection)
	if found {
		s.setMemory(collection, snapshot)
	}
	s.applyMu.Unlock()

	if found {
		s.notify(collection)
	}
}

func (s *collectionStore) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}
