// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package broadcast tells sibling console instances on the same device that
// a collection changed in the shared local cache.
//
// A message is a bare refresh signal: the topic (a collection name, or
// models.RefreshAllTopic for everything) and the origin id of the announcing
// instance. Receivers re-read the cache. Delivery is best-effort and
// at-most-once, with no ordering or persistence. An instance never receives
// its own announcements.
package broadcast

import (
	"sync"

	"github.com/google/uuid"
)

//go:generate mockgen -source=broadcast.go -destination=../mock/broadcast_mock.go -package=mock

// Channel is one instance's endpoint of the cross-instance broadcast.
type Channel interface {
	// Announce signals siblings that topic changed. It never blocks on the
	// transport and never fails.
	Announce(topic string)
	// OnAnnounce registers handler for sibling announcements. The returned
	// func stops delivery to handler synchronously.
	OnAnnounce(handler func(topic string)) (unsubscribe func())
	// Close stops delivery to every handler and releases the transport.
	Close() error
}

// Message is the frame exchanged between instances.
type Message struct {
	Channel string `msgpack:"c"`
	Topic   string `msgpack:"t"`
	Origin  string `msgpack:"o"`
}

// listeners is the handler registry shared by every Channel implementation.
type listeners struct {
	mu       sync.Mutex
	nextID   int
	handlers map[int]func(string)
	closed   bool
}

func newListeners() *listeners {
	return &listeners{handlers: make(map[int]func(string))}
}

func (l *listeners) add(handler func(string)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return func() {}
	}

	id := l.nextID
	l.nextID++
	l.handlers[id] = handler

	return func() {
		l.mu.Lock()
		delete(l.handlers, id)
		l.mu.Unlock()
	}
}

// deliver calls every registered handler outside the lock.
func (l *listeners) deliver(topic string) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	handlers := make([]func(string), 0, len(l.handlers))
	for _, h := range l.handlers {
		handlers = append(handlers, h)
	}
	l.mu.Unlock()

	for _, h := range handlers {
		h(topic)
	}
}

// close drops every handler. It reports whether this call closed the
// registry.
func (l *listeners) close() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return false
	}
	l.closed = true
	l.handlers = nil
	return true
}

func (l *listeners) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

func newOrigin() string {
	return uuid.NewString()
}
