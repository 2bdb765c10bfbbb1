// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package connection

import (
	"sync"
	"time"

	"github.com/MKhiriev/go-church-sync/internal/config"
	"github.com/MKhiriev/go-church-sync/internal/logger"
)

// Machine is the single writer of the connection state. All methods are safe
// for concurrent use; watchers and hooks are called outside the lock.
type Machine struct {
	fallbackTimeout time.Duration
	graceDelay      time.Duration
	logger          *logger.Logger

	mu       sync.Mutex
	state    State
	started  bool
	disposed bool

	watchers    map[int]func(State)
	nextWatcher int

	onFallback func()
	onRegain   func()

	fallbackTimer   *time.Timer
	fallbackElapsed bool
	fallbackFired   bool

	graceTimer *time.Timer
	graceGen   int

	inflight int
}

// NewMachine returns a machine in the connecting state. Timers are not armed
// until Start.
func NewMachine(cfg config.ClientSync, log *logger.Logger) *Machine {
	fallback := cfg.FallbackTimeout
	if fallback <= 0 {
		fallback = config.DefaultFallbackTimeout
	}

	return &Machine{
		fallbackTimeout: fallback,
		graceDelay:      cfg.GraceDelay,
		logger:          log.Component("connection"),
		state:           Connecting,
		watchers:        make(map[int]func(State)),
	}
}

// Start arms the bounded-wait fallback timer. Calling it more than once has
// no effect.
func (m *Machine) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started || m.disposed {
		return
	}
	m.started = true

	if m.state == Connecting {
		m.fallbackTimer = time.AfterFunc(m.fallbackTimeout, m.fallbackElapsedFired)
	}
	m.logger.Debug().Dur("fallback_timeout", m.fallbackTimeout).Msg("connection machine started")
}

// Dispose stops every timer and drops watchers and hooks. The state is
// frozen afterwards.
func (m *Machine) Dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disposed {
		return
	}
	m.disposed = true
	m.stopFallbackTimer()
	m.stopGraceTimer()
	m.watchers = nil
	m.onFallback = nil
	m.onRegain = nil
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Watch registers fn to be called with every new state. The returned func
// removes it.
func (m *Machine) Watch(fn func(State)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disposed {
		return func() {}
	}

	id := m.nextWatcher
	m.nextWatcher++
	m.watchers[id] = fn

	return func() {
		m.mu.Lock()
		delete(m.watchers, id)
		m.mu.Unlock()
	}
}

// OnFallbackAvailable sets the hook fired once when the bounded wait elapses
// while still connecting. If that already happened and the hook has not been
// fired yet, it is fired immediately.
func (m *Machine) OnFallbackAvailable(fn func()) {
	m.mu.Lock()
	m.onFallback = fn
	fire := m.fallbackElapsed && !m.fallbackFired && m.state == Connecting && fn != nil
	if fire {
		m.fallbackFired = true
	}
	m.mu.Unlock()

	if fire {
		fn()
	}
}

// OnRegain sets the hook fired once per offline to online transition.
func (m *Machine) OnRegain(fn func()) {
	m.mu.Lock()
	m.onRegain = fn
	m.mu.Unlock()
}

// FallbackAvailable reports whether GoOffline would succeed.
func (m *Machine) FallbackAvailable() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.disposed && m.state == Connecting && m.fallbackElapsed
}

// GoOffline is the operator's escape hatch from a stuck connecting state.
func (m *Machine) GoOffline() error {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return ErrDisposed
	}
	if m.state != Connecting || !m.fallbackElapsed {
		m.mu.Unlock()
		return ErrFallbackUnavailable
	}

	m.stopFallbackTimer()
	notify := m.transition(Offline, "offline fallback")
	m.mu.Unlock()

	notify()
	return nil
}

// ConnectivityChanged feeds the remote reachability signal.
func (m *Machine) ConnectivityChanged(connected bool) {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}

	var regain func()
	notify := func() {}

	if connected {
		// a real signal makes the fallback prompt stale
		m.stopFallbackTimer()

		switch m.state {
		case Connecting:
			notify = m.transition(Online, "connected")
		case Offline:
			notify = m.transition(Online, "connectivity regained")
			regain = m.onRegain
		}
	} else {
		switch m.state {
		case Online, Syncing:
			m.stopGraceTimer()
			notify = m.transition(Offline, "connectivity lost")
		case Connecting:
			m.logger.Debug().Msg("connectivity false while connecting, waiting")
		}
	}
	m.mu.Unlock()

	notify()
	if regain != nil {
		regain()
	}
}

// BeginPush enters syncing if pushes are allowed and reports whether the
// caller may push.
func (m *Machine) BeginPush() bool {
	m.mu.Lock()
	if m.disposed || !m.state.CanPush() {
		m.mu.Unlock()
		return false
	}

	m.inflight++
	m.stopGraceTimer()
	notify := func() {}
	if m.state == Online {
		notify = m.transition(Syncing, "push started")
	}
	m.mu.Unlock()

	notify()
	return true
}

// EndPush settles a push started with BeginPush. A failure demotes to
// offline immediately; the last success returns to online after the grace
// delay.
func (m *Machine) EndPush(ok bool) {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}

	if m.inflight > 0 {
		m.inflight--
	}

	notify := func() {}
	switch {
	case !ok && m.state.CanPush():
		m.stopGraceTimer()
		notify = m.transition(Offline, "push failed")
	case ok && m.state == Syncing && m.inflight == 0:
		m.armGraceTimer()
	}
	m.mu.Unlock()

	notify()
}

// Fail surfaces a read (subscription) failure. It demotes online and syncing
// to offline; while connecting it is only logged.
func (m *Machine) Fail(err error) {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}

	m.logger.Warn().Err(err).Str("state", m.state.String()).Msg("remote read failed")

	notify := func() {}
	if m.state.CanPush() {
		m.stopGraceTimer()
		notify = m.transition(Offline, "read failed")
	}
	m.mu.Unlock()

	notify()
}

// transition sets the state and returns a func notifying the watchers. It
// must be called with mu held; the returned func must be called without it.
func (m *Machine) transition(to State, reason string) func() {
	from := m.state
	if from == to {
		return func() {}
	}
	m.state = to

	m.logger.Info().
		Str("from", from.String()).
		Str("to", to.String()).
		Str("reason", reason).
		Msg("connection state changed")

	watchers := make([]func(State), 0, len(m.watchers))
	for _, w := range m.watchers {
		watchers = append(watchers, w)
	}

	return func() {
		for _, w := range watchers {
			w(to)
		}
	}
}

func (m *Machine) fallbackElapsedFired() {
	m.mu.Lock()
	if m.disposed || m.fallbackTimer == nil || m.state != Connecting {
		m.mu.Unlock()
		return
	}

	m.fallbackTimer = nil
	m.fallbackElapsed = true

	var hook func()
	if !m.fallbackFired && m.onFallback != nil {
		m.fallbackFired = true
		hook = m.onFallback
	}
	m.logger.Warn().Dur("waited", m.fallbackTimeout).Msg("still connecting, offline fallback available")
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
}

func (m *Machine) stopFallbackTimer() {
	if m.fallbackTimer != nil {
		m.fallbackTimer.Stop()
		m.fallbackTimer = nil
	}
}

func (m *Machine) armGraceTimer() {
	m.stopGraceTimer()
	gen := m.graceGen

	m.graceTimer = time.AfterFunc(m.graceDelay, func() {
		m.mu.Lock()
		if m.disposed || gen != m.graceGen || m.state != Syncing || m.inflight > 0 {
			m.mu.Unlock()
			return
		}
		m.graceTimer = nil
		notify := m.transition(Online, "push settled")
		m.mu.Unlock()

		notify()
	})
}

func (m *Machine) stopGraceTimer() {
	m.graceGen++
	if m.graceTimer != nil {
		m.graceTimer.Stop()
		m.graceTimer = nil
	}
}
