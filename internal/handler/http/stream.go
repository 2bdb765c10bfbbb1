// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MKhiriev/go-church-sync/internal/logger"
	"github.com/MKhiriev/go-church-sync/internal/store"
	"github.com/MKhiriev/go-church-sync/internal/utils"
	"github.com/MKhiriev/go-church-sync/models"
)

const (
	streamWriteWait      = 10 * time.Second
	streamPongWait       = 60 * time.Second
	streamPingPeriod     = (streamPongWait * 9) / 10
	streamMaxFrameBytes  = 4 << 10
	streamSendBufferSize = 64
)

// streamSession is one websocket client. Frames are queued to a single
// writer goroutine; the subscription set is guarded by mu, which also orders
// the initial snapshot of a subscribe before any fanned-out write.
type streamSession struct {
	conn *websocket.Conn
	send chan models.StreamFrame

	done      chan struct{}
	closeOnce sync.Once

	mu   sync.Mutex
	subs map[string]func()

	logger *logger.Logger
}

// stream upgrades the request to a websocket session. The session lives until
// the client goes away, a write fails or the client stops answering pings.
func (h *Handler) stream(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the client
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	device, _ := utils.GetDeviceFromContext(r.Context())
	log.Info().Str("device", device).Msg("stream session opened")

	s := &streamSession{
		conn:   conn,
		send:   make(chan models.StreamFrame, streamSendBufferSize),
		done:   make(chan struct{}),
		subs:   make(map[string]func()),
		logger: log,
	}

	untrack := h.track(s)
	defer untrack()

	go s.writeLoop()
	h.readLoop(context.WithoutCancel(r.Context()), s)
	s.shutdown()

	log.Info().Str("device", device).Msg("stream session closed")
}

func (h *Handler) readLoop(ctx context.Context, s *streamSession) {
	s.conn.SetReadLimit(streamMaxFrameBytes)
	_ = s.conn.SetReadDeadline(time.Now().Add(streamPongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn().Err(err).Msg("stream read failed")
			}
			return
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(streamPongWait))

		var frame models.StreamFrame
		if err = json.Unmarshal(data, &frame); err != nil {
			s.enqueue(errorFrame("", errMalformedFrame))
			continue
		}

		switch frame.Op {
		case models.OpSubscribe:
			h.subscribe(ctx, s, frame.Collection)
		case models.OpUnsubscribe:
			s.unsubscribe(frame.Collection)
		default:
			s.enqueue(errorFrame(frame.Collection, errUnknownOp))
		}
	}
}

// subscribe registers the session for collection (once) and always sends the
// current snapshot, if any, before later writes.
func (h *Handler) subscribe(ctx context.Context, s *streamSession, collection string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subs[collection]; !ok {
		unsubscribe, err := h.services.SnapshotService.Subscribe(ctx, collection, func(snapshot models.Snapshot) {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.enqueue(snapshotFrame(collection, snapshot))
		})
		if err != nil {
			s.logger.Warn().Err(err).Str("collection", collection).Msg("subscribe rejected")
			s.enqueue(errorFrame(collection, err))
			return
		}
		s.subs[collection] = unsubscribe
	}

	snapshot, err := h.services.SnapshotService.Get(ctx, collection)
	switch {
	case errors.Is(err, store.ErrSnapshotNotFound):
	case err != nil:
		s.logger.Err(err).Str("collection", collection).Msg("initial snapshot read failed")
		s.enqueue(errorFrame(collection, err))
	default:
		s.enqueue(snapshotFrame(collection, snapshot))
	}
}

func (s *streamSession) unsubscribe(collection string) {
	s.mu.Lock()
	unsubscribe, ok := s.subs[collection]
	delete(s.subs, collection)
	s.mu.Unlock()

	if ok {
		unsubscribe()
	}
}

// enqueue hands frame to the writer. A full queue means the client cannot keep
// up; the session is closed rather than blocking the writer of the snapshot.
func (s *streamSession) enqueue(frame models.StreamFrame) {
	select {
	case <-s.done:
	case s.send <- frame:
	default:
		s.logger.Warn().Err(errSlowConsumer).Str("collection", frame.Collection).Msg("closing stream session")
		s.close()
	}
}

func (s *streamSession) writeLoop() {
	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()
	defer s.conn.Close()

	for {
		select {
		case <-s.done:
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(streamWriteWait))
			return
		case frame := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := s.conn.WriteJSON(frame); err != nil {
				s.logger.Warn().Err(err).Msg("stream write failed")
				s.close()
				return
			}
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				s.close()
				return
			}
		}
	}
}

// close stops the writer, which closes the connection, and unblocks the
// reader.
func (s *streamSession) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.conn.SetReadDeadline(time.Now())
	})
}

// shutdown drops every subscription and closes the connection.
func (s *streamSession) shutdown() {
	s.mu.Lock()
	subs := s.subs
	s.subs = make(map[string]func())
	s.mu.Unlock()

	for _, unsubscribe := range subs {
		unsubscribe()
	}
	s.close()
}

func snapshotFrame(collection string, snapshot models.Snapshot) models.StreamFrame {
	if snapshot == nil {
		snapshot = models.Snapshot{}
	}
	return models.StreamFrame{Op: models.OpSnapshot, Collection: collection, Snapshot: snapshot}
}

func errorFrame(collection string, err error) models.StreamFrame {
	return models.StreamFrame{Op: models.OpError, Collection: collection, Error: err.Error()}
}
