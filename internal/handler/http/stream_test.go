// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-church-sync/internal/service"
	"github.com/MKhiriev/go-church-sync/internal/store"
	"github.com/MKhiriev/go-church-sync/models"
)

// dialStream opens a websocket session on a test server running h.
func dialStream(t *testing.T, h *Handler, token string) (*websocket.Conn, *http.Response, error) {
	t.Helper()

	srv := httptest.NewServer(h.Init())
	t.Cleanup(srv.Close)

	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/stream"

	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		t.Cleanup(func() { conn.Close() })
	}
	return conn, resp, err
}

func sendFrame(t *testing.T, conn *websocket.Conn, frame models.StreamFrame) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(frame))
}

func readFrame(t *testing.T, conn *websocket.Conn) models.StreamFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var frame models.StreamFrame
	require.NoError(t, conn.ReadJSON(&frame))
	return frame
}

// subscriber captures the fan-out callback handed to SnapshotService.Subscribe.
type subscriber struct {
	mu           sync.Mutex
	fn           func(models.Snapshot)
	unsubscribed chan struct{}
}

func (s *subscriber) expect(svc testServices, collection string) {
	s.unsubscribed = make(chan struct{})
	svc.snapshots.EXPECT().Subscribe(gomock.Any(), collection, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, fn func(models.Snapshot)) (func(), error) {
			s.mu.Lock()
			s.fn = fn
			s.mu.Unlock()
			var once sync.Once
			return func() { once.Do(func() { close(s.unsubscribed) }) }, nil
		})
}

func (s *subscriber) publish(snapshot models.Snapshot) {
	s.mu.Lock()
	fn := s.fn
	s.mu.Unlock()
	fn(snapshot)
}

func TestStream_RequiresToken(t *testing.T) {
	h, _ := newTestHandler(t)

	_, resp, err := dialStream(t, h, "")
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = dialStream(t, h, "forged")
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestStream_SubscribeSendsCurrentSnapshot(t *testing.T) {
	h, svc := newTestHandler(t)
	sub := &subscriber{}
	sub.expect(svc, "members")
	svc.snapshots.EXPECT().Get(gomock.Any(), "members").
		Return(models.MustParseSnapshot(`[{"id":"m1","name":"Ana"}]`), nil)

	conn, _, err := dialStream(t, h, testToken)
	require.NoError(t, err)

	sendFrame(t, conn, models.StreamFrame{Op: models.OpSubscribe, Collection: "members"})

	frame := readFrame(t, conn)
	assert.Equal(t, models.OpSnapshot, frame.Op)
	assert.Equal(t, "members", frame.Collection)
	assert.Equal(t, []string{"m1"}, frame.Snapshot.IDs())
}

func TestStream_FansOutLaterWrites(t *testing.T) {
	h, svc := newTestHandler(t)
	sub := &subscriber{}
	sub.expect(svc, "events")
	svc.snapshots.EXPECT().Get(gomock.Any(), "events").Return(models.Snapshot{}, nil)

	conn, _, err := dialStream(t, h, testToken)
	require.NoError(t, err)

	sendFrame(t, conn, models.StreamFrame{Op: models.OpSubscribe, Collection: "events"})
	initial := readFrame(t, conn)
	assert.Equal(t, models.OpSnapshot, initial.Op)
	assert.Empty(t, initial.Snapshot)

	sub.publish(models.MustParseSnapshot(`[{"id":"e1"}]`))
	sub.publish(models.MustParseSnapshot(`[{"id":"e1"},{"id":"e2"}]`))

	assert.Equal(t, []string{"e1"}, readFrame(t, conn).Snapshot.IDs())
	assert.Equal(t, []string{"e1", "e2"}, readFrame(t, conn).Snapshot.IDs())
}

// A second subscribe resends the snapshot without registering twice.
func TestStream_ResubscribeResendsSnapshot(t *testing.T) {
	h, svc := newTestHandler(t)
	sub := &subscriber{}
	sub.expect(svc, "cults")
	svc.snapshots.EXPECT().Get(gomock.Any(), "cults").
		Return(models.MustParseSnapshot(`[{"id":"c1"}]`), nil).Times(2)

	conn, _, err := dialStream(t, h, testToken)
	require.NoError(t, err)

	sendFrame(t, conn, models.StreamFrame{Op: models.OpSubscribe, Collection: "cults"})
	sendFrame(t, conn, models.StreamFrame{Op: models.OpSubscribe, Collection: "cults"})

	assert.Equal(t, []string{"c1"}, readFrame(t, conn).Snapshot.IDs())
	assert.Equal(t, []string{"c1"}, readFrame(t, conn).Snapshot.IDs())
}

func TestStream_NeverWrittenSendsNothingUntilPut(t *testing.T) {
	h, svc := newTestHandler(t)
	sub := &subscriber{}
	sub.expect(svc, "courses")
	svc.snapshots.EXPECT().Get(gomock.Any(), "courses").Return(nil, store.ErrSnapshotNotFound)

	conn, _, err := dialStream(t, h, testToken)
	require.NoError(t, err)

	sendFrame(t, conn, models.StreamFrame{Op: models.OpSubscribe, Collection: "courses"})

	// frames are handled in order, so this reply comes after the subscribe
	sendFrame(t, conn, models.StreamFrame{Op: "noop"})
	frame := readFrame(t, conn)
	assert.Equal(t, models.OpError, frame.Op)

	sub.publish(models.MustParseSnapshot(`[{"id":"k1"}]`))
	frame = readFrame(t, conn)
	assert.Equal(t, models.OpSnapshot, frame.Op)
	assert.Equal(t, "courses", frame.Collection)
}

func TestStream_ErrorFrames(t *testing.T) {
	tests := []struct {
		name           string
		setup          func(svc testServices)
		send           string
		wantCollection string
		wantError      string
	}{
		{
			name: "unknown collection",
			setup: func(svc testServices) {
				svc.snapshots.EXPECT().Subscribe(gomock.Any(), "sermons", gomock.Any()).
					Return(nil, fmt.Errorf("%w: sermons", service.ErrUnknownCollection))
			},
			send:           `{"op":"subscribe","collection":"sermons"}`,
			wantCollection: "sermons",
			wantError:      service.ErrUnknownCollection.Error(),
		},
		{
			name:      "malformed frame",
			send:      `{"op":`,
			wantError: errMalformedFrame.Error(),
		},
		{
			name:           "unknown op",
			send:           `{"op":"delete","collection":"members"}`,
			wantCollection: "members",
			wantError:      errUnknownOp.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, svc := newTestHandler(t)
			if tt.setup != nil {
				tt.setup(svc)
			}

			conn, _, err := dialStream(t, h, testToken)
			require.NoError(t, err)

			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(tt.send)))

			frame := readFrame(t, conn)
			assert.Equal(t, models.OpError, frame.Op)
			assert.Equal(t, tt.wantCollection, frame.Collection)
			assert.Contains(t, frame.Error, tt.wantError)
		})
	}
}

func TestStream_Unsubscribe(t *testing.T) {
	h, svc := newTestHandler(t)
	sub := &subscriber{}
	sub.expect(svc, "notices")
	svc.snapshots.EXPECT().Get(gomock.Any(), "notices").Return(models.Snapshot{}, nil)

	conn, _, err := dialStream(t, h, testToken)
	require.NoError(t, err)

	sendFrame(t, conn, models.StreamFrame{Op: models.OpSubscribe, Collection: "notices"})
	readFrame(t, conn)

	sendFrame(t, conn, models.StreamFrame{Op: models.OpUnsubscribe, Collection: "notices"})

	select {
	case <-sub.unsubscribed:
	case <-time.After(2 * time.Second):
		t.Fatal("subscription was not released")
	}
}

func TestStream_DisconnectReleasesSubscriptions(t *testing.T) {
	h, svc := newTestHandler(t)
	sub := &subscriber{}
	sub.expect(svc, "media")
	svc.snapshots.EXPECT().Get(gomock.Any(), "media").Return(models.Snapshot{}, nil)

	conn, _, err := dialStream(t, h, testToken)
	require.NoError(t, err)

	sendFrame(t, conn, models.StreamFrame{Op: models.OpSubscribe, Collection: "media"})
	readFrame(t, conn)

	require.NoError(t, conn.Close())

	select {
	case <-sub.unsubscribed:
	case <-time.After(2 * time.Second):
		t.Fatal("subscription was not released on disconnect")
	}
}

func TestStream_CloseStreams(t *testing.T) {
	h, _ := newTestHandler(t)

	conn, _, err := dialStream(t, h, testToken)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		h.streamsMu.Lock()
		defer h.streamsMu.Unlock()
		return len(h.streams) == 1
	}, 2*time.Second, 10*time.Millisecond)

	h.CloseStreams()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)

	require.Eventually(t, func() bool {
		h.streamsMu.Lock()
		defer h.streamsMu.Unlock()
		return len(h.streams) == 0
	}, 2*time.Second, 10*time.Millisecond)
}
