package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gorilla/websocket"

	"github.com/MKhiriev/go-church-sync/internal/config"
	"github.com/MKhiriev/go-church-sync/internal/logger"
	"github.com/MKhiriev/go-church-sync/internal/utils"
	"github.com/MKhiriev/go-church-sync/models"
)

const (
	collectionsPath = "/api/collections/{collection}"
	streamPath      = "/api/stream"

	writeWait      = 5 * time.Second
	maxMessageSize = 16 << 20
)

var _ RemoteClient = (*Remote)(nil)

// Remote is the networked [RemoteClient]. Snapshots are pushed with
// PUT /api/collections/{collection}; subscriptions and connectivity ride on
// one websocket session to /api/stream, kept alive by Run.
type Remote struct {
	client    *utils.HTTPClient
	dialer    *websocket.Dialer
	streamURL string
	token     string

	reconnectInterval time.Duration
	pingInterval      time.Duration

	logger *logger.Logger

	mu       sync.Mutex
	session  *session
	subs     map[int]*subscription
	watchers map[int]func(bool)
	nextID   int
}

type session struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (s *session) send(frame models.StreamFrame) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(frame)
}

// subscription is pending while session is nil.
type subscription struct {
	collection string
	onSnapshot func(models.Snapshot)
	onError    func(error)
	session    *session
}

// NewRemoteClient builds the networked remote client from adapterCfg. The
// session is not dialed until Run is called.
func NewRemoteClient(adapterCfg config.ClientAdapter, log *logger.Logger) (*Remote, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	streamURL, err := websocketURL(baseURL, streamPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}

	client := utils.NewHTTPClient()
	client.
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	reconnect := adapterCfg.ReconnectInterval
	if reconnect <= 0 {
		reconnect = config.DefaultReconnectInterval
	}
	ping := adapterCfg.PingInterval
	if ping <= 0 {
		ping = config.DefaultPingInterval
	}

	log = log.Component("remote")
	token := strings.TrimSpace(adapterCfg.Token)
	if token == "" {
		log.Warn().Msg("no remote token configured, the remote store will reject every request")
	} else if device, err := utils.ParseDeviceFromJWT(token); err == nil {
		log.Info().Str("device", device).Msg("remote client configured")
	} else {
		log.Warn().Err(err).Msg("configured remote token is not a valid JWT")
	}

	return &Remote{
		client: client,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: adapterCfg.RequestTimeout,
		},
		streamURL:         streamURL,
		token:             token,
		reconnectInterval: reconnect,
		pingInterval:      ping,
		logger:            log,
		subs:              make(map[int]*subscription),
		watchers:          make(map[int]func(bool)),
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func websocketURL(baseURL, path string) (string, error) {
	u, err := url.Parse(baseURL + path)
	if err != nil {
		return "", err
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	return u.String(), nil
}

// Connected reports whether a stream session is established.
func (r *Remote) Connected() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session != nil
}

// Push implements [RemoteClient].
func (r *Remote) Push(ctx context.Context, collection string, snapshot models.Snapshot) bool {
	log := &logger.Logger{Logger: r.logger.With().Str("collection", collection).Logger()}

	if !r.Connected() {
		log.Debug().Msg("push skipped, remote disconnected")
		return false
	}

	body, err := json.Marshal(snapshot)
	if err != nil {
		log.Error().Err(err).Msg("push: encode snapshot")
		return false
	}

	resp, err := r.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetPathParam("collection", collection).
		SetBody(body).
		Put(collectionsPath)
	if err != nil {
		logRemoteError(log, fmt.Errorf("%w: %w", ErrRemoteUnavailable, err), "push request failed")
		return false
	}
	if err = mapHTTPError(resp); err != nil {
		logRemoteError(log, err, "push rejected")
		return false
	}

	log.Debug().Int("records", len(snapshot)).Msg("snapshot pushed")
	return true
}

// Subscribe implements [RemoteClient].
func (r *Remote) Subscribe(collection string, onSnapshot func(models.Snapshot), onError func(error)) func() {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	sub := &subscription{
		collection: collection,
		onSnapshot: onSnapshot,
		onError:    onError,
		session:    r.session,
	}
	r.subs[id] = sub
	r.mu.Unlock()

	if sub.session != nil {
		r.sendFrame(sub.session, models.StreamFrame{Op: models.OpSubscribe, Collection: collection})
	}

	return func() {
		r.mu.Lock()
		sub, ok := r.subs[id]
		if !ok {
			r.mu.Unlock()
			return
		}
		delete(r.subs, id)
		last := sub.session != nil && !r.hasSubscriberLocked(sub.session, sub.collection)
		r.mu.Unlock()

		if last {
			r.sendFrame(sub.session, models.StreamFrame{Op: models.OpUnsubscribe, Collection: collection})
		}
	}
}

// WatchConnectivity implements [RemoteClient].
func (r *Remote) WatchConnectivity(onChange func(bool)) func() {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.watchers[id] = onChange
	connected := r.session != nil
	r.mu.Unlock()

	onChange(connected)

	return func() {
		r.mu.Lock()
		delete(r.watchers, id)
		r.mu.Unlock()
	}
}

// Run keeps a stream session open until ctx is done, redialing every
// reconnect interval after a failure.
func (r *Remote) Run(ctx context.Context) error {
	r.logger.Info().Str("url", r.streamURL).Msg("remote stream worker started")

	for {
		err := r.runSession(ctx)
		if ctx.Err() != nil {
			r.logger.Info().Msg("remote stream worker stopped")
			return nil
		}
		if err != nil {
			logRemoteError(r.logger, err, "remote stream session ended")
		}

		select {
		case <-ctx.Done():
			r.logger.Info().Msg("remote stream worker stopped")
			return nil
		case <-time.After(r.reconnectInterval):
		}
	}
}

func (r *Remote) runSession(ctx context.Context) error {
	header := http.Header{}
	if r.token != "" {
		header.Set("Authorization", "Bearer "+r.token)
	}

	conn, resp, err := r.dialer.DialContext(ctx, r.streamURL, header)
	if err != nil {
		if resp != nil {
			if statusErr := mapStatus(resp.StatusCode, ""); statusErr != nil {
				return fmt.Errorf("dial stream: %w", statusErr)
			}
		}
		return fmt.Errorf("%w: dial stream: %w", ErrRemoteUnavailable, err)
	}

	s := &session{conn: conn}
	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-sessionCtx.Done()
		_ = conn.Close()
	}()
	go r.keepAlive(sessionCtx, s)

	r.attach(s)
	defer r.detach(s)

	return r.readLoop(s)
}

// attach makes s the current session and binds every pending subscription
// to it.
func (r *Remote) attach(s *session) {
	r.mu.Lock()
	r.session = s
	pending := make(map[string]struct{})
	for _, sub := range r.subs {
		if sub.session == nil {
			sub.session = s
			pending[sub.collection] = struct{}{}
		}
	}
	watchers := slices.Collect(maps.Values(r.watchers))
	r.mu.Unlock()

	r.logger.Info().Int("pending_subscriptions", len(pending)).Msg("remote stream connected")

	for _, collection := range slices.Sorted(maps.Keys(pending)) {
		r.sendFrame(s, models.StreamFrame{Op: models.OpSubscribe, Collection: collection})
	}
	for _, w := range watchers {
		w(true)
	}
}

// detach drops s and every subscription bound to it.
func (r *Remote) detach(s *session) {
	r.mu.Lock()
	if r.session == s {
		r.session = nil
	}
	dropped := 0
	for id, sub := range r.subs {
		if sub.session == s {
			delete(r.subs, id)
			dropped++
		}
	}
	watchers := slices.Collect(maps.Values(r.watchers))
	r.mu.Unlock()

	r.logger.Warn().Int("dropped_subscriptions", dropped).Msg("remote stream disconnected")

	for _, w := range watchers {
		w(false)
	}
}

func (r *Remote) readLoop(s *session) error {
	readTimeout := 2 * r.pingInterval

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(readTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("%w: read stream: %w", ErrRemoteUnavailable, err)
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(readTimeout))

		var frame models.StreamFrame
		if err = json.Unmarshal(message, &frame); err != nil {
			r.logger.Warn().Err(err).Msg("dropping malformed stream frame")
			continue
		}
		r.dispatch(s, frame)
	}
}

func (r *Remote) dispatch(s *session, frame models.StreamFrame) {
	r.mu.Lock()
	var targets []*subscription
	for _, sub := range r.subs {
		if sub.session == s && sub.collection == frame.Collection {
			targets = append(targets, sub)
		}
	}
	r.mu.Unlock()

	switch frame.Op {
	case models.OpSnapshot:
		for _, sub := range targets {
			if sub.onSnapshot != nil {
				sub.onSnapshot(frame.Snapshot.Clone())
			}
		}
	case models.OpError:
		err := fmt.Errorf("%w: %s: %s", ErrRemoteRejected, frame.Collection, frame.Error)
		r.logger.Warn().Err(err).Msg("stream error frame")
		for _, sub := range targets {
			if sub.onError != nil {
				sub.onError(err)
			}
		}
	default:
		r.logger.Debug().Str("op", frame.Op).Msg("ignoring stream frame")
	}
}

func (r *Remote) keepAlive(ctx context.Context, s *session) {
	ticker := time.NewTicker(r.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				r.logger.Debug().Err(err).Msg("ping failed, closing session")
				_ = s.conn.Close()
				return
			}
		}
	}
}

func (r *Remote) sendFrame(s *session, frame models.StreamFrame) {
	if err := s.send(frame); err != nil {
		// the read loop notices the broken session and detaches it
		r.logger.Debug().Err(err).Str("op", frame.Op).Str("collection", frame.Collection).Msg("stream write failed")
	}
}

func (r *Remote) hasSubscriberLocked(s *session, collection string) bool {
	for _, sub := range r.subs {
		if sub.session == s && sub.collection == collection {
			return true
		}
	}
	return false
}

func (r *Remote) authedRequest(ctx context.Context) *resty.Request {
	req := r.client.R().SetContext(ctx)
	if r.token != "" {
		req.SetHeader("Authorization", "Bearer "+r.token)
	}
	return req
}
