package http

import (
	"sync"

	"github.com/gorilla/websocket"

	"github.com/MKhiriev/go-church-sync/internal/logger"
	"github.com/MKhiriev/go-church-sync/internal/service"
)

type Handler struct {
	services *service.Services
	upgrader websocket.Upgrader

	streamsMu sync.Mutex
	streams   map[*streamSession]struct{}

	logger *logger.Logger
}

func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		streams: make(map[*streamSession]struct{}),
		logger:  logger,
	}
}

// CloseStreams ends every open stream session. The server calls it on
// shutdown, since hijacked connections are not tracked by net/http.
func (h *Handler) CloseStreams() {
	h.streamsMu.Lock()
	sessions := make([]*streamSession, 0, len(h.streams))
	for s := range h.streams {
		sessions = append(sessions, s)
	}
	h.streamsMu.Unlock()

	for _, s := range sessions {
		s.close()
	}
	h.logger.Info().Int("sessions", len(sessions)).Msg("stream sessions closed")
}

func (h *Handler) track(s *streamSession) func() {
	h.streamsMu.Lock()
	h.streams[s] = struct{}{}
	h.streamsMu.Unlock()

	return func() {
		h.streamsMu.Lock()
		delete(h.streams, s)
		h.streamsMu.Unlock()
	}
}
