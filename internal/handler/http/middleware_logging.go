package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/MKhiriev/go-church-sync/internal/logger"
)

// withLogging writes one access log entry per request. Server errors are
// logged at error level, rejected requests at warn level. A stream session is
// logged when it ends, with hijacked set.
func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)
		start := time.Now()
		uri, method := r.RequestURI, r.Method

		rw := &responseWriter{ResponseWriter: w}
		next.ServeHTTP(rw, r)

		event := accessLogEvent(log, rw.status)
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if collection := rctx.URLParam("collection"); collection != "" {
				event = event.Str("collection", collection)
			}
		}

		event.
			Str("uri", uri).
			Str("method", method).
			Int("status", rw.status).
			Dur("duration", time.Since(start)).
			Int("size", rw.size).
			Bool("hijacked", rw.hijacked).
			Send()
	})
}

func accessLogEvent(log *logger.Logger, status int) *zerolog.Event {
	switch {
	case status >= http.StatusInternalServerError:
		return log.Error()
	case status >= http.StatusBadRequest:
		return log.Warn()
	default:
		return log.Info()
	}
}
