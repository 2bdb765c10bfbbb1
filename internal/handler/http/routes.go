package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Get("/api/ping", h.ping)
		r.Get("/api/version", h.getServerVersion)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		// the stream hijacks the connection and must stay outside gzip
		r.Get("/api/stream", h.stream)

		r.Group(func(r chi.Router) {
			r.Use(withGZip)
			r.Get("/api/collections/{collection}", h.getCollection)
			r.Put("/api/collections/{collection}", h.putCollection)
		})
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
