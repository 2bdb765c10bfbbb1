// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-church-sync/internal/utils"
)

// CheckHTTPMethod returns an [http.HandlerFunc] that is intended to be
// registered as the router's MethodNotAllowed handler via
// [chi.Mux.MethodNotAllowed].
//
// Chi answers 405 Method Not Allowed whenever a request path matches a
// registered route but the HTTP method is not handled. This handler answers
// 404 Not Found instead, hiding the existence of the route from callers that
// use an unsupported method.
//
// Routes are matched with [chi.Mux.Match], so parameterised patterns such as
// /api/collections/{collection} are expanded. If the method does match, the
// request is forwarded to the router's normal pipeline.
func CheckHTTPMethod(router *chi.Mux) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !router.Match(chi.NewRouteContext(), r.Method, r.URL.Path) {
			utils.WriteError(w, "", http.StatusNotFound)
			return
		}

		router.ServeHTTP(w, r)
	}
}
