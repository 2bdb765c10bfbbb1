package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-church-sync/internal/logger"
	"github.com/MKhiriev/go-church-sync/internal/utils"
	"github.com/MKhiriev/go-church-sync/models"
)

// maxSnapshotBytes bounds the body of a collection write.
const maxSnapshotBytes = 16 << 20

func (h *Handler) getCollection(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")

	snapshot, err := h.services.SnapshotService.Get(r.Context(), collection)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, snapshot, http.StatusOK)
}

func (h *Handler) putCollection(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	collection := chi.URLParam(r, "collection")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSnapshotBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.WriteError(w, "snapshot too large", http.StatusRequestEntityTooLarge)
			return
		}
		log.Warn().Err(err).Msg("error reading request body")
		utils.WriteError(w, "error reading request body", http.StatusBadRequest)
		return
	}

	snapshot, err := models.ParseSnapshot(body)
	if err != nil {
		log.Warn().Err(err).Str("collection", collection).Msg("malformed snapshot")
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err = h.services.SnapshotService.Put(r.Context(), collection, snapshot); err != nil {
		writeError(w, r, err)
		return
	}

	device, _ := utils.GetDeviceFromContext(r.Context())
	log.Info().Str("collection", collection).Str("device", device).Int("records", len(snapshot)).Msg("collection replaced")

	w.WriteHeader(http.StatusNoContent)
}
