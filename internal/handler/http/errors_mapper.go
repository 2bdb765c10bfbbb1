package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-church-sync/internal/logger"
	"github.com/MKhiriev/go-church-sync/internal/service"
	"github.com/MKhiriev/go-church-sync/internal/store"
	"github.com/MKhiriev/go-church-sync/internal/utils"
	"github.com/MKhiriev/go-church-sync/models"
)

var errorStatusMap = map[error]int{
	service.ErrUnknownCollection:       http.StatusNotFound,
	service.ErrInvalidSnapshot:         http.StatusBadRequest,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrNoDeviceProvided:        http.StatusBadRequest,

	models.ErrSnapshotNotArray:  http.StatusBadRequest,
	models.ErrRecordNotObject:   http.StatusBadRequest,
	models.ErrRecordMissingID:   http.StatusBadRequest,
	models.ErrDuplicateRecordID: http.StatusBadRequest,

	store.ErrSnapshotNotFound: http.StatusNotFound,

	store.ErrEncodingSnapshot:      http.StatusInternalServerError,
	store.ErrBuildingSQLQuery:      http.StatusInternalServerError,
	store.ErrExecutingQuery:        http.StatusInternalServerError,
	store.ErrExecutingStatement:    http.StatusInternalServerError,
	store.ErrBeginningTransaction:  http.StatusInternalServerError,
	store.ErrCommittingTransaction: http.StatusInternalServerError,
	store.ErrScanningRow:           http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeError answers with the status mapped from err. Server faults are
// logged as errors and their details are not sent to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)
	status := statusFromError(err)

	if status >= http.StatusInternalServerError {
		log.Err(err).Int("status", status).Msg("request failed")
		utils.WriteError(w, "", status)
		return
	}

	log.Warn().Err(err).Int("status", status).Msg("request rejected")
	utils.WriteError(w, err.Error(), status)
}
