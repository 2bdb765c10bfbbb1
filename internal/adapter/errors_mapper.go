package adapter

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-church-sync/internal/logger"
)

const permissionHint = "check the remote token (-token or ADAPTER_TOKEN) and the server's token sign key"

func mapHTTPError(resp *resty.Response) error {
	return mapStatus(resp.StatusCode(), strings.TrimSpace(string(resp.Body())))
}

func mapStatus(status int, body string) error {
	if status >= http.StatusOK && status < http.StatusMultipleChoices {
		return nil
	}
	if body == "" {
		body = http.StatusText(status)
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrPermissionDenied, body)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, body)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, body)
	default:
		return fmt.Errorf("%w: http %d: %s", ErrRemoteUnavailable, status, body)
	}
}

// logRemoteError logs permission failures apart from ordinary outages so the
// operator sees what to fix.
func logRemoteError(log *logger.Logger, err error, msg string) {
	if errors.Is(err, ErrPermissionDenied) {
		log.Error().Err(err).Str("hint", permissionHint).Msg(msg + ": permission denied")
		return
	}
	log.Warn().Err(err).Msg(msg)
}
