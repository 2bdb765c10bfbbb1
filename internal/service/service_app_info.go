package service

import (
	"context"
	"strings"

	"github.com/MKhiriev/go-church-sync/internal/logger"
)

// appInfoService reports the remote store server version on /api/version.
type appInfoService struct {
	version string
}

func NewAppInfoService(version string, logger *logger.Logger) (AppInfoService, error) {
	version = strings.TrimSpace(version)
	if version == "" {
		return nil, ErrVersionIsNotSpecified
	}

	logger.Info().Str("version", version).Msg("remote store version")
	return &appInfoService{version: version}, nil
}

func (s *appInfoService) GetAppVersion(context.Context) string {
	return s.version
}
