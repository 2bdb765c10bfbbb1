package service

import (
	"fmt"

	"github.com/MKhiriev/go-church-sync/internal/config"
	"github.com/MKhiriev/go-church-sync/internal/logger"
	"github.com/MKhiriev/go-church-sync/internal/store"
)

type Services struct {
	SnapshotService SnapshotService
	AuthService     AuthService
	AppInfoService  AppInfoService
}

func NewServices(storages *store.Storages, cfg *config.ServerConfig, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg.Version, logger)
	if err != nil {
		return nil, fmt.Errorf("app info service: %w", err)
	}

	snapshots := NewSnapshotValidationService().Wrap(NewSnapshotService(storages.SnapshotRepository, logger))

	return &Services{
		SnapshotService: snapshots,
		AuthService:     NewAuthService(cfg.Auth, logger),
		AppInfoService:  appInfo,
	}, nil
}
