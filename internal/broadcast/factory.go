package broadcast

import (
	"sync"

	"github.com/MKhiriev/go-church-sync/internal/config"
	"github.com/MKhiriev/go-church-sync/internal/logger"
)

var (
	processHub     *Hub
	processHubOnce sync.Once
)

// New returns the Channel selected by cfg.Mode. The "hub" mode uses one hub
// per process.
func New(cfg config.ClientBroadcast, log *logger.Logger) Channel {
	switch cfg.Mode {
	case config.BroadcastOff:
		return Nop()
	case config.BroadcastHub:
		processHubOnce.Do(func() { processHub = NewHub(log) })
		return processHub.Open(cfg.Channel)
	default:
		return NewMulticast(cfg.Channel, cfg.GroupAddress, log)
	}
}
