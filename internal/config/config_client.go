package config

import (
	"fmt"
	"time"
)

// ClientAdapter holds the remote store client settings of the console.
type ClientAdapter struct {
	HTTPAddress       string
	RequestTimeout    time.Duration
	Token             string
	ReconnectInterval time.Duration
	PingInterval      time.Duration
	Memory            bool
}

// ClientSync holds the connection state machine timings.
type ClientSync struct {
	FallbackTimeout time.Duration
	GraceDelay      time.Duration
}

// ClientBroadcast holds the cross-instance broadcast settings.
type ClientBroadcast struct {
	Mode         string
	GroupAddress string
	Channel      string
}

// ClientConfig is the view of [StructuredConfig] used by the console and the
// ctl.
type ClientConfig struct {
	// Namespace prefixes every cache key.
	Namespace string
	// Version is shown next to the build info.
	Version string
	// CacheDSN is the path of the local SQLite cache.
	CacheDSN  string
	Adapter   ClientAdapter
	Sync      ClientSync
	Broadcast ClientBroadcast
}

// GetClientConfig loads the merged configuration from the environment, args
// and the optional JSON file, and returns the validated client view.
func GetClientConfig(args []string) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig("client", args)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := NewClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

// NewClientConfig maps the client-relevant fields of cfg.
func NewClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		Namespace: cfg.App.Namespace,
		Version:   cfg.App.Version,
		CacheDSN:  cfg.Storage.Cache.DSN,
		Adapter: ClientAdapter{
			HTTPAddress:       cfg.Adapter.HTTPAddress,
			RequestTimeout:    cfg.Adapter.RequestTimeout,
			Token:             cfg.Adapter.Token,
			ReconnectInterval: cfg.Adapter.ReconnectInterval,
			PingInterval:      cfg.Adapter.PingInterval,
			Memory:            cfg.Adapter.Memory,
		},
		Sync: ClientSync{
			FallbackTimeout: cfg.Sync.FallbackTimeout,
			GraceDelay:      cfg.Sync.GraceDelay,
		},
		Broadcast: ClientBroadcast{
			Mode:         cfg.Broadcast.Mode,
			GroupAddress: cfg.Broadcast.GroupAddress,
			Channel:      cfg.Broadcast.Channel,
		},
	}
}
